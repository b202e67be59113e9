package accumulator

import (
	"github.com/sirupsen/logrus"
)

// Logger receives progress and diagnostics output of setup and batch operations.
// Replace or reconfigure it to integrate with the host application's logging.
var Logger *logrus.Logger

func init() {
	Logger = logrus.StandardLogger()
}
