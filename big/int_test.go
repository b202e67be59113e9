package big

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonStruct struct {
	Value *Int
}

func TestJSONRoundtrip(t *testing.T) {
	val, ok := new(Int).SetString("68719476736", 10) // 2^36, does not fit in a float64 mantissa
	require.True(t, ok)

	bts, err := json.Marshal(&jsonStruct{Value: val})
	require.NoError(t, err)

	var parsed jsonStruct
	require.NoError(t, json.Unmarshal(bts, &parsed))
	assert.Zero(t, val.Cmp(parsed.Value))
}

func TestJSONUnmarshalBase10(t *testing.T) {
	var parsed jsonStruct
	require.NoError(t, json.Unmarshal([]byte(`{"Value": 42}`), &parsed))
	assert.Zero(t, parsed.Value.Cmp(NewInt(42)))
}

func TestJSONMarshalNegative(t *testing.T) {
	_, err := json.Marshal(&jsonStruct{Value: NewInt(-1)})
	assert.Error(t, err)
}

func TestCBORRoundtrip(t *testing.T) {
	val, ok := new(Int).SetString("137638811993558195206420328357073658091105450134788808980204514105755078006531", 10)
	require.True(t, ok)

	bts, err := cbor.Marshal(val)
	require.NoError(t, err)

	parsed := new(Int)
	require.NoError(t, cbor.Unmarshal(bts, parsed))
	assert.Zero(t, val.Cmp(parsed))
}

func TestZeroize(t *testing.T) {
	val, ok := new(Int).SetString("360498478220503983394388585338704814095", 10)
	require.True(t, ok)

	val.Zeroize()
	assert.Zero(t, val.Sign())
	assert.Zero(t, val.BitLen())
}
