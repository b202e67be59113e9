package common

import (
	"crypto/sha256"
	"encoding/asn1"

	"github.com/setproofs/accumulator/big"

	gobig "math/big"
)

// HashCommit computes the sha256 hash over the ASN.1 representation of a slice
// of big integers and returns a positive big integer that can be represented
// with that hash. It is the Fiat-Shamir challenge function of the proof system:
// all transcript elements are committed through it before a challenge is derived.
func HashCommit(values []*big.Int) *big.Int {
	// The first element is the number of elements
	tmp := make([]interface{}, len(values)+1)
	tmp[0] = gobig.NewInt(int64(len(values)))
	for i, v := range values {
		tmp[i+1] = v.Go()
	}
	r, err := asn1.Marshal(tmp)
	if err != nil {
		panic(err) // Marshal should never error, so panic if it does
	}

	sha := sha256.Sum256(r)
	return new(big.Int).SetBytes(sha[:])
}

// IntHashSha256 computes the sha256 hash over a byte slice and returns it as a big.Int.
func IntHashSha256(input []byte) *big.Int {
	h := sha256.New()
	h.Write(input)
	return new(big.Int).SetBytes(h.Sum(nil))
}
