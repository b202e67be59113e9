// Package cbor wraps github.com/fxamacker/cbor with the encoding and decoding modes used
// throughout this module.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2.1) so that the byte encoding of an
// accumulator record or proof is canonical: the same value always encodes to the same bytes,
// which signed messages and Fiat-Shamir transcripts depend on. Decoding rejects duplicate map
// keys and indefinite lengths, and bounds container sizes.
package cbor

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

const (
	MaxArrayElements = 1024 * 256
	MaxMapPairs      = 1024 * 256
)

var (
	encOptions = cbor.EncOptions{
		// Core Deterministic Encoding
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,

		// Allow bignum tags (2, 3) for big.Int fields; all other tags are rejected on decode
		TagsMd: cbor.TagsAllowed,
	}

	decOptions = cbor.DecOptions{
		IndefLength: cbor.IndefLengthForbidden,

		// Sanity checks on maps and arrays
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxArrayElements,
		MaxMapPairs:      MaxMapPairs,

		TagsMd:  cbor.TagsAllowed,
		TimeTag: cbor.DecTagIgnored,

		// Extra fields are permitted for forward compatibility
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes src into a canonical CBOR-encoded byte slice.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes CBOR in data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	return decMode.Unmarshal(data, dst)
}

// NewEncoder creates a new CBOR encoder that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a new CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
