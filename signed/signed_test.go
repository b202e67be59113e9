package signed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setproofs/accumulator/big"
)

type testMessage struct {
	Index uint64
	Prime *big.Int
}

func TestSignVerifyBytes(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)

	bts := []byte("accumulator update payload")
	sig, err := Sign(sk, bts)
	require.NoError(t, err)
	require.NoError(t, Verify(&sk.PublicKey, bts, sig))

	bts[0] ^= 1
	assert.Error(t, Verify(&sk.PublicKey, bts, sig))
}

func TestMarshalSignRoundtrip(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)

	msg := testMessage{Index: 3, Prime: big.NewInt(40939)}
	signed, err := MarshalSign(sk, &msg)
	require.NoError(t, err)

	var parsed testMessage
	require.NoError(t, UnmarshalVerify(&sk.PublicKey, signed, &parsed))
	assert.Equal(t, msg.Index, parsed.Index)
	assert.Zero(t, msg.Prime.Cmp(parsed.Prime))

	// verifying against another key must fail
	other, err := GenerateKey()
	require.NoError(t, err)
	assert.Error(t, UnmarshalVerify(&other.PublicKey, signed, &parsed))
}

func TestKeyMarshaling(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)

	pemBytes, err := MarshalPemPublicKey(&sk.PublicKey)
	require.NoError(t, err)
	pk, err := UnmarshalPemPublicKey(pemBytes)
	require.NoError(t, err)
	assert.True(t, pk.Equal(&sk.PublicKey))

	skBytes, err := MarshalPemPrivateKey(sk)
	require.NoError(t, err)
	parsedSk, err := UnmarshalPemPrivateKey(skBytes)
	require.NoError(t, err)
	assert.True(t, parsedSk.Equal(sk))
}
