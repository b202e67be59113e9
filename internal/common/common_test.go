package common

import (
	"crypto/rand"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setproofs/accumulator/big"
)

func TestModInverse(t *testing.T) {
	m := big.NewInt(77) // 7 * 11
	a := big.NewInt(30)
	ia, ok := ModInverse(a, m)
	require.True(t, ok)
	check := new(big.Int).Mul(a, ia)
	check.Mod(check, m)
	assert.Zero(t, check.Cmp(big.NewInt(1)))

	// 7 divides 77, no inverse
	_, ok = ModInverse(big.NewInt(7), m)
	assert.False(t, ok)
}

func TestModPowNegativeExponent(t *testing.T) {
	m := big.NewInt(101)
	x := big.NewInt(5)
	r, err := ModPow(x, big.NewInt(-3), m)
	require.NoError(t, err)

	// r * 5^3 should be 1 mod 101
	check := new(big.Int).Exp(x, big.NewInt(3), m)
	check.Mul(check, r).Mod(check, m)
	assert.Zero(t, check.Cmp(big.NewInt(1)))
}

func TestBezout(t *testing.T) {
	a := big.NewInt(240)
	b := big.NewInt(46)
	x, y, g := Bezout(a, b)
	assert.Zero(t, g.Cmp(big.NewInt(2)))

	lhs := new(big.Int).Mul(a, x)
	lhs.Add(lhs, new(big.Int).Mul(b, y))
	assert.Zero(t, lhs.Cmp(g))
}

func TestProduct(t *testing.T) {
	assert.Zero(t, Product(nil).Cmp(big.NewInt(1)))
	assert.Zero(t, Product([]*big.Int{big.NewInt(7)}).Cmp(big.NewInt(7)))

	vals := []*big.Int{big.NewInt(3), big.NewInt(5), big.NewInt(7), big.NewInt(11), big.NewInt(13)}
	assert.Zero(t, Product(vals).Cmp(big.NewInt(15015)))
}

func TestHashCommitDeterministic(t *testing.T) {
	values := []*big.Int{big.NewInt(123), big.NewInt(456)}
	h1 := HashCommit(values)
	h2 := HashCommit(values)
	assert.Zero(t, h1.Cmp(h2))

	// hashing depends on the element count prefix
	h3 := HashCommit([]*big.Int{big.NewInt(123)})
	assert.NotZero(t, h1.Cmp(h3))
}

func TestCPRNGDeterministic(t *testing.T) {
	seed := sha256.Sum256([]byte("seed"))

	read := func() []byte {
		rng, err := NewCPRNG(&seed)
		require.NoError(t, err)
		buf := make([]byte, 100)
		_, err = rng.Read(buf)
		require.NoError(t, err)
		return buf
	}

	assert.Equal(t, read(), read())
}

func TestRandomQR(t *testing.T) {
	// n = 7 * 11; a QR must have Legendre symbol 1 modulo both factors
	n := big.NewInt(77)
	for i := 0; i < 10; i++ {
		q := RandomQR(n)
		assert.Equal(t, 1, LegendreSymbol(q, big.NewInt(7)))
		assert.Equal(t, 1, LegendreSymbol(q, big.NewInt(11)))
	}
}

func TestPrimeInRange(t *testing.T) {
	p, err := PrimeInRange(rand.Reader, 64, 64, 0, 20)
	require.NoError(t, err)
	assert.True(t, p.ProbablyPrime(40))
	assert.True(t, p.BitLen() >= 64)
}

func TestPrimeInRangeBudget(t *testing.T) {
	// An all-nines source never yields an odd candidate coprime to the sieve fast enough
	// (0x99... is divisible by 3 after the low bit is forced; the budget of one probe
	// is exhausted regardless).
	_, err := PrimeInRange(nines{}, 64, 64, 1, 20)
	assert.ErrorIs(t, err, ErrProbesExhausted)
}

type nines struct{}

func (nines) Read(buf []byte) (int, error) {
	for i := range buf {
		buf[i] = 0x99
	}
	return len(buf), nil
}
