package accumulator

import (
	"github.com/bwesterb/go-exptable"
	"github.com/go-errors/errors"

	"github.com/setproofs/accumulator/big"
	"github.com/setproofs/accumulator/internal/common"
	"github.com/setproofs/accumulator/safeprime"
)

// GroupParams are the public parameters of the group of unknown order: the RSA modulus N,
// a product of two safe primes whose factorization was zeroized during Setup, and the
// generator G, a quadratic residue modulo N. Together with the current accumulator value
// they are all a verifier needs.
//
// GroupParams are created once and immutable afterwards.
type GroupParams struct {
	N *big.Int
	G *big.Int

	// precomputed fixed-base table for G, used for the many G-exponentiations of
	// witness computation and proof verification
	gTable exptable.Table
}

// NewGroupParams reconstructs group parameters from public values, e.g. on the verifier
// side from a PublicRecord. It rejects degenerate generators but cannot (and need not)
// check that n is a product of safe primes: a verifier trusts the setup it chose to accept.
func NewGroupParams(n, g *big.Int) (*GroupParams, error) {
	if n == nil || n.Sign() <= 0 || n.BitLen() < 16 {
		return nil, errors.New("invalid modulus")
	}
	if g == nil || !validGenerator(g, n) {
		return nil, errors.New("invalid generator")
	}
	params := &GroupParams{
		N: new(big.Int).Set(n),
		G: new(big.Int).Set(g),
	}
	params.gTable.Compute(params.G.Go(), params.N.Go(), 7)
	return params, nil
}

// Setup generates fresh group parameters: two random safe primes of modulusBits/2 bits each,
// generated concurrently on all cores, and a random quadratic residue as generator. The prime
// factors and the group order are zeroized on every exit path; after Setup returns, no
// component of this package can reconstruct the factorization.
func Setup(modulusBits uint) (*GroupParams, error) {
	if modulusBits < 128 || modulusBits%2 != 0 {
		return nil, errors.New("modulus bit length must be even and at least 128")
	}

	Logger.Debugf("accumulator setup: generating two %d-bit safe primes", modulusBits/2)

	for attempt := 0; attempt < Parameters.SetupRetries; attempt++ {
		p, q, err := generateFactors(int(modulusBits / 2))
		if err != nil {
			Logger.Errorf("accumulator setup: safe prime generation failed: %v", err)
			return nil, ErrInsufficientEntropy
		}
		if p.Cmp(q) == 0 {
			// overwhelmingly unlikely; try again rather than emit a square modulus
			p.Zeroize()
			q.Zeroize()
			continue
		}

		n := new(big.Int).Mul(p, q)
		p.Zeroize()
		q.Zeroize()

		g := common.RandomQR(n)
		if !validGenerator(g, n) {
			// a random square is degenerate only with negligible probability
			continue
		}

		Logger.Debugf("accumulator setup: generated %d-bit modulus", n.BitLen())
		return NewGroupParams(n, g)
	}

	return nil, ErrPrimeGenerationFailed
}

// generateFactors collects two safe primes from concurrent generation across all cores.
func generateFactors(bitsize int) (p, q *big.Int, err error) {
	stop := make(chan struct{})
	defer close(stop)

	ints, errs := safeprime.GenerateConcurrent(bitsize, stop)
	for p == nil || q == nil {
		select {
		case x := <-ints:
			if p == nil {
				p = x
			} else {
				q = x
			}
		case err = <-errs:
			if p != nil {
				p.Zeroize()
			}
			return nil, nil, err
		}
	}
	return p, q, nil
}

// validGenerator rejects 0, ±1 mod n, and elements sharing a factor with n.
func validGenerator(g, n *big.Int) bool {
	if g.Sign() <= 0 || g.Cmp(n) >= 0 {
		return false
	}
	one := big.NewInt(1)
	if g.Cmp(one) == 0 {
		return false
	}
	nMinusOne := new(big.Int).Sub(n, one)
	if g.Cmp(nMinusOne) == 0 {
		return false
	}
	return new(big.Int).GCD(nil, nil, g, n).Cmp(one) == 0
}

// expG computes G^exp mod N, using the precomputed fixed-base table when the exponent fits
// its range. Exponents of witness products routinely exceed the table range; those fall back
// to ordinary modular exponentiation. Negative exponents go through the modular inverse.
func (params *GroupParams) expG(exp *big.Int) *big.Int {
	if exp.Sign() < 0 {
		ret, err := common.ModPow(params.G, exp, params.N)
		if err != nil {
			// G is invertible by construction (unit in Z/nZ)
			panic(err)
		}
		return ret
	}
	if exp.BitLen() > params.N.BitLen() {
		return new(big.Int).Exp(params.G, exp, params.N)
	}
	ret := new(big.Int)
	params.gTable.Exp(ret.Go(), exp.Go())
	return ret
}
