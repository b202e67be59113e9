package accumulator

import (
	"crypto/sha256"
	"encoding/asn1"

	"github.com/setproofs/accumulator/big"
	"github.com/setproofs/accumulator/internal/common"
)

// HashToPrime deterministically maps an arbitrary byte string to a probable prime of
// Parameters.MemberBits bits: the SHA-256 digest of the ASN.1-encoded input seeds a CPRNG
// from which prime candidates are drawn until one passes Parameters.PrimalityRounds rounds
// of Miller-Rabin. The same input yields the same prime across calls and across processes.
//
// The search is bounded by Parameters.HashToPrimeProbes; exhausting the budget, which is
// astronomically unlikely, fails with ErrHashToPrimeExhausted.
func HashToPrime(bts []byte) (*big.Int, error) {
	encoded, err := asn1.Marshal([][]byte{bts})
	if err != nil {
		return nil, err
	}
	seed := sha256.Sum256(encoded)
	return primeFromSeed(seed)
}

// primeFromSeed draws a deterministic MemberBits-bit probable prime from the given seed.
func primeFromSeed(seed [32]byte) (*big.Int, error) {
	csprng, err := common.NewCPRNG(&seed)
	if err != nil {
		return nil, err
	}
	p, err := common.PrimeInRange(csprng,
		Parameters.MemberBits-1, Parameters.MemberBits-1,
		Parameters.HashToPrimeProbes, Parameters.PrimalityRounds)
	if err == common.ErrProbesExhausted {
		return nil, ErrHashToPrimeExhausted
	}
	return p, err
}

// hashToPrimes maps a batch of byte strings to their prime representatives, fanning the
// independent prime searches out over the available cores for large batches.
func hashToPrimes(list [][]byte) ([]*big.Int, error) {
	primes := make([]*big.Int, len(list))
	errs := make([]error, len(list))

	forEach(len(list), func(i int) {
		primes[i], errs[i] = HashToPrime(list[i])
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return primes, nil
}

// challengeSeed hashes the given transcript values (and optional nonce) into a CPRNG seed
// for Fiat-Shamir challenge prime derivation.
func challengeSeed(nonce []byte, values ...*big.Int) [32]byte {
	if len(nonce) > 0 {
		values = append(values, new(big.Int).SetBytes(nonce))
	}
	digest := common.HashCommit(values)
	var seed [32]byte
	digest.Go().FillBytes(seed[:])
	return seed
}

// challengePrime derives the Fiat-Shamir challenge prime over a proof transcript. Soundness
// of PoE and PoKE2 requires that the challenge is unpredictable before the transcript is
// fixed, hence it is always derived by hashing and never chosen by the prover.
func challengePrime(nonce []byte, values ...*big.Int) (*big.Int, error) {
	return primeFromSeed(challengeSeed(nonce, values...))
}
