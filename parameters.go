package accumulator

// SystemParameters holds the security and performance parameters of the accumulator.
type SystemParameters struct {
	// ModulusBits is the bit length of the RSA modulus N. 2048 is the minimum
	// acceptable for production use.
	ModulusBits uint

	// MemberBits is the bit length of member prime representatives and Fiat-Shamir
	// challenge primes. Primes of this size are far below the factors of N, so members
	// cannot collide with the factorization, and 256 bits makes hash-to-prime collisions
	// cryptographically negligible.
	MemberBits uint

	// PrimalityRounds is the number of Miller-Rabin rounds applied to prime candidates,
	// giving a soundness error of at most 4^-PrimalityRounds per candidate.
	PrimalityRounds int

	// HashToPrimeProbes bounds the number of candidates tried by a single hash-to-prime
	// derivation before it fails with ErrHashToPrimeExhausted. By the prime number theorem
	// a candidate of MemberBits bits is prime with probability about 1/(MemberBits*ln 2),
	// so thousands of probes leave only an astronomically small failure chance.
	HashToPrimeProbes int

	// SetupRetries bounds how often Setup restarts safe-prime generation on degenerate
	// outcomes before failing with ErrPrimeGenerationFailed.
	SetupRetries int

	// ParallelThreshold is the smallest batch size for which batch operations fan out
	// over the available cores instead of running sequentially.
	ParallelThreshold int
}

// DefaultParameters are the published-secure parameters of this package: a 2048-bit
// modulus, 256-bit member primes, 40 Miller-Rabin rounds and SHA-256 as the Fiat-Shamir
// hash (fixed in internal/common.HashCommit).
var DefaultParameters = SystemParameters{
	ModulusBits:       2048,
	MemberBits:        256,
	PrimalityRounds:   40,
	HashToPrimeProbes: 10000,
	SetupRetries:      8,
	ParallelThreshold: 8,
}

// Parameters are the parameters used by package-level operations. They may be replaced
// before any group is set up; changing MemberBits afterwards invalidates existing
// accumulators, witnesses and proofs, since prime representatives would no longer match.
var Parameters = DefaultParameters
