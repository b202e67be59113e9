package accumulator

import (
	"github.com/go-errors/errors"
)

// Errors surfaced by the accumulator core. Structural errors (duplicate or missing members,
// stale witnesses) are returned immediately without internal recovery; probabilistic
// subroutines (prime search, hash-to-prime) retry internally up to a budget before failing.
// Proof verification is never an error: invalid proofs yield false from the Verify methods.
var (
	// ErrInsufficientEntropy means the random source could not supply enough bits during setup.
	ErrInsufficientEntropy = errors.New("insufficient entropy for group setup")

	// ErrPrimeGenerationFailed means safe-prime search exceeded its retry budget.
	ErrPrimeGenerationFailed = errors.New("safe prime generation failed")

	// ErrHashToPrimeExhausted means no prime was found within the hash-to-prime probe budget.
	ErrHashToPrimeExhausted = errors.New("hash-to-prime probe budget exhausted")

	// ErrDuplicateMember is returned when adding an element whose prime representative is
	// already accumulated. The accumulator value is unchanged by the failed attempt.
	ErrDuplicateMember = errors.New("member is already accumulated")

	// ErrMemberNotFound is returned when removing, or requesting a witness for, an element
	// that is not currently accumulated.
	ErrMemberNotFound = errors.New("member is not currently accumulated")

	// ErrCandidateIsMember is returned when a non-membership witness is requested for an
	// element that is accumulated.
	ErrCandidateIsMember = errors.New("candidate is an accumulated member")

	// ErrStaleWitness is returned when a presented witness does not belong to the current
	// member set of the accumulator.
	ErrStaleWitness = errors.New("witness member is not tracked by this accumulator")

	// ErrWitnessRemoved is returned when updating a witness whose own member was removed
	// from the accumulator; such a witness can never be made valid again.
	ErrWitnessRemoved = errors.New("witness member was removed from the accumulator")
)
