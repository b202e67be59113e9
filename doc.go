/*
Package accumulator implements a dynamic universal RSA accumulator over a group of unknown
order, together with succinct membership and non-membership proofs.

The construction follows "Dynamic Accumulators and Application to Efficient Revocation of
Anonymous Credentials", Jan Camenisch and Anna Lysyanskaya, CRYPTO 2002,
DOI https://doi.org/10.1007/3-540-45708-9_5, and the proofs of exponentiation (PoE) and
knowledge of exponent (PoKE2) from "Batching Techniques for Accumulators with Applications
to IOPs and Stateless Blockchains", Dan Boneh, Benedikt Bünz and Ben Fisch, CRYPTO 2019,
https://eprint.iacr.org/2018/1188.pdf.

In short, the accumulator works as follows.

  - Setup generates an RSA modulus N = p*q from two safe primes and a generator g, a random
    quadratic residue modulo N. The factorization is zeroized before Setup returns; no party,
    including the accumulator owner, retains it.

  - A set element is an arbitrary byte string, mapped deterministically to a prime
    representative by HashToPrime. The accumulator value is A = g^(product of all accumulated
    primes) mod N: a single group element committing to the whole set.

  - A member's witness is the accumulator value with that member's prime factored out of the
    exponent, so that witness^prime = A mod N. Witnesses go stale whenever the set changes;
    this package maintains them incrementally under both insertion (one exponentiation) and
    deletion (the Bezout-coefficient "Shamir trick"), and computes all witnesses of a set in
    O(n log n) exponentiations with a product tree.

  - Membership and non-membership are proven with PoE and PoKE2 transcripts made
    non-interactive by the Fiat-Shamir heuristic: challenges are derived by hashing the
    transcript (SHA-256, and hash-to-prime for challenge primes), never chosen by the prover.

  - The accumulator owner publishes signed, hash-chained update events (see Event and Update)
    so that witness holders can catch up with adds and removes they did not observe, the same
    way an issuer broadcasts revocation updates.

The package assumes a single logical owner performs state mutations serially. Read-only
operations (witness computation, proving, verifying) are safe to run concurrently against a
state that is not being mutated, and batch operations fan out over the available cores.
*/
package accumulator
