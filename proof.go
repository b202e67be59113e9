package accumulator

import (
	"github.com/setproofs/accumulator/big"
	"github.com/setproofs/accumulator/internal/common"
)

// Proofs of exponentiation over the accumulator group. PoEProof covers statements whose
// exponent both sides know; Poke2Proof additionally proves knowledge of a secret exponent.
// Both are made non-interactive by deriving the challenge prime (and, for PoKE2, the
// blinding scalar) from a hash of the full proof transcript. Verification methods return
// a bool; only proof construction can fail with an error.

// PoEProof succinctly proves u^x == w for an exponent the verifier knows: instead of
// redoing the full exponentiation, the verifier checks Q^l * u^(x mod l) == w for a
// challenge prime l, reducing its work to two small exponentiations.
type PoEProof struct {
	Q *big.Int
	R *big.Int
}

// NewPoEProof proves u^x == w (mod N). The exponent must be nonnegative.
func NewPoEProof(params *GroupParams, u, x, w *big.Int, nonce []byte) (*PoEProof, error) {
	l, err := challengePrime(nonce, u, w, x)
	if err != nil {
		return nil, err
	}
	q, r := new(big.Int), new(big.Int)
	q.DivMod(x, l, r)
	return &PoEProof{
		Q: new(big.Int).Exp(u, q, params.N),
		R: r,
	}, nil
}

// Verify checks the proof against the claim u^x == w (mod N).
func (p *PoEProof) Verify(params *GroupParams, u, x, w *big.Int, nonce []byte) bool {
	if p == nil || p.Q == nil || p.R == nil {
		return false
	}
	l, err := challengePrime(nonce, u, w, x)
	if err != nil {
		return false
	}
	if p.R.Sign() < 0 || p.R.Cmp(l) >= 0 {
		return false
	}
	if new(big.Int).Mod(x, l).Cmp(p.R) != 0 {
		return false
	}

	lhs := new(big.Int).Exp(p.Q, l, params.N)
	lhs.Mul(lhs, new(big.Int).Exp(u, p.R, params.N)).Mod(lhs, params.N)
	return lhs.Cmp(w) == 0
}

// Poke2Proof proves knowledge of an exponent x with u^x == w (mod N) without revealing x.
// Z commits to the exponent against the fixed group generator; the blinding scalar alpha,
// derived from the transcript after Z is fixed, prevents mixing exponents between the two
// bases. The secret exponent may be negative.
type Poke2Proof struct {
	Z *big.Int
	Q *big.Int
	R *big.Int
}

// NewPoke2Proof proves knowledge of x with u^x == w (mod N).
func NewPoke2Proof(params *GroupParams, u, x, w *big.Int, nonce []byte) (*Poke2Proof, error) {
	z := params.expG(x)
	l, err := challengePrime(nonce, params.G, params.N, u, w, z)
	if err != nil {
		return nil, err
	}
	alpha := challengeScalar(nonce, params.G, params.N, u, w, z, l)

	// Euclidean division keeps the residue in [0, l) also for negative exponents,
	// so the verifier's range check never leaks the exponent's sign.
	q, r := new(big.Int), new(big.Int)
	q.DivMod(x, l, r)

	uq, err := common.ModPow(u, q, params.N)
	if err != nil {
		return nil, err
	}
	uq.Mul(uq, params.expG(new(big.Int).Mul(alpha, q))).Mod(uq, params.N)

	return &Poke2Proof{Z: z, Q: uq, R: r}, nil
}

// Verify checks the proof against the claim that the prover knows x with u^x == w (mod N).
func (p *Poke2Proof) Verify(params *GroupParams, u, w *big.Int, nonce []byte) bool {
	if p == nil || p.Z == nil || p.Q == nil || p.R == nil {
		return false
	}
	l, err := challengePrime(nonce, params.G, params.N, u, w, p.Z)
	if err != nil {
		return false
	}
	if p.R.Sign() < 0 || p.R.Cmp(l) >= 0 {
		return false
	}
	alpha := challengeScalar(nonce, params.G, params.N, u, w, p.Z, l)

	lhs := new(big.Int).Exp(p.Q, l, params.N)
	lhs.Mul(lhs, new(big.Int).Exp(u, p.R, params.N)).Mod(lhs, params.N)
	lhs.Mul(lhs, params.expG(new(big.Int).Mul(alpha, p.R))).Mod(lhs, params.N)

	rhs := new(big.Int).Exp(p.Z, alpha, params.N)
	rhs.Mul(rhs, w).Mod(rhs, params.N)

	return lhs.Cmp(rhs) == 0
}

// challengeScalar hashes the given transcript values (and optional nonce) into the
// Fiat-Shamir blinding scalar for PoKE2.
func challengeScalar(nonce []byte, values ...*big.Int) *big.Int {
	if len(nonce) > 0 {
		values = append(values, new(big.Int).SetBytes(nonce))
	}
	return common.HashCommit(values)
}

// MembershipProof shows that some accumulated prime underlies the bundled witness, without
// revealing which one: a PoKE2 proof of knowledge of an exponent taking the witness value
// to the accumulator value. When hiding the member is not needed, a plain PoEProof over
// (witness value, prime, accumulator value) verifies faster; see NewPoEProof.
type MembershipProof struct {
	Witness *big.Int
	Proof   *Poke2Proof
}

// ProveMembership builds a membership proof for the member behind the witness, against
// the accumulator value the witness is current for.
func ProveMembership(params *GroupParams, value *big.Int, w *Witness, nonce []byte) (*MembershipProof, error) {
	proof, err := NewPoke2Proof(params, w.Value, w.Member.Prime, value, nonce)
	if err != nil {
		return nil, err
	}
	return &MembershipProof{
		Witness: new(big.Int).Set(w.Value),
		Proof:   proof,
	}, nil
}

// Verify checks the membership proof against the given accumulator value.
func (p *MembershipProof) Verify(params *GroupParams, value *big.Int, nonce []byte) bool {
	if p == nil || p.Witness == nil {
		return false
	}
	return p.Proof.Verify(params, p.Witness, value, nonce)
}

// NonMembershipWitness certifies that a prime is not accumulated: with s the product of
// all accumulated primes and a*s + b*x = 1, it holds Value^a * D^x == G, an identity that
// cannot be satisfied when x divides s. A is kept as a signed integer since Bezout
// coefficients routinely come out negative.
type NonMembershipWitness struct {
	A     *big.Int
	D     *big.Int
	Prime *big.Int
}

// NonMembershipWitnessFor computes a non-membership witness for an element.
// Fails with ErrCandidateIsMember if the element's prime representative is accumulated.
func (acc *Accumulator) NonMembershipWitnessFor(bts []byte) (*NonMembershipWitness, error) {
	prime, err := HashToPrime(bts)
	if err != nil {
		return nil, err
	}
	if acc.Contains(prime) {
		return nil, ErrCandidateIsMember
	}

	a, b, g := common.Bezout(common.Product(acc.primes()), prime)
	if g.Cmp(big.NewInt(1)) != 0 {
		// distinct primes of equal bit length: a nontrivial gcd means x is in the product
		return nil, ErrCandidateIsMember
	}

	return &NonMembershipWitness{
		A:     a,
		D:     acc.Params.expG(b),
		Prime: prime,
	}, nil
}

// Verify checks the witness identity Value^a * D^prime == G directly against the given
// accumulator value. This reveals the Bezout coefficient to whoever runs the check; use
// NonMembershipProof when the witness itself must stay private.
func (nw *NonMembershipWitness) Verify(params *GroupParams, value *big.Int) bool {
	va, err := common.ModPow(value, nw.A, params.N)
	if err != nil {
		return false
	}
	va.Mul(va, new(big.Int).Exp(nw.D, nw.Prime, params.N)).Mod(va, params.N)
	return va.Cmp(params.G) == 0
}

// NonMembershipProof shows, without revealing the accumulated set, that the identity
// Value^a * D^x == G holds for the prover's witness: a PoKE2 proof for V = Value^a and a
// PoKE2 proof for D^x = G * V^(-1). The second proof's commitment Z doubles as the binding
// of the proof to the candidate prime, which the verifier knows.
type NonMembershipProof struct {
	D      *big.Int
	V      *big.Int
	ProofV *Poke2Proof
	ProofG *Poke2Proof
}

// ProveNonMembership builds a non-membership proof from a current witness, against the
// accumulator value the witness was computed for.
func ProveNonMembership(params *GroupParams, value *big.Int, nw *NonMembershipWitness, nonce []byte) (*NonMembershipProof, error) {
	v, err := common.ModPow(value, nw.A, params.N)
	if err != nil {
		return nil, err
	}
	proofV, err := NewPoke2Proof(params, value, nw.A, v, nonce)
	if err != nil {
		return nil, err
	}

	gvInv, err := mulInverse(params.G, v, params.N)
	if err != nil {
		return nil, err
	}
	proofG, err := NewPoke2Proof(params, nw.D, nw.Prime, gvInv, nonce)
	if err != nil {
		return nil, err
	}

	return &NonMembershipProof{
		D:      new(big.Int).Set(nw.D),
		V:      v,
		ProofV: proofV,
		ProofG: proofG,
	}, nil
}

// Verify checks the non-membership proof for the given prime against the given
// accumulator value.
func (p *NonMembershipProof) Verify(params *GroupParams, value, prime *big.Int, nonce []byte) bool {
	if p == nil || p.D == nil || p.V == nil || p.ProofG == nil || p.ProofG.Z == nil {
		return false
	}
	// ties the proof to the candidate: the second PoKE2 commitment must open to the prime
	if p.ProofG.Z.Cmp(params.expG(prime)) != 0 {
		return false
	}

	gvInv, err := mulInverse(params.G, p.V, params.N)
	if err != nil {
		return false
	}
	return p.ProofV.Verify(params, value, p.V, nonce) &&
		p.ProofG.Verify(params, p.D, gvInv, nonce)
}

// mulInverse returns x * y^(-1) mod n.
func mulInverse(x, y, n *big.Int) (*big.Int, error) {
	inv, ok := common.ModInverse(y, n)
	if !ok {
		return nil, common.ErrNoModInverse
	}
	return inv.Mul(x, inv).Mod(inv, n), nil
}
