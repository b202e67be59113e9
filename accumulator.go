package accumulator

import (
	"sort"

	"github.com/setproofs/accumulator/big"
	"github.com/setproofs/accumulator/internal/common"
)

type (
	// Member is an accumulated set element: the raw byte string and the prime representative
	// it deterministically hashes to. The prime is what actually enters the group arithmetic.
	Member struct {
		Data  []byte   `json:",omitempty"`
		Prime *big.Int
	}

	// PublicRecord is the public view of an accumulator: modulus, generator and current
	// value. It is the only data a verifier needs besides a member's prime representative
	// and a proof object.
	PublicRecord struct {
		N     *big.Int
		G     *big.Int
		Value *big.Int
	}

	// Accumulator is the owner-side state: the group parameters, the current value
	// A = G^(product of accumulated primes) mod N, and the accumulated member set.
	//
	// Value and the member set are mutated only through Add, Remove, BatchAdd and
	// BatchRemove, and always together. The zero value is not usable; create instances
	// with New. Mutations must be serialized by the single logical owner; concurrent
	// read-only use (witnesses, proofs) against an unmutated state is safe.
	Accumulator struct {
		Params *GroupParams
		Value  *big.Int

		members map[string]*Member
	}
)

// New returns an empty accumulator over the given group: its value is the generator itself.
func New(params *GroupParams) *Accumulator {
	return &Accumulator{
		Params:  params,
		Value:   new(big.Int).Set(params.G),
		members: make(map[string]*Member),
	}
}

func memberKey(prime *big.Int) string {
	return string(prime.Bytes())
}

// Add hashes the element to its prime representative and accumulates it.
// Fails with ErrDuplicateMember, leaving the state unchanged, if the prime is already
// accumulated.
func (acc *Accumulator) Add(bts []byte) (*Member, error) {
	prime, err := HashToPrime(bts)
	if err != nil {
		return nil, err
	}
	member := &Member{Data: bts, Prime: prime}
	if err = acc.addPrime(member); err != nil {
		return nil, err
	}
	return member, nil
}

func (acc *Accumulator) addPrime(member *Member) error {
	key := memberKey(member.Prime)
	if _, ok := acc.members[key]; ok {
		return ErrDuplicateMember
	}
	acc.Value.Exp(acc.Value, member.Prime, acc.Params.N)
	acc.members[key] = member
	return nil
}

// Remove deletes the member from the accumulator. When a currently valid witness for the
// member is supplied, the witness value becomes the new accumulator value directly (since
// witness^prime equals the old value, dropping the prime from the exponent yields exactly
// the witness); otherwise the value is recomputed over the surviving primes.
// Fails with ErrMemberNotFound if the member is not accumulated.
func (acc *Accumulator) Remove(member *Member, w *Witness) error {
	key := memberKey(member.Prime)
	if _, ok := acc.members[key]; !ok {
		return ErrMemberNotFound
	}

	if w != nil && w.Member != nil &&
		w.Member.Prime.Cmp(member.Prime) == 0 &&
		verifyWitnessValue(w.Value, member.Prime, acc.Value, acc.Params.N) {
		delete(acc.members, key)
		acc.Value.Set(w.Value)
		return nil
	}

	delete(acc.members, key)
	acc.Value.Set(acc.Params.expG(common.Product(acc.primes())))
	return nil
}

// BatchAdd accumulates all elements with a single exponentiation by the product of their
// prime representatives, hashing the batch in parallel. The whole batch is rejected with
// ErrDuplicateMember, leaving the state unchanged, if any prime collides with an existing
// member or with another batch entry.
func (acc *Accumulator) BatchAdd(list [][]byte) ([]*Member, error) {
	if len(list) == 0 {
		return nil, nil
	}

	primes, err := hashToPrimes(list)
	if err != nil {
		return nil, err
	}

	members := make([]*Member, len(list))
	seen := make(map[string]struct{}, len(list))
	for i, prime := range primes {
		key := memberKey(prime)
		if _, ok := acc.members[key]; ok {
			return nil, ErrDuplicateMember
		}
		if _, ok := seen[key]; ok {
			return nil, ErrDuplicateMember
		}
		seen[key] = struct{}{}
		members[i] = &Member{Data: list[i], Prime: prime}
	}

	// the exponent product is assembled before the one group exponentiation
	acc.Value.Exp(acc.Value, common.Product(primes), acc.Params.N)
	for _, member := range members {
		acc.members[memberKey(member.Prime)] = member
	}

	Logger.Debugf("accumulator: batch-added %d members", len(members))
	return members, nil
}

// BatchRemove deletes all given members. When a combined witness for the whole batch is
// supplied (a value w with w^(product of removed primes) equal to the current accumulator
// value) it becomes the new value directly; otherwise the value is recomputed over the
// survivors. Fails with ErrMemberNotFound, leaving the state unchanged, if any member is
// absent.
func (acc *Accumulator) BatchRemove(members []*Member, w *Witness) error {
	if len(members) == 0 {
		return nil
	}

	removed := make([]*big.Int, len(members))
	for i, member := range members {
		if _, ok := acc.members[memberKey(member.Prime)]; !ok {
			return ErrMemberNotFound
		}
		removed[i] = member.Prime
	}

	if w != nil && verifyWitnessValue(w.Value, common.Product(removed), acc.Value, acc.Params.N) {
		for _, member := range members {
			delete(acc.members, memberKey(member.Prime))
		}
		acc.Value.Set(w.Value)
		return nil
	}

	for _, member := range members {
		delete(acc.members, memberKey(member.Prime))
	}
	acc.Value.Set(acc.Params.expG(common.Product(acc.primes())))

	Logger.Debugf("accumulator: batch-removed %d members", len(members))
	return nil
}

// Contains reports whether the prime representative is currently accumulated.
func (acc *Accumulator) Contains(prime *big.Int) bool {
	_, ok := acc.members[memberKey(prime)]
	return ok
}

// Len returns the number of accumulated members.
func (acc *Accumulator) Len() int {
	return len(acc.members)
}

// Members returns the accumulated members, ordered by prime representative.
func (acc *Accumulator) Members() []*Member {
	members := make([]*Member, 0, len(acc.members))
	for _, member := range acc.members {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Prime.Cmp(members[j].Prime) < 0
	})
	return members
}

// Record returns the public accumulator record for verifiers.
func (acc *Accumulator) Record() *PublicRecord {
	return &PublicRecord{
		N:     new(big.Int).Set(acc.Params.N),
		G:     new(big.Int).Set(acc.Params.G),
		Value: new(big.Int).Set(acc.Value),
	}
}

// primes returns the accumulated prime representatives in member order.
func (acc *Accumulator) primes() []*big.Int {
	members := acc.Members()
	primes := make([]*big.Int, len(members))
	for i, member := range members {
		primes[i] = member.Prime
	}
	return primes
}

// verifyWitnessValue reports whether w^exp == value (mod n).
func verifyWitnessValue(w, exp, value, n *big.Int) bool {
	return new(big.Int).Exp(w, exp, n).Cmp(value) == 0
}
