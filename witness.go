package accumulator

import (
	"sync"

	"github.com/setproofs/accumulator/big"
	"github.com/setproofs/accumulator/internal/common"
)

// Witness is a membership witness: a group element whose Member.Prime-th power equals the
// accumulator value it was computed against. Index records the update log position the
// witness is current for, so holders can catch up using Update messages.
type Witness struct {
	Member *Member
	Value  *big.Int
	Index  uint64
}

// WitnessFor computes a fresh witness for an accumulated member by raising the generator
// to the product of all other accumulated primes.
// Fails with ErrMemberNotFound if the member is not accumulated.
func WitnessFor(acc *Accumulator, member *Member) (*Witness, error) {
	key := memberKey(member.Prime)
	if _, ok := acc.members[key]; !ok {
		return nil, ErrMemberNotFound
	}

	others := make([]*big.Int, 0, len(acc.members)-1)
	for _, prime := range acc.primes() {
		if prime.Cmp(member.Prime) != 0 {
			others = append(others, prime)
		}
	}
	return &Witness{
		Member: member,
		Value:  acc.Params.expG(common.Product(others)),
	}, nil
}

// AllWitnesses computes witnesses for every accumulated member at once, ordered like
// Members(). A balanced split of the member set lets the two halves share intermediate
// exponentiations, needing O(n log n) group operations overall instead of the O(n^2) of
// n separate WitnessFor calls; the halves recurse in parallel while large enough.
func AllWitnesses(acc *Accumulator) []*Witness {
	members := acc.Members()
	if len(members) == 0 {
		return nil
	}
	witnesses := make([]*Witness, len(members))
	witnessTree(acc.Params, new(big.Int).Set(acc.Params.G), members, witnesses)
	return witnesses
}

// witnessTree fills out[i] with the witness for members[i], where base is the generator
// raised to the product of all accumulated primes outside members.
func witnessTree(params *GroupParams, base *big.Int, members []*Member, out []*Witness) {
	if len(members) == 1 {
		out[0] = &Witness{Member: members[0], Value: base}
		return
	}

	mid := len(members) / 2
	left, right := members[:mid], members[mid:]
	leftBase := new(big.Int).Exp(base, common.Product(memberPrimes(right)), params.N)
	rightBase := new(big.Int).Exp(base, common.Product(memberPrimes(left)), params.N)

	if len(members) >= Parameters.ParallelThreshold {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			witnessTree(params, leftBase, left, out[:mid])
		}()
		witnessTree(params, rightBase, right, out[mid:])
		wg.Wait()
		return
	}

	witnessTree(params, leftBase, left, out[:mid])
	witnessTree(params, rightBase, right, out[mid:])
}

func memberPrimes(members []*Member) []*big.Int {
	primes := make([]*big.Int, len(members))
	for i, member := range members {
		primes[i] = member.Prime
	}
	return primes
}

// UpdateAdd advances the witness past additions: raising it to the product of the added
// primes keeps witness^prime equal to the likewise-raised accumulator value.
func (w *Witness) UpdateAdd(params *GroupParams, added ...*big.Int) {
	if len(added) == 0 {
		return
	}
	w.Value.Exp(w.Value, common.Product(added), params.N)
}

// UpdateRemove advances the witness past removals, given the post-removal accumulator
// value. With a*prime + b*(product of removed primes) = 1 the element
// newValue^a * witness^b is again a valid witness, since its prime-th power telescopes to
// newValue. Fails with ErrWitnessRemoved, leaving the witness unchanged, if the witness's
// own prime is among the removed ones (the Bezout identity then has no solution).
func (w *Witness) UpdateRemove(params *GroupParams, newValue *big.Int, removed ...*big.Int) error {
	if len(removed) == 0 {
		return nil
	}

	prod := common.Product(removed)
	a, b, g := common.Bezout(w.Member.Prime, prod)
	if g.Cmp(big.NewInt(1)) != 0 {
		return ErrWitnessRemoved
	}

	value, err := common.ModPow(newValue, a, params.N)
	if err != nil {
		return err
	}
	wb, err := common.ModPow(w.Value, b, params.N)
	if err != nil {
		return err
	}
	value.Mul(value, wb).Mod(value, params.N)
	w.Value.Set(value)
	return nil
}

// UpdateAllWitnesses advances every witness past the same additions and removals, fanning
// the independent exponentiations out over the available cores. The returned slice has one
// entry per witness, nil on success; a witness whose own member was removed gets
// ErrWitnessRemoved and is unusable afterwards.
func UpdateAllWitnesses(params *GroupParams, witnesses []*Witness, newValue *big.Int, added, removed []*big.Int) []error {
	errs := make([]error, len(witnesses))
	forEach(len(witnesses), func(i int) {
		witnesses[i].UpdateAdd(params, added...)
		if len(removed) > 0 {
			errs[i] = witnesses[i].UpdateRemove(params, newValue, removed...)
		}
	})
	return errs
}

// Verify checks the witness against a public accumulator record.
// Fails with ErrStaleWitness when witness^prime does not reproduce the current value.
func (w *Witness) Verify(record *PublicRecord) error {
	if w.Member == nil || w.Member.Prime == nil || w.Value == nil {
		return ErrStaleWitness
	}
	if !verifyWitnessValue(w.Value, w.Member.Prime, record.Value, record.N) {
		return ErrStaleWitness
	}
	return nil
}
