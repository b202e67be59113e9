package accumulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/setproofs/accumulator/big"
)

func TestAddContains(t *testing.T) {
	acc := New(testGroup(t))
	require.Equal(t, 0, acc.Len())
	require.Equal(t, 0, acc.Value.Cmp(acc.Params.G))

	alice, err := acc.Add([]byte("alice"))
	require.NoError(t, err)
	bob, err := acc.Add([]byte("bob"))
	require.NoError(t, err)

	require.Equal(t, 2, acc.Len())
	require.True(t, acc.Contains(alice.Prime))
	require.True(t, acc.Contains(bob.Prime))

	// value equals the generator raised to the product of both primes
	exp := new(big.Int).Mul(alice.Prime, bob.Prime)
	require.Equal(t, 0, acc.Value.Cmp(acc.Params.expG(exp)))
}

func TestAddDuplicate(t *testing.T) {
	acc := New(testGroup(t))
	_, err := acc.Add([]byte("alice"))
	require.NoError(t, err)

	before := new(big.Int).Set(acc.Value)
	_, err = acc.Add([]byte("alice"))
	require.Equal(t, ErrDuplicateMember, err)
	require.Equal(t, 0, acc.Value.Cmp(before))
	require.Equal(t, 1, acc.Len())
}

func TestRemove(t *testing.T) {
	acc := New(testGroup(t))
	alice, err := acc.Add([]byte("alice"))
	require.NoError(t, err)
	bob, err := acc.Add([]byte("bob"))
	require.NoError(t, err)

	require.NoError(t, acc.Remove(bob, nil))
	require.False(t, acc.Contains(bob.Prime))
	require.Equal(t, 0, acc.Value.Cmp(acc.Params.expG(alice.Prime)))

	require.Equal(t, ErrMemberNotFound, acc.Remove(bob, nil))
}

func TestRemoveWitnessShortcut(t *testing.T) {
	withWitness := New(testGroup(t))
	plain := New(withWitness.Params)

	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := withWitness.Add([]byte(name))
		require.NoError(t, err)
		_, err = plain.Add([]byte(name))
		require.NoError(t, err)
	}

	bob := &Member{Data: []byte("bob")}
	var err error
	bob.Prime, err = HashToPrime(bob.Data)
	require.NoError(t, err)

	w, err := WitnessFor(withWitness, bob)
	require.NoError(t, err)

	// the witness value becomes the accumulator value without recomputation
	require.NoError(t, withWitness.Remove(bob, w))
	require.Equal(t, 0, withWitness.Value.Cmp(w.Value))

	// and matches what a full recomputation yields
	require.NoError(t, plain.Remove(bob, nil))
	require.Equal(t, 0, withWitness.Value.Cmp(plain.Value))
}

func TestRemoveIgnoresStaleWitness(t *testing.T) {
	acc := New(testGroup(t))
	alice, err := acc.Add([]byte("alice"))
	require.NoError(t, err)
	bob, err := acc.Add([]byte("bob"))
	require.NoError(t, err)

	w, err := WitnessFor(acc, alice)
	require.NoError(t, err)
	_, err = acc.Add([]byte("carol"))
	require.NoError(t, err)

	// w is stale now; removal must fall back to recomputation, not trust it
	require.NoError(t, acc.Remove(alice, w))
	exp := new(big.Int).Mul(bob.Prime, mustPrime(t, "carol"))
	require.Equal(t, 0, acc.Value.Cmp(acc.Params.expG(exp)))
}

func TestBatchAdd(t *testing.T) {
	batch := New(testGroup(t))
	sequential := New(batch.Params)

	names := [][]byte{[]byte("alice"), []byte("bob"), []byte("carol"), []byte("dave")}
	members, err := batch.BatchAdd(names)
	require.NoError(t, err)
	require.Len(t, members, len(names))

	for _, name := range names {
		_, err = sequential.Add(name)
		require.NoError(t, err)
	}

	require.Equal(t, 0, batch.Value.Cmp(sequential.Value))
	require.Equal(t, sequential.Len(), batch.Len())
}

func TestBatchAddRejectsWholeBatchOnCollision(t *testing.T) {
	acc := New(testGroup(t))
	_, err := acc.Add([]byte("alice"))
	require.NoError(t, err)
	before := new(big.Int).Set(acc.Value)

	// collision with an existing member
	_, err = acc.BatchAdd([][]byte{[]byte("bob"), []byte("alice")})
	require.Equal(t, ErrDuplicateMember, err)
	require.Equal(t, 0, acc.Value.Cmp(before))
	require.Equal(t, 1, acc.Len())

	// collision within the batch
	_, err = acc.BatchAdd([][]byte{[]byte("bob"), []byte("bob")})
	require.Equal(t, ErrDuplicateMember, err)
	require.Equal(t, 1, acc.Len())
}

func TestBatchRemove(t *testing.T) {
	acc := New(testGroup(t))
	members, err := acc.BatchAdd([][]byte{
		[]byte("alice"), []byte("bob"), []byte("carol"), []byte("dave"),
	})
	require.NoError(t, err)

	require.NoError(t, acc.BatchRemove(members[1:3], nil))
	require.Equal(t, 2, acc.Len())
	exp := new(big.Int).Mul(members[0].Prime, members[3].Prime)
	require.Equal(t, 0, acc.Value.Cmp(acc.Params.expG(exp)))

	require.Equal(t, ErrMemberNotFound, acc.BatchRemove(members[1:2], nil))
}

func TestBatchRemoveCombinedWitness(t *testing.T) {
	acc := New(testGroup(t))
	members, err := acc.BatchAdd([][]byte{
		[]byte("alice"), []byte("bob"), []byte("carol"), []byte("dave"),
	})
	require.NoError(t, err)

	// combined witness for {bob, carol}: generator raised to the survivors
	survivors := new(big.Int).Mul(members[0].Prime, members[3].Prime)
	combined := &Witness{Value: acc.Params.expG(survivors)}

	require.NoError(t, acc.BatchRemove(members[1:3], combined))
	require.Equal(t, 0, acc.Value.Cmp(combined.Value))
}

func TestRecord(t *testing.T) {
	acc := New(testGroup(t))
	_, err := acc.Add([]byte("alice"))
	require.NoError(t, err)

	record := acc.Record()
	require.Equal(t, 0, record.N.Cmp(acc.Params.N))
	require.Equal(t, 0, record.G.Cmp(acc.Params.G))
	require.Equal(t, 0, record.Value.Cmp(acc.Value))

	// the record is a copy, detached from further mutation
	_, err = acc.Add([]byte("bob"))
	require.NoError(t, err)
	require.NotEqual(t, 0, record.Value.Cmp(acc.Value))
}

func mustPrime(t *testing.T, name string) *big.Int {
	p, err := HashToPrime([]byte(name))
	require.NoError(t, err)
	return p
}

