package accumulator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/setproofs/accumulator/big"
	"github.com/setproofs/accumulator/internal/common"
	"github.com/setproofs/accumulator/signed"
)

// fullSizeGroup builds a production-size group from two fixed 1024-bit safe primes,
// since generating fresh ones takes minutes.
func fullSizeGroup(t *testing.T) *GroupParams {
	p, ok := new(big.Int).SetString("137638811993558195206420328357073658091105450134788808980204514105755078006531089565424872264423706112211603473814961517434905870865504591672559685691792489986134468104546337570949069664216234978690144943134866212103184925841701142837749906961652202656280177667215409099503103170243548357516953064641207916007", 10)
	require.True(t, ok, "failed to parse p")
	q, ok := new(big.Int).SetString("161568850263671082708797642691138038443080533253276097248590507678645648170870472664501153166861026407778587004276645109302937591955229881186233151561419055453812743980662387119394543989953096207398047305729607795030698835363986813674377580220752360344952636913024495263497458333887018979316817606614095137583", 10)
	require.True(t, ok, "failed to parse q")

	n := new(big.Int).Mul(p, q)
	params, err := NewGroupParams(n, common.RandomQR(n))
	require.NoError(t, err)
	return params
}

func TestFullSizeScenario(t *testing.T) {
	sk, err := signed.GenerateKey()
	require.NoError(t, err)
	pk := &sk.PublicKey

	log, _, err := NewLog(sk, New(fullSizeGroup(t)))
	require.NoError(t, err)
	params := log.Acc.Params

	alice, _, err := log.Add([]byte("alice"))
	require.NoError(t, err)
	bob, _, err := log.Add([]byte("bob"))
	require.NoError(t, err)
	_, _, err = log.Add([]byte("carol"))
	require.NoError(t, err)

	// alice proves membership in zero knowledge
	w, err := log.WitnessFor(alice)
	require.NoError(t, err)
	nonce := []byte("verifier session")
	memproof, err := ProveMembership(params, log.Acc.Value, w, nonce)
	require.NoError(t, err)
	require.True(t, memproof.Verify(params, log.Acc.Value, nonce))

	// dave proves non-membership
	nw, err := log.Acc.NonMembershipWitnessFor([]byte("dave"))
	require.NoError(t, err)
	nonproof, err := ProveNonMembership(params, log.Acc.Value, nw, nonce)
	require.NoError(t, err)
	require.True(t, nonproof.Verify(params, log.Acc.Value, nw.Prime, nonce))

	// bob is removed via the witness shortcut; alice catches up from the update
	wBob, err := log.WitnessFor(bob)
	require.NoError(t, err)
	update, err := log.Remove(bob, wBob)
	require.NoError(t, err)
	require.Equal(t, 0, log.Acc.Value.Cmp(wBob.Value))

	require.NoError(t, w.ApplyUpdate(pk, params, update))
	require.NoError(t, w.Verify(log.Acc.Record()))

	// the stale membership proof no longer verifies, a fresh one does
	require.False(t, memproof.Verify(params, log.Acc.Value, nonce))
	memproof, err = ProveMembership(params, log.Acc.Value, w, nonce)
	require.NoError(t, err)
	require.True(t, memproof.Verify(params, log.Acc.Value, nonce))

	// and bob can now prove non-membership
	nwBob, err := log.Acc.NonMembershipWitnessFor([]byte("bob"))
	require.NoError(t, err)
	nonproof, err = ProveNonMembership(params, log.Acc.Value, nwBob, nonce)
	require.NoError(t, err)
	require.True(t, nonproof.Verify(params, log.Acc.Value, nwBob.Prime, nonce))
}
