package accumulator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/setproofs/accumulator/signed"
)

func TestDB(t *testing.T) {
	log, genesis := testLog(t)
	pk := &log.ECDSA.PublicKey
	path := filepath.Join(t.TempDir(), "accumulator.db")

	db, err := LoadDB(path)
	require.NoError(t, err)
	require.NoError(t, db.AddUpdate(pk, genesis))

	alice, update, err := log.Add([]byte("alice"))
	require.NoError(t, err)
	require.NoError(t, db.AddUpdate(pk, update))
	w, err := log.WitnessFor(alice)
	require.NoError(t, err)

	bob, update, err := log.Add([]byte("bob"))
	require.NoError(t, err)
	require.NoError(t, db.AddUpdate(pk, update))

	update, err = log.Remove(bob, nil)
	require.NoError(t, err)
	require.NoError(t, db.AddUpdate(pk, update))

	require.Equal(t, log.Head().Index, db.Current.Index)

	// a witness holder catches up from the stored chain
	catchup, err := db.UpdateSince(w.Index + 1)
	require.NoError(t, err)
	require.NoError(t, w.ApplyUpdate(pk, log.Acc.Params, catchup))
	require.NoError(t, w.Verify(log.Acc.Record()))

	require.NoError(t, db.Close())

	// the head and chain survive reopening
	db, err = LoadDB(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	record, err := db.LoadHead(pk)
	require.NoError(t, err)
	require.Equal(t, log.Head().Index, record.Index)
	require.Equal(t, 0, record.Value.Cmp(log.Acc.Value))

	latest, err := db.LatestUpdate(2)
	require.NoError(t, err)
	require.Len(t, latest.Events, 2)
	_, err = latest.Verify(pk)
	require.NoError(t, err)
}

func TestDBRejectsForgedUpdate(t *testing.T) {
	_, genesis := testLog(t)
	path := filepath.Join(t.TempDir(), "accumulator.db")

	db, err := LoadDB(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	otherSk, err := signed.GenerateKey()
	require.NoError(t, err)
	require.Error(t, db.AddUpdate(&otherSk.PublicKey, genesis))
	require.Nil(t, db.Current)
}
