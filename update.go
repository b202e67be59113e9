package accumulator

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/sha256"
	"time"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"

	"github.com/setproofs/accumulator/big"
	"github.com/setproofs/accumulator/cbor"
	"github.com/setproofs/accumulator/signed"
)

// The update log makes accumulator mutations auditable and distributable: every Add and
// Remove appends an Event carrying the hash of its parent, and the log owner signs the
// resulting head so witness holders can catch up from any Update message whose event chain
// connects to their state, without trusting the channel it arrived over.

type (
	// Event is one accumulator mutation: the prime that was added or removed, its position
	// in the log, and the multihash of the preceding event.
	Event struct {
		Index      uint64
		Prime      *big.Int
		Added      bool
		ParentHash multihash.Multihash
	}

	// LogRecord is the log head as signed by the owner: the accumulator value after the
	// event at Index, the signing time, and the hash of that event.
	LogRecord struct {
		Value     *big.Int
		Index     uint64
		Time      int64
		EventHash multihash.Multihash
	}

	// SignedRecord is an ECDSA-signed LogRecord. Record caches the decoded head after
	// UnmarshalVerify and must not be trusted before that.
	SignedRecord struct {
		Data   signed.Message
		Record *LogRecord `json:"-"`
	}

	// Update is the message witness holders and verifiers consume: the signed log head
	// plus a consecutive run of events ending in it.
	Update struct {
		SignedRecord *SignedRecord
		Events       []*Event
	}

	// Log is the owner-side maintainer: it owns the accumulator, tracks the head event,
	// and emits a signed Update for every mutation. Like the accumulator itself it is
	// mutated by a single logical owner.
	Log struct {
		ECDSA *ecdsa.PrivateKey
		Acc   *Accumulator

		head *Event
	}
)

// genesisParentHash is the parent of the first event: a SHA-256 multihash of 32 zero bytes.
func genesisParentHash() multihash.Multihash {
	hash, err := multihash.Encode(make([]byte, sha256.Size), multihash.SHA2_256)
	if err != nil {
		panic(err)
	}
	return hash
}

// hash returns the SHA-256 multihash of the deterministically encoded event.
func (event *Event) hash() multihash.Multihash {
	bts, err := cbor.Marshal(event)
	if err != nil {
		panic(err)
	}
	digest := sha256.Sum256(bts)
	hash, err := multihash.Encode(digest[:], multihash.SHA2_256)
	if err != nil {
		panic(err)
	}
	return hash
}

func signRecord(sk *ecdsa.PrivateKey, record *LogRecord) (*SignedRecord, error) {
	message, err := signed.MarshalSign(sk, record)
	if err != nil {
		return nil, err
	}
	return &SignedRecord{Data: message, Record: record}, nil
}

// UnmarshalVerify checks the signature and returns the log record, caching it on the
// receiver.
func (sr *SignedRecord) UnmarshalVerify(pk *ecdsa.PublicKey) (*LogRecord, error) {
	record := &LogRecord{}
	if err := signed.UnmarshalVerify(pk, sr.Data, record); err != nil {
		return nil, err
	}
	sr.Record = record
	return record, nil
}

// NewUpdate signs the log record and bundles it with the given events.
func NewUpdate(sk *ecdsa.PrivateKey, record *LogRecord, events []*Event) (*Update, error) {
	sr, err := signRecord(sk, record)
	if err != nil {
		return nil, err
	}
	return &Update{SignedRecord: sr, Events: events}, nil
}

// Verify checks the signature on the log record and that the events form a consecutive
// hash chain ending in the record's event hash. An update without events is valid and
// just communicates a freshly signed head.
func (update *Update) Verify(pk *ecdsa.PublicKey) (*LogRecord, error) {
	record, err := update.SignedRecord.UnmarshalVerify(pk)
	if err != nil {
		return nil, err
	}
	if len(update.Events) == 0 {
		return record, nil
	}

	for i, event := range update.Events {
		if i == 0 {
			continue
		}
		parent := update.Events[i-1]
		if event.Index != parent.Index+1 {
			return nil, errors.New("event chain has nonconsecutive indices")
		}
		if !bytes.Equal(event.ParentHash, parent.hash()) {
			return nil, errors.New("event chain has broken parent hash")
		}
	}

	last := update.Events[len(update.Events)-1]
	if last.Index != record.Index {
		return nil, errors.New("event chain does not end in the log record")
	}
	if !bytes.Equal(record.EventHash, last.hash()) {
		return nil, errors.New("log record does not commit to the last event")
	}
	return record, nil
}

// NewLog starts an update log over the given accumulator, emitting the genesis update.
// The genesis event carries prime 1 so applying it never changes a witness.
func NewLog(sk *ecdsa.PrivateKey, acc *Accumulator) (*Log, *Update, error) {
	log := &Log{
		ECDSA: sk,
		Acc:   acc,
		head: &Event{
			Index:      0,
			Prime:      big.NewInt(1),
			Added:      true,
			ParentHash: genesisParentHash(),
		},
	}
	update, err := log.signedUpdate(log.head)
	if err != nil {
		return nil, nil, err
	}
	return log, update, nil
}

// Head returns the latest event in the log.
func (l *Log) Head() *Event {
	return l.head
}

// Record returns a freshly timestamped log record for the current head.
func (l *Log) Record() *LogRecord {
	return &LogRecord{
		Value:     new(big.Int).Set(l.Acc.Value),
		Index:     l.head.Index,
		Time:      time.Now().Unix(),
		EventHash: l.head.hash(),
	}
}

// WitnessFor computes a witness stamped with the log's head index, so ApplyUpdate knows
// which events it still needs.
func (l *Log) WitnessFor(member *Member) (*Witness, error) {
	w, err := WitnessFor(l.Acc, member)
	if err != nil {
		return nil, err
	}
	w.Index = l.head.Index
	return w, nil
}

// Add accumulates the element and emits the signed update for it.
func (l *Log) Add(bts []byte) (*Member, *Update, error) {
	member, err := l.Acc.Add(bts)
	if err != nil {
		return nil, nil, err
	}
	update, err := l.append(member.Prime, true)
	if err != nil {
		return nil, nil, err
	}
	return member, update, nil
}

// Remove deletes the member and emits the signed update for it. The witness shortcut of
// Accumulator.Remove applies when a current witness is supplied.
func (l *Log) Remove(member *Member, w *Witness) (*Update, error) {
	if err := l.Acc.Remove(member, w); err != nil {
		return nil, err
	}
	return l.append(member.Prime, false)
}

func (l *Log) append(prime *big.Int, added bool) (*Update, error) {
	event := &Event{
		Index:      l.head.Index + 1,
		Prime:      prime,
		Added:      added,
		ParentHash: l.head.hash(),
	}
	l.head = event
	return l.signedUpdate(event)
}

func (l *Log) signedUpdate(events ...*Event) (*Update, error) {
	return NewUpdate(l.ECDSA, l.Record(), events)
}

// ApplyUpdate advances the witness through a verified update. Additions are applied as a
// single exponentiation by the product of added primes; removals by one Bezout step
// against the new accumulator value, which works for any interleaving of the two.
// Fails with ErrWitnessRemoved if the witness's own member was removed, and with an error
// when the update's event chain does not connect to the witness's index; the witness is
// then left unchanged. Updates at or below the witness's index are a no-op.
func (w *Witness) ApplyUpdate(pk *ecdsa.PublicKey, params *GroupParams, update *Update) error {
	record, err := update.Verify(pk)
	if err != nil {
		return err
	}
	if record.Index <= w.Index {
		return nil
	}
	if len(update.Events) == 0 || update.Events[0].Index > w.Index+1 {
		return errors.New("update event chain starts past the witness index")
	}

	var added, removed []*big.Int
	for _, event := range update.Events {
		if event.Index <= w.Index || event.Prime.BitLen() <= 1 {
			continue
		}
		if event.Added {
			added = append(added, event.Prime)
		} else {
			removed = append(removed, event.Prime)
		}
	}

	value := new(big.Int).Set(w.Value)
	restore := func() { w.Value.Set(value) }

	w.UpdateAdd(params, added...)
	if len(removed) > 0 {
		if err = w.UpdateRemove(params, record.Value, removed...); err != nil {
			restore()
			return err
		}
	}
	if !verifyWitnessValue(w.Value, w.Member.Prime, record.Value, params.N) {
		restore()
		return ErrStaleWitness
	}
	w.Index = record.Index
	return nil
}
