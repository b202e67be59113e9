package accumulator

import (
	"encoding/binary"

	"github.com/go-errors/errors"

	"github.com/setproofs/accumulator/big"
)

// Canonical byte encodings: fixed-width big-endian fields, group elements sized by the
// modulus, prime representatives sized by Parameters.MemberBits. The only variable-width
// quantity is the accumulated member list, which carries a 32-bit count prefix. Structured
// records that travel through the update log use CBOR instead; these encodings are for
// compact transport of single objects.

var errTruncated = errors.New("truncated encoding")

func modulusBytes(n *big.Int) int {
	return (n.BitLen() + 7) / 8
}

func memberBytes() int {
	return int(Parameters.MemberBits+7) / 8
}

// fixedBytes encodes a nonnegative integer big-endian, left-padded to size bytes.
func fixedBytes(x *big.Int, size int) []byte {
	buf := make([]byte, size)
	x.Go().FillBytes(buf)
	return buf
}

func appendUint32(buf []byte, x uint32) []byte {
	var enc [4]byte
	binary.BigEndian.PutUint32(enc[:], x)
	return append(buf, enc[:]...)
}

func appendUint64(buf []byte, x uint64) []byte {
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], x)
	return append(buf, enc[:]...)
}

type byteReader struct {
	data []byte
}

func (r *byteReader) next(n int) ([]byte, error) {
	if len(r.data) < n {
		return nil, errTruncated
	}
	bts := r.data[:n]
	r.data = r.data[n:]
	return bts, nil
}

func (r *byteReader) nextInt(n int) (*big.Int, error) {
	bts, err := r.next(n)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(bts), nil
}

func (r *byteReader) nextUint32() (uint32, error) {
	bts, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(bts), nil
}

func (r *byteReader) nextUint64() (uint64, error) {
	bts, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(bts), nil
}

func (r *byteReader) empty() bool {
	return len(r.data) == 0
}

// Bytes encodes the record as a 32-bit modulus byte length followed by the modulus,
// generator and value at that width.
func (r *PublicRecord) Bytes() []byte {
	size := modulusBytes(r.N)
	out := make([]byte, 0, 4+3*size)
	out = appendUint32(out, uint32(size))
	out = append(out, fixedBytes(r.N, size)...)
	out = append(out, fixedBytes(r.G, size)...)
	out = append(out, fixedBytes(r.Value, size)...)
	return out
}

// ParsePublicRecord decodes a record produced by PublicRecord.Bytes.
func ParsePublicRecord(data []byte) (*PublicRecord, error) {
	r := byteReader{data}
	size, err := r.nextUint32()
	if err != nil {
		return nil, err
	}
	record := &PublicRecord{}
	if record.N, err = r.nextInt(int(size)); err != nil {
		return nil, err
	}
	if record.G, err = r.nextInt(int(size)); err != nil {
		return nil, err
	}
	if record.Value, err = r.nextInt(int(size)); err != nil {
		return nil, err
	}
	return record, nil
}

// Bytes encodes the full accumulator state: the public record, a 32-bit member count,
// and the accumulated primes in member order. Raw member data is not part of the
// encoding; the prime representatives determine the state.
func (acc *Accumulator) Bytes() []byte {
	record := acc.Record().Bytes()
	members := acc.Members()
	out := make([]byte, 0, len(record)+4+len(members)*memberBytes())
	out = append(out, record...)
	out = appendUint32(out, uint32(len(members)))
	for _, member := range members {
		out = append(out, fixedBytes(member.Prime, memberBytes())...)
	}
	return out
}

// ParseAccumulator decodes a state produced by Accumulator.Bytes.
func ParseAccumulator(data []byte) (*Accumulator, error) {
	r := byteReader{data}
	size, err := r.nextUint32()
	if err != nil {
		return nil, err
	}
	n, err := r.nextInt(int(size))
	if err != nil {
		return nil, err
	}
	g, err := r.nextInt(int(size))
	if err != nil {
		return nil, err
	}
	value, err := r.nextInt(int(size))
	if err != nil {
		return nil, err
	}
	params, err := NewGroupParams(n, g)
	if err != nil {
		return nil, err
	}

	count, err := r.nextUint32()
	if err != nil {
		return nil, err
	}
	if uint64(count)*uint64(memberBytes()) > uint64(len(r.data)) {
		return nil, errTruncated
	}
	acc := &Accumulator{
		Params:  params,
		Value:   value,
		members: make(map[string]*Member, count),
	}
	for i := uint32(0); i < count; i++ {
		prime, err := r.nextInt(memberBytes())
		if err != nil {
			return nil, err
		}
		acc.members[memberKey(prime)] = &Member{Prime: prime}
	}
	if !r.empty() {
		return nil, errors.New("trailing bytes after accumulator encoding")
	}
	return acc, nil
}

// Bytes encodes the witness as prime, value and 64-bit update index.
func (w *Witness) Bytes(params *GroupParams) []byte {
	size := modulusBytes(params.N)
	out := make([]byte, 0, memberBytes()+size+8)
	out = append(out, fixedBytes(w.Member.Prime, memberBytes())...)
	out = append(out, fixedBytes(w.Value, size)...)
	out = appendUint64(out, w.Index)
	return out
}

// ParseWitness decodes a witness produced by Witness.Bytes.
func ParseWitness(params *GroupParams, data []byte) (*Witness, error) {
	r := byteReader{data}
	prime, err := r.nextInt(memberBytes())
	if err != nil {
		return nil, err
	}
	value, err := r.nextInt(modulusBytes(params.N))
	if err != nil {
		return nil, err
	}
	index, err := r.nextUint64()
	if err != nil {
		return nil, err
	}
	return &Witness{Member: &Member{Prime: prime}, Value: value, Index: index}, nil
}

// Bytes encodes the proof as Q at modulus width and R at member width.
func (p *PoEProof) Bytes(params *GroupParams) []byte {
	out := fixedBytes(p.Q, modulusBytes(params.N))
	return append(out, fixedBytes(p.R, memberBytes())...)
}

// ParsePoEProof decodes a proof produced by PoEProof.Bytes.
func ParsePoEProof(params *GroupParams, data []byte) (*PoEProof, error) {
	r := byteReader{data}
	q, err := r.nextInt(modulusBytes(params.N))
	if err != nil {
		return nil, err
	}
	residue, err := r.nextInt(memberBytes())
	if err != nil {
		return nil, err
	}
	return &PoEProof{Q: q, R: residue}, nil
}

// Bytes encodes the proof as Z and Q at modulus width and R at member width.
func (p *Poke2Proof) Bytes(params *GroupParams) []byte {
	size := modulusBytes(params.N)
	out := make([]byte, 0, 2*size+memberBytes())
	out = append(out, fixedBytes(p.Z, size)...)
	out = append(out, fixedBytes(p.Q, size)...)
	out = append(out, fixedBytes(p.R, memberBytes())...)
	return out
}

// ParsePoke2Proof decodes a proof produced by Poke2Proof.Bytes.
func ParsePoke2Proof(params *GroupParams, data []byte) (*Poke2Proof, error) {
	r := byteReader{data}
	proof, err := readPoke2(&r, params)
	if err != nil {
		return nil, err
	}
	return proof, nil
}

func readPoke2(r *byteReader, params *GroupParams) (*Poke2Proof, error) {
	size := modulusBytes(params.N)
	z, err := r.nextInt(size)
	if err != nil {
		return nil, err
	}
	q, err := r.nextInt(size)
	if err != nil {
		return nil, err
	}
	residue, err := r.nextInt(memberBytes())
	if err != nil {
		return nil, err
	}
	return &Poke2Proof{Z: z, Q: q, R: residue}, nil
}

// Bytes encodes the proof as the witness value followed by the PoKE2 proof.
func (p *MembershipProof) Bytes(params *GroupParams) []byte {
	out := fixedBytes(p.Witness, modulusBytes(params.N))
	return append(out, p.Proof.Bytes(params)...)
}

// ParseMembershipProof decodes a proof produced by MembershipProof.Bytes.
func ParseMembershipProof(params *GroupParams, data []byte) (*MembershipProof, error) {
	r := byteReader{data}
	witness, err := r.nextInt(modulusBytes(params.N))
	if err != nil {
		return nil, err
	}
	proof, err := readPoke2(&r, params)
	if err != nil {
		return nil, err
	}
	return &MembershipProof{Witness: witness, Proof: proof}, nil
}

// Bytes encodes the witness as a sign byte and magnitude for the Bezout coefficient,
// followed by D at modulus width and the prime at member width. Bezout coefficients
// routinely come out negative, hence the explicit sign.
func (nw *NonMembershipWitness) Bytes(params *GroupParams) []byte {
	out := make([]byte, 0, 1+2*memberBytes()+modulusBytes(params.N))
	if nw.A.Sign() < 0 {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = append(out, fixedBytes(new(big.Int).Abs(nw.A), memberBytes())...)
	out = append(out, fixedBytes(nw.D, modulusBytes(params.N))...)
	out = append(out, fixedBytes(nw.Prime, memberBytes())...)
	return out
}

// ParseNonMembershipWitness decodes a witness produced by NonMembershipWitness.Bytes.
func ParseNonMembershipWitness(params *GroupParams, data []byte) (*NonMembershipWitness, error) {
	r := byteReader{data}
	sign, err := r.next(1)
	if err != nil {
		return nil, err
	}
	a, err := r.nextInt(memberBytes())
	if err != nil {
		return nil, err
	}
	if sign[0] == 1 {
		a.Neg(a)
	}
	d, err := r.nextInt(modulusBytes(params.N))
	if err != nil {
		return nil, err
	}
	prime, err := r.nextInt(memberBytes())
	if err != nil {
		return nil, err
	}
	return &NonMembershipWitness{A: a, D: d, Prime: prime}, nil
}

// Bytes encodes the proof as D and V at modulus width followed by the two PoKE2 proofs.
func (p *NonMembershipProof) Bytes(params *GroupParams) []byte {
	size := modulusBytes(params.N)
	out := make([]byte, 0, 2*size+2*(2*size+memberBytes()))
	out = append(out, fixedBytes(p.D, size)...)
	out = append(out, fixedBytes(p.V, size)...)
	out = append(out, p.ProofV.Bytes(params)...)
	out = append(out, p.ProofG.Bytes(params)...)
	return out
}

// ParseNonMembershipProof decodes a proof produced by NonMembershipProof.Bytes.
func ParseNonMembershipProof(params *GroupParams, data []byte) (*NonMembershipProof, error) {
	r := byteReader{data}
	size := modulusBytes(params.N)
	d, err := r.nextInt(size)
	if err != nil {
		return nil, err
	}
	v, err := r.nextInt(size)
	if err != nil {
		return nil, err
	}
	proofV, err := readPoke2(&r, params)
	if err != nil {
		return nil, err
	}
	proofG, err := readPoke2(&r, params)
	if err != nil {
		return nil, err
	}
	return &NonMembershipProof{D: d, V: v, ProofV: proofV, ProofG: proofG}, nil
}
