package sample

import "github.com/mradosav-amd/cache/pkg/codec"

// TypeID identifies a record type on the wire. It must be unique and
// stable for the lifetime of a given engine's output files.
type TypeID uint32

// FragmentedSpace is the distinguished identifier reserved for
// fragmentation fillers written by the ring arena (see pkg/arena). No
// registered application type may use it.
const FragmentedSpace TypeID = 0xFFFF

// Type is the contract a record type must satisfy to participate in the
// engine: a stable identifier, a byte-size helper, and a serializer.
// ByteSize(v) must equal the number of bytes Serialize(w, v) writes; a
// matching Deserialize function (see pkg/registry.Register) must consume
// exactly that many bytes.
type Type interface {
	TypeID() TypeID
	ByteSize() int
	Serialize(w *codec.Writer) error
}

// Header is the framing header written ahead of every record's payload,
// both in the ring arena and in the flushed file.
type Header struct {
	TypeID      TypeID
	PayloadSize uint64
}

// HeaderSize is the encoded byte length of a Header: a 4-byte type
// identifier plus an 8-byte payload size, in the codec's fixed-width
// encoding.
const HeaderSize = 4 + 8

// WriteHeader packs h into w.
func WriteHeader(w *codec.Writer, h Header) {
	w.PutUint32(uint32(h.TypeID))
	w.PutUint64(h.PayloadSize)
}

// ReadHeader unpacks a Header from r.
func ReadHeader(r *codec.Reader) Header {
	return Header{
		TypeID:      TypeID(r.GetUint32()),
		PayloadSize: r.GetUint64(),
	}
}
