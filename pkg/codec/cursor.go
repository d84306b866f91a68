package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"
)

// SizeUint32, SizeUint64, and SizeFloat64 are the packed byte widths of the
// corresponding fixed-width scalar puts. SizeLenPrefix is the width of the
// length prefix written ahead of every variable-length value.
const (
	SizeUint32    = 4
	SizeUint64    = 8
	SizeFloat64   = 8
	SizeLenPrefix = 8
)

// SizeOfBytes returns the encoded length of a length-prefixed byte slice of
// n raw bytes, without touching a buffer.
func SizeOfBytes(n int) int {
	return SizeLenPrefix + n
}

// SizeOfString returns the encoded length of a length-prefixed string.
func SizeOfString(s string) int {
	return SizeOfBytes(len(s))
}

// Writer packs primitive and length-prefixed values into a caller-owned
// byte slice. Callers are responsible for sizing the slice correctly
// (typically via the ByteSize helpers above and a Type's ByteSize method);
// a Writer never grows its backing slice, matching the ring arena's
// pre-reserved-region contract.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter wraps buf for sequential packing starting at offset 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Pos returns the number of bytes written so far.
func (w *Writer) Pos() int { return w.pos }

// Remaining returns the number of bytes still available in the backing slice.
func (w *Writer) Remaining() int { return len(w.buf) - w.pos }

func (w *Writer) advance(n int) []byte {
	if n > w.Remaining() {
		panic(fmt.Sprintf("codec: write of %d bytes exceeds %d remaining", n, w.Remaining()))
	}
	start := w.pos
	w.pos += n
	return w.buf[start:w.pos]
}

// PutUint32 writes v as 4 little-endian bytes.
func (w *Writer) PutUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.advance(SizeUint32), v)
}

// PutUint64 writes v as 8 little-endian bytes.
func (w *Writer) PutUint64(v uint64) {
	binary.LittleEndian.PutUint64(w.advance(SizeUint64), v)
}

// PutFloat64 writes v's IEEE-754 bit pattern as 8 little-endian bytes.
func (w *Writer) PutFloat64(v float64) {
	w.PutUint64(math.Float64bits(v))
}

// PutBytes writes an 8-byte little-endian length prefix followed by the raw
// bytes of b.
func (w *Writer) PutBytes(b []byte) {
	w.PutUint64(uint64(len(b)))
	copy(w.advance(len(b)), b)
}

// PutString writes s as a length-prefixed value, identical in wire shape to
// PutBytes.
func (w *Writer) PutString(s string) {
	w.PutUint64(uint64(len(s)))
	copy(w.advance(len(s)), s)
}

// Reader unpacks primitive and length-prefixed values from a byte slice in
// the same order a matching Writer produced them.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential unpacking starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) consume(n int) []byte {
	if n > r.Remaining() {
		panic(fmt.Sprintf("codec: read of %d bytes exceeds %d remaining", n, r.Remaining()))
	}
	start := r.pos
	r.pos += n
	return r.buf[start:r.pos]
}

// GetUint32 reads 4 little-endian bytes.
func (r *Reader) GetUint32() uint32 {
	return binary.LittleEndian.Uint32(r.consume(SizeUint32))
}

// GetUint64 reads 8 little-endian bytes.
func (r *Reader) GetUint64() uint64 {
	return binary.LittleEndian.Uint64(r.consume(SizeUint64))
}

// GetFloat64 reads 8 little-endian bytes as an IEEE-754 float64.
func (r *Reader) GetFloat64() float64 {
	return math.Float64frombits(r.GetUint64())
}

// GetBytes reads a length-prefixed value and returns an owned copy.
func (r *Reader) GetBytes() []byte {
	n := int(r.GetUint64())
	view := r.consume(n)
	out := make([]byte, n)
	copy(out, view)
	return out
}

// GetBytesView reads a length-prefixed value and returns a slice aliasing
// the Reader's backing array. The result is valid only as long as that
// backing array is not reused or mutated by the caller.
func (r *Reader) GetBytesView() []byte {
	n := int(r.GetUint64())
	return r.consume(n)
}

// GetString reads a length-prefixed value and returns an owned string copy.
func (r *Reader) GetString() string {
	n := int(r.GetUint64())
	return string(r.consume(n))
}

// GetStringView reads a length-prefixed value and returns a string aliasing
// the Reader's backing array without copying. Valid only while that buffer
// lives, matching the borrowed-reference semantics of a decode-time string
// view.
func (r *Reader) GetStringView() string {
	n := int(r.GetUint64())
	b := r.consume(n)
	if n == 0 {
		return ""
	}
	return unsafe.String(&b[0], n)
}
