package codec

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTripScalars(t *testing.T) {
	buf := make([]byte, SizeUint32+SizeUint64+SizeFloat64)
	w := NewWriter(buf)
	w.PutUint32(42)
	w.PutUint64(1 << 40)
	w.PutFloat64(3.5)
	require.Equal(t, len(buf), w.Pos())

	r := NewReader(buf)
	assert.Equal(t, uint32(42), r.GetUint32())
	assert.Equal(t, uint64(1<<40), r.GetUint64())
	assert.Equal(t, 3.5, r.GetFloat64())
	assert.Equal(t, 0, r.Remaining())
}

func TestWriterReaderRoundTripBytesAndString(t *testing.T) {
	data := []byte("hello")
	text := "world!"

	size := SizeOfBytes(len(data)) + SizeOfString(text)
	buf := make([]byte, size)
	w := NewWriter(buf)
	w.PutBytes(data)
	w.PutString(text)
	require.Equal(t, size, w.Pos())

	r := NewReader(buf)
	assert.Equal(t, data, r.GetBytes())
	assert.Equal(t, text, r.GetString())
}

func TestZeroLengthValuesRoundTrip(t *testing.T) {
	buf := make([]byte, SizeOfBytes(0)+SizeOfString(""))
	w := NewWriter(buf)
	w.PutBytes(nil)
	w.PutString("")

	r := NewReader(buf)
	assert.Equal(t, []byte{}, r.GetBytes())
	assert.Equal(t, "", r.GetStringView())
}

func TestStringViewAliasesBackingBuffer(t *testing.T) {
	buf := make([]byte, SizeOfString("view-me"))
	NewWriter(buf).PutString("view-me")

	r := NewReader(buf)
	view := r.GetStringView()
	assert.Equal(t, "view-me", view)
	assert.Same(t, &buf[SizeLenPrefix], unsafe.StringData(view))
}

func TestWriterPanicsOnOverflow(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	assert.Panics(t, func() { w.PutUint32(1) })
}

func TestReaderPanicsOnUnderflow(t *testing.T) {
	buf := make([]byte, 2)
	r := NewReader(buf)
	assert.Panics(t, func() { r.GetUint64() })
}
