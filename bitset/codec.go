package bitset

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/hupe1980/ralib/internal/conv"
	"github.com/hupe1980/ralib/internal/mem"
)

// headerSize is the length of the little-endian width prefix.
const headerSize = 8

// readChunkWords is the number of words ReadFrom requests per read.
const readChunkWords = 512

// WriteTo writes the width as a little-endian uint64 followed by every
// storage word, little-endian. It implements io.WriterTo.
func (b *Bitset) WriteTo(w io.Writer) (int64, error) {
	b.live("WriteTo")
	n, err := w.Write(b.appendBinary(nil))
	return int64(n), err
}

// ReadFrom replaces the width and contents of b with a bitset written by
// WriteTo. On error b is unchanged. It implements io.ReaderFrom.
//
// The payload is buffered as it arrives, so a header claiming more bits
// than the stream holds fails with ErrInvalidEncoding after reading what is
// there. A width beyond the heap limit fails with ErrAllocationFailed
// before any payload is read.
func (b *Bitset) ReadFrom(r io.Reader) (int64, error) {
	b.live("ReadFrom")

	var hdr [headerSize]byte
	read, err := io.ReadFull(r, hdr[:])
	n := int64(read)
	if err != nil {
		return n, fmt.Errorf("%w: header: %w", ErrInvalidEncoding, err)
	}

	size := binary.LittleEndian.Uint64(hdr[:])
	need, err := payloadSize(size)
	if err != nil {
		return n, err
	}

	payload := make([]byte, 0, min(need, readChunkWords*8))
	for len(payload) < need {
		chunk := min(need-len(payload), readChunkWords*8)
		payload = slices.Grow(payload, chunk)
		read, err := io.ReadFull(r, payload[len(payload):len(payload)+chunk])
		payload = payload[:len(payload)+read]
		n += int64(read)
		if err != nil {
			return n, fmt.Errorf("%w: word %d: %w", ErrInvalidEncoding, len(payload)/8, err)
		}
	}

	words, err := b.decodeWords(size, payload)
	if err != nil {
		return n, err
	}
	b.adopt(words, size)
	return n, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (b *Bitset) MarshalBinary() ([]byte, error) {
	b.live("MarshalBinary")
	return b.appendBinary(nil), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. data must hold
// exactly one encoded bitset; its length is checked against the width
// before anything is allocated.
func (b *Bitset) UnmarshalBinary(data []byte) error {
	b.live("UnmarshalBinary")
	if len(data) < headerSize {
		return fmt.Errorf("%w: header: %d of %d bytes", ErrInvalidEncoding, len(data), headerSize)
	}

	size := binary.LittleEndian.Uint64(data)
	if size == 0 {
		return fmt.Errorf("%w: zero width", ErrInvalidEncoding)
	}

	payload := data[headerSize:]
	want := ((size-1)/WordBits + 1) * 8 // at most 2^61
	if got := uint64(len(payload)); got != want {
		return fmt.Errorf("%w: width %d needs %d payload bytes, got %d", ErrInvalidEncoding, size, want, got)
	}

	words, err := b.decodeWords(size, payload)
	if err != nil {
		return err
	}
	b.adopt(words, size)
	return nil
}

func (b *Bitset) appendBinary(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, b.size)
	for _, w := range b.words {
		dst = binary.LittleEndian.AppendUint64(dst, w)
	}
	return dst
}

// payloadSize validates a width read from a header and returns the number
// of payload bytes that follow it.
func payloadSize(size uint64) (int, error) {
	if size == 0 {
		return 0, fmt.Errorf("%w: zero width", ErrInvalidEncoding)
	}
	count, err := conv.WordsFor(size, WordBits)
	if err != nil {
		return 0, fmt.Errorf("bitset: %d bits: %w: %w", size, ErrAllocationFailed, err)
	}
	need, err := conv.MulInt(count, 8)
	if err != nil {
		return 0, fmt.Errorf("bitset: %d bits: %w: %w", size, ErrAllocationFailed, err)
	}
	if err := (mem.Heap{}).Check(need); err != nil {
		return 0, fmt.Errorf("bitset: %d bits: %w", size, err)
	}
	return need, nil
}

// decodeWords allocates the words of a size-bit set and fills them from a
// little-endian payload of matching length.
func (b *Bitset) decodeWords(size uint64, payload []byte) ([]uint64, error) {
	words, err := b.allocate(size)
	if err != nil {
		return nil, err
	}
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(payload[i*8:])
	}
	words[len(words)-1] &= tailMask(size)
	return words, nil
}
