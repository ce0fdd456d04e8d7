package bitset

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/ralib/internal/mem"
)

// Compression selects the block compression of MarshalCompressed.
type Compression uint8

const (
	// CompressionNone stores the binary encoding as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio, good for sparse sets).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// Frame: [Compression uint8][RawSize uint64][payload].
// RawSize is the length of the MarshalBinary encoding.
const frameHeaderSize = 9

// lz4MaxRatio bounds the raw size a valid LZ4 block of a given length can
// expand to.
const lz4MaxRatio = 255

var zstdEncoderPool sync.Pool

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// newZstdDecoder returns a decoder that refuses to produce more than
// maxSize bytes, or one minimum window for tiny frames. Decoders are not
// pooled because the bound differs per call.
func newZstdDecoder(maxSize uint64) (*zstd.Decoder, error) {
	return zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(max(maxSize, zstd.MinWindowSize)),
	)
}

// MarshalCompressed returns the binary encoding of b compressed with c.
// If compression does not shrink the encoding it is stored uncompressed.
func (b *Bitset) MarshalCompressed(c Compression) ([]byte, error) {
	b.live("MarshalCompressed")
	raw := b.appendBinary(nil)

	var payload []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("bitset: lz4: %w", err)
		}
		payload = buf[:n] // n == 0: incompressible
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, fmt.Errorf("bitset: zstd: %w", err)
		}
		payload = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("bitset: unknown compression %s", c)
	}

	if len(payload) == 0 || len(payload) >= len(raw) {
		c, payload = CompressionNone, raw
	}

	out := make([]byte, 0, frameHeaderSize+len(payload))
	out = append(out, byte(c))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(raw)))
	return append(out, payload...), nil
}

// UnmarshalCompressed replaces the width and contents of b with the output
// of MarshalCompressed. On error b is unchanged.
//
// The raw size in the frame bounds decompression: LZ4 output is sized from
// it, and ZSTD stops with an error once it would be exceeded.
func (b *Bitset) UnmarshalCompressed(data []byte) error {
	b.live("UnmarshalCompressed")
	if len(data) < frameHeaderSize {
		return fmt.Errorf("%w: short frame", ErrInvalidEncoding)
	}

	c := Compression(data[0])
	rawSize := binary.LittleEndian.Uint64(data[1:frameHeaderSize])
	payload := data[frameHeaderSize:]

	if rawSize < headerSize+8 || rawSize%8 != 0 {
		return fmt.Errorf("%w: raw size %d", ErrInvalidEncoding, rawSize)
	}
	if limit := mem.DefaultHeapLimit(); rawSize > uint64(limit) {
		return fmt.Errorf("bitset: raw size %d: %w: exceeds the heap limit of %d bytes", rawSize, ErrAllocationFailed, limit)
	}

	var raw []byte
	switch c {
	case CompressionNone:
		raw = payload
	case CompressionLZ4:
		if rawSize > uint64(len(payload))*lz4MaxRatio+frameHeaderSize {
			return fmt.Errorf("%w: lz4 raw size %d", ErrInvalidEncoding, rawSize)
		}
		raw = make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return fmt.Errorf("%w: lz4: %w", ErrInvalidEncoding, err)
		}
		raw = raw[:n]
	case CompressionZSTD:
		dec, err := newZstdDecoder(rawSize)
		if err != nil {
			return fmt.Errorf("bitset: zstd: %w", err)
		}
		raw, err = dec.DecodeAll(payload, nil)
		dec.Close()
		if err != nil {
			return fmt.Errorf("%w: zstd: %w", ErrInvalidEncoding, err)
		}
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrInvalidEncoding, uint8(c))
	}

	if uint64(len(raw)) != rawSize {
		return fmt.Errorf("%w: raw size %d, header says %d", ErrInvalidEncoding, len(raw), rawSize)
	}

	return b.UnmarshalBinary(raw)
}
