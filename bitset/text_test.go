package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitset_String(t *testing.T) {
	b := newBits(t, 70, 0, 64, 69)
	s := b.String()

	require.Len(t, s, 70)
	for i := range s {
		want := byte('0')
		if i == 0 || i == 64 || i == 69 {
			want = '1'
		}
		assert.Equal(t, want, s[i], "char %d", i)
	}
}

func TestBitset_Stringify(t *testing.T) {
	b := newBits(t, 5, 1, 4)

	dst := []byte("xxxxxxx")
	n := b.Stringify(dst)
	assert.Equal(t, 5, n)
	assert.Equal(t, "01001xx", string(dst))
}

func TestBitset_AppendText(t *testing.T) {
	b := newBits(t, 4, 3)

	out, err := b.AppendText([]byte("bits="))
	require.NoError(t, err)
	assert.Equal(t, "bits=0001", string(out))

	text, err := b.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0001", string(text))
}

func TestParse(t *testing.T) {
	for _, s := range []string{"0", "1", "0100000000", "1111111111111111111111111111111111111111111111111111111111111111", "10000000000000000000000000000000000000000000000000000000000000001"} {
		b, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, uint64(len(s)), b.Len())
		assert.Equal(t, s, b.String())
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "012", "01 1", "1x"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrInvalidEncoding, "%q", s)
	}
}

func TestBitset_UnmarshalText(t *testing.T) {
	b := newBits(t, 3, 0)
	require.NoError(t, b.UnmarshalText([]byte("00001")))
	assert.Equal(t, uint64(5), b.Len())
	assert.Equal(t, "00001", b.String())

	assert.Error(t, b.UnmarshalText([]byte("2")))
	assert.Equal(t, "00001", b.String())
}
