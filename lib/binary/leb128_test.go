package binary

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadU32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 16384, 0xffffffff}
	for _, v := range cases {
		buf := WriteU32(nil, v)
		got, err := ReadU32(bufio.NewReader(bytes.NewReader(buf)))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestWriteReadS32RoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 63, -64, 64, -65, 1000000, -1000000}
	for _, v := range cases {
		buf := WriteS32(nil, v)
		got, err := ReadS32(bufio.NewReader(bytes.NewReader(buf)))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestWriteReadS64RoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1 << 40, -(1 << 40)}
	for _, v := range cases {
		buf := WriteS64(nil, v)
		got, err := ReadS64(bufio.NewReader(bytes.NewReader(buf)))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestWriteU32KnownEncoding(t *testing.T) {
	// 300 = 0b1_0010_1100 -> low 7 bits 0101100 with continuation, then 10
	require.Equal(t, []byte{0xac, 0x02}, WriteU32(nil, 300))
}

func TestReadU32RejectsOverlongEncoding(t *testing.T) {
	overlong := bytes.Repeat([]byte{0x80}, 8)
	_, err := ReadU32(bufio.NewReader(bytes.NewReader(overlong)))
	require.Error(t, err)
}

func TestEncodeHeader(t *testing.T) {
	require.Equal(t,
		[]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00},
		EncodeHeader(1),
	)
}
