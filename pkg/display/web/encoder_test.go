package web

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameOf(n int, v byte) []byte {
	return bytes.Repeat([]byte{v}, n*4)
}

func TestEncoder(t *testing.T) {
	s := settings{framePatching: true, framePatchRatio: 50, frameSkipping: true, frameCaching: true}
	f1 := frameOf(16, 1)
	f2 := append([]byte(nil), f1...)
	copy(f2[4:8], []byte{9, 9, 9, 9})

	e := newEncoder(4, 4, 4, nil)

	// the first frame is always sent in full
	msgs, err := e.encode(f1, s)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, append([]byte{Frame, 0, 0}, f1...), msgs[0])

	// unchanged frames are skipped
	msgs, err = e.encode(f1, s)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// a single pixel changes, report the skip then patch it
	msgs, err = e.encode(f2, s)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte{FrameSkip, 1}, msgs[0])
	assert.Equal(t, []byte{FramePatch, 0, 0, 1, 0, 0, 0, 9, 9, 9, 9}, msgs[1])

	// and back again
	msgs, err = e.encode(f1, s)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{FramePatch, 1, 0, 1, 0, 0, 0, 1, 1, 1, 1}, msgs[0])

	// a patch that has been sent before is referenced by index
	msgs, err = e.encode(f2, s)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{PatchCache, 0, 0}, msgs[0])
}

func TestEncoder_FullFrame(t *testing.T) {
	e := newEncoder(2, 2, 4, nil)
	s := settings{framePatching: true, framePatchRatio: 10}

	_, err := e.encode(frameOf(4, 0), s)
	require.NoError(t, err)

	// every pixel changed, a patch would be larger than the frame
	f := frameOf(4, 7)
	msgs, err := e.encode(f, s)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, Frame, msgs[0][0])
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(msgs[0][1:3]))
	assert.Equal(t, f, msgs[0][3:])

	// an identical frame with skipping disabled is sent from the cache
	msgs, err = e.encode(f, settings{frameCaching: true})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{FrameCache, 1, 0}, msgs[0])
}

func TestEncoder_CachingDisabled(t *testing.T) {
	e := newEncoder(2, 1, 4, nil)
	f := frameOf(2, 6)

	msgs, err := e.encode(f, settings{})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, append([]byte{Frame, 0, 0}, f...), msgs[0])

	// sent in full again, into the next slot
	msgs, err = e.encode(f, settings{})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, append([]byte{Frame, 1, 0}, f...), msgs[0])

	msgs, err = e.encode(f, settings{frameCaching: true})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{FrameCache, 0, 0}, msgs[0])
}

func TestEncoder_Compression(t *testing.T) {
	var levels []int
	compress := func(data []byte, level int) ([]byte, error) {
		levels = append(levels, level)
		return append([]byte{'z'}, data[:1]...), nil
	}
	e := newEncoder(2, 2, 4, compress)

	msgs, err := e.encode(frameOf(4, 3), settings{compression: true, compressionLevel: 5})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{Frame, 0, 0, 'z', 3}, msgs[0])
	assert.Equal(t, []int{5}, levels)
}

func TestEncoder_Sync(t *testing.T) {
	e := newEncoder(2, 1, 4, nil)
	f := frameOf(2, 5)
	_, err := e.encode(f, settings{})
	require.NoError(t, err)

	msgs, err := e.sync(settings{})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, append([]byte{FrameSync}, f...), msgs[0])

	assert.Equal(t, FrameCacheSync, msgs[1][0])
	assert.Equal(t, uint32(len(f)), binary.LittleEndian.Uint32(msgs[1][1:5]))
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(msgs[1][5:7]))
	assert.Equal(t, f, msgs[1][7:])

	assert.Equal(t, []byte{PatchCacheSync}, msgs[2])
}
