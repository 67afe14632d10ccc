package web

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// patchPixelSize is the size of a single changed pixel in a
// FramePatch: its index (uint32) followed by its RGBA value.
const patchPixelSize = 8

// settings control how frames are encoded. They are owned by the
// hub and may be changed by any client.
type settings struct {
	compression      bool
	compressionLevel int
	framePatching    bool
	framePatchRatio  int // percentage of a full frame
	frameSkipping    bool
	frameCaching     bool
}

// compressor compresses a payload at the given quality level.
type compressor func(data []byte, level int) ([]byte, error)

// encoder turns the frames produced by the game into the
// messages sent to clients. It remembers the last frame so that
// unchanged frames can be skipped and small changes sent as
// patches.
type encoder struct {
	current []byte
	patch   []byte

	framesSkipped int
	started       bool

	frameCache, patchCache *cache
	compress               compressor
}

func newEncoder(width, height, cacheSize int, compress compressor) *encoder {
	return &encoder{
		current:    make([]byte, width*height*4),
		frameCache: newCache(cacheSize),
		patchCache: newCache(cacheSize),
		compress:   compress,
	}
}

// encode compares frame against the previous frame and returns
// the messages that bring a client up to date.
func (e *encoder) encode(frame []byte, s settings) ([][]byte, error) {
	e.patch = e.patch[:0]
	for i := 0; i+3 < len(frame) && i+3 < len(e.current); i += 4 {
		if !e.started || !bytes.Equal(frame[i:i+4], e.current[i:i+4]) {
			e.patch = binary.LittleEndian.AppendUint32(e.patch, uint32(i/4))
			e.patch = append(e.patch, frame[i:i+4]...)
		}
	}
	copy(e.current, frame)
	dirtied := len(e.patch) > 0 || !e.started
	e.started = true

	// nothing changed, let the clients know how many frames
	// they missed once something does
	if !dirtied && s.frameSkipping {
		e.framesSkipped++
		return nil, nil
	}

	var messages [][]byte
	if e.framesSkipped > 0 {
		buf := binary.LittleEndian.AppendUint32(nil, uint32(e.framesSkipped))
		messages = append(messages, append([]byte{FrameSkip}, bytes.TrimRight(buf, "\x00")...))
		e.framesSkipped = 0
	}

	typ, buffer := Frame, e.current
	if s.framePatching && len(e.patch)*100 < s.framePatchRatio*len(e.current) {
		typ, buffer = FramePatch, e.patch
	}

	output, err := e.output(buffer, s)
	if err != nil {
		return messages, err
	}

	return append(messages, e.cached(typ, output, s.frameCaching)), nil
}

// output compresses buffer if enabled. The returned slice never
// aliases the encoder's own buffers, as it may be cached.
func (e *encoder) output(buffer []byte, s settings) ([]byte, error) {
	if s.compression && e.compress != nil {
		return e.compress(buffer, s.compressionLevel)
	}
	return append([]byte(nil), buffer...), nil
}

// cached returns a reference to a cache entry when the payload
// has been sent before and caching is enabled, otherwise the
// payload itself.
func (e *encoder) cached(typ Type, output []byte, enabled bool) []byte {
	c, ref := e.frameCache, FrameCache
	if typ == FramePatch {
		c, ref = e.patchCache, PatchCache
	}

	c.Lock()
	defer c.Unlock()
	c.enabled = enabled

	hash := xxhash.Sum64(output)
	if idx := c.index(hash); idx != -1 {
		return binary.LittleEndian.AppendUint16([]byte{ref}, uint16(idx))
	}

	idx := c.add(hash, output)
	msg := binary.LittleEndian.AppendUint16([]byte{typ}, uint16(idx))
	return append(msg, output...)
}

// sync returns the messages a newly connected client needs: the
// current frame and the contents of both caches.
func (e *encoder) sync(s settings) ([][]byte, error) {
	frame, err := e.output(e.current, s)
	if err != nil {
		return nil, err
	}

	e.frameCache.RLock()
	frames := e.frameCache.sync()
	e.frameCache.RUnlock()

	e.patchCache.RLock()
	patches := e.patchCache.sync()
	e.patchCache.RUnlock()

	return [][]byte{
		append([]byte{FrameSync}, frame...),
		append([]byte{FrameCacheSync}, frames...),
		append([]byte{PatchCacheSync}, patches...),
	}, nil
}
