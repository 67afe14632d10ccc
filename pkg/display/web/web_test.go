package web

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameTimes(t *testing.T) {
	msg := frameTimes([]time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 6 * time.Millisecond})
	if assert.Len(t, msg, 9) {
		assert.Equal(t, FrameTimes, msg[0])
		assert.Equal(t, uint32(4000), binary.LittleEndian.Uint32(msg[1:5]))
		assert.Equal(t, uint32(6000), binary.LittleEndian.Uint32(msg[5:9]))
	}

	assert.Equal(t, []byte{FrameTimes, 0, 0, 0, 0, 0, 0, 0, 0}, frameTimes(nil))
}
