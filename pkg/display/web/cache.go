package web

import (
	"encoding/binary"
	"sync"
)

type cacheEntry struct {
	hash uint64
	data []byte
}

// cache is a fixed size ring of recently sent payloads, keyed
// by their xxhash. Clients keep a mirror of the cache so that a
// repeated payload can be sent as its index alone.
type cache struct {
	cache   []*cacheEntry
	idx     int
	enabled bool
	size    int
	sync.RWMutex
}

func newCache(size int) *cache {
	if size < 1 {
		size = 1
	}
	c := &cache{
		cache:   make([]*cacheEntry, size),
		size:    size,
		enabled: true,
	}
	for i := 0; i < size; i++ {
		c.cache[i] = &cacheEntry{
			hash: 0,
			data: []byte{},
		}
	}

	return c
}

// add stores output in the next slot, evicting the oldest entry,
// and returns the slot used.
func (c *cache) add(hash uint64, output []byte) int {
	i := c.idx
	c.cache[i].data = output
	c.cache[i].hash = hash

	c.idx = (c.idx + 1) % c.size
	return i
}

// index returns the slot holding hash, or -1. Nothing is found
// while the cache is disabled, though add still fills slots so
// that clients stay in step.
func (c *cache) index(hash uint64) int {
	if !c.enabled {
		return -1
	}
	for i, e := range c.cache {
		if len(e.data) > 0 && e.hash == hash {
			return i
		}
	}

	return -1
}

// sync encodes every populated entry as length (uint32), index
// (uint16) and data, for a newly connected client.
func (c *cache) sync() []byte {
	var data []byte
	for i, e := range c.cache {
		if len(e.data) == 0 {
			continue
		}
		data = binary.LittleEndian.AppendUint32(data, uint32(len(e.data)))
		data = binary.LittleEndian.AppendUint16(data, uint16(i))
		data = append(data, e.data...)
	}
	return data
}
