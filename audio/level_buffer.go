package audio

import "sync/atomic"

// Level describes one rendered buffer.
type Level struct {
	Peak   float32
	Notes  int
	Volume float64
}

// levelBuffer is a lock-free spsc queue. The audio callback is the only
// producer and never waits: when the consumer falls behind, levels are
// dropped.
type levelBuffer struct {
	levels      []Level
	read, write *uint32
}

func newLevelBuffer(size int) *levelBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("level buffer size must be a power of 2")
	}
	return &levelBuffer{
		levels: make([]Level, size),
		read:   new(uint32),
		write:  new(uint32),
	}
}

func (b *levelBuffer) push(l Level) bool {
	write := atomic.LoadUint32(b.write)
	if write-atomic.LoadUint32(b.read) == uint32(len(b.levels)) {
		return false
	}
	b.levels[write%uint32(len(b.levels))] = l
	atomic.StoreUint32(b.write, write+1)
	return true
}

func (b *levelBuffer) drain(f func(Level)) int {
	read := atomic.LoadUint32(b.read)
	write := atomic.LoadUint32(b.write)
	n := int(write - read)
	for read != write {
		f(b.levels[read%uint32(len(b.levels))])
		read++
	}
	atomic.StoreUint32(b.read, read)
	return n
}
