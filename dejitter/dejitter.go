// Package dejitter restores monotonic sequence order over a bounded reorder
// window. Items are inserted with their absolute sequence number and emitted
// one at a time once the window is full, with gap and late-arrival
// telemetry.
package dejitter

import "fmt"

// GapType classifies the result of one insert.
type GapType uint8

const (
	GapTypeNone GapType = iota
	GapTypeGap
	GapTypeArrivedLate
	GapTypeFillingBuffer
)

func (g GapType) String() string {
	switch g {
	case GapTypeNone:
		return "NoGap"
	case GapTypeGap:
		return "Gap"
	case GapTypeArrivedLate:
		return "ArrivedLate"
	case GapTypeFillingBuffer:
		return "FillingBuffer"
	}
	return fmt.Sprintf("unknown gap type (%d)", uint8(g))
}

// GapInfo reports what happened to the emission sequence on an insert.
type GapInfo struct {
	Type GapType
	Size uint64
}

// DeJitter is a bounded reorder window. It is not safe for concurrent use.
type DeJitter[T any] struct {
	buffer     map[uint64]T
	capacity   uint64
	lastSent   uint64
	hasEmitted bool
}

// New returns a de-jitter buffer holding up to capacity items before it
// starts emitting. A capacity below one is raised to one.
func New[T any](capacity uint64) *DeJitter[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &DeJitter[T]{
		buffer:   map[uint64]T{},
		capacity: capacity,
	}
}

// NewFromDuration sizes the buffer from a target delay and the average item
// duration.
func NewFromDuration[T any](bufferMillis, avgItemMillis uint64) *DeJitter[T] {
	if avgItemMillis == 0 {
		avgItemMillis = 1
	}
	return New[T](bufferMillis / avgItemMillis)
}

// Len is the number of occupied slots.
func (d *DeJitter[T]) Len() int {
	return len(d.buffer)
}

// Insert adds the item at its sequence number and, once the window is full,
// emits the next in-order item. Items at or before the last emitted sequence
// are dropped as late. The emitted sequence is non-decreasing and no item is
// emitted twice.
func (d *DeJitter[T]) Insert(seq uint64, item T) (*T, GapInfo) {
	if d.hasEmitted && seq <= d.lastSent {
		return nil, GapInfo{Type: GapTypeArrivedLate, Size: d.lastSent - seq}
	}

	d.buffer[seq] = item
	if uint64(len(d.buffer)) <= d.capacity {
		return nil, GapInfo{Type: GapTypeFillingBuffer}
	}

	// Prefer the direct successor of the last emitted item; otherwise skip
	// the gap and emit the smallest buffered sequence.
	if d.hasEmitted {
		if next, ok := d.buffer[d.lastSent+1]; ok {
			delete(d.buffer, d.lastSent+1)
			d.lastSent++
			return &next, GapInfo{}
		}
	}
	min, found := uint64(0), false
	for s := range d.buffer {
		if !found || s < min {
			min = s
			found = true
		}
	}
	v := d.buffer[min]
	delete(d.buffer, min)
	var gapSize uint64
	if d.hasEmitted {
		gapSize = min - d.lastSent - 1
	}
	d.lastSent = min
	d.hasEmitted = true
	if gapSize > 0 {
		return &v, GapInfo{Type: GapTypeGap, Size: gapSize}
	}
	return &v, GapInfo{}
}
