package net

import (
	"fmt"

	"github.com/meshworks/beacon/src/status"
)

// Packer splits a list of status records into link frames that respect the
// transport's payload limit. A frame only ever carries whole records.
type Packer struct {
	payloadLimit int
	maxPerFrame  int
}

// NewPacker validates the payload limit against the record size. A limit that
// cannot carry a single whole record is a configuration error and must be
// caught here, at startup, not at send time.
func NewPacker(payloadLimit int) (*Packer, error) {
	maxPerFrame := payloadLimit / status.RecordSize
	if maxPerFrame < 1 {
		return nil, fmt.Errorf("payload limit %d cannot fit one %d-byte record",
			payloadLimit, status.RecordSize)
	}

	return &Packer{
		payloadLimit: payloadLimit,
		maxPerFrame:  maxPerFrame,
	}, nil
}

// MaxPerFrame returns how many whole records fit in one frame.
func (p *Packer) MaxPerFrame() int {
	return p.maxPerFrame
}

// Pack serializes the records into consecutive frames, preserving record order
// across frame boundaries. An empty record list yields no frames.
func (p *Packer) Pack(records []status.Record) [][]byte {
	frames := [][]byte{}

	for start := 0; start < len(records); start += p.maxPerFrame {
		end := start + p.maxPerFrame
		if end > len(records) {
			end = len(records)
		}

		frame := make([]byte, 0, (end-start)*status.RecordSize)
		for _, r := range records[start:end] {
			frame = r.Append(frame)
		}

		frames = append(frames, frame)
	}

	return frames
}
