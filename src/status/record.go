package status

import (
	"encoding/binary"

	"github.com/meshworks/beacon/src/identity"
)

// RecordSize is the serialized size of one record: a 6-byte identity followed
// by a 4-byte little-endian status code, matching the byte order of the
// little-endian radio firmware.
const RecordSize = identity.Size + 4

// Record binds a status code to the identity it describes. It is the atomic
// unit stored, queued, and transmitted.
type Record struct {
	ID   identity.Identity
	Code Code
}

// Append serializes the record onto buf and returns the extended slice.
func (r Record) Append(buf []byte) []byte {
	buf = append(buf, r.ID[:]...)
	var code [4]byte
	binary.LittleEndian.PutUint32(code[:], uint32(r.Code))
	return append(buf, code[:]...)
}

// ParseFrame reads back-to-back records from a received frame. Trailing bytes
// that do not amount to a whole record are dropped, never an error: a frame is
// taken at face value for as many whole records as it holds.
func ParseFrame(frame []byte) []Record {
	n := len(frame) / RecordSize

	records := make([]Record, n)
	for i := 0; i < n; i++ {
		chunk := frame[i*RecordSize : (i+1)*RecordSize]
		copy(records[i].ID[:], chunk[:identity.Size])
		records[i].Code = Code(binary.LittleEndian.Uint32(chunk[identity.Size:]))
	}

	return records
}
