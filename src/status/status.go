// Package status defines the status codes that beacon nodes gossip about, the
// StatusRecord unit of dissemination, and its fixed-width wire encoding.
package status

// Code is the small integer a node broadcasts to describe its own condition.
type Code uint32

// The closed enumeration of status codes. Anything outside this range is
// reported as Unknown but still stored and re-gossiped verbatim.
const (
	OK Code = iota
	Wait
	GoOn
	Retreat
	Injured
	NeedSupplies
	AtMeetingPoint
	SOS
)

// Unknown is the fallback name for codes outside the enumeration.
const Unknown = "UNKNOWN"

var names = map[Code]string{
	OK:             "OK",
	Wait:           "WAIT",
	GoOn:           "GO_ON",
	Retreat:        "RETREAT",
	Injured:        "INJURED",
	NeedSupplies:   "NEED_SUPPLIES",
	AtMeetingPoint: "AT_MEETING_PT",
	SOS:            "SOS",
}

// String returns the human-readable name of the code, or Unknown for values
// outside the enumeration.
func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return Unknown
}

// Known reports whether the code belongs to the enumeration.
func (c Code) Known() bool {
	_, ok := names[c]
	return ok
}
