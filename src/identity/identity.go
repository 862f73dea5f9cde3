// Package identity defines the 6-byte link address that uniquely identifies a
// node in the broadcast domain, and a provider that derives the local address
// from a network interface at startup.
package identity

import (
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// Size is the width of a link address in bytes.
const Size = 6

// Identity is the hardware address of a node on the radio link. Identities
// carry no ordering semantics; they are only compared for equality.
type Identity [Size]byte

// FromBytes builds an Identity from a raw byte slice. It returns an error if
// the slice is not exactly Size bytes long.
func FromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != Size {
		return id, fmt.Errorf("identity must be %d bytes, got %d", Size, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Parse reads an Identity from its textual form, "aa:bb:cc:dd:ee:ff". Dashes
// are accepted in place of colons.
func Parse(s string) (Identity, error) {
	var id Identity

	s = strings.ReplaceAll(strings.ToLower(s), "-", ":")
	parts := strings.Split(s, ":")
	if len(parts) != Size {
		return id, fmt.Errorf("identity %q must have %d octets", s, Size)
	}

	for i, p := range parts {
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return id, fmt.Errorf("identity %q has a bad octet %q", s, p)
		}
		id[i] = b[0]
	}

	return id, nil
}

// String renders the Identity in colon-separated hex.
func (id Identity) String() string {
	parts := make([]string, Size)
	for i, b := range id {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ":")
}

// Bytes returns a copy of the raw address.
func (id Identity) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// Local resolves the local Identity from the hardware address of a network
// interface. If iface is empty, the first non-loopback interface with a 6-byte
// hardware address is used. It is called once at initialisation.
func Local(iface string) (Identity, error) {
	if iface != "" {
		ifi, err := net.InterfaceByName(iface)
		if err != nil {
			return Identity{}, err
		}
		return FromBytes(ifi.HardwareAddr)
	}

	ifis, err := net.Interfaces()
	if err != nil {
		return Identity{}, err
	}

	for _, ifi := range ifis {
		if ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(ifi.HardwareAddr) != Size {
			continue
		}
		return FromBytes(ifi.HardwareAddr)
	}

	return Identity{}, fmt.Errorf("no interface with a %d-byte hardware address", Size)
}
