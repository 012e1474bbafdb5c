package ifc

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// guidAlphabet is the 64-character set used by IFC compressed GUIDs.
const guidAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// NewGUID returns a fresh IfcGloballyUniqueId: a random UUID compressed to
// the 22-character base-64 form used in IFC files.
func NewGUID() string {
	return CompressGUID(uuid.New())
}

// CompressGUID encodes a UUID into the 22-character IFC form. The 128-bit
// value is read big-endian and emitted as 22 base-64 digits, most significant
// first; the leading digit carries only the top two bits.
func CompressGUID(u uuid.UUID) string {
	hi := binary.BigEndian.Uint64(u[0:8])
	lo := binary.BigEndian.Uint64(u[8:16])

	var out [22]byte
	for i := 21; i >= 0; i-- {
		out[i] = guidAlphabet[lo&63]
		lo = lo>>6 | (hi&63)<<58
		hi >>= 6
	}
	return string(out[:])
}

// ExpandGUID decodes a 22-character IFC GUID back into a UUID.
func ExpandGUID(s string) (uuid.UUID, error) {
	if len(s) != 22 {
		return uuid.UUID{}, fmt.Errorf("guid %q: want 22 characters, got %d", s, len(s))
	}

	var hi, lo uint64
	for i := 0; i < 22; i++ {
		d := guidDigit(s[i])
		if d < 0 {
			return uuid.UUID{}, fmt.Errorf("guid %q: invalid character %q", s, s[i])
		}
		hi = hi<<6 | lo>>58
		lo = lo<<6 | uint64(d)
	}

	var u uuid.UUID
	binary.BigEndian.PutUint64(u[0:8], hi)
	binary.BigEndian.PutUint64(u[8:16], lo)
	return u, nil
}

func guidDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36
	case c == '_':
		return 62
	case c == '$':
		return 63
	}
	return -1
}
