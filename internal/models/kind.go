package models

import (
	"errors"
	"fmt"
)

// PostKind is the explicit tag for the two post namespaces. The numeric values
// match the wire `type` field of the AI services: 1 = family, 2 = missing.
type PostKind int

const (
	KindFamily  PostKind = 1
	KindMissing PostKind = 2
)

var ErrUnknownKind = errors.New("unknown post kind")

// KindFromType converts the wire `type` value into a PostKind.
func KindFromType(t int) (PostKind, error) {
	switch PostKind(t) {
	case KindFamily, KindMissing:
		return PostKind(t), nil
	default:
		return 0, fmt.Errorf("%w: type=%d", ErrUnknownKind, t)
	}
}

// ParsePostID resolves the kind from an id prefix. This is the single place
// where the prefix is interpreted; everything downstream carries the PostKind.
func ParsePostID(id string) (PostKind, error) {
	if len(id) < 2 {
		return 0, fmt.Errorf("%w: id %q too short", ErrUnknownKind, id)
	}
	switch id[0] {
	case 'm':
		return KindMissing, nil
	case 'f':
		return KindFamily, nil
	default:
		return 0, fmt.Errorf("%w: id %q", ErrUnknownKind, id)
	}
}

// Prefix returns the id prefix of the kind.
func (k PostKind) Prefix() string {
	if k == KindFamily {
		return "f"
	}
	return "m"
}

// Dir returns the image-store directory of the kind.
func (k PostKind) Dir() string {
	if k == KindFamily {
		return "family"
	}
	return "missing"
}

// Opposite returns the counterpart kind. Missing posts are matched against
// family posts and vice versa.
func (k PostKind) Opposite() PostKind {
	if k == KindFamily {
		return KindMissing
	}
	return KindFamily
}

func (k PostKind) String() string {
	return k.Dir()
}

// FormatPostID builds the canonical zero-padded id for a suffix number,
// e.g. (KindMissing, 3) -> "m0000003".
func FormatPostID(k PostKind, num int64) string {
	return fmt.Sprintf("%s%07d", k.Prefix(), num)
}
