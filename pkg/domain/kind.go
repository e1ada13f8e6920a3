package domain

import (
	"fmt"
	"strings"
)

// Kind is the action carried by a token. KindNone is only used as an
// event payload meaning "no action this turn".
type Kind uint8

const (
	KindNone Kind = iota
	KindForward
	KindBackward
	KindLeft
	KindRight
)

var kindNames = map[Kind]string{
	KindNone:     "none",
	KindForward:  "forward",
	KindBackward: "backward",
	KindLeft:     "left",
	KindRight:    "right",
}

// String returns the lower-case name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k can be carried by a token
func (k Kind) Valid() bool {
	return k >= KindForward && k <= KindRight
}

// ParseKind parses a token kind name. MOVE_ prefixed spellings are accepted.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "move_")
	for k, n := range kindNames {
		if n == name && k.Valid() {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown action kind: %q", s)
}

// ParseKinds parses a list of kind names
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	if strings.EqualFold(string(text), "none") {
		*k = KindNone
		return nil
	}
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
