package lighttool

import (
	"fmt"
	"strings"
)

// Kind is the type of light the tool creates.
type Kind int

const (
	Spot Kind = iota
	Directional
	Point
	Area
)

// Kinds lists every kind in menu order.
var Kinds = []Kind{Spot, Directional, Point, Area}

func (k Kind) String() string {
	switch k {
	case Spot:
		return "spot"
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Area:
		return "area"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses the lower-case kind names produced by String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spot":
		return Spot, nil
	case "directional":
		return Directional, nil
	case "point", "":
		return Point, nil
	case "area":
		return Area, nil
	}
	return Point, fmt.Errorf("lighttool: unknown light kind %q", s)
}
