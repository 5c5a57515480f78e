package sensing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSense is returned when a sense name cannot be parsed.
var ErrUnknownSense = errors.New("unknown sense")

// Sense is the category shared by sensors and the sensables they can detect.
type Sense int

const (
	Sight Sense = iota
	Hearing
	Smell
	Tactile
	Taste
	Sixth
)

var senseNames = [...]string{"Sight", "Hearing", "Smell", "Tactile", "Taste", "Sixth"}

// Senses returns every sense in declaration order.
func Senses() []Sense {
	return []Sense{Sight, Hearing, Smell, Tactile, Taste, Sixth}
}

func (s Sense) String() string {
	if s < 0 || int(s) >= len(senseNames) {
		return fmt.Sprintf("Sense(%d)", int(s))
	}
	return senseNames[s]
}

// ParseSense parses a sense name case-insensitively.
func ParseSense(name string) (Sense, error) {
	name = strings.TrimSpace(name)
	for i, n := range senseNames {
		if strings.EqualFold(n, name) {
			return Sense(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSense, name)
}

// Shape is the bounding volume a sensor checks.
type Shape int

const (
	// Box is an axis aligned box centered on the sensor.
	Box Shape = iota
	// Sphere is a sphere of Radius around the sensor.
	Sphere
)

func (s Shape) String() string {
	switch s {
	case Box:
		return "Box"
	case Sphere:
		return "Sphere"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}
