package sensing

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/agenttree/core"
)

// Sensable is an entity that sensors of the same Sense can detect. It is a
// core.Handle, so detections can be stored on a blackboard.
type Sensable struct {
	id    uuid.UUID
	name  string
	sense Sense

	mu  sync.RWMutex
	pos core.Vec3
}

// NewSensable creates a sensable at the given position.
func NewSensable(name string, sense Sense, pos core.Vec3) *Sensable {
	return &Sensable{id: uuid.New(), name: name, sense: sense, pos: pos}
}

// ID returns the unique identity of the sensable.
func (s *Sensable) ID() uuid.UUID { return s.id }

// HandleID implements core.Handle.
func (s *Sensable) HandleID() string { return s.id.String() }

// Name returns the display name.
func (s *Sensable) Name() string { return s.name }

// Sense returns the category the sensable can be detected by.
func (s *Sensable) Sense() Sense { return s.sense }

// Position returns the current position.
func (s *Sensable) Position() core.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos
}

// MoveTo updates the position.
func (s *Sensable) MoveTo(pos core.Vec3) {
	s.mu.Lock()
	s.pos = pos
	s.mu.Unlock()
}

// SensorOptions configures the bounding volume of a Sensor.
type SensorOptions struct {
	Shape    Shape
	Size     core.Vec3
	Radius   float64
	Position core.Vec3
}

// DefaultSensorOptions is a unit box at the origin.
var DefaultSensorOptions = SensorOptions{
	Shape:  Box,
	Size:   core.Vec3{X: 1, Y: 1, Z: 1},
	Radius: 1,
}

// Sensor detects sensables of its Sense inside its bounding volume.
type Sensor struct {
	id    uuid.UUID
	name  string
	sense Sense

	mu         sync.RWMutex
	opts       SensorOptions
	lastSensed []*Sensable
}

// NewSensor creates a sensor.
func NewSensor(name string, sense Sense, optFns ...func(o *SensorOptions)) *Sensor {
	opts := DefaultSensorOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Sensor{id: uuid.New(), name: name, sense: sense, opts: opts}
}

// ID returns the unique identity of the sensor.
func (s *Sensor) ID() uuid.UUID { return s.id }

// HandleID implements core.Handle.
func (s *Sensor) HandleID() string { return s.id.String() }

// Name returns the name leaf nodes look the sensor up by.
func (s *Sensor) Name() string { return s.name }

// Sense returns the sensor's category.
func (s *Sensor) Sense() Sense { return s.sense }

// Shape returns the bounding volume shape.
func (s *Sensor) Shape() Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.Shape
}

// Position returns the sensor's center.
func (s *Sensor) Position() core.Vec3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.Position
}

// MoveTo moves the sensor's center.
func (s *Sensor) MoveTo(pos core.Vec3) {
	s.mu.Lock()
	s.opts.Position = pos
	s.mu.Unlock()
}

// Contains reports whether p lies inside the bounding volume. Box bounds are
// inclusive.
func (s *Sensor) Contains(p core.Vec3) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.opts.Shape {
	case Sphere:
		return p.Sub(s.opts.Position).SqrMagnitude() <= s.opts.Radius*s.opts.Radius
	default:
		c, half := s.opts.Position, core.Vec3{X: s.opts.Size.X / 2, Y: s.opts.Size.Y / 2, Z: s.opts.Size.Z / 2}
		return p.X >= c.X-half.X && p.X <= c.X+half.X &&
			p.Y >= c.Y-half.Y && p.Y <= c.Y+half.Y &&
			p.Z >= c.Z-half.Z && p.Z <= c.Z+half.Z
	}
}

func (s *Sensor) setLastSensed(found []*Sensable) {
	s.mu.Lock()
	s.lastSensed = found
	s.mu.Unlock()
}

// LastSensed returns the sensables found by the most recent check.
func (s *Sensor) LastSensed() []*Sensable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Sensable, len(s.lastSensed))
	copy(out, s.lastSensed)
	return out
}
