package sensing

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/agenttree/core"
)

// Registry owns the sensors and sensables of one environment. All methods are
// safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	sensors   map[Sense][]*Sensor
	sensables map[Sense][]*Sensable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sensors:   make(map[Sense][]*Sensor),
		sensables: make(map[Sense][]*Sensable),
	}
}

// AddSensor registers a sensor under its sense. Adding the same sensor twice
// is a no-op.
func (r *Registry) AddSensor(s *Sensor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.sensors[s.sense], s) {
		return
	}
	r.sensors[s.sense] = append(r.sensors[s.sense], s)
}

// RemoveSensor deregisters a sensor and reports whether it was registered.
func (r *Registry) RemoveSensor(s *Sensor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.sensors[s.sense]
	i := slices.Index(list, s)
	if i < 0 {
		return false
	}
	r.sensors[s.sense] = slices.Delete(list, i, i+1)
	return true
}

// AddSensable registers a sensable under its sense.
func (r *Registry) AddSensable(s *Sensable) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.sensables[s.sense], s) {
		return
	}
	r.sensables[s.sense] = append(r.sensables[s.sense], s)
}

// RemoveSensable deregisters a sensable and reports whether it was registered.
func (r *Registry) RemoveSensable(s *Sensable) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.sensables[s.sense]
	i := slices.Index(list, s)
	if i < 0 {
		return false
	}
	r.sensables[s.sense] = slices.Delete(list, i, i+1)
	return true
}

// Find returns the first registered sensor with the given name.
func (r *Registry) Find(name string) (*Sensor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sense := range Senses() {
		for _, s := range r.sensors[sense] {
			if s.name == name {
				return s, true
			}
		}
	}
	return nil, false
}

// FindByID returns the sensor with the given identity.
func (r *Registry) FindByID(id uuid.UUID) (*Sensor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, list := range r.sensors {
		for _, s := range list {
			if s.id == id {
				return s, true
			}
		}
	}
	return nil, false
}

// All returns a copy of the sensors registered for sense, in registration order.
func (r *Registry) All(sense Sense) []*Sensor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.sensors[sense])
}

// Check scans the sensables of the sensor's sense, records the ones inside
// its bounding volume as the sensor's last sensed set and reports whether
// any was found.
func (r *Registry) Check(s *Sensor) bool {
	r.mu.RLock()
	candidates := slices.Clone(r.sensables[s.sense])
	r.mu.RUnlock()

	var found []*Sensable
	for _, c := range candidates {
		if s.Contains(c.Position()) {
			found = append(found, c)
		}
	}

	s.setLastSensed(found)

	return len(found) > 0
}

// LastSensed returns the sensables found by the sensor's most recent Check as handles.
func (r *Registry) LastSensed(s *Sensor) []core.Handle {
	last := s.LastSensed()
	out := make([]core.Handle, len(last))
	for i, l := range last {
		out[i] = l
	}
	return out
}
