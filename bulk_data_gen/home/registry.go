package home

import (
	"github.com/pkg/errors"
)

var ErrKindMismatch = errors.New("sensor kind does not match its id prefix")

// Entry is a registered sensor. Kind is fixed when the entry is added and
// drives dispatch.
type Entry struct {
	Id     string
	Kind   Kind
	Sensor Sensor
}

// Registry is the ordered set of sensors of a home. Sensors are processed
// in insertion order.
type Registry struct {
	entries []*Entry
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

func check(id string, s Sensor) (Kind, error) {
	k := KindOf(id)
	if k == KindUnknown {
		return k, errors.Wrapf(ErrKindMismatch, "sensor %q has no known prefix", id)
	}
	if s == nil || s.Kind() != k || !implements(k, s) {
		return k, errors.Wrapf(ErrKindMismatch, "sensor %q wants a %s sensor", id, k)
	}
	return k, nil
}

// Set adds a sensor, or replaces the sensor registered under id in place.
func (r *Registry) Set(id string, s Sensor) error {
	k, err := check(id, s)
	if err != nil {
		return err
	}
	if i, ok := r.index[id]; ok {
		r.entries[i] = &Entry{Id: id, Kind: k, Sensor: s}
		return nil
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, &Entry{Id: id, Kind: k, Sensor: s})
	return nil
}

// Remove drops a sensor; it reports whether id was registered.
func (r *Registry) Remove(id string) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.entries); j++ {
		r.index[r.entries[j].Id] = j
	}
	return true
}

// Clone returns a registry of copies of every sensor implementing Cloner.
// Other sensors are shared with r.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		entries: make([]*Entry, len(r.entries)),
		index:   make(map[string]int, len(r.index)),
	}
	for i, e := range r.entries {
		s := e.Sensor
		if cl, ok := s.(Cloner); ok {
			s = cl.Clone()
		}
		c.entries[i] = &Entry{Id: e.Id, Kind: e.Kind, Sensor: s}
		c.index[e.Id] = i
	}
	return c
}

func (r *Registry) Get(id string) (Sensor, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.entries[i].Sensor, true
}

func (r *Registry) Entries() []*Entry {
	return r.entries
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Count returns the number of sensors of a kind.
func (r *Registry) Count(k Kind) int {
	n := 0
	for _, e := range r.entries {
		if e.Kind == k {
			n++
		}
	}
	return n
}
