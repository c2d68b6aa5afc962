// Package roster owns the live sensor list and hands the engine immutable
// snapshots of it.
package roster

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/google/uuid"

	"github.com/flywave/go-heatgrid"
)

type Channel string

const (
	Temperature Channel = "temperature"
	Humidity    Channel = "humidity"
)

var Channels = []Channel{Temperature, Humidity}

func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case Temperature, Humidity:
		return c, nil
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

type Sensor struct {
	Name        string   `json:"name"`
	Position    vec2d.T  `json:"position"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

func (s Sensor) Value(ch Channel) *float64 {
	switch ch {
	case Temperature:
		return s.Temperature
	case Humidity:
		return s.Humidity
	}
	return nil
}

// Snapshot is a frozen copy of the roster. It must not be modified.
type Snapshot struct {
	ID      uuid.UUID `json:"id"`
	Version uint64    `json:"version"`
	Sensors []Sensor  `json:"sensors"`
}

// Samples projects one channel onto engine samples. Sensors that have not
// reported the channel yet are kept with an absent value.
func (s *Snapshot) Samples(ch Channel) []heatgrid.Sample {
	ret := make([]heatgrid.Sample, len(s.Sensors))
	for i, sensor := range s.Sensors {
		ret[i] = heatgrid.Sample{
			ID:       sensor.Name,
			Position: sensor.Position,
			Value:    copyFloat(sensor.Value(ch)),
		}
	}
	return ret
}

func (s *Snapshot) index(name string) int {
	for i := range s.Sensors {
		if s.Sensors[i].Name == name {
			return i
		}
	}
	return -1
}

// Roster is safe for concurrent use. Every update publishes a new snapshot;
// snapshots already handed out never change.
type Roster struct {
	mu      sync.Mutex
	area    vec2d.Rect
	current atomic.Pointer[Snapshot]
}

// New builds a roster over the area. Sensor positions are clamped into the
// area and the list is ordered by name.
func New(area vec2d.Rect, sensors []Sensor) *Roster {
	r := &Roster{area: area}
	list := make([]Sensor, len(sensors))
	for i, s := range sensors {
		list[i] = Sensor{
			Name:        s.Name,
			Position:    heatgrid.Clamp(s.Position, area),
			Temperature: copyFloat(s.Temperature),
			Humidity:    copyFloat(s.Humidity),
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	r.current.Store(&Snapshot{ID: uuid.New(), Sensors: list})
	return r
}

func (r *Roster) Snapshot() *Snapshot {
	return r.current.Load()
}

// Apply stores a reading on the sensor with the same name. Readings for
// unknown sensors are dropped and reported as false.
func (r *Roster) Apply(rd Reading) bool {
	return r.update(func(s *Snapshot) bool {
		i := s.index(rd.Name)
		if i < 0 {
			return false
		}
		s.Sensors[i].Temperature = copyFloat(rd.Temperature)
		s.Sensors[i].Humidity = copyFloat(rd.Humidity)
		return true
	})
}

// ApplyAll applies the readings as one update and returns how many matched
// a sensor.
func (r *Roster) ApplyAll(rds []Reading) int {
	var n int
	r.update(func(s *Snapshot) bool {
		for _, rd := range rds {
			if i := s.index(rd.Name); i >= 0 {
				s.Sensors[i].Temperature = copyFloat(rd.Temperature)
				s.Sensors[i].Humidity = copyFloat(rd.Humidity)
				n++
			}
		}
		return n > 0
	})
	return n
}

// Move repositions a sensor, constrained to the area.
func (r *Roster) Move(name string, pos vec2d.T) bool {
	return r.update(func(s *Snapshot) bool {
		i := s.index(name)
		if i < 0 {
			return false
		}
		s.Sensors[i].Position = heatgrid.Clamp(pos, r.area)
		return true
	})
}

func (r *Roster) update(fn func(*Snapshot) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current.Load()
	next := &Snapshot{Version: cur.Version + 1, Sensors: make([]Sensor, len(cur.Sensors))}
	copy(next.Sensors, cur.Sensors)
	if !fn(next) {
		return false
	}
	next.ID = uuid.New()
	r.current.Store(next)
	return true
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
