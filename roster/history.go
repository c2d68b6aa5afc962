package roster

import (
	"encoding/json"
	"io"
	"sort"
	"time"
)

// Reading is one historical or pushed measurement of a sensor.
type Reading struct {
	Name        string    `json:"name"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	Timestamp   time.Time `json:"timeStamp"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// History holds readings ordered by timestamp.
type History struct {
	readings []Reading
}

// NewHistory drops readings without a timestamp and sorts the rest.
func NewHistory(readings []Reading) *History {
	h := &History{readings: make([]Reading, 0, len(readings))}
	for _, rd := range readings {
		if !rd.Timestamp.IsZero() {
			h.readings = append(h.readings, rd)
		}
	}
	sort.SliceStable(h.readings, func(i, j int) bool {
		return h.readings[i].Timestamp.Before(h.readings[j].Timestamp)
	})
	return h
}

// LoadHistory decodes a JSON array of readings. Entries whose timestamp
// cannot be parsed are skipped.
func LoadHistory(r io.Reader) (*History, error) {
	var raw []struct {
		Name        string   `json:"name"`
		Temperature *float64 `json:"temperature"`
		Humidity    *float64 `json:"humidity"`
		Timestamp   string   `json:"timeStamp"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	readings := make([]Reading, 0, len(raw))
	for _, e := range raw {
		ts, ok := parseTimestamp(e.Timestamp)
		if !ok {
			continue
		}
		readings = append(readings, Reading{Name: e.Name, Temperature: e.Temperature, Humidity: e.Humidity, Timestamp: ts})
	}
	return NewHistory(readings), nil
}

func (h *History) Len() int {
	return len(h.readings)
}

// TimeAt maps a scrub position in [0, Len()-1] linearly onto the recorded
// time span. Out of range indexes are clamped.
func (h *History) TimeAt(index int) time.Time {
	n := len(h.readings)
	if n == 0 {
		return time.Time{}
	}
	first, last := h.readings[0].Timestamp, h.readings[n-1].Timestamp
	if n == 1 || index <= 0 {
		return first
	}
	if index >= n-1 {
		return last
	}
	span := last.Sub(first)
	return first.Add(time.Duration(float64(index) * float64(span) / float64(n-1)))
}

// LatestBefore returns, per sensor, the most recent reading taken strictly
// before t, ordered by sensor name.
func (h *History) LatestBefore(t time.Time) []Reading {
	latest := map[string]Reading{}
	for _, rd := range h.readings {
		if !rd.Timestamp.Before(t) {
			break
		}
		latest[rd.Name] = rd
	}
	return sortedReadings(latest)
}

// Latest returns the most recent reading of every sensor.
func (h *History) Latest() []Reading {
	latest := map[string]Reading{}
	for _, rd := range h.readings {
		latest[rd.Name] = rd
	}
	return sortedReadings(latest)
}

func sortedReadings(m map[string]Reading) []Reading {
	ret := make([]Reading, 0, len(m))
	for _, rd := range m {
		ret = append(ret, rd)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}
