package roster

import (
	"strings"
	"sync"
	"testing"
	"time"

	vec2d "github.com/flywave/go3d/float64/vec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flywave/go-heatgrid"
)

var area = vec2d.Rect{Max: vec2d.T{100, 100}}

func sensors() []Sensor {
	return []Sensor{
		{Name: "sensor2", Position: vec2d.T{50, 10}},
		{Name: "sensor1", Position: vec2d.T{10, 10}},
		{Name: "sensor3", Position: vec2d.T{150, -5}},
	}
}

func TestNewRoster(t *testing.T) {
	a := assert.New(t)

	r := New(area, sensors())
	snap := r.Snapshot()
	a.Equal(uint64(0), snap.Version)
	require.Len(t, snap.Sensors, 3)
	a.Equal("sensor1", snap.Sensors[0].Name)
	a.Equal("sensor2", snap.Sensors[1].Name)
	a.Equal(vec2d.T{100, 0}, snap.Sensors[2].Position)
}

func TestApplyIsCopyOnWrite(t *testing.T) {
	a := assert.New(t)

	r := New(area, sensors())
	before := r.Snapshot()

	temp := 21.5
	a.True(r.Apply(Reading{Name: "sensor1", Temperature: &temp, Humidity: heatgrid.Float(40)}))
	a.False(r.Apply(Reading{Name: "ghost", Temperature: &temp}))
	temp = 99

	after := r.Snapshot()
	a.NotEqual(before.ID, after.ID)
	a.Equal(uint64(1), after.Version)
	a.Nil(before.Sensors[0].Temperature)
	a.Equal(21.5, *after.Sensors[0].Temperature)
	a.Equal(40.0, *after.Sensors[0].Humidity)
}

func TestApplyAll(t *testing.T) {
	a := assert.New(t)

	r := New(area, sensors())
	n := r.ApplyAll([]Reading{
		{Name: "sensor1", Temperature: heatgrid.Float(20)},
		{Name: "sensor3", Temperature: heatgrid.Float(22), Humidity: heatgrid.Float(55)},
		{Name: "ghost", Temperature: heatgrid.Float(0)},
	})
	a.Equal(2, n)
	a.Equal(uint64(1), r.Snapshot().Version)

	a.Equal(0, r.ApplyAll([]Reading{{Name: "ghost"}}))
	a.Equal(uint64(1), r.Snapshot().Version)
}

func TestSnapshotSamples(t *testing.T) {
	a := assert.New(t)

	r := New(area, sensors())
	r.Apply(Reading{Name: "sensor2", Temperature: heatgrid.Float(18), Humidity: heatgrid.Float(60)})
	r.Apply(Reading{Name: "sensor3", Temperature: heatgrid.Float(23)})

	snap := r.Snapshot()
	temps := snap.Samples(Temperature)
	require.Len(t, temps, 3)
	a.Nil(temps[0].Value)
	a.Equal(18.0, *temps[1].Value)
	a.Equal("sensor2", temps[1].ID)
	a.Equal(vec2d.T{50, 10}, temps[1].Position)

	hums := heatgrid.FilterValid(snap.Samples(Humidity))
	require.Len(t, hums, 1)
	a.Equal(60.0, *hums[0].Value)

	*temps[1].Value = 0
	a.Equal(18.0, *snap.Sensors[1].Temperature)
}

func TestMove(t *testing.T) {
	a := assert.New(t)

	r := New(area, sensors())
	a.True(r.Move("sensor1", vec2d.T{-20, 40}))
	a.False(r.Move("ghost", vec2d.T{1, 1}))
	a.Equal(vec2d.T{0, 40}, r.Snapshot().Sensors[0].Position)
}

func TestRosterConcurrentUpdates(t *testing.T) {
	a := assert.New(t)

	r := New(area, sensors())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(v float64) {
			defer wg.Done()
			r.Apply(Reading{Name: "sensor1", Temperature: heatgrid.Float(v)})
		}(float64(i))
		go func() {
			defer wg.Done()
			snap := r.Snapshot()
			_ = heatgrid.FilterValid(snap.Samples(Temperature))
		}()
	}
	wg.Wait()
	a.Equal(uint64(50), r.Snapshot().Version)
}

func TestParseChannel(t *testing.T) {
	a := assert.New(t)

	c, err := ParseChannel(" Humidity ")
	a.NoError(err)
	a.Equal(Humidity, c)

	_, err = ParseChannel("pressure")
	a.Error(err)
}

const historyJSON = `[
	{"name": "sensor1", "temperature": 20, "humidity": 40, "timeStamp": "2023-07-17T10:00:00Z"},
	{"name": "sensor2", "temperature": 22, "humidity": 45, "timeStamp": "2023-07-17T10:05:00"},
	{"name": "sensor1", "temperature": 21, "humidity": 41, "timeStamp": "2023-07-17T10:10:00Z"},
	{"name": "sensor3", "temperature": 25, "humidity": null, "timeStamp": "not a date"},
	{"name": "sensor2", "temperature": 23, "humidity": 46, "timeStamp": "2023-07-17T10:20:00Z"}
]`

func TestLoadHistory(t *testing.T) {
	a := assert.New(t)

	h, err := LoadHistory(strings.NewReader(historyJSON))
	require.NoError(t, err)
	a.Equal(4, h.Len())

	start := time.Date(2023, 7, 17, 10, 0, 0, 0, time.UTC)
	a.WithinDuration(start, h.TimeAt(-1), 0)
	a.WithinDuration(start, h.TimeAt(0), 0)
	a.WithinDuration(start.Add(20*time.Minute), h.TimeAt(3), 0)
	a.WithinDuration(start.Add(20*time.Minute), h.TimeAt(999999), 0)
	a.WithinDuration(start.Add(400*time.Second), h.TimeAt(1), 0)

	latest := h.LatestBefore(start.Add(10 * time.Minute))
	require.Len(t, latest, 2)
	a.Equal("sensor1", latest[0].Name)
	a.Equal(20.0, *latest[0].Temperature)
	a.Equal("sensor2", latest[1].Name)
	a.Equal(22.0, *latest[1].Temperature)

	a.Empty(h.LatestBefore(start))

	all := h.Latest()
	require.Len(t, all, 2)
	a.Equal(21.0, *all[0].Temperature)
	a.Equal(23.0, *all[1].Temperature)

	_, err = LoadHistory(strings.NewReader("{"))
	a.Error(err)
}

func TestNewHistoryDropsUndated(t *testing.T) {
	a := assert.New(t)

	h := NewHistory([]Reading{{Name: "a"}, {Name: "b", Timestamp: time.Unix(10, 0)}})
	a.Equal(1, h.Len())
	a.True(NewHistory(nil).TimeAt(3).IsZero())
}
