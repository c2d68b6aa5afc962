package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[area]
width = 40
height = 40
accuracy = 10

[sensor "sensor1"]
x = 0
y = 0

[sensor "sensor2"]
x = 40
y = 0

[sensor "sensor3"]
x = 0
y = 40

[channel "humidity"]
algorithm = idw
power = 2
`

const testHistory = `[
	{"name": "sensor1", "temperature": 20, "humidity": 40, "timeStamp": "2023-07-17T10:00:00Z"},
	{"name": "sensor2", "temperature": 24, "humidity": 40, "timeStamp": "2023-07-17T10:01:00Z"},
	{"name": "sensor3", "temperature": 28, "humidity": 40, "timeStamp": "2023-07-17T10:02:00Z"},
	{"name": "sensor1", "temperature": 21, "humidity": 50, "timeStamp": "2023-07-17T10:03:00Z"}
]`

func writeFiles(t *testing.T) (string, string) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "heatgrid.gcfg")
	hist := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(cfg, []byte(testConfig), 0o644))
	require.NoError(t, os.WriteFile(hist, []byte(testHistory), 0o644))
	return cfg, hist
}

func TestRunLatest(t *testing.T) {
	a := assert.New(t)
	cfg, hist := writeFiles(t)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-config", cfg, "-history", hist}, &stdout, &stderr))

	var doc document
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	require.Len(t, doc.Channels, 2)

	temp := doc.Channels[0]
	a.Equal("temperature", string(temp.Channel))
	a.Equal("kriging/exponential", temp.Algorithm)
	require.NotNil(t, temp.Grid)
	a.Equal(4, temp.Grid.Rows)
	a.Equal(21.0, temp.Grid.Value(0, 0))

	hum := doc.Channels[1]
	a.Equal("idw/double", hum.Algorithm)
	require.NotNil(t, hum.Grid)
	a.Equal(50.0, hum.Grid.Value(0, 0))

	a.Contains(stderr.String(), "snapshot ready")
}

func TestRunAtTime(t *testing.T) {
	a := assert.New(t)
	cfg, hist := writeFiles(t)

	var stdout, stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "grid.json")
	require.NoError(t, run([]string{"-config", cfg, "-history", hist, "-at", "2023-07-17T10:02:30Z", "-out", out}, &stdout, &stderr))
	a.Empty(stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))

	require.NotNil(t, doc.Channels[0].Grid)
	a.Equal(20.0, doc.Channels[0].Grid.Value(0, 0))

	hum := doc.Channels[1]
	a.Nil(hum.Grid)
	require.NotNil(t, hum.Degenerate)
	a.Equal("uniform_field", string(hum.Degenerate.Reason))
	a.Len(hum.Degenerate.Samples, 3)
}

func TestRunErrors(t *testing.T) {
	a := assert.New(t)
	cfg, hist := writeFiles(t)

	var stdout, stderr bytes.Buffer
	a.Error(run([]string{"-config", cfg}, &stdout, &stderr))
	a.Error(run([]string{"-config", cfg, "-history", filepath.Join(t.TempDir(), "none.json")}, &stdout, &stderr))
	a.Error(run([]string{"-config", cfg, "-history", hist, "-at", "yesterday"}, &stdout, &stderr))

	out := filepath.Join(t.TempDir(), "grid.json")
	err := run([]string{"-config", cfg, "-history", hist, "-at", "2023-07-17T10:02:30Z", "-index", "1", "-out", out}, &stdout, &stderr)
	a.ErrorContains(err, "mutually exclusive")
	a.NoFileExists(out)

	a.Error(run([]string{"-config", cfg, "-history", hist, "-out", filepath.Join(t.TempDir(), "missing", "grid.json")}, &stdout, &stderr))
}

func TestWriteDocument(t *testing.T) {
	a := assert.New(t)
	doc := document{Run: "run", Snapshot: "snap"}

	var buf bytes.Buffer
	a.NoError(writeDocument(doc, "", &buf))
	a.Contains(buf.String(), `"run": "run"`)

	out := filepath.Join(t.TempDir(), "grid.json")
	buf.Reset()
	require.NoError(t, writeDocument(doc, out, &buf))
	a.Zero(buf.Len())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got document
	require.NoError(t, json.Unmarshal(data, &got))
	a.Equal("snap", got.Snapshot)

	a.Error(writeDocument(doc, t.TempDir(), &buf))
}
