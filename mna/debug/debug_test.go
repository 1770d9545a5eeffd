package debug

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	_ "circuitcore/element"
	"circuitcore/maths"
	"circuitcore/mna"

	"github.com/stretchr/testify/require"
)

// 0:GND 1:n1 2:V1 3:R1
func newCircuit(t *testing.T) *mna.Circuit {
	t.Helper()
	c, err := mna.Assemble(mna.Topology{
		{Type: "GND", Name: "0"},
		{Type: "NODE", Name: "n1"},
		{Type: "V", Name: "V1", Params: []string{"2"}, Pins: []mna.Pin{{Component: 1}, {Component: 0}}},
		{Type: "R", Name: "R1", Params: []string{"1k"}, Pins: []mna.Pin{{Component: 1}, {Component: 0}}},
	})
	require.NoError(t, err)
	return c
}

func column(values ...float64) *maths.Matrix {
	m := maths.New(len(values), 1)
	for i, v := range values {
		m.Set(i, 0, v)
	}
	return m
}

func filled(t *testing.T) *Record {
	r := NewRecord(newCircuit(t))
	require.NoError(t, r.Update(0, column(0, 2, -2e-3, 2e-3)))
	require.NoError(t, r.Update(0.5, column(0, 2, -2e-3, 2e-3)))
	return r
}

func TestNewRecord(t *testing.T) {
	r := NewRecord(newCircuit(t))
	require.Equal(t, []string{"0", "n1", "V1", "R1"}, r.Elements)
	require.Equal(t, []string{"GND", "NODE", "V", "R"}, r.Kinds)
	require.Equal(t, []string{"V(0)", "V(n1)", "I(V1)", "I(R1)"}, r.Labels)
	require.Equal(t, []int{0, 1}, r.Voltage)
	require.Equal(t, []int{2, 3}, r.Current)
	require.Equal(t, []Link{
		{Source: 2, Target: 1, Pin: 0},
		{Source: 2, Target: 0, Pin: 1},
		{Source: 3, Target: 1, Pin: 0},
		{Source: 3, Target: 0, Pin: 1},
	}, r.Links)
}

func TestUpdate(t *testing.T) {
	r := filled(t)
	require.Equal(t, 2, r.Len())
	require.Equal(t, []float64{0, 0.5}, r.Time)
	require.Len(t, r.Incentive, 2)
	require.Equal(t, 2.0, r.Incentive[0][2])

	s, ok := r.Series("v(n1)")
	require.True(t, ok)
	require.Equal(t, []float64{2, 2}, s)
	_, ok = r.Series("V(n9)")
	require.False(t, ok)

	// 记录的是副本
	x := column(1, 2, 3, 4)
	require.NoError(t, r.Update(1, x))
	x.Set(0, 0, 9)
	require.Equal(t, 1.0, r.Values[2][0])
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, filled(t).Render(&buf))
	var out Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, []float64{0, 0.5}, out.Time)
	require.Equal(t, []string{"V(0)", "V(n1)", "I(V1)", "I(R1)"}, out.Labels)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, filled(t).WriteCSV(&buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"time", "V(0)", "V(n1)", "I(V1)", "I(R1)"},
		{"0", "0", "2", "-0.002", "0.002"},
		{"0.5", "0", "2", "-0.002", "0.002"},
	}, rows)
}

func TestChartsRender(t *testing.T) {
	c := &Charts{Record: filled(t)}
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	require.Contains(t, buf.String(), "echarts")

	rec := httptest.NewRecorder()
	c.Handler(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "echarts"))
}

func TestPlot(t *testing.T) {
	r := filled(t)
	var buf bytes.Buffer
	require.NoError(t, r.Plot(&buf, "png"))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	buf.Reset()
	require.NoError(t, r.Plot(&buf, "svg", "I(R1)"))
	require.Contains(t, buf.String(), "<svg")

	require.Error(t, r.Plot(&buf, "png", "V(n9)"))
	require.Error(t, r.Plot(&buf, "bmp9"))
	require.Equal(t, []int{0, 1}, r.Voltage)
}
