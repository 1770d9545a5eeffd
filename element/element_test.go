package element_test

import (
	"context"
	"math"
	"testing"

	"circuitcore/element"
	"circuitcore/maths"
	"circuitcore/mna"
	"circuitcore/simulation"

	"github.com/stretchr/testify/require"
)

func pins(idx ...int) []mna.Pin {
	out := make([]mna.Pin, len(idx))
	for i, c := range idx {
		out[i] = mna.Pin{Component: c}
	}
	return out
}

// withNodes 前三个元件固定为 0:GND 1:n1 2:n2
func withNodes(parts ...mna.Component) mna.Topology {
	topo := mna.Topology{
		{Type: "GND", Name: "0"},
		{Type: "NODE", Name: "n1"},
		{Type: "NODE", Name: "n2"},
	}
	return append(topo, parts...)
}

// operatingPoint 单步求解
func operatingPoint(t *testing.T, topo mna.Topology) []float64 {
	t.Helper()
	s, err := simulation.Assemble(topo)
	require.NoError(t, err)
	var x []float64
	_, err = s.Run(context.Background(), 0, 0, 1, func(_ float64, v *maths.Matrix) error {
		x = v.Column(0)
		return nil
	})
	require.NoError(t, err)
	return x
}

// transient 逐步记录解向量
func transient(t *testing.T, topo mna.Topology, end, step float64) ([]float64, [][]float64) {
	t.Helper()
	s, err := simulation.Assemble(topo)
	require.NoError(t, err)
	var times []float64
	var xs [][]float64
	_, err = s.Run(context.Background(), 0, end, step, func(tm float64, v *maths.Matrix) error {
		times = append(times, tm)
		xs = append(xs, v.Column(0))
		return nil
	})
	require.NoError(t, err)
	return times, xs
}

func TestRegisteredTypes(t *testing.T) {
	types := mna.DefaultRegistry.Types()
	for _, name := range []string{"NODE", "GND", "R", "C", "L", "SW", "V", "VAC", "VTRI", "VSAW", "VSQ", "I", "IAC", "E", "G", "F", "H", "XFMR"} {
		require.Contains(t, types, name)
	}
	el, ok := mna.DefaultRegistry.Lookup("vac")
	require.True(t, ok)
	require.Same(t, element.ACVoltageType, el)
	require.Len(t, el.Params(), 4)
	require.Equal(t, "50", el.Params()[1].Default)
}

func TestResistorStamp(t *testing.T) {
	c, err := mna.Assemble(withNodes(mna.Component{Type: "R", Name: "R1", Params: []string{"2k"}, Pins: pins(1, 2)}))
	require.NoError(t, err)
	f := c.System.F
	// KCL 行
	require.Equal(t, 1.0, f.Get(1, 3))
	require.Equal(t, -1.0, f.Get(2, 3))
	// 支路行
	require.Equal(t, 1.0, f.Get(3, 1))
	require.Equal(t, -1.0, f.Get(3, 2))
	require.Equal(t, -2000.0, f.Get(3, 3))
	// 接地的KCL行不写入
	require.Equal(t, 1.0, f.Get(0, 0))
	require.Len(t, c.System.Claims(1), 1)
	require.Nil(t, c.Bindings[3].Iterator)
}

func TestGroundPinsSkipKCL(t *testing.T) {
	c, err := mna.Assemble(withNodes(mna.Component{Type: "R", Params: []string{"1k"}, Pins: pins(1, 0)}))
	require.NoError(t, err)
	for _, cell := range c.System.Claims(4) {
		require.NotEqual(t, 0, cell.Row, "ground row written: %s", cell)
	}
	require.Equal(t, -1.0, c.System.F.Get(3, 0))
}

func TestVoltageDivider(t *testing.T) {
	x := operatingPoint(t, withNodes(
		mna.Component{Type: "V", Name: "V1", Params: []string{"12"}, Pins: pins(1, 0)},
		mna.Component{Type: "R", Params: []string{"2k"}, Pins: pins(1, 2)},
		mna.Component{Type: "R", Params: []string{"1k"}, Pins: pins(2, 0)},
	))
	require.InDelta(t, 12, x[1], 1e-12)
	require.InDelta(t, 4, x[2], 1e-12)
	require.InDelta(t, -4e-3, x[3], 1e-15)
}

func TestCurrentSource(t *testing.T) {
	// 0:GND 1:n1 2:I1 3:R，不能留悬空节点
	x := operatingPoint(t, mna.Topology{
		{Type: "GND", Name: "0"},
		{Type: "NODE", Name: "n1"},
		{Type: "I", Name: "I1", Params: []string{"2m"}, Pins: pins(0, 1)},
		{Type: "R", Params: []string{"1k"}, Pins: pins(1, 0)},
	})
	require.Len(t, x, 4)
	require.InDelta(t, 2, x[1], 1e-12)
	require.InDelta(t, 2e-3, x[2], 1e-15)
	require.InDelta(t, 2e-3, x[3], 1e-15)

	x = operatingPoint(t, mna.Topology{{Type: "I", Params: []string{"3m"}}})
	require.Equal(t, []float64{3e-3}, x)
}

func TestControlledSources(t *testing.T) {
	tests := []struct {
		name string
		part mna.Component
		want float64
	}{
		{"vcvs", mna.Component{Type: "E", Params: []string{"3"}, Pins: pins(2, 0, 1, 0)}, 6},
		{"vccs", mna.Component{Type: "G", Params: []string{"1m"}, Pins: pins(2, 0, 1, 0)}, -2},
		// 控制引脚指向 R1（序号4）的电流支路，I(R1) = 2mA
		{"cccs", mna.Component{Type: "F", Params: []string{"2"}, Pins: pins(2, 0, 4)}, -4},
		{"ccvs", mna.Component{Type: "H", Params: []string{"500"}, Pins: pins(2, 0, 4)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := operatingPoint(t, withNodes(
				mna.Component{Type: "V", Params: []string{"2"}, Pins: pins(1, 0)},
				mna.Component{Type: "R", Name: "R1", Params: []string{"1k"}, Pins: pins(1, 0)},
				mna.Component{Type: "R", Name: "RL", Params: []string{"1k"}, Pins: pins(2, 0)},
				tt.part,
			))
			require.InDelta(t, 2e-3, x[4], 1e-15)
			require.InDelta(t, tt.want, x[2], 1e-12)
		})
	}
}

func TestControlPinOnNode(t *testing.T) {
	for _, typ := range []string{"F", "H"} {
		for _, target := range []int{0, 1} {
			_, err := mna.Assemble(withNodes(
				mna.Component{Type: "R", Params: []string{"1k"}, Pins: pins(1, 2)},
				mna.Component{Type: typ, Pins: pins(2, 0, target)},
			))
			require.ErrorIs(t, err, mna.ErrInvalidPin, "%s -> %d", typ, target)
		}
	}
}

func TestTransformer(t *testing.T) {
	topo := withNodes(
		mna.Component{Type: "V", Params: []string{"10"}, Pins: pins(1, 0)},
		mna.Component{Type: "XFMR", Name: "X1", Params: []string{"2"}, Pins: pins(1, 0, 2, 0)},
		mna.Component{Type: "R", Params: []string{"100"}, Pins: pins(2, 0)},
	)
	c, err := mna.Assemble(topo)
	require.NoError(t, err)
	require.Equal(t, "I1(X1)", c.Labels()[4])
	require.Equal(t, "I2(X1)", c.Labels()[5])

	x := operatingPoint(t, topo)
	require.InDelta(t, 5, x[2], 1e-12)
	require.InDelta(t, 0.025, x[4], 1e-12)
	require.InDelta(t, -0.05, x[5], 1e-12)
}

func TestSwitch(t *testing.T) {
	divider := func(closed string) []float64 {
		return operatingPoint(t, withNodes(
			mna.Component{Type: "V", Params: []string{"10"}, Pins: pins(1, 0)},
			mna.Component{Type: "SW", Params: []string{closed}, Pins: pins(1, 2)},
			mna.Component{Type: "R", Params: []string{"1k"}, Pins: pins(2, 0)},
		))
	}
	require.InDelta(t, 10, divider("1")[2], 1e-4)
	require.InDelta(t, 0, divider("0")[2], 1e-4)
}

func TestRCCharging(t *testing.T) {
	const rc = 1e-3
	times, xs := transient(t, withNodes(
		mna.Component{Type: "V", Params: []string{"1"}, Pins: pins(1, 0)},
		mna.Component{Type: "R", Params: []string{"1k"}, Pins: pins(1, 2)},
		mna.Component{Type: "C", Params: []string{"1u"}, Pins: pins(2, 0)},
	), 3e-3, 1e-5)
	for i, tm := range times {
		require.InDelta(t, 1-math.Exp(-tm/rc), xs[i][2], 1e-4, "t=%g", tm)
		// 电容电流 C·dV/dt
		require.InDelta(t, math.Exp(-tm/rc)/1e3, xs[i][5], 1e-6, "t=%g", tm)
	}
}

func TestCapacitorInitialCondition(t *testing.T) {
	times, xs := transient(t, mna.Topology{
		{Type: "GND"},
		{Type: "NODE", Name: "n1"},
		{Type: "R", Params: []string{"1k"}, Pins: pins(1, 0)},
		{Type: "C", Params: []string{"1u", "2"}, Pins: pins(1, 0)},
	}, 2e-3, 1e-5)
	require.InDelta(t, 2, xs[0][1], 1e-12)
	require.InDelta(t, -2e-3, xs[0][3], 1e-12)
	for i, tm := range times {
		require.InDelta(t, 2*math.Exp(-tm/1e-3), xs[i][1], 1e-4, "t=%g", tm)
	}
}

func TestRLCurrent(t *testing.T) {
	const tau = 1e-3
	times, xs := transient(t, withNodes(
		mna.Component{Type: "V", Params: []string{"1"}, Pins: pins(1, 0)},
		mna.Component{Type: "R", Params: []string{"1k"}, Pins: pins(1, 2)},
		mna.Component{Type: "L", Params: []string{"1"}, Pins: pins(2, 0)},
	), 3e-3, 1e-5)
	require.InDelta(t, 0, xs[0][5], 1e-15)
	for i, tm := range times {
		require.InDelta(t, (1-math.Exp(-tm/tau))/1e3, xs[i][5], 1e-7, "t=%g", tm)
	}
}

func TestFloatingCapacitor(t *testing.T) {
	c, err := mna.Assemble(mna.Topology{{Type: "C"}})
	require.NoError(t, err)
	require.Equal(t, 1.0, c.System.F.Get(0, 0))
	require.Nil(t, c.Bindings[0].Iterator)
	require.Equal(t, []float64{0}, operatingPoint(t, mna.Topology{{Type: "C"}}))
}

func TestIsolatedACSource(t *testing.T) {
	c, err := mna.Assemble(mna.Topology{{Type: "NODE"}, {Type: "VAC", Params: []string{"10", "1", "0", "90"}}})
	require.NoError(t, err)
	sys := c.System
	// 占位值等于标记
	require.Equal(t, 2.0, sys.S.Get(1, 0))
	require.Equal(t, 1.0, sys.F.Get(1, 1))

	c.Bindings[1].Iterator.Iterate(mna.Instant{Time: 0})
	require.InDelta(t, 10, sys.S.Get(1, 0), 1e-12)
	require.Equal(t, []mna.Cell{{Target: mna.TargetF, Row: 1, Col: 1}, {Target: mna.TargetS, Row: 1}}, sys.Claims(2))
}

func TestWaveforms(t *testing.T) {
	periodic := []float64{5, 50, 0, 0, 0.25}
	tests := []struct {
		name string
		wf   element.Waveform
		p    []float64
		t    float64
		want float64
	}{
		{"dc", element.WfDC, []float64{3}, 1, 3},
		{"ac peak", element.WfAC, periodic, 0.005, 5},
		{"ac phase", element.WfAC, []float64{2, 1, 1, 90}, 0, 3},
		{"square high", element.WfSquare, periodic, 0.001, 5},
		{"square low", element.WfSquare, periodic, 0.01, -5},
		{"triangle start", element.WfTriangle, periodic, 0, -5},
		{"triangle mid", element.WfTriangle, periodic, 0.005, 0},
		{"sawtooth start", element.WfSawtooth, periodic, 0, -5},
		{"sawtooth quarter", element.WfSawtooth, periodic, 0.005, -2.5},
		{"negative time", element.WfSawtooth, periodic, -0.015, -2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, tt.wf.Value(tt.p, tt.t), 1e-9)
		})
	}
}

func TestLabels(t *testing.T) {
	c, err := mna.Assemble(withNodes(
		mna.Component{Type: "V", Name: "Vin", Pins: pins(1, 0)},
		mna.Component{Type: "R", Pins: pins(1, 2)},
	))
	require.NoError(t, err)
	require.Equal(t, []string{"V(0)", "V(n1)", "V(n2)", "I(Vin)", "I(R5)"}, c.Labels())
}

func TestInvalidParam(t *testing.T) {
	_, err := mna.Assemble(mna.Topology{{Type: "R", Params: []string{"1kF"}}})
	require.Error(t, err)
	_, err = mna.Assemble(mna.Topology{{Type: "C", Params: []string{"1u", "0", "9"}}})
	require.ErrorIs(t, err, mna.ErrInvalidParams)
}

// 0:GND 1:n1 2:n2 3:VAC 4:R 5:C 6:L
func storageCircuit(t *testing.T) *mna.Circuit {
	t.Helper()
	c, err := mna.Assemble(withNodes(
		mna.Component{Type: "VAC", Params: []string{"10", "50"}, Pins: pins(1, 0)},
		mna.Component{Type: "R", Params: []string{"1k"}, Pins: pins(1, 2)},
		mna.Component{Type: "C", Params: []string{"1u", "0.5"}, Pins: pins(2, 0)},
		mna.Component{Type: "L", Params: []string{"10m", "1m"}, Pins: pins(2, 0)},
	))
	require.NoError(t, err)
	return c
}

func iterators(c *mna.Circuit) []mna.Iterator {
	var out []mna.Iterator
	for _, b := range c.Bindings {
		if b.Iterator != nil {
			out = append(out, b.Iterator)
		}
	}
	return out
}

func TestIterateIdempotent(t *testing.T) {
	x := maths.New(7, 1)
	for i, v := range []float64{0, 3, 1.5, -2e-3, 1.5e-3, 4e-4, 1e-3} {
		x.Set(i, 0, v)
	}
	in := mna.Instant{Index: 3, Time: 3e-4, Delta: 1e-4, X: x}

	c := storageCircuit(t)
	its := iterators(c)
	require.Len(t, its, 3)
	for _, it := range its {
		it.Iterate(in)
	}
	f, s := c.System.F.Clone(), c.System.S.Clone()
	c.System.Clean()
	for _, it := range its {
		it.Iterate(in)
	}
	require.Equal(t, f.Data(), c.System.F.Data())
	require.Equal(t, s.Data(), c.System.S.Data())
	require.False(t, c.System.Dirty())

	// 倒序执行结果相同，迭代器之间互不可见
	r := storageCircuit(t)
	rits := iterators(r)
	for i := len(rits) - 1; i >= 0; i-- {
		rits[i].Iterate(in)
	}
	require.Equal(t, f.Data(), r.System.F.Data())
	require.Equal(t, s.Data(), r.System.S.Data())
}
