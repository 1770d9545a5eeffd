package element

import (
	"circuitcore/maths"
	"circuitcore/mna"
)

// Source 独立电源
//
//	电压源:  V(p) - V(n) = v，引脚全部悬空时为 I = v
//	电流源:  I = v
type Source struct {
	base
	current bool
	wave    Waveform
}

func (e *Source) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	p, n, row := b.Pin(0), b.Pin(1), b.Row(0)
	stampCurrent(st, p, n, row)
	if e.current || b.Isolated() {
		st.AddF(row, row, 1)
	} else {
		stampVoltage(st, row, p, n, 1)
	}
	if e.wave == WfDC {
		st.SetS(row, b.Params[0])
	} else {
		// 占位，每步由迭代器刷新
		st.SetS(row, float64(b.Mark))
	}
	return nil
}

func (e *Source) CreateIterator(sys *mna.System, b *mna.Binding) mna.Iterator {
	if e.wave == WfDC {
		return nil
	}
	scope := sys.Scope(b.Mark)
	return &sourceIterator{
		scope:  scope,
		cells:  scope.Positions(mna.TargetS),
		wave:   e.wave,
		params: append([]float64(nil), b.Params...),
	}
}

type sourceIterator struct {
	scope  *mna.Scope
	cells  []maths.Position
	wave   Waveform
	params []float64
}

func (it *sourceIterator) Iterate(in mna.Instant) {
	v := it.wave.Value(it.params, in.Time)
	for _, p := range it.cells {
		it.scope.Set(mna.TargetS, p, v)
	}
}
