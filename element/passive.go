package element

import (
	"circuitcore/maths"
	"circuitcore/mna"
)

// Resistor 电阻：V(p) - V(n) - R·I = 0
type Resistor struct{ base }

func (e *Resistor) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	p, n, row := b.Pin(0), b.Pin(1), b.Row(0)
	stampCurrent(st, p, n, row)
	stampVoltage(st, row, p, n, 1)
	st.AddF(row, row, -b.Params[0])
	return nil
}

// Capacitor 电容，梯形积分伴随模型
//
//	首步:  V(p) - V(n) = IC
//	之后:  I - g·(V(p) - V(n)) = -(g·Vprev + Iprev)，g = 2C/h
type Capacitor struct{ base }

func (e *Capacitor) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	p, n, row := b.Pin(0), b.Pin(1), b.Row(0)
	stampCurrent(st, p, n, row)
	cp, cn := voltageCols(p, n)
	if cp < 0 && cn < 0 {
		// 两端短接或悬空，电流为0
		st.AddF(row, row, 1)
		return nil
	}
	st.AddF(row, cp, 1)
	st.AddF(row, cn, -1)
	st.Claim(mna.TargetF, row, row)
	st.SetS(row, b.Params[1])
	return nil
}

func (e *Capacitor) CreateIterator(sys *mna.System, b *mna.Binding) mna.Iterator {
	cp, cn := voltageCols(b.Pin(0), b.Pin(1))
	if cp < 0 && cn < 0 {
		return nil
	}
	return &companion{
		scope: sys.Scope(b.Mark),
		row:   b.Row(0),
		cp:    cp,
		cn:    cn,
		value: b.Params[0],
		ic:    b.Params[1],
		step:  capacitorStep,
	}
}

// Inductor 电感，梯形积分伴随模型
//
//	首步:  I = IC
//	之后:  V(p) - V(n) - r·I = -(r·Iprev + Vprev)，r = 2L/h
type Inductor struct{ base }

func (e *Inductor) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	p, n, row := b.Pin(0), b.Pin(1), b.Row(0)
	stampCurrent(st, p, n, row)
	cp, cn := voltageCols(p, n)
	st.Claim(mna.TargetF, row, cp)
	st.Claim(mna.TargetF, row, cn)
	st.AddF(row, row, 1)
	st.SetS(row, b.Params[1])
	return nil
}

func (e *Inductor) CreateIterator(sys *mna.System, b *mna.Binding) mna.Iterator {
	cp, cn := voltageCols(b.Pin(0), b.Pin(1))
	return &companion{
		scope: sys.Scope(b.Mark),
		row:   b.Row(0),
		cp:    cp,
		cn:    cn,
		value: b.Params[0],
		ic:    b.Params[1],
		step:  inductorStep,
	}
}

// coeffs 一行伴随方程：电压系数、电流系数、右端项
type coeffs struct {
	kv, ki, s float64
}

// companion 储能元件迭代器，只改写自身行
type companion struct {
	scope       *mna.Scope
	row, cp, cn int
	value, ic   float64
	step        func(c *companion, in mna.Instant) coeffs
}

func (c *companion) Iterate(in mna.Instant) {
	k := c.step(c, in)
	if c.cp >= 0 {
		c.scope.Set(mna.TargetF, maths.Position{Row: c.row, Col: c.cp}, k.kv)
	}
	if c.cn >= 0 {
		c.scope.Set(mna.TargetF, maths.Position{Row: c.row, Col: c.cn}, -k.kv)
	}
	c.scope.Set(mna.TargetF, maths.Position{Row: c.row, Col: c.row}, k.ki)
	c.scope.Set(mna.TargetS, maths.Position{Row: c.row}, k.s)
}

func (c *companion) voltage(x *maths.Matrix) float64 {
	v := 0.0
	if c.cp >= 0 {
		v += x.Get(c.cp, 0)
	}
	if c.cn >= 0 {
		v -= x.Get(c.cn, 0)
	}
	return v
}

func capacitorStep(c *companion, in mna.Instant) coeffs {
	if in.Index == 0 || in.Delta <= 0 || in.X == nil {
		return coeffs{kv: 1, ki: 0, s: c.ic}
	}
	g := 2 * c.value / in.Delta
	return coeffs{kv: -g, ki: 1, s: -(g*c.voltage(in.X) + in.X.Get(c.row, 0))}
}

func inductorStep(c *companion, in mna.Instant) coeffs {
	if in.Index == 0 || in.Delta <= 0 || in.X == nil {
		return coeffs{kv: 0, ki: 1, s: c.ic}
	}
	r := 2 * c.value / in.Delta
	return coeffs{kv: 1, ki: -r, s: -(r*in.X.Get(c.row, 0) + c.voltage(in.X))}
}
