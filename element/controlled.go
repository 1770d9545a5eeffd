package element

import "circuitcore/mna"

// VCVS 电压控制电压源：V(p) - V(n) - gain·(V(cp) - V(cn)) = 0
type VCVS struct{ base }

func (e *VCVS) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	row := b.Row(0)
	stampCurrent(st, b.Pin(0), b.Pin(1), row)
	stampVoltage(st, row, b.Pin(0), b.Pin(1), 1)
	stampVoltage(st, row, b.Pin(2), b.Pin(3), -b.Params[0])
	return nil
}

// VCCS 电压控制电流源：I - gm·(V(cp) - V(cn)) = 0
type VCCS struct{ base }

func (e *VCCS) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	row := b.Row(0)
	stampCurrent(st, b.Pin(0), b.Pin(1), row)
	st.AddF(row, row, 1)
	stampVoltage(st, row, b.Pin(2), b.Pin(3), -b.Params[0])
	return nil
}

// CCCS 电流控制电流源：I - gain·Ictrl = 0
// 控制引脚指向控制元件的电流支路。
type CCCS struct{ base }

func (e *CCCS) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	row := b.Row(0)
	stampCurrent(st, b.Pin(0), b.Pin(1), row)
	st.AddF(row, row, 1)
	st.AddF(row, b.Pin(2).Col, -b.Params[0])
	return nil
}

// CCVS 电流控制电压源：V(p) - V(n) - r·Ictrl = 0
type CCVS struct{ base }

func (e *CCVS) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	row := b.Row(0)
	stampCurrent(st, b.Pin(0), b.Pin(1), row)
	stampVoltage(st, row, b.Pin(0), b.Pin(1), 1)
	st.AddF(row, b.Pin(2).Col, -b.Params[0])
	return nil
}

// Transformer 理想变压器，两条支路
//
//	V(p1) - V(n1) - ratio·(V(p2) - V(n2)) = 0
//	ratio·I1 + I2 = 0
type Transformer struct{ base }

func (e *Transformer) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	ratio := b.Params[0]
	r1, r2 := b.Row(0), b.Row(1)
	stampCurrent(st, b.Pin(0), b.Pin(1), r1)
	stampCurrent(st, b.Pin(2), b.Pin(3), r2)
	stampVoltage(st, r1, b.Pin(0), b.Pin(1), 1)
	stampVoltage(st, r1, b.Pin(2), b.Pin(3), -ratio)
	st.AddF(r2, r1, ratio)
	st.AddF(r2, r2, 1)
	return nil
}

// Switch 开关，闭合时为 ron，断开时为 roff
type Switch struct{ base }

func (e *Switch) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	p, n, row := b.Pin(0), b.Pin(1), b.Row(0)
	r := b.Params[2]
	if b.Params[0] != 0 {
		r = b.Params[1]
	}
	stampCurrent(st, p, n, row)
	stampVoltage(st, row, p, n, 1)
	st.AddF(row, row, -r)
	return nil
}
