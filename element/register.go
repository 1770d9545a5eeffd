package element

import (
	"circuitcore/mna"
	"circuitcore/unit"
)

func register[T mna.Element](el T) T {
	mna.Register(el)
	return el
}

func periodic(peak, frequency string, u unit.Unit) []mna.Param {
	return []mna.Param{
		{Name: "peak", Unit: u, Default: peak},
		{Name: "frequency", Unit: unit.Hertz, Default: frequency},
		{Name: "bias", Unit: u, Default: "0"},
		{Name: "phase", Unit: unit.Degree, Default: "0"},
	}
}

var twoPins = []string{"p", "n"}

// 已注册的元件类型
var (
	NodeType = register(&Node{base{name: "NODE", branches: 1}})
	GndType  = register(&Ground{Node{base{name: "GND", branches: 1}}})

	ResistorType = register(&Resistor{base{name: "R", branches: 1, pins: twoPins,
		params: []mna.Param{{Name: "resistance", Unit: unit.Ohm, Default: "1k"}}}})
	CapacitorType = register(&Capacitor{base{name: "C", branches: 1, pins: twoPins,
		params: []mna.Param{
			{Name: "capacitance", Unit: unit.Farad, Default: "1u"},
			{Name: "ic", Unit: unit.Volt, Default: "0"},
		}}})
	InductorType = register(&Inductor{base{name: "L", branches: 1, pins: twoPins,
		params: []mna.Param{
			{Name: "inductance", Unit: unit.Henry, Default: "1m"},
			{Name: "ic", Unit: unit.Ampere, Default: "0"},
		}}})
	SwitchType = register(&Switch{base{name: "SW", branches: 1, pins: twoPins,
		params: []mna.Param{
			{Name: "closed", Unit: unit.None, Default: "1"},
			{Name: "ron", Unit: unit.Ohm, Default: "1m"},
			{Name: "roff", Unit: unit.Ohm, Default: "1G"},
		}}})

	VoltageType = register(&Source{base: base{name: "V", branches: 1, pins: twoPins,
		params: []mna.Param{{Name: "voltage", Unit: unit.Volt, Default: "5"}}}, wave: WfDC})
	ACVoltageType       = register(&Source{base: base{name: "VAC", branches: 1, pins: twoPins, params: periodic("220", "50", unit.Volt)}, wave: WfAC})
	TriangleVoltageType = register(&Source{base: base{name: "VTRI", branches: 1, pins: twoPins, params: periodic("5", "50", unit.Volt)}, wave: WfTriangle})
	SawtoothVoltageType = register(&Source{base: base{name: "VSAW", branches: 1, pins: twoPins, params: periodic("5", "50", unit.Volt)}, wave: WfSawtooth})
	SquareVoltageType   = register(&Source{base: base{name: "VSQ", branches: 1, pins: twoPins,
		params: append(periodic("5", "50", unit.Volt), mna.Param{Name: "duty", Unit: unit.None, Default: "0.5"})}, wave: WfSquare})

	CurrentType = register(&Source{base: base{name: "I", branches: 1, pins: twoPins,
		params: []mna.Param{{Name: "current", Unit: unit.Ampere, Default: "1m"}}}, current: true, wave: WfDC})
	ACCurrentType = register(&Source{base: base{name: "IAC", branches: 1, pins: twoPins, params: periodic("1", "50", unit.Ampere)}, current: true, wave: WfAC})

	VCVSType = register(&VCVS{base{name: "E", branches: 1, pins: []string{"p", "n", "cp", "cn"},
		params: []mna.Param{{Name: "gain", Unit: unit.None, Default: "1"}}}})
	VCCSType = register(&VCCS{base{name: "G", branches: 1, pins: []string{"p", "n", "cp", "cn"},
		params: []mna.Param{{Name: "gm", Unit: unit.Siemens, Default: "1m"}}}})
	CCCSType = register(&CCCS{base{name: "F", branches: 1, pins: []string{"p", "n", mna.ControlPin},
		params: []mna.Param{{Name: "gain", Unit: unit.None, Default: "1"}}}})
	CCVSType = register(&CCVS{base{name: "H", branches: 1, pins: []string{"p", "n", mna.ControlPin},
		params: []mna.Param{{Name: "transresistance", Unit: unit.Ohm, Default: "1k"}}}})
	TransformerType = register(&Transformer{base{name: "XFMR", branches: 2, pins: []string{"p1", "n1", "p2", "n2"},
		params: []mna.Param{{Name: "ratio", Unit: unit.None, Default: "1"}}}})
)
