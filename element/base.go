// Package element 元件加盖实现，init 时注册到 mna.DefaultRegistry
//
// 方程组采用节点电压加支路电流的形式：节点元件的行是KCL方程，
// 其他元件的行是自身的支路方程，支路电流从第一个引脚流入、第二个引脚流出。
package element

import (
	"fmt"

	"circuitcore/mna"
)

// base 公共配置
type base struct {
	name     string
	branches int
	params   []mna.Param
	pins     []string
}

func (e *base) Type() string        { return e.name }
func (e *base) Branches() int       { return e.branches }
func (e *base) Params() []mna.Param { return e.params }
func (e *base) Pins() []string      { return e.pins }

// Labels 支路电流名称
func (e *base) Labels(b *mna.Binding) []string {
	if e.branches == 1 {
		return []string{fmt.Sprintf("I(%s)", b.Name)}
	}
	out := make([]string, e.branches)
	for k := range out {
		out[k] = fmt.Sprintf("I%d(%s)", k+1, b.Name)
	}
	return out
}

func (e *base) CreateIterator(*mna.System, *mna.Binding) mna.Iterator { return nil }

// stampCurrent KCL：支路电流col从p流出节点、流入n节点
func stampCurrent(st *mna.Stamper, p, n mna.Terminal, col int) {
	st.AddF(p.Row, col, 1)
	st.AddF(n.Row, col, -1)
}

// stampVoltage 在row行写入 k·(V(p) - V(n))
func stampVoltage(st *mna.Stamper, row int, p, n mna.Terminal, k float64) {
	st.AddF(row, p.Col, k)
	st.AddF(row, n.Col, -k)
}

// voltageCols 两端电压所在列，两端短接时视为均未连接
func voltageCols(p, n mna.Terminal) (int, int) {
	if p.Col == n.Col {
		return -1, -1
	}
	return p.Col, n.Col
}
