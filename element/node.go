package element

import (
	"fmt"

	"circuitcore/mna"
)

// Node 电路节点，未知量为节点电压，所在行为KCL方程
// 行内系数由连接到它的元件写入。
type Node struct{ base }

func (e *Node) Junction() bool { return true }

func (e *Node) MarkInMatrix(*mna.Stamper, *mna.Binding) error { return nil }

func (e *Node) Labels(b *mna.Binding) []string {
	return []string{fmt.Sprintf("V(%s)", b.Name)}
}

// Ground 参考节点，电压固定为0
type Ground struct{ Node }

func (e *Ground) Reference() bool { return true }

func (e *Ground) MarkInMatrix(st *mna.Stamper, b *mna.Binding) error {
	st.AddF(b.Row(0), b.Row(0), 1)
	return nil
}
