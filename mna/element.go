package mna

import (
	"circuitcore/maths"
	"circuitcore/unit"
)

// Element 元件加盖接口，每种元件类型实现一次
type Element interface {
	// Type 元件类型名称（如 "R"、"VAC"），注册表按此查找
	Type() string
	// Branches 元件占用的连续方程行数
	Branches() int
	// Params 参数表，缺省参数使用 Default 填充
	Params() []Param
	// Pins 引脚名称
	Pins() []string
	// MarkInMatrix 装配时调用一次，写入F和S的静态部分并登记迭代器要刷新的位置
	MarkInMatrix(st *Stamper, b *Binding) error
	// CreateIterator 返回每步刷新的迭代器，无需刷新时返回nil
	CreateIterator(sys *System, b *Binding) Iterator
}

// Iterator 每个时间步调用一次，只写入登记过的位置
// 相同的 Instant 重复调用写入相同的值。
type Iterator interface {
	Iterate(in Instant)
}

// IteratorFunc 函数形式的迭代器
type IteratorFunc func(in Instant)

func (f IteratorFunc) Iterate(in Instant) { f(in) }

// Instant 当前时间步
type Instant struct {
	Index int           // 步序号，从0开始
	Time  float64       // 当前时刻
	Delta float64       // 与上一步的时间间隔，首步为0
	X     *maths.Matrix // 上一步的解，首步为nil，只读
}

// Param 参数定义
type Param struct {
	Name    string
	Unit    unit.Unit
	Default string // 为空表示必填
}

// Reference 参考点元件（接地），连接到它的引脚不写入KCL行
type Reference interface {
	Reference() bool
}

// Junction 节点类元件，支路未知量是节点电压而不是电流
type Junction interface {
	Junction() bool
}

// ControlPin 引用控制元件电流支路的引脚名称
const ControlPin = "ctrl"

// Labeler 为元件的每条支路提供结果名称，如 "V(n1)"、"I(R1)"
type Labeler interface {
	Labels(b *Binding) []string
}

// Terminal 装配后解析的引脚
type Terminal struct {
	Col int // 引脚电压所在列，未连接为-1
	Row int // 引脚电流汇入的KCL行，未连接或接参考点为-1
}

// Connected 引脚是否已连接
func (t Terminal) Connected() bool { return t.Col >= 0 }

// Voltage 从解向量读取引脚电压，未连接或x为nil时为0
func (t Terminal) Voltage(x *maths.Matrix) float64 {
	if x == nil || t.Col < 0 {
		return 0
	}
	return x.Get(t.Col, 0)
}

// Binding 元件实例与方程组的绑定
type Binding struct {
	Index    int // 拓扑序号
	Name     string
	Type     string
	Element  Element
	Branch   int // 首行
	Mark     int // 从1开始，全局唯一
	Params   []float64
	Pins     []Terminal
	Iterator Iterator
}

// Row 第k条自有支路所在行
func (b *Binding) Row(k int) int { return b.Branch + k }

// Pin 第i个引脚，不存在时视为未连接
func (b *Binding) Pin(i int) Terminal {
	if i < len(b.Pins) {
		return b.Pins[i]
	}
	return Terminal{Col: -1, Row: -1}
}

// Isolated 所有引脚均未连接
func (b *Binding) Isolated() bool {
	for _, p := range b.Pins {
		if p.Connected() {
			return false
		}
	}
	return true
}
