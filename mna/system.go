package mna

import (
	"fmt"
	"strings"

	"circuitcore/maths"
)

// Target 写入目标矩阵
type Target uint8

const (
	TargetF Target = iota // 系数矩阵F
	TargetS               // 激励列向量S
)

func (t Target) String() string {
	if t == TargetS {
		return "S"
	}
	return "F"
}

// Cell 矩阵中的一个位置
type Cell struct {
	Target   Target
	Row, Col int
}

func (c Cell) String() string { return fmt.Sprintf("%s[%d,%d]", c.Target, c.Row, c.Col) }

// System 线性方程组 F·x = S
// 每个被写入的位置都登记在某个标记（Mark）名下，不同标记不能共享同一位置。
type System struct {
	F *maths.Matrix // n×n，n为0时为nil
	S *maths.Matrix // n×1，n为0时为nil

	n      int
	owner  map[Cell]int
	claims map[int][]Cell
	dirty  bool
}

// NewSystem 创建n阶方程组
func NewSystem(n int) *System {
	sys := &System{
		n:      n,
		owner:  make(map[Cell]int),
		claims: make(map[int][]Cell),
		dirty:  true,
	}
	if n > 0 {
		sys.F = maths.New(n, n)
		sys.S = maths.New(n, 1)
	}
	return sys
}

// Size 方程数量
func (sys *System) Size() int { return sys.n }

// Empty 是否为空方程组
func (sys *System) Empty() bool { return sys.n == 0 }

// Dirty F自上次 Clean 以来是否被改写
func (sys *System) Dirty() bool { return sys.dirty }

// Clean 清除F改写标志，通常在分解F之后调用
func (sys *System) Clean() { sys.dirty = false }

// Owner 返回位置的登记标记
func (sys *System) Owner(c Cell) (mark int, ok bool) {
	mark, ok = sys.owner[c]
	return mark, ok
}

// Claims 返回标记登记的全部位置（按登记顺序）
func (sys *System) Claims(mark int) []Cell {
	return append([]Cell(nil), sys.claims[mark]...)
}

// Positions 返回标记在目标矩阵上登记的位置
func (sys *System) Positions(mark int, target Target) []maths.Position {
	var out []maths.Position
	for _, c := range sys.claims[mark] {
		if c.Target == target {
			out = append(out, maths.Position{Row: c.Row, Col: c.Col})
		}
	}
	return out
}

func (sys *System) matrix(t Target) *maths.Matrix {
	if t == TargetS {
		return sys.S
	}
	return sys.F
}

func (sys *System) claim(mark int, c Cell) error {
	m := sys.matrix(c.Target)
	if m == nil || c.Row < 0 || c.Row >= m.Rows() || c.Col < 0 || c.Col >= m.Cols() {
		return fmt.Errorf("%s out of range: %w", c, ErrInvalidPin)
	}
	if prev, ok := sys.owner[c]; ok {
		if prev != mark {
			return fmt.Errorf("%s claimed by mark %d and %d: %w", c, prev, mark, ErrStampConflict)
		}
		return nil
	}
	sys.owner[c] = mark
	sys.claims[mark] = append(sys.claims[mark], c)
	return nil
}

// String 调试输出
func (sys *System) String() string {
	if sys.Empty() {
		return "F: []\nS: []\n"
	}
	var sb strings.Builder
	sb.WriteString("F:\n")
	sb.WriteString(sys.F.String())
	sb.WriteString("S:\n")
	sb.WriteString(sys.S.String())
	return sb.String()
}

// Stamper 装配期写入器，写入的位置自动登记在当前标记名下
// 出错后后续写入全部忽略，错误由 Err 返回。
type Stamper struct {
	sys  *System
	mark int
	err  error
}

// Mark 当前标记
func (st *Stamper) Mark() int { return st.mark }

// Err 第一个写入错误
func (st *Stamper) Err() error { return st.err }

// AddF 累加F[row,col]，row或col为负（未连接或参考点）时忽略
func (st *Stamper) AddF(row, col int, v float64) {
	if st.err != nil || row < 0 || col < 0 {
		return
	}
	if st.err = st.sys.claim(st.mark, Cell{TargetF, row, col}); st.err == nil {
		st.sys.F.Increment(row, col, v)
	}
}

// SetS 设置S[row]，row为负时忽略
func (st *Stamper) SetS(row int, v float64) {
	if st.err != nil || row < 0 {
		return
	}
	if st.err = st.sys.claim(st.mark, Cell{TargetS, row, 0}); st.err == nil {
		st.sys.S.Set(row, 0, v)
	}
}

// Claim 只登记位置不写值，用于迭代器后续刷新的位置
func (st *Stamper) Claim(target Target, row, col int) {
	if st.err != nil || row < 0 || col < 0 {
		return
	}
	st.err = st.sys.claim(st.mark, Cell{target, row, col})
}

// Scope 迭代器写入器，只允许写入标记名下的位置
type Scope struct {
	sys  *System
	mark int
}

// Scope 返回标记的写入器
func (sys *System) Scope(mark int) *Scope { return &Scope{sys: sys, mark: mark} }

// Mark 所属标记
func (sc *Scope) Mark() int { return sc.mark }

// Positions 标记在目标矩阵上登记的位置
func (sc *Scope) Positions(target Target) []maths.Position {
	return sc.sys.Positions(sc.mark, target)
}

// Set 写入登记过的位置，写入未登记位置会panic
func (sc *Scope) Set(target Target, p maths.Position, v float64) {
	c := Cell{target, p.Row, p.Col}
	if owner, ok := sc.sys.owner[c]; !ok || owner != sc.mark {
		panic(fmt.Sprintf("mark %d writes unclaimed cell %s", sc.mark, c))
	}
	m := sc.sys.matrix(target)
	if target == TargetF && m.Get(p.Row, p.Col) != v {
		sc.sys.dirty = true
	}
	m.Set(p.Row, p.Col, v)
}
