package maths

import (
	"fmt"
	"math"
	"strings"
)

// Position 矩阵坐标
type Position struct {
	Row, Col int
}

// Fill 矩阵初始化方式
type Fill int

const (
	FillZero     Fill = iota // 全零
	FillIdentity             // 单位矩阵
)

// Matrix 稠密矩阵，按行优先存储
type Matrix struct {
	rows, cols int
	data       []float64
}

// New 创建指定维度的零矩阵（维度非正panic）
func New(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("invalid matrix dimensions: %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewFill 按初始化方式创建矩阵
// 参数:
//
//	rows, cols - 矩阵维度
//	fill - FillZero 或 FillIdentity（单位矩阵要求方阵）
func NewFill(rows, cols int, fill Fill) *Matrix {
	m := New(rows, cols)
	if fill == FillIdentity {
		if rows != cols {
			panic(fmt.Sprintf("identity matrix must be square: %dx%d", rows, cols))
		}
		for i := 0; i < rows; i++ {
			m.data[i*cols+i] = 1
		}
	}
	return m
}

// Identity 创建n阶单位矩阵
func Identity(n int) *Matrix { return NewFill(n, n, FillIdentity) }

// FromRows 从二维切片拷贝构造矩阵
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrBadShape
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", i, len(row), cols, ErrBadShape)
		}
		copy(m.data[i*cols:], row)
	}
	return m, nil
}

// Clone 深拷贝
func (m *Matrix) Clone() *Matrix {
	return &Matrix{rows: m.rows, cols: m.cols, data: append([]float64(nil), m.data...)}
}

// Rows 返回矩阵行数
func (m *Matrix) Rows() int { return m.rows }

// Cols 返回矩阵列数
func (m *Matrix) Cols() int { return m.cols }

// IsSquare 判断是否为方阵
func (m *Matrix) IsSquare() bool { return m.rows == m.cols }

func (m *Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix index out of range: row=%d, col=%d (rows=%d, cols=%d)", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// Get 获取指定行列元素值（越界panic）
func (m *Matrix) Get(row, col int) float64 { return m.data[m.index(row, col)] }

// Set 设置指定行列元素值（越界panic）
func (m *Matrix) Set(row, col int, value float64) { m.data[m.index(row, col)] = value }

// Increment 增量更新矩阵元素（越界panic）
func (m *Matrix) Increment(row, col int, value float64) { m.data[m.index(row, col)] += value }

// Zero 清空为零矩阵
func (m *Matrix) Zero() { clear(m.data) }

// Row 返回第row行的拷贝
func (m *Matrix) Row(row int) []float64 {
	i := m.index(row, 0)
	return append([]float64(nil), m.data[i:i+m.cols]...)
}

// Column 返回第col列的拷贝
func (m *Matrix) Column(col int) []float64 {
	out := make([]float64, m.rows)
	for i := range out {
		out[i] = m.data[m.index(i, col)]
	}
	return out
}

// Data 返回行优先数据的拷贝
func (m *Matrix) Data() []float64 { return append([]float64(nil), m.data...) }

// Exchange 交换两个位置所在的行和列
// 行号不同时交换整行，列号不同时交换整列
func (m *Matrix) Exchange(a, b Position) {
	if a.Row != b.Row {
		m.SwapRows(a.Row, b.Row)
	}
	if a.Col != b.Col {
		m.SwapCols(a.Col, b.Col)
	}
}

// SwapRows 交换两行
func (m *Matrix) SwapRows(i, j int) {
	if i == j {
		return
	}
	ri, rj := m.index(i, 0), m.index(j, 0)
	for k := 0; k < m.cols; k++ {
		m.data[ri+k], m.data[rj+k] = m.data[rj+k], m.data[ri+k]
	}
}

// SwapCols 交换两列
func (m *Matrix) SwapCols(i, j int) {
	if i == j {
		return
	}
	m.index(0, i)
	m.index(0, j)
	for r := 0; r < m.rows; r++ {
		base := r * m.cols
		m.data[base+i], m.data[base+j] = m.data[base+j], m.data[base+i]
	}
}

// Multiply 矩阵乘法 m·o
// 返回:
//
//	(m.Rows × o.Cols) 新矩阵；m.Cols != o.Rows 时返回 ErrDimensionMismatch
func (m *Matrix) Multiply(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, fmt.Errorf("multiply %dx%d by %dx%d: %w", m.rows, m.cols, o.rows, o.cols, ErrDimensionMismatch)
	}
	out := New(m.rows, o.cols)
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		dst := out.data[i*o.cols : (i+1)*o.cols]
		for k, a := range row {
			if a == 0 {
				continue
			}
			src := o.data[k*o.cols : (k+1)*o.cols]
			for j, b := range src {
				dst[j] += a * b
			}
		}
	}
	return out, nil
}

// EqualApprox 判断维度相同且逐元素误差不超过tol
func (m *Matrix) EqualApprox(o *Matrix, tol float64) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if math.Abs(v-o.data[i]) > tol {
			return false
		}
	}
	return true
}

// String 格式化输出矩阵
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			fmt.Fprintf(&sb, "%8.4f ", m.data[i*m.cols+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
