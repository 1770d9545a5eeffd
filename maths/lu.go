package maths

import (
	"fmt"
	"math"
)

// LUDecompose 带部分主元的LU分解（P·M = L·U）
// 返回:
//
//	L - 单位下三角矩阵（对角线为1，严格下三角存储消元因子）
//	U - 上三角矩阵
//	P - 置换矩阵（由单位矩阵累积相同的行交换得到）
//	错误信息（非方阵返回 ErrNotSquare）
//
// 算法步骤:
//  1. 对每一列k（0到n-1），在U的[k, n)行中选绝对值最大者为主元（k < n-1）
//  2. 对L、U、P执行相同的整行交换
//  3. 主元非零时消元，因子存入L；主元为零时跳过，零值留在U对角线上
func (m *Matrix) LUDecompose() (l, u, p *Matrix, err error) {
	if !m.IsSquare() {
		return nil, nil, nil, fmt.Errorf("lu decompose %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}
	n := m.rows
	u = m.Clone()
	l = New(n, n)
	p = Identity(n)

	for k := 0; k < n; k++ {
		// 步骤1：部分主元选择
		if k < n-1 {
			maxRow := k
			maxAbsVal := math.Abs(u.Get(k, k))
			for i := k + 1; i < n; i++ {
				if v := math.Abs(u.Get(i, k)); v > maxAbsVal {
					maxAbsVal = v
					maxRow = i
				}
			}
			// 步骤2：行交换（L此时只含严格下三角因子，整行交换即可）
			if maxRow != k {
				pos, swap := Position{Row: k}, Position{Row: maxRow}
				l.Exchange(pos, swap)
				u.Exchange(pos, swap)
				p.Exchange(pos, swap)
			}
		}

		// 步骤3：高斯消元
		pivot := u.Get(k, k)
		if pivot == 0 {
			continue
		}
		for i := k + 1; i < n; i++ {
			factor := u.Get(i, k) / pivot
			if factor == 0 {
				continue
			}
			l.Set(i, k, factor)
			u.Set(i, k, 0)
			for j := k + 1; j < n; j++ {
				u.Increment(i, j, -factor*u.Get(k, j))
			}
		}
	}
	for i := 0; i < n; i++ {
		l.Set(i, i, 1)
	}
	return l, u, p, nil
}

// LU 缓存的分解结果，F不变时可重复求解
type LU struct {
	n    int
	L, U *Matrix
	P    *Matrix
	perm []int // perm[i] = P·b 第i行对应的原始行
}

// Factorize 分解并检查奇异性
// 参数:
//
//	eps - |U[i][i]| <= eps 视为奇异（0表示仅精确零）
func (m *Matrix) Factorize(eps float64) (*LU, error) {
	l, u, p, err := m.LUDecompose()
	if err != nil {
		return nil, err
	}
	n := m.rows
	for i := 0; i < n; i++ {
		if math.Abs(u.Get(i, i)) <= eps {
			return nil, fmt.Errorf("zero pivot at U[%d][%d]: %w", i, i, ErrSingularMatrix)
		}
	}
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if p.Get(i, j) == 1 {
				perm[i] = j
				break
			}
		}
	}
	return &LU{n: n, L: l, U: u, P: p, perm: perm}, nil
}

// Dim 矩阵维度
func (lu *LU) Dim() int { return lu.n }

// Solve 利用分解结果求解 M·x = b
// 数学步骤:
//  1. 前向替换：求解Ly = Pb
//  2. 后向替换：求解Ux = y
func (lu *LU) Solve(b *Matrix) (*Matrix, error) {
	if b.rows != lu.n || b.cols != 1 {
		return nil, fmt.Errorf("solve with %dx%d rhs, want %dx1: %w", b.rows, b.cols, lu.n, ErrDimensionMismatch)
	}
	y := make([]float64, lu.n)
	for i := 0; i < lu.n; i++ {
		sum := b.data[lu.perm[i]]
		for j := 0; j < i; j++ {
			sum -= lu.L.Get(i, j) * y[j]
		}
		y[i] = sum
	}
	x := New(lu.n, 1)
	for i := lu.n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < lu.n; j++ {
			sum -= lu.U.Get(i, j) * x.data[j]
		}
		x.data[i] = sum / lu.U.Get(i, i)
	}
	return x, nil
}

// Inverse 由分解结果求逆：U⁻¹·L⁻¹·P
func (lu *LU) Inverse() *Matrix {
	n := lu.n
	ui := New(n, n)
	li := New(n, n)
	// U的逆矩阵，按列回代
	for i := 0; i < n; i++ {
		ui.Set(i, i, 1/lu.U.Get(i, i))
		for j := i - 1; j >= 0; j-- {
			s := 0.0
			for k := j + 1; k <= i; k++ {
				s -= lu.U.Get(j, k) * ui.Get(k, i)
			}
			ui.Set(j, i, s/lu.U.Get(j, j))
		}
	}
	// L的逆矩阵，单位下三角前代
	for i := 0; i < n; i++ {
		li.Set(i, i, 1)
		for j := i + 1; j < n; j++ {
			s := 0.0
			for k := i; k < j; k++ {
				s -= lu.L.Get(j, k) * li.Get(k, i)
			}
			li.Set(j, i, s)
		}
	}
	// 维度一致，不会出错
	ul, _ := ui.Multiply(li)
	inv, _ := ul.Multiply(lu.P)
	return inv
}

// Inverse 基于LU分解的矩阵求逆，U对角线出现精确零时返回 ErrSingularMatrix
func (m *Matrix) Inverse() (*Matrix, error) { return m.InverseTol(0) }

// InverseTol 同 Inverse，|U[i][i]| <= eps 视为奇异
func (m *Matrix) InverseTol(eps float64) (*Matrix, error) {
	lu, err := m.Factorize(eps)
	if err != nil {
		return nil, err
	}
	return lu.Inverse(), nil
}
