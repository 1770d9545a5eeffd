package maths

import "gonum.org/v1/gonum/mat"

// ToDense 转换为gonum稠密矩阵（数据拷贝）
func (m *Matrix) ToDense() *mat.Dense {
	return mat.NewDense(m.rows, m.cols, m.Data())
}

// FromDense 从gonum矩阵拷贝构造
func FromDense(a mat.Matrix) *Matrix {
	r, c := a.Dims()
	m := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = a.At(i, j)
		}
	}
	return m
}
