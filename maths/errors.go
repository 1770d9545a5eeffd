package maths

import "errors"

// 矩阵运算错误，调用方使用 errors.Is 判断
var (
	// ErrBadShape 构造数据形状非法（空矩阵或行长度不一致）
	ErrBadShape = errors.New("maths: invalid shape")
	// ErrDimensionMismatch 乘法维度不匹配（a.Cols != b.Rows）
	ErrDimensionMismatch = errors.New("maths: dimension mismatch")
	// ErrNotSquare 需要方阵
	ErrNotSquare = errors.New("maths: matrix is not square")
	// ErrSingularMatrix U对角线存在零主元，矩阵不可逆
	ErrSingularMatrix = errors.New("maths: matrix is singular")
)
