package mna

import "errors"

// 装配错误，调用方使用 errors.Is 判断
var (
	// ErrUnknownComponentType 拓扑引用了未注册的元件类型
	ErrUnknownComponentType = errors.New("mna: unknown component type")
	// ErrBranchOverflow 支路总数超过上限
	ErrBranchOverflow = errors.New("mna: branch count overflow")
	// ErrInvalidParams 参数个数错误或缺少必填参数
	ErrInvalidParams = errors.New("mna: invalid params")
	// ErrInvalidPin 引脚引用了不存在的元件或支路
	ErrInvalidPin = errors.New("mna: invalid pin")
	// ErrStampConflict 两个元件写入同一矩阵位置
	ErrStampConflict = errors.New("mna: stamp conflict")
)
