package simulation

import (
	"errors"
	"fmt"
)

// 求解错误，调用方使用 errors.Is 判断
var (
	// ErrInvalidStep 步长非正、非有限或步数过多
	ErrInvalidStep = errors.New("simulation: invalid step size")
	// ErrInvalidInterval 结束时间早于开始时间或非有限
	ErrInvalidInterval = errors.New("simulation: invalid time interval")
	// ErrNotReady 求解器未装配
	ErrNotReady = errors.New("simulation: solver not ready")
	// ErrBusy 仿真进行中
	ErrBusy = errors.New("simulation: run in progress")
	// ErrNonFinite 解向量出现 NaN 或 Inf
	ErrNonFinite = errors.New("simulation: non-finite solution")
)

// StepError 某一时间步失败，之前已回调的结果仍然有效
type StepError struct {
	Index int
	Time  float64
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at t=%g: %v", e.Index, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
