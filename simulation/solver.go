// Package simulation 时间步求解：每步刷新迭代器、求解 F·x = S 并回调结果
package simulation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"circuitcore/maths"
	"circuitcore/mna"
)

// State 求解器状态
type State int

const (
	Idle     State = iota // 未装配
	Ready                 // 已装配，等待运行
	Stepping              // 运行中
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Stepping:
		return "stepping"
	}
	return "unknown"
}

// StepFunc 每步结果回调，x 在回调返回后不会被修改；返回错误会终止运行
type StepFunc func(t float64, x *maths.Matrix) error

// Result 运行统计
type Result struct {
	Steps          int           // 已回调的步数
	Factorizations int           // F的分解次数
	Start, End     float64       // 时间区间
	Elapsed        time.Duration // 耗时
}

// Solver 单线程求解器，独占自身的方程组
type Solver struct {
	state   State
	circuit *mna.Circuit

	logger       *slog.Logger
	strategy     Strategy
	tolerance    float64
	refactor     bool
	maxSteps     int
	assembleOpts []mna.Option
}

// New 创建空闲求解器
func New(opts ...Option) *Solver {
	s := &Solver{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		strategy: StrategyInverse,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State 当前状态
func (s *Solver) State() State { return s.state }

// Circuit 已装配的电路，空闲时为nil
func (s *Solver) Circuit() *mna.Circuit { return s.circuit }

// Assemble 装配拓扑：Idle/Ready → Ready
func (s *Solver) Assemble(topo mna.Topology) error {
	if s.state == Stepping {
		return ErrBusy
	}
	c, err := mna.Assemble(topo, s.assembleOpts...)
	if err != nil {
		return err
	}
	s.circuit = c
	s.state = Ready
	s.logger.Info("circuit assembled", "components", len(c.Bindings), "size", c.Size())
	return nil
}

// steps 计算步数，clamped 表示最后一步不足一个步长
func (s *Solver) steps(start, end, step float64) (n int, clamped bool, err error) {
	span := (end - start) / step
	if span > float64(s.maxSteps) {
		return 0, false, fmt.Errorf("%g steps exceed %d: %w", span, s.maxSteps, ErrInvalidStep)
	}
	n = int(math.Floor(span+1e-9)) + 1
	if last := start + float64(n-1)*step; end-last > step*1e-9 {
		n++
		clamped = true
	}
	return n, clamped, nil
}

// Run 从start到end按step推进，包含两端：Ready → Stepping → Idle
// 参数:
//
//	ctx - 仅在步与步之间检查取消
//	onStep - 每步回调，可为nil
//
// 返回:
//
//	运行统计；奇异矩阵等单步失败返回 *StepError
func (s *Solver) Run(ctx context.Context, start, end, step float64, onStep StepFunc) (res Result, err error) {
	res = Result{Start: start, End: end}
	if s.state != Ready {
		return res, ErrNotReady
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return res, fmt.Errorf("step %g: %w", step, ErrInvalidStep)
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) || end < start {
		return res, fmt.Errorf("[%g, %g]: %w", start, end, ErrInvalidInterval)
	}
	n, clamped, err := s.steps(start, end, step)
	if err != nil {
		return res, err
	}

	began := time.Now()
	s.state = Stepping
	defer func() {
		s.state = Idle
		s.circuit = nil
		res.Elapsed = time.Since(began)
	}()

	sys := s.circuit.System
	if sys.Empty() {
		s.logger.Debug("empty circuit, no steps")
		return res, nil
	}
	iterators := s.circuit.Iterators()

	var (
		lu   *maths.LU
		inv  *maths.Matrix
		x    *maths.Matrix
		prev = start
	)
	for k := 0; k < n; k++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info("simulation cancelled", "steps", res.Steps)
			return res, err
		}
		t := start + float64(k)*step
		if k == n-1 {
			t = end
		}
		in := mna.Instant{Index: k, Time: t, X: x}
		if k > 0 {
			// 固定步长保持F不变，只有截断的末步重新分解
			in.Delta = step
			if k == n-1 && clamped {
				in.Delta = t - prev
			}
		}
		for _, it := range iterators {
			it.Iterate(in)
		}

		if lu == nil || sys.Dirty() || s.refactor {
			if lu, err = sys.F.Factorize(s.tolerance); err != nil {
				return res, &StepError{Index: k, Time: t, Err: err}
			}
			if s.strategy == StrategyInverse {
				inv = lu.Inverse()
			}
			sys.Clean()
			res.Factorizations++
			s.logger.Debug("factorized", "step", k, "time", t)
		}

		if s.strategy == StrategyInverse {
			x, err = inv.Multiply(sys.S)
		} else {
			x, err = lu.Solve(sys.S)
		}
		if err != nil {
			return res, &StepError{Index: k, Time: t, Err: err}
		}
		if !finite(x) {
			return res, &StepError{Index: k, Time: t, Err: ErrNonFinite}
		}
		if onStep != nil {
			if err := onStep(t, x); err != nil {
				return res, &StepError{Index: k, Time: t, Err: err}
			}
		}
		res.Steps++
		prev = t
	}
	s.logger.Info("simulation finished",
		"steps", res.Steps,
		"factorizations", res.Factorizations,
		"strategy", s.strategy.String())
	return res, nil
}

func finite(x *maths.Matrix) bool {
	for i := 0; i < x.Rows(); i++ {
		if v := x.Get(i, 0); math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Assemble 创建求解器并装配拓扑
func Assemble(topo mna.Topology, opts ...Option) (*Solver, error) {
	s := New(opts...)
	if err := s.Assemble(topo); err != nil {
		return nil, err
	}
	return s, nil
}

// Run 运行已装配的求解器
func Run(ctx context.Context, s *Solver, start, end, step float64, onStep StepFunc) (Result, error) {
	return s.Run(ctx, start, end, step, onStep)
}
