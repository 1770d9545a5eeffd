package simulation

import (
	"log/slog"

	"circuitcore/mna"
)

// DefaultMaxSteps 默认最大步数
const DefaultMaxSteps = 1 << 24

// Strategy 每步求解方式
type Strategy int

const (
	// StrategyInverse x = F⁻¹·S，F不变时复用逆矩阵
	StrategyInverse Strategy = iota
	// StrategySubstitution 复用LU分解做前代回代
	StrategySubstitution
)

func (s Strategy) String() string {
	switch s {
	case StrategyInverse:
		return "inverse"
	case StrategySubstitution:
		return "substitution"
	}
	return "unknown"
}

// Option 求解器选项
type Option func(*Solver)

// WithLogger 指定日志，默认丢弃
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		s.logger = l
		s.assembleOpts = append(s.assembleOpts, mna.WithLogger(l))
	}
}

// WithStrategy 指定求解方式
func WithStrategy(st Strategy) Option { return func(s *Solver) { s.strategy = st } }

// WithTolerance |U[i][i]| <= eps 视为奇异，默认0（仅精确零）
func WithTolerance(eps float64) Option { return func(s *Solver) { s.tolerance = eps } }

// WithRefactorEveryStep 每步都重新分解F
func WithRefactorEveryStep() Option { return func(s *Solver) { s.refactor = true } }

// WithMaxSteps 单次运行的最大步数
func WithMaxSteps(n int) Option { return func(s *Solver) { s.maxSteps = n } }

// WithMaxBranches 装配支路上限
func WithMaxBranches(n int) Option {
	return func(s *Solver) { s.assembleOpts = append(s.assembleOpts, mna.WithMaxBranches(n)) }
}

// WithRegistry 装配使用的元件注册表
func WithRegistry(r *mna.Registry) Option {
	return func(s *Solver) { s.assembleOpts = append(s.assembleOpts, mna.WithRegistry(r)) }
}
