package mna

import (
	"fmt"
	"io"
	"log/slog"

	"circuitcore/unit"
)

// DefaultMaxBranches 默认支路上限
const DefaultMaxBranches = 4096

// Pin 拓扑中的引脚连接：指向另一个元件的某条支路
type Pin struct {
	Component int // 拓扑序号，负数表示未连接
	Branch    int // 目标元件内的支路序号
}

// Unconnected 未连接引脚
var Unconnected = Pin{Component: -1}

// Component 拓扑中的一个元件
type Component struct {
	Type   string
	Name   string
	Params []string
	Pins   []Pin
}

// Topology 有序元件列表
type Topology []Component

// Option 装配选项
type Option func(*config)

type config struct {
	registry    *Registry
	maxBranches int
	logger      *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		registry:    DefaultRegistry,
		maxBranches: DefaultMaxBranches,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithRegistry 指定注册表
func WithRegistry(r *Registry) Option { return func(c *config) { c.registry = r } }

// WithMaxBranches 指定支路上限
func WithMaxBranches(n int) Option { return func(c *config) { c.maxBranches = n } }

// WithLogger 指定日志
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// Circuit 装配结果
type Circuit struct {
	System   *System
	Bindings []*Binding
}

// Size 方程数量
func (c *Circuit) Size() int { return c.System.Size() }

// Iterators 非空的迭代器
func (c *Circuit) Iterators() []Iterator {
	var out []Iterator
	for _, b := range c.Bindings {
		if b.Iterator != nil {
			out = append(out, b.Iterator)
		}
	}
	return out
}

// Labels 每一行结果的名称
func (c *Circuit) Labels() []string {
	out := make([]string, c.Size())
	for _, b := range c.Bindings {
		n := b.Element.Branches()
		var labels []string
		if l, ok := b.Element.(Labeler); ok {
			labels = l.Labels(b)
		}
		for k := 0; k < n; k++ {
			if k < len(labels) {
				out[b.Row(k)] = labels[k]
			} else {
				out[b.Row(k)] = fmt.Sprintf("%s.%d", b.Name, k)
			}
		}
	}
	return out
}

// Assemble 装配拓扑
// 步骤:
//  1. 校验类型、参数、支路总数和引脚，失败时不分配任何矩阵
//  2. 按顺序分配连续支路和从1开始的标记
//  3. 分配F和S，依次调用 MarkInMatrix
//  4. 依次调用 CreateIterator
func Assemble(topo Topology, opts ...Option) (*Circuit, error) {
	cfg := newConfig(opts)
	bindings := make([]*Binding, len(topo))
	offsets := make([]int, len(topo))
	total := 0
	for i, c := range topo {
		el, ok := cfg.registry.Lookup(c.Type)
		if !ok {
			return nil, fmt.Errorf("component %d %q: type %q: %w", i, c.Name, c.Type, ErrUnknownComponentType)
		}
		params, err := parseParams(el, c.Params)
		if err != nil {
			return nil, fmt.Errorf("component %d %q: %w", i, c.Name, err)
		}
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("%s%d", el.Type(), i+1)
		}
		offsets[i] = total
		total += el.Branches()
		if total > cfg.maxBranches {
			return nil, fmt.Errorf("%d branches exceed %d: %w", total, cfg.maxBranches, ErrBranchOverflow)
		}
		bindings[i] = &Binding{
			Index:   i,
			Name:    name,
			Type:    el.Type(),
			Element: el,
			Branch:  offsets[i],
			Mark:    i + 1,
			Params:  params,
		}
	}
	for i, c := range topo {
		pins, err := resolvePins(topo, bindings, c.Pins, bindings[i].Element.Pins())
		if err != nil {
			return nil, fmt.Errorf("component %d %q: %w", i, bindings[i].Name, err)
		}
		bindings[i].Pins = pins
	}

	sys := NewSystem(total)
	circuit := &Circuit{System: sys, Bindings: bindings}
	if sys.Empty() {
		cfg.logger.Debug("assembled empty circuit", "components", len(topo))
		return circuit, nil
	}
	for _, b := range bindings {
		st := &Stamper{sys: sys, mark: b.Mark}
		err := b.Element.MarkInMatrix(st, b)
		if err == nil {
			err = st.Err()
		}
		if err != nil {
			return nil, fmt.Errorf("stamp %s: %w", b.Name, err)
		}
	}
	for _, b := range bindings {
		b.Iterator = b.Element.CreateIterator(sys, b)
	}
	cfg.logger.Debug("assembled circuit", "components", len(topo), "branches", total)
	return circuit, nil
}

func parseParams(el Element, texts []string) ([]float64, error) {
	defs := el.Params()
	if len(texts) > len(defs) {
		return nil, fmt.Errorf("%d params, %s takes %d: %w", len(texts), el.Type(), len(defs), ErrInvalidParams)
	}
	out := make([]float64, len(defs))
	for i, def := range defs {
		text := def.Default
		if i < len(texts) && texts[i] != "" {
			text = texts[i]
		}
		if text == "" {
			return nil, fmt.Errorf("param %s missing: %w", def.Name, ErrInvalidParams)
		}
		v, err := unit.ParseAs(text, def.Unit)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", def.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

func resolvePins(topo Topology, bindings []*Binding, pins []Pin, names []string) ([]Terminal, error) {
	want := len(names)
	if len(pins) > want {
		return nil, fmt.Errorf("%d pins, want at most %d: %w", len(pins), want, ErrInvalidPin)
	}
	out := make([]Terminal, want)
	for i := range out {
		out[i] = Terminal{Col: -1, Row: -1}
		if i >= len(pins) || pins[i].Component < 0 {
			continue
		}
		p := pins[i]
		if p.Component >= len(topo) {
			return nil, fmt.Errorf("pin %d refers to component %d: %w", i, p.Component, ErrInvalidPin)
		}
		target := bindings[p.Component]
		if p.Branch < 0 || p.Branch >= target.Element.Branches() {
			return nil, fmt.Errorf("pin %d refers to branch %d of %s: %w", i, p.Branch, target.Name, ErrInvalidPin)
		}
		ref, ok := target.Element.(Reference)
		isRef := ok && ref.Reference()
		if names[i] == ControlPin {
			// 控制引脚读取的是电流支路
			if j, ok := target.Element.(Junction); isRef || ok && j.Junction() {
				return nil, fmt.Errorf("pin %s refers to node %s: %w", names[i], target.Name, ErrInvalidPin)
			}
		}
		col := target.Row(p.Branch)
		row := col
		if isRef {
			row = -1
		}
		out[i] = Terminal{Col: col, Row: row}
	}
	return out, nil
}
