package mna

import (
	"fmt"
	"slices"
	"strings"
)

// Registry 元件类型注册表，类型名不区分大小写
type Registry struct {
	types map[string]Element
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Element)}
}

// DefaultRegistry 全局注册表，element 包在 init 中注册
var DefaultRegistry = NewRegistry()

// Register 注册元件类型，重复注册会panic
func (r *Registry) Register(el Element) {
	key := strings.ToUpper(el.Type())
	if _, ok := r.types[key]; ok {
		panic(fmt.Sprintf("元件重复注册: %s", key))
	}
	r.types[key] = el
}

// Lookup 查找元件类型
func (r *Registry) Lookup(typeName string) (Element, bool) {
	el, ok := r.types[strings.ToUpper(typeName)]
	return el, ok
}

// Types 已注册的类型名（排序）
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.types))
	for k := range r.types {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Register 注册到全局注册表
func Register(el Element) { DefaultRegistry.Register(el) }
