// Package load 解析文本网表，生成装配用的拓扑
//
//	* RC 充电
//	V1 in 0 5
//	R1 in out 1k
//	C1 out 0 1u
//	.tran 10u 5m
//	.end
//
// 元件类型取名称中第一个数字之前的部分（VAC1 为 VAC），
// 节点 0 和 gnd 为参考点，其余节点按出现顺序创建。
package load

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	_ "circuitcore/element"
	"circuitcore/mna"
	"circuitcore/unit"

	"github.com/alecthomas/participle/v2"
)

var (
	// ErrSyntax 网表语法错误
	ErrSyntax = errors.New("load: syntax error")
	// ErrUndefined 引用了不存在的元件
	ErrUndefined = errors.New("load: undefined component")
	// ErrDuplicate 元件重名
	ErrDuplicate = errors.New("load: duplicate component")
)

// GroundName 参考点在拓扑中的名称
const GroundName = "0"

// Tran .tran 瞬态分析参数
type Tran struct {
	Step  float64
	Stop  float64
	Start float64
}

// Deck 解析结果
type Deck struct {
	Topology mna.Topology
	Nodes    []string // 拓扑前 len(Nodes) 个元件为节点
	Tran     *Tran    // 没有 .tran 时为nil
}

// Component 按名称查找元件序号
func (d *Deck) Component(name string) (int, bool) {
	for i, c := range d.Topology {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Parser 网表解析器
type Parser struct {
	parser   *participle.Parser[netlist]
	registry *mna.Registry
}

// Option 解析选项
type Option func(*Parser)

// WithRegistry 指定元件注册表，默认 mna.DefaultRegistry
func WithRegistry(r *mna.Registry) Option { return func(p *Parser) { p.registry = r } }

// NewParser 创建解析器
func NewParser(opts ...Option) (*Parser, error) {
	parser, err := participle.Build[netlist](
		participle.Lexer(netlistLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	p := &Parser{parser: parser, registry: mna.DefaultRegistry}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse 从 r 读取网表
func (p *Parser) Parse(r io.Reader) (*Deck, error) {
	tree, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return p.build(tree)
}

// ParseString 解析字符串
func (p *Parser) ParseString(input string) (*Deck, error) {
	return p.Parse(strings.NewReader(input))
}

// ParseFile 解析文件
func (p *Parser) ParseFile(filename string) (*Deck, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return p.Parse(file)
}

var defaultParser = func() *Parser {
	p, err := NewParser()
	if err != nil {
		panic(err)
	}
	return p
}()

// Parse 使用默认注册表解析
func Parse(r io.Reader) (*Deck, error) { return defaultParser.Parse(r) }

// ParseString 使用默认注册表解析字符串
func ParseString(input string) (*Deck, error) { return defaultParser.ParseString(input) }

// ParseFile 使用默认注册表解析文件
func ParseFile(filename string) (*Deck, error) { return defaultParser.ParseFile(filename) }

// entry 元件语句解析后的中间结果
type entry struct {
	line    int
	name    string
	element mna.Element
	pins    []string
	params  []string
}

func (p *Parser) build(tree *netlist) (*Deck, error) {
	deck := &Deck{}
	var entries []entry
	names := map[string]bool{}

scan:
	for _, st := range tree.Statements {
		line := st.Pos.Line
		if d := st.Directive; d != nil {
			switch strings.ToLower(d.Name) {
			case ".end":
				break scan
			case ".tran":
				tran, err := parseTran(d.Args)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				deck.Tran = tran
			default:
				return nil, fmt.Errorf("line %d: unknown directive %s: %w", line, d.Name, ErrSyntax)
			}
			continue
		}
		c := st.Card
		el, err := p.resolveType(c.Name)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		key := strings.ToUpper(c.Name)
		if names[key] {
			return nil, fmt.Errorf("line %d: %s: %w", line, c.Name, ErrDuplicate)
		}
		names[key] = true
		n := len(el.Pins())
		if len(c.Fields) < n {
			return nil, fmt.Errorf("line %d: %s needs %d pins, got %d: %w", line, c.Name, n, len(c.Fields), ErrSyntax)
		}
		entries = append(entries, entry{
			line:    line,
			name:    c.Name,
			element: el,
			pins:    c.Fields[:n],
			params:  c.Fields[n:],
		})
	}

	// 节点排在元件之前
	nodes := map[string]int{}
	for _, e := range entries {
		for k, pin := range e.pins {
			if isControl(e.element, k) {
				continue
			}
			name := nodeName(pin)
			if _, ok := nodes[name]; !ok {
				nodes[name] = len(deck.Nodes)
				deck.Nodes = append(deck.Nodes, name)
			}
		}
	}
	for _, name := range deck.Nodes {
		typ := "NODE"
		if name == GroundName {
			typ = "GND"
		}
		deck.Topology = append(deck.Topology, mna.Component{Type: typ, Name: name})
	}

	offset := len(deck.Nodes)
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[strings.ToUpper(e.name)] = offset + i
	}
	for _, e := range entries {
		c := mna.Component{
			Type:   e.element.Type(),
			Name:   e.name,
			Params: e.params,
			Pins:   make([]mna.Pin, len(e.pins)),
		}
		for k, pin := range e.pins {
			if isControl(e.element, k) {
				target, ok := index[strings.ToUpper(pin)]
				if !ok {
					return nil, fmt.Errorf("line %d: %s controlled by %s: %w", e.line, e.name, pin, ErrUndefined)
				}
				c.Pins[k] = mna.Pin{Component: target}
				continue
			}
			c.Pins[k] = mna.Pin{Component: nodes[nodeName(pin)]}
		}
		deck.Topology = append(deck.Topology, c)
	}
	return deck, nil
}

// resolveType 名称中第一个数字之前的部分为类型，找不到时取最长的已注册前缀
func (p *Parser) resolveType(name string) (mna.Element, error) {
	upper := strings.ToUpper(name)
	prefix := upper
	if i := strings.IndexAny(upper, "0123456789"); i > 0 {
		prefix = upper[:i]
	}
	if el, ok := p.registry.Lookup(prefix); ok && !structural(prefix) {
		return el, nil
	}
	best := ""
	for _, typ := range p.registry.Types() {
		if strings.HasPrefix(upper, typ) && len(typ) > len(best) && !structural(typ) {
			best = typ
		}
	}
	if best == "" {
		return nil, fmt.Errorf("component %s: %w", name, mna.ErrUnknownComponentType)
	}
	el, _ := p.registry.Lookup(best)
	return el, nil
}

// structural 节点类型由网表自动创建，不能作为元件语句
func structural(typ string) bool { return typ == "NODE" || typ == "GND" }

// isControl 第k个引脚指向控制元件而不是节点
func isControl(el mna.Element, k int) bool {
	return el.Pins()[k] == mna.ControlPin
}

func nodeName(pin string) string {
	if pin == GroundName || strings.EqualFold(pin, "gnd") {
		return GroundName
	}
	return pin
}

func parseTran(args []string) (*Tran, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, fmt.Errorf(".tran takes step stop [start], got %d args: %w", len(args), ErrSyntax)
	}
	var v [3]float64
	for i, a := range args {
		x, err := unit.ParseAs(a, unit.Second)
		if err != nil {
			return nil, fmt.Errorf(".tran: %w", err)
		}
		v[i] = x
	}
	return &Tran{Step: v[0], Stop: v[1], Start: v[2]}, nil
}
