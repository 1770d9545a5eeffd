// Package unit 解析带SI前缀的参数字符串，例如 "5m"、"1kΩ"、"50Hz"
package unit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidQuantity 参数字符串格式错误
var ErrInvalidQuantity = errors.New("unit: invalid quantity")

// Unit 参数单位
type Unit int

const (
	None Unit = iota
	Volt
	Ampere
	Ohm
	Farad
	Henry
	Hertz
	Degree
	Second
	Siemens
)

var unitNames = [...]string{"None", "Volt", "Ampere", "Ohm", "Farad", "Henry", "Hertz", "Degree", "Second", "Siemens"}

var unitSymbols = [...]string{"", "V", "A", "Ω", "F", "H", "Hz", "°", "s", "S"}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "Unit(" + strconv.Itoa(int(u)) + ")"
}

// Symbol 单位符号
func (u Unit) Symbol() string {
	if int(u) < len(unitSymbols) {
		return unitSymbols[u]
	}
	return ""
}

// symbols 可接受的单位写法
var symbols = map[string]Unit{
	"V":   Volt,
	"A":   Ampere,
	"Ω":   Ohm,
	"ohm": Ohm,
	"F":   Farad,
	"H":   Henry,
	"Hz":  Hertz,
	"°":   Degree,
	"deg": Degree,
	"s":   Second,
	"S":   Siemens,
}

// meg 兆，不区分大小写，需先于 "m"、"M" 匹配
const meg = "meg"

// prefixes SI数量级前缀
var prefixes = []struct {
	name  string
	scale float64
}{
	{"T", 1e12},
	{"G", 1e9},
	{"M", 1e6},
	{"K", 1e3},
	{"k", 1e3},
	{"m", 1e-3},
	{"u", 1e-6},
	{"μ", 1e-6},
	{"µ", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
	{"f", 1e-15},
}

// Parse 解析参数字符串为数值
// 格式: [符号]数字[.数字][e指数][前缀][单位]，首尾空白忽略
func Parse(text string) (float64, error) {
	v, _, err := parse(text)
	return v, err
}

// ParseAs 解析参数字符串，若带单位则必须与want一致
func ParseAs(text string, want Unit) (float64, error) {
	v, u, err := parse(text)
	if err != nil {
		return 0, err
	}
	if u != None && u != want {
		return 0, fmt.Errorf("%q: unit %s, want %s: %w", text, u, want, ErrInvalidQuantity)
	}
	return v, nil
}

func parse(text string) (float64, Unit, error) {
	s := strings.TrimSpace(text)
	n := scanNumber(s)
	if n == 0 {
		return 0, None, fmt.Errorf("%q: %w", text, ErrInvalidQuantity)
	}
	num, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0, None, fmt.Errorf("%q: %w", text, ErrInvalidQuantity)
	}
	rest := s[n:]
	if rest == "" {
		return num, None, nil
	}
	// 完整单位优先，"1F" 为法拉而非飞
	if u, ok := symbols[rest]; ok {
		return num, u, nil
	}
	if len(rest) >= len(meg) && strings.EqualFold(rest[:len(meg)], meg) {
		if v, u, ok := scaled(num, 1e6, rest[len(meg):]); ok {
			return v, u, nil
		}
	}
	for _, p := range prefixes {
		tail, ok := strings.CutPrefix(rest, p.name)
		if !ok {
			continue
		}
		if v, u, ok := scaled(num, p.scale, tail); ok {
			return v, u, nil
		}
	}
	return 0, None, fmt.Errorf("%q: unknown suffix %q: %w", text, rest, ErrInvalidQuantity)
}

// scaled 前缀之后只能为空或单位
func scaled(num, scale float64, tail string) (float64, Unit, bool) {
	if tail == "" {
		return num * scale, None, true
	}
	if u, ok := symbols[tail]; ok {
		return num * scale, u, true
	}
	return 0, None, false
}

// scanNumber 返回数字部分的长度，没有数字返回0
func scanNumber(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	// 指数部分必须带数字，否则 'e' 留给后缀
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

var formatPrefixes = map[int]string{
	-15: "f", -12: "p", -9: "n", -6: "u", -3: "m",
	0: "", 3: "k", 6: "M", 9: "G", 12: "T",
}

// Format 以工程计数法格式化数值，例如 Format(0.005, Volt) == "5mV"
func Format(value float64, u Unit) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Sprintf("%g%s", value, u.Symbol())
	}
	abs := math.Abs(value)
	exp := int(math.Floor(math.Log10(abs)/3)) * 3
	// Log10 在整数幂附近可能偏小
	if abs/math.Pow10(exp) >= 1000 {
		exp += 3
	}
	exp = max(-15, min(12, exp))
	return fmt.Sprintf("%.4g%s%s", value/math.Pow10(exp), formatPrefixes[exp], u.Symbol())
}
