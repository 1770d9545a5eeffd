// Package debug 记录每步结果并输出为 JSON、CSV、网页曲线或图片
package debug

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"circuitcore/maths"
	"circuitcore/mna"
)

// Link 元件引脚到目标元件的连接
type Link struct {
	Source int `json:"source"` // 元件序号
	Target int `json:"target"` // 引脚连接的元件序号
	Pin    int `json:"pin"`
}

// Record 记录历史状态
type Record struct {
	Elements  []string    `json:"elements"`  // 元件名称
	Kinds     []string    `json:"kinds"`     // 元件类型
	Links     []Link      `json:"links"`     // 连接信息
	Labels    []string    `json:"labels"`    // 每行结果名称
	Voltage   []int       `json:"voltage"`   // 电压行
	Current   []int       `json:"current"`   // 电流行
	Time      []float64   `json:"time"`      // 时间列
	Values    [][]float64 `json:"values"`    // 每步解向量
	Incentive [][]float64 `json:"incentive"` // 每步激励S

	sys *mna.System
}

// NewRecord 按装配结果初始化
func NewRecord(c *mna.Circuit) *Record {
	r := &Record{sys: c.System, Labels: c.Labels()}
	owner := make([]int, c.Size())
	for i, b := range c.Bindings {
		r.Elements = append(r.Elements, b.Name)
		r.Kinds = append(r.Kinds, b.Type)
		for k := 0; k < b.Element.Branches(); k++ {
			owner[b.Row(k)] = i
		}
	}
	for i, b := range c.Bindings {
		for pin, t := range b.Pins {
			if t.Connected() {
				r.Links = append(r.Links, Link{Source: i, Target: owner[t.Col], Pin: pin})
			}
		}
	}
	for row, l := range r.Labels {
		if strings.HasPrefix(l, "V(") {
			r.Voltage = append(r.Voltage, row)
		} else {
			r.Current = append(r.Current, row)
		}
	}
	return r
}

// Update 记录一步数据，可直接作为 simulation.StepFunc
func (r *Record) Update(t float64, x *maths.Matrix) error {
	r.Time = append(r.Time, t)
	r.Values = append(r.Values, x.Column(0))
	if r.sys != nil && !r.sys.Empty() {
		r.Incentive = append(r.Incentive, r.sys.S.Column(0))
	}
	return nil
}

// Len 已记录的步数
func (r *Record) Len() int { return len(r.Time) }

// Series 按名称取一列结果
func (r *Record) Series(label string) ([]float64, bool) {
	for row, l := range r.Labels {
		if strings.EqualFold(l, label) {
			return r.column(row), true
		}
	}
	return nil, false
}

func (r *Record) column(row int) []float64 {
	out := make([]float64, len(r.Values))
	for i, v := range r.Values {
		out[i] = v[row]
	}
	return out
}

// Render 格式和输出内容
func (r *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(r) }

// WriteCSV 每步一行，首列为时间
func (r *Record) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, r.Labels...)); err != nil {
		return err
	}
	row := make([]string, len(r.Labels)+1)
	for i, t := range r.Time {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for k, v := range r.Values[i] {
			row[k+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
