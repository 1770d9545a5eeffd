package debug

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	*Record
}

func legend() opts.Legend {
	return opts.Legend{
		Type:   "scroll",
		Orient: "vertical",
		Right:  "10",
		Top:    "20",
		Bottom: "20",
	}
}

// newLine 时间曲线
func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(legend()),
		charts.WithXAxisOpts(opts.XAxis{
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(false),
	)
	return line
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		items[i] = opts.LineData{Value: v}
	}
	return items
}

// graph 元件连接网络图
func (c *Charts) graph() *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "电路节点信息",
			Subtitle: "电路连接节点网络图",
		}),
		charts.WithLegendOpts(legend()),
	)
	nodes := make([]opts.GraphNode, len(c.Elements))
	for i, name := range c.Elements {
		category := 0
		if c.Kinds[i] == "NODE" || c.Kinds[i] == "GND" {
			category = 1
		}
		nodes[i] = opts.GraphNode{
			Name:     name,
			Category: category,
			Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
		}
		if c.Kinds[i] == "GND" {
			nodes[i].ItemStyle = &opts.ItemStyle{Color: "#000000de"}
		}
	}
	links := make([]opts.GraphLink, len(c.Links))
	for i, l := range c.Links {
		links[i] = opts.GraphLink{
			Source: c.Elements[l.Source],
			Target: c.Elements[l.Target],
			Value:  float32(l.Pin),
		}
	}
	graph.AddSeries("电路列表", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Categories: []*opts.GraphCategory{
				{Name: "元件", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
				{Name: "节点", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
			},
			Roam:               opts.Bool(true),
			Force:              &opts.GraphForce{Repulsion: 80},
			EdgeLabel:          &opts.EdgeLabel{Show: opts.Bool(true)},
			FocusNodeAdjacency: opts.Bool(true),
		}))
	return graph
}

// Render 输出网页
func (c *Charts) Render(w io.Writer) error {
	lineV := newLine("电压曲线", "电路节点电压随时间变化曲线")
	lineA := newLine("电流曲线", "支路电流随时间变化曲线")
	lineI := newLine("激励曲线", "激励列随时间变化曲线")
	for _, line := range []*charts.Line{lineV, lineA, lineI} {
		line.SetXAxis(c.Time)
	}
	for _, row := range c.Voltage {
		lineV.AddSeries(c.Labels[row], lineData(c.column(row)))
	}
	for _, row := range c.Current {
		lineA.AddSeries(c.Labels[row], lineData(c.column(row)))
	}
	for row := range c.Labels {
		s := make([]float64, len(c.Incentive))
		for i, v := range c.Incentive {
			s[i] = v[row]
		}
		lineI.AddSeries(fmt.Sprintf("S[%d]", row), lineData(s))
	}

	page := components.NewPage()
	page.AddCharts(
		c.graph(),
		lineV,
		lineA,
		lineI,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
