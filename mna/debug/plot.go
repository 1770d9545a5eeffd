package debug

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot 将指定结果画成图片，labels 为空时画全部电压
// format 为 png、svg、pdf 等 gonum/plot 支持的格式。
func (r *Record) Plot(w io.Writer, format string, labels ...string) error {
	rows := r.Voltage
	if len(labels) > 0 {
		rows = rows[:0:0]
		for _, l := range labels {
			row := -1
			for i, name := range r.Labels {
				if name == l {
					row = i
					break
				}
			}
			if row < 0 {
				return fmt.Errorf("unknown series %q", l)
			}
			rows = append(rows, row)
		}
	}

	p := plot.New()
	p.Title.Text = "瞬态分析"
	p.X.Label.Text = "t (s)"
	p.Add(plotter.NewGrid())
	for i, row := range rows {
		xys := make(plotter.XYs, len(r.Time))
		for k, t := range r.Time {
			xys[k].X = t
			xys[k].Y = r.Values[k][row]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("series %s: %w", r.Labels[row], err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(r.Labels[row], line)
	}

	wt, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
