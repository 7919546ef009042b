package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/gamma-omg/weekly-timing/internal/analysis"
	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	lowColor  = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	highColor = color.RGBA{R: 30, G: 120, B: 200, A: 255}
)

// Chart stacks plots vertically and aligns their X axes.
type Chart struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func NewChart(w, h int) *Chart {
	return &Chart{w: w, h: h}
}

func (c *Chart) Add(p *plot.Plot, height float64) {
	c.plots = append(c.plots, p)
	c.heights = append(c.heights, height)
}

func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	if len(c.plots) == 0 {
		return 0, errors.New("chart has no plots")
	}

	var axis []*plot.Axis
	for _, p := range c.plots {
		axis = append(axis, &p.X)
	}
	plotext.UniteAxisRanges(axis)

	tbl := plotext.Table{
		RowHeights: c.heights,
		ColWidths:  []float64{1},
	}

	var plots2d [][]*plot.Plot
	for _, p := range c.plots {
		plots2d = append(plots2d, []*plot.Plot{p})
	}

	h := 0.0
	for _, v := range c.heights {
		h += v * float64(c.h)
	}

	img := vgimg.New(vg.Points(float64(c.w)), vg.Points(h))
	dc := draw.New(img)

	canvases := tbl.Align(plots2d, dc)
	for i, p := range c.plots {
		p.Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	n, err := png.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write chart: %w", err)
	}

	return n, nil
}

func (c *Chart) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close chart file: %w", cerr))
		}
	}()

	_, err = c.WriteTo(f)
	return err
}

// NewReportChart plots the weekly extreme prices and the time of day at which
// they occurred for every week of the window that has data.
func NewReportChart(r *analysis.Report) (*Chart, error) {
	weeks := r.Window.Weeks
	if len(weeks) == 0 {
		return nil, errors.New("report has no weeks to plot")
	}

	pts := newChartPoints(r.Window)

	// the X range spans the whole window so empty weeks keep their place
	xMin := float64(weeks[0].Start.Unix())
	xMax := float64(weeks[len(weeks)-1].Start.Unix())

	prices := plot.New()
	prices.X.Min, prices.X.Max = xMin, xMax
	prices.Title.Text = fmt.Sprintf("%s weekly extremes", r.Symbol)
	prices.Y.Label.Text = "Price"
	prices.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	prices.Legend.Top = true

	if err := addSeries(prices, "weekly low", pts.lowPrices, lowColor, true); err != nil {
		return nil, err
	}
	if err := addSeries(prices, "weekly high", pts.highPrices, highColor, true); err != nil {
		return nil, err
	}

	timing := plot.New()
	timing.X.Min, timing.X.Max = xMin, xMax
	timing.Title.Text = "Time of day"
	timing.Y.Label.Text = "Hour"
	timing.Y.Min = 0
	timing.Y.Max = 24
	timing.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	timing.Legend.Top = true

	if err := addSeries(timing, "low", pts.lowHours, lowColor, false); err != nil {
		return nil, err
	}
	if err := addSeries(timing, "high", pts.highHours, highColor, false); err != nil {
		return nil, err
	}

	addAverage(timing, "avg low "+r.AvgLow.String(), r.AvgLow, lowColor)
	addAverage(timing, "avg high "+r.AvgHigh.String(), r.AvgHigh, highColor)

	c := NewChart(800, 300)
	c.Add(prices, 1)
	c.Add(timing, 1)

	return c, nil
}

func WriteChart(path string, r *analysis.Report) error {
	c, err := NewReportChart(r)
	if err != nil {
		return fmt.Errorf("failed to build chart: %w", err)
	}

	return c.Save(path)
}

type chartPoints struct {
	lowPrices  plotter.XYs
	highPrices plotter.XYs
	lowHours   plotter.XYs
	highHours  plotter.XYs
}

// newChartPoints places the hours of day in the same location the window
// averages were computed in.
func newChartPoints(w analysis.Window) chartPoints {
	lowLoc := timingLocation(w.LowTimes)
	highLoc := timingLocation(w.HighTimes)

	var pts chartPoints
	for _, ws := range w.Weeks {
		if !ws.HasData {
			continue
		}

		x := float64(ws.Start.Unix())
		lp, _ := ws.Low.Low.Float64()
		hp, _ := ws.High.High.Float64()
		pts.lowPrices = append(pts.lowPrices, plotter.XY{X: x, Y: lp})
		pts.highPrices = append(pts.highPrices, plotter.XY{X: x, Y: hp})
		pts.lowHours = append(pts.lowHours, plotter.XY{X: x, Y: clockHours(ws.Low.Time.In(lowLoc))})
		pts.highHours = append(pts.highHours, plotter.XY{X: x, Y: clockHours(ws.High.Time.In(highLoc))})
	}

	return pts
}

func hourOfDay(hour, minute int) float64 {
	return float64(hour) + float64(minute)/60
}

func clockHours(t time.Time) float64 {
	return hourOfDay(t.Hour(), t.Minute())
}

func timingLocation(ts []time.Time) *time.Location {
	if len(ts) == 0 {
		return time.UTC
	}
	return ts[0].Location()
}

func addSeries(p *plot.Plot, name string, pts plotter.XYs, c color.Color, line bool) error {
	if len(pts) == 0 {
		return nil
	}

	if !line {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("failed to create %s graph: %w", name, err)
		}
		s.GlyphStyle.Color = c
		p.Add(s)
		p.Legend.Add(name, s)
		return nil
	}

	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("failed to create %s graph: %w", name, err)
	}
	l.Color = c
	s.GlyphStyle.Color = c
	p.Add(l, s)
	p.Legend.Add(name, l, s)
	return nil
}

func addAverage(p *plot.Plot, name string, t analysis.Timing, c color.Color) {
	if !t.Valid {
		return
	}

	y := hourOfDay(t.Minutes/60, t.Minutes%60)
	f := plotter.NewFunction(func(float64) float64 { return y })
	f.Color = c
	f.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(f)
	p.Legend.Add(name, f)
}
