// Package chart renders dashboard panels to PNG with gonum/plot.
package chart

import (
	"image/color"
	"io"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sells-group/gdp-dashboard/internal/aggregate"
)

// Default canvas size.
const (
	Width  = 12 * vg.Inch
	Height = 6 * vg.Inch
)

// ErrNoData is returned for empty panels.
var ErrNoData = eris.New("chart: no data")

// thousands to billions of currency units
const billions = 1e6

var (
	referenceColor = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	peerColor      = color.RGBA{R: 40, G: 90, B: 160, A: 255}
)

// Series draws one line per group, GDP in R$ bi against year.
func Series(points []aggregate.SeriesPoint, title string) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	byGroup := make(map[string]plotter.XYs)
	var groups []string
	for _, pt := range points {
		if _, ok := byGroup[pt.Group]; !ok {
			groups = append(groups, pt.Group)
		}
		byGroup[pt.Group] = append(byGroup[pt.Group], plotter.XY{X: float64(pt.Year), Y: pt.GDPTotal / billions})
	}
	sort.Strings(groups)

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Ano"
	p.Y.Label.Text = "PIB (R$ bi)"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, g := range groups {
		xys := byGroup[g]
		sort.Slice(xys, func(a, b int) bool { return xys[a].X < xys[b].X })

		line, pts, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, eris.Wrapf(err, "chart: line %s", g)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		pts.Color = plotutil.Color(i)
		pts.Shape = draw.CircleGlyph{}
		p.Add(line, pts)
		p.Legend.Add(g, line)
	}
	p.X.Tick.Marker = yearTicks{}
	return p, nil
}

// Peers draws GDP against per-capita GDP with the reference municipality
// highlighted and every point labelled.
func Peers(points []aggregate.PeerPoint, title string) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "PIB (R$ mi)"
	p.Y.Label.Text = "PIB per capita (R$)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	labels := make([]string, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.GDPTotal / 1e3, Y: pt.GDPPerCapita}
		labels[i] = pt.Municipality

		s, err := plotter.NewScatter(plotter.XYs{xys[i]})
		if err != nil {
			return nil, eris.Wrapf(err, "chart: scatter %s", pt.Municipality)
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Color = peerColor
		if pt.IsReference {
			s.GlyphStyle.Radius = vg.Points(7)
			s.GlyphStyle.Color = referenceColor
		}
		p.Add(s)
	}

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, eris.Wrap(err, "chart: labels")
	}
	p.Add(l)
	return p, nil
}

// Composition draws sector shares (percent) as bars.
func Composition(shares []aggregate.SectorShare, title string) (*plot.Plot, error) {
	if len(shares) == 0 {
		return nil, ErrNoData
	}

	values := make(plotter.Values, len(shares))
	names := make([]string, len(shares))
	for i, s := range shares {
		values[i] = s.Share
		names[i] = s.Label
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Participação no VAB (%)"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, eris.Wrap(err, "chart: bars")
	}
	bars.Color = peerColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// WritePNG encodes p as PNG at the default size.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return eris.Wrap(err, "chart: png canvas")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return eris.Wrap(err, "chart: write png")
	}
	return nil
}

// Save writes p to path; the format follows the extension.
func Save(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return eris.Wrapf(err, "chart: save %s", path)
	}
	return nil
}

// yearTicks places a labelled tick on every whole year.
type yearTicks struct{}

func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	var ticks []plot.Tick
	for y := int(lo); float64(y) <= hi; y++ {
		if float64(y) < lo {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return ticks
}
