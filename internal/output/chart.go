package output

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"hftsim/internal/common"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	buyColor  = color.RGBA{G: 160, A: 255}
	sellColor = color.RGBA{R: 210, A: 255}
	lineColor = color.RGBA{B: 200, A: 255}
)

// ChartRenderer draws the trade tape as a PNG: the price path on top and the
// traded volume underneath, both coloured by the side that initiated each
// trade.
type ChartRenderer struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

func NewChartRenderer(path string) *ChartRenderer {
	return &ChartRenderer{
		Path:   path,
		Width:  12 * vg.Inch,
		Height: 8 * vg.Inch,
	}
}

func (c *ChartRenderer) Name() string { return "chart" }

func (c *ChartRenderer) Write(_ context.Context, trades []common.Trade) error {
	if len(trades) == 0 {
		log.Warn().Str("path", c.Path).Msg("no trades to plot")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("unable to create directory: %w", err)
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", c.Path, err)
	}

	if err := RenderChart(f, trades, c.Width, c.Height); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close %s: %w", c.Path, err)
	}

	log.Info().Str("path", c.Path).Msg("chart written")
	return nil
}

// RenderChart writes the two stacked panels as PNG.
func RenderChart(w io.Writer, trades []common.Trade, width, height vg.Length) error {
	prices, err := pricePath(trades)
	if err != nil {
		return fmt.Errorf("price panel: %w", err)
	}
	volumes, err := volumeHistogram(trades)
	if err != nil {
		return fmt.Errorf("volume panel: %w", err)
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)

	plots := [][]*plot.Plot{{prices}, {volumes}}
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadTop:    vg.Points(10),
		PadBottom: vg.Points(10),
		PadLeft:   vg.Points(10),
		PadRight:  vg.Points(10),
		PadY:      vg.Points(20),
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		plots[row][0].Draw(canvases[row][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("unable to encode png: %w", err)
	}
	return nil
}

func pricePath(trades []common.Trade) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Trade Prices Over Time"
	p.X.Label.Text = "Trade Index"
	p.Y.Label.Text = "Price"
	p.Add(plotter.NewGrid())

	path := make(plotter.XYs, len(trades))
	var buys, sells plotter.XYs
	for i, t := range trades {
		pt := plotter.XY{X: float64(i), Y: t.Price}
		path[i] = pt
		if t.Initiator == common.Buy {
			buys = append(buys, pt)
		} else {
			sells = append(sells, pt)
		}
	}

	line, err := plotter.NewLine(path)
	if err != nil {
		return nil, err
	}
	line.Color = lineColor
	p.Add(line)

	for _, series := range []struct {
		name   string
		points plotter.XYs
		color  color.Color
	}{
		{"Buy Initiated", buys, buyColor},
		{"Sell Initiated", sells, sellColor},
	} {
		if len(series.points) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(series.points)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Color = series.color
		p.Add(scatter)
		p.Legend.Add(series.name, scatter)
	}

	p.Legend.Top = true
	return p, nil
}

func volumeHistogram(trades []common.Trade) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Trade Volume Over Time"
	p.X.Label.Text = "Trade Index"
	p.Y.Label.Text = "Volume"
	p.Add(plotter.NewGrid())

	// One bar slot per trade, left empty on the other side's series.
	buys := make(plotter.Values, len(trades))
	sells := make(plotter.Values, len(trades))
	for i, t := range trades {
		if t.Initiator == common.Buy {
			buys[i] = t.Quantity
		} else {
			sells[i] = t.Quantity
		}
	}

	for _, series := range []struct {
		name   string
		values plotter.Values
		color  color.Color
	}{
		{"Buy Initiated", buys, buyColor},
		{"Sell Initiated", sells, sellColor},
	} {
		bars, err := plotter.NewBarChart(series.values, vg.Points(2))
		if err != nil {
			return nil, err
		}
		bars.Color = series.color
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(series.name, bars)
	}

	p.Legend.Top = true
	return p, nil
}
