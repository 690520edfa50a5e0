// Package plot renders 2D orthogonal projections of neurons.
//
// Each linear segment becomes one polyline; the soma is drawn as an
// oversized glyph and connectors as colored scatter points. Output format
// (PNG, SVG, PDF, ...) follows the filename extension.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/SridharJagannathan/navis/neuron"
)

// View selects the projection plane.
type View string

const (
	ViewXY View = "xy"
	ViewXZ View = "xz"
	ViewYZ View = "yz"
)

// Options configure a 2D plot.
type Options struct {
	// View is the projection plane. Defaults to ViewXY.
	View View
	// Title is the plot title.
	Title string
	// Color overrides the per-neuron palette with a single color.
	Color color.Color
	// Connectors draws the connector tables as scatter points.
	Connectors bool
	// ConnectorColors maps connector types to colors. Types without an
	// entry use a default.
	ConnectorColors map[string]color.Color
	// SomaRadius is the glyph radius used for the soma marker.
	// Zero uses a default.
	SomaRadius vg.Length
}

var defaultConnectorColors = map[string]color.Color{
	"presynapse":  color.RGBA{R: 0xe6, G: 0x2c, B: 0x2c, A: 0xff},
	"postsynapse": color.RGBA{B: 0xe6, G: 0x6c, R: 0x2c, A: 0xff},
}

// Plot2D renders the neurons of a list into a new plot.
func Plot2D(l *neuron.List, opts Options) (*plot.Plot, error) {
	if opts.View == "" {
		opts.View = ViewXY
	}
	p := plot.New()
	p.Title.Text = opts.Title
	hx, hy := axisLabels(opts.View)
	p.X.Label.Text = hx
	p.Y.Label.Text = hy

	for i, n := range l.Neurons {
		c := opts.Color
		if c == nil {
			c = plotutil.Color(i)
		}
		if err := addNeuron(p, n, opts, c); err != nil {
			return nil, fmt.Errorf("plot neuron %q: %w", n.Name, err)
		}
	}
	return p, nil
}

// Save renders the list and writes it to a file. The image format follows
// the filename extension.
func Save(l *neuron.List, filename string, opts Options) error {
	p, err := Plot2D(l, opts)
	if err != nil {
		return err
	}
	return p.Save(16*vg.Centimeter, 16*vg.Centimeter, filename)
}

func addNeuron(p *plot.Plot, n *neuron.TreeNeuron, opts Options, c color.Color) error {
	for _, seg := range n.Segments() {
		xys := make(plotter.XYs, 0, len(seg))
		for _, id := range seg {
			nd, ok := n.Node(id)
			if !ok {
				return &neuron.MissingNodeError{ID: id}
			}
			x, y := project(nd, opts.View)
			xys = append(xys, plotter.XY{X: x, Y: y})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = c
		p.Add(line)
	}

	if soma, ok := n.Soma(); ok {
		nd, _ := n.Node(soma)
		x, y := project(nd, opts.View)
		s, err := plotter.NewScatter(plotter.XYs{{X: x, Y: y}})
		if err != nil {
			return err
		}
		s.GlyphStyle = draw.GlyphStyle{
			Color:  c,
			Radius: somaRadius(opts),
			Shape:  draw.CircleGlyph{},
		}
		p.Add(s)
	}

	if opts.Connectors {
		if err := addConnectors(p, n, opts); err != nil {
			return err
		}
	}
	return nil
}

func addConnectors(p *plot.Plot, n *neuron.TreeNeuron, opts Options) error {
	byType := make(map[string]plotter.XYs)
	for _, cn := range n.Connectors() {
		x, y := projectXYZ(cn.X, cn.Y, cn.Z, opts.View)
		byType[cn.Type] = append(byType[cn.Type], plotter.XY{X: x, Y: y})
	}
	for typ, xys := range byType {
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		c, ok := opts.ConnectorColors[typ]
		if !ok {
			c, ok = defaultConnectorColors[typ]
		}
		if !ok {
			c = color.Gray{Y: 0x55}
		}
		s.GlyphStyle.Color = c
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
	}
	return nil
}

func somaRadius(opts Options) vg.Length {
	if opts.SomaRadius > 0 {
		return opts.SomaRadius
	}
	return vg.Points(4)
}

func project(nd neuron.Node, v View) (float64, float64) {
	return projectXYZ(nd.X, nd.Y, nd.Z, v)
}

func projectXYZ(x, y, z float64, v View) (float64, float64) {
	switch v {
	case ViewXZ:
		return x, z
	case ViewYZ:
		return y, z
	default:
		return x, y
	}
}

func axisLabels(v View) (string, string) {
	switch v {
	case ViewXZ:
		return "x", "z"
	case ViewYZ:
		return "y", "z"
	default:
		return "x", "y"
	}
}
