// Package plotting renders classification datasets and model mistakes to
// image files. Only the first two feature columns are drawn.
package plotting

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/miku/skgo/pkg/errors"
)

const plotSize = 6 * vg.Inch

// ScatterClasses draws the first two columns of X as a scatter plot with
// one color per class and saves it to path. The image format follows the
// file extension, png or svg or pdf.
func ScatterClasses(X mat.Matrix, labels []int, title, path string) error {
	groups, order, err := groupByClass(X, labels)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "feature 0"
	p.Y.Label.Text = "feature 1"
	p.Add(plotter.NewGrid())

	for i, class := range order {
		scatter, err := plotter.NewScatter(groups[class])
		if err != nil {
			return errors.Wrap(err, "plotting: building scatter")
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("class %d", class), scatter)
	}

	if err := p.Save(plotSize, plotSize, path); err != nil {
		return errors.Wrapf(err, "plotting: saving %s", path)
	}
	return nil
}

// Misclassifications draws the dataset colored by true class and rings
// every point whose prediction disagrees with its label, then saves the
// plot to path.
func Misclassifications(X mat.Matrix, yTrue, yPred []int, title, path string) error {
	if len(yTrue) != len(yPred) {
		return errors.NewDimensionError("plotting.Misclassifications", len(yTrue), len(yPred), 0)
	}
	groups, order, err := groupByClass(X, yTrue)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "feature 0"
	p.Y.Label.Text = "feature 1"
	p.Add(plotter.NewGrid())

	for i, class := range order {
		scatter, err := plotter.NewScatter(groups[class])
		if err != nil {
			return errors.Wrap(err, "plotting: building scatter")
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("class %d", class), scatter)
	}

	var missed plotter.XYs
	for i, label := range yTrue {
		if yPred[i] != label {
			missed = append(missed, plotter.XY{X: X.At(i, 0), Y: X.At(i, 1)})
		}
	}
	if len(missed) > 0 {
		ring, err := plotter.NewScatter(missed)
		if err != nil {
			return errors.Wrap(err, "plotting: building misclassification overlay")
		}
		ring.GlyphStyle.Color = plotutil.Color(len(order))
		ring.GlyphStyle.Shape = draw.RingGlyph{}
		ring.GlyphStyle.Radius = vg.Points(7)
		p.Add(ring)
		p.Legend.Add("misclassified", ring)
	}

	if err := p.Save(plotSize, plotSize, path); err != nil {
		return errors.Wrapf(err, "plotting: saving %s", path)
	}
	return nil
}

// groupByClass splits the first two columns of X into per-class point
// sets, returning the sorted class order alongside.
func groupByClass(X mat.Matrix, labels []int) (map[int]plotter.XYs, []int, error) {
	rows, cols := X.Dims()
	if cols < 2 {
		return nil, nil, errors.NewValueError("plotting", "need at least two feature columns")
	}
	if len(labels) != rows {
		return nil, nil, errors.NewDimensionError("plotting", rows, len(labels), 0)
	}

	groups := make(map[int]plotter.XYs)
	for i, label := range labels {
		groups[label] = append(groups[label], plotter.XY{X: X.At(i, 0), Y: X.At(i, 1)})
	}
	order := make([]int, 0, len(groups))
	for class := range groups {
		order = append(order, class)
	}
	sort.Ints(order)
	return groups, order, nil
}
