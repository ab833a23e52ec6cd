// Package writing results: the weighted split table, newick output, and the
// split-weight decay plot
package splitio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	sp "github.com/jsdoublel/sartre/internal/splits"
	"github.com/jsdoublel/sartre/internal/taxa"
)

var (
	ErrWritingFile = errors.New("error writing file")

	plotLineColor   = color.RGBA{R: 37, G: 150, B: 190, A: 255}
	plotMarkerShape = draw.SquareGlyph{}
)

const (
	plotH = 4 * vg.Inch
	plotW = 6 * vg.Inch

	maxTicks = 10
)

// WriteSplits writes the split table as tab separated values: per row the
// weight followed by the names of the taxa on the canonical side, ascending.
func WriteSplits[C comparable](w io.Writer, tc taxa.Coder[C], splits []sp.Split[C], names []string) (err error) {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	defer func() {
		writer.Flush()
		if err == nil {
			err = writer.Error()
		} else if writer.Error() != nil {
			log.Printf("error when flushing split table, %s", writer.Error())
		}
	}()
	for _, s := range splits {
		row := make([]string, 0, tc.Count(s.Set)+1)
		row = append(row, strconv.FormatFloat(s.Weight, 'f', -1, 64))
		for i := range tc.Members(s.Set) {
			row = append(row, names[i])
		}
		if err = writer.Write(row); err != nil {
			err = fmt.Errorf("%w, %s", ErrWritingFile, err)
			return
		}
	}
	return
}

// WriteNewick writes one or more newick strings followed by a newline.
func WriteNewick(w io.Writer, nwk string) error {
	if _, err := fmt.Fprintln(w, nwk); err != nil {
		return fmt.Errorf("%w, %s", ErrWritingFile, err)
	}
	return nil
}

// WriteWeightLineplot plots the split-weight decay (weight against rank in
// the split list) and saves it to <prefix>.png.
func WriteWeightLineplot(weights []float64, prefix string) error {
	p := plot.New()
	p.X.Label.Text = "Split Rank"
	p.Y.Label.Text = "Split Weight"
	p.X.Min = 1
	p.X.Max = float64(len(weights))
	p.X.Tick.Marker = plot.TickerFunc(func(_, max float64) []plot.Tick {
		step := 1
		if int(max) > maxTicks {
			step = int(math.Ceil(max / maxTicks))
		}
		ticks := make([]plot.Tick, 0, int(max)/step+2)
		for i := range int(max) + 1 {
			if i == 0 {
				continue
			}
			if i%step == 0 {
				ticks = append(ticks, plot.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
			} else {
				ticks = append(ticks, plot.Tick{Value: float64(i)})
			}
		}
		return ticks
	})
	p.Y.Min = 0
	pts := make(plotter.XYs, len(weights))
	for i, weight := range weights {
		pts[i].X = float64(i + 1)
		pts[i].Y = weight
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = plotLineColor
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	points.Color = plotLineColor
	points.Shape = plotMarkerShape
	points.Radius = vg.Points(4)
	p.Add(line, points)
	return p.Save(plotW, plotH, fmt.Sprintf("%s.png", prefix))
}
