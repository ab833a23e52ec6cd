package splits

import (
	"fmt"
	"log"
	"math"
)

// MeanFunc folds the two occurrence counters of a split (one per
// orientation) into a scalar weight. Mean functions must be pure; they are
// applied independently per split.
type MeanFunc func(n0, n1 uint32) float64

type Mean int

const (
	Geom2 Mean = iota // pseudo-counted geometric mean, the default
	Geom
	Arith
)

var ParseMean = map[string]Mean{
	"geom2": Geom2,
	"geom":  Geom,
	"arith": Arith,
}

func (m *Mean) Set(s string) error {
	if mean, ok := ParseMean[s]; ok {
		*m = mean
		return nil
	}
	return fmt.Errorf("\"%s\" is not a valid mean function", s)
}

func (m Mean) String() string {
	for s, mean := range ParseMean {
		if mean == m {
			return s
		}
	}
	panic(fmt.Sprintf("mean (%d) does not exist", m))
}

func (m Mean) Func() MeanFunc {
	switch m {
	case Arith:
		return func(n0, n1 uint32) float64 {
			return (float64(n0) + float64(n1)) / 2
		}
	case Geom:
		return func(n0, n1 uint32) float64 {
			return math.Sqrt(float64(n0) * float64(n1))
		}
	case Geom2:
		return func(n0, n1 uint32) float64 {
			return math.Sqrt(float64(n0+1)*float64(n1+1)) - 1
		}
	default:
		panic(fmt.Sprintf("mean (%d) does not exist", m))
	}
}

// LogEveryNPercent logs msg when count crosses a multiple of percent percent
// of total. Used by long loops to report progress without flooding the log.
func LogEveryNPercent(count, percent, total int, msg string) {
	step := total * percent / 100
	if step == 0 || count%step == 0 {
		log.Print(msg)
	}
}
