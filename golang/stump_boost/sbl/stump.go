package sbl

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Stump is a fitted one-dimensional decision rule. Polarity +1 calls a sample positive when its
//value is below Threshold, polarity -1 when it is above. A value equal to Threshold is negative
//for both polarities.
type Stump struct {
	Dimension int
	Threshold float64
	Polarity  float64
	Error     float64
}

//Classify applies the rule to one feature value.
func (s Stump) Classify(value float64) Label {
	if value*s.Polarity < s.Threshold*s.Polarity {
		return Positive
	}
	return Negative
}

//Predict applies the rule to every column of features. Only row Dimension is read, so features
//may hold any number of samples. Dimension must be a valid row of features.
func (s Stump) Predict(features *mat.Dense) []Label {
	row := features.RawRowView(s.Dimension)
	prediction := make([]Label, len(row))
	for ind, value := range row {
		prediction[ind] = s.Classify(value)
	}
	return prediction
}

//Vote writes the signed prediction (+1 or -1) for every column of features into dst.
func (s Stump) Vote(features *mat.Dense, dst []float64) []float64 {
	row := features.RawRowView(s.Dimension)
	if dst == nil {
		dst = make([]float64, len(row))
	}
	for ind, value := range row {
		dst[ind] = s.Classify(value).Float()
	}
	return dst
}

//GraphDescription returns the description of a stump for ensemble rendering as a graph
func (s Stump) GraphDescription(alpha float64) string {
	var sb strings.Builder
	sign := "<"
	if s.Polarity < 0 {
		sign = ">"
	}
	sb.WriteString(fmt.Sprintf("f_%d %s %6.5f\n", s.Dimension, sign, s.Threshold))
	sb.WriteString(fmt.Sprintln("alpha: ", alpha))
	sb.WriteString(fmt.Sprint("error: ", s.Error))
	return sb.String()
}

func (s Stump) String() string {
	return fmt.Sprintf("stump(f_%d, th=%g, polarity=%+g, err=%g)", s.Dimension, s.Threshold, s.Polarity, s.Error)
}

//WeakLearnerFunc fits one weak learner against the current weight distribution.
//The booster receives it once at construction.
type WeakLearnerFunc func(sm SMatrix, weights []float64) (Stump, error)

//StumpLearner returns the stump fitting strategy scanning dimensions with the given number of threads.
func StumpLearner(threads int) WeakLearnerFunc {
	return func(sm SMatrix, weights []float64) (Stump, error) {
		return FitStump(sm, weights, threads)
	}
}
