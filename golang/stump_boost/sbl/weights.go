package sbl

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

//Weights is the sample distribution owned by a booster. It sums to one after every update.
type Weights []float64

//NewWeights gives every sample 1/(2*count of its class), so both classes start with half the mass.
func NewWeights(labels []Label) (Weights, error) {
	positives, negatives := 0, 0
	for ind, label := range labels {
		switch label {
		case Positive:
			positives++
		case Negative:
			negatives++
		default:
			return nil, configurationf("sample %d has unknown label %d", ind, label)
		}
	}
	if positives == 0 || negatives == 0 {
		return nil, configurationf("need both classes, got %d positive and %d negative samples", positives, negatives)
	}

	posW := 1.0 / (2 * float64(positives))
	negW := 1.0 / (2 * float64(negatives))
	w := make(Weights, len(labels))
	for ind, label := range labels {
		if label == Positive {
			w[ind] = posW
		} else {
			w[ind] = negW
		}
	}
	return w, nil
}

//Reweight scales the weights of correctly classified samples by beta and renormalizes.
//Misclassified samples are left as they are; the renormalization moves mass towards them.
func (w Weights) Reweight(correct []bool, beta float64) error {
	if len(correct) != len(w) {
		return invariantf("reweight got %d outcomes for %d weights", len(correct), len(w))
	}
	for ind, ok := range correct {
		if ok {
			w[ind] *= beta
		}
	}
	return w.Normalize()
}

//Normalize rescales the weights to sum to one.
func (w Weights) Normalize() error {
	total := floats.Sum(w)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return invariantf("weights sum to %v", total)
	}
	floats.Scale(1/total, w)
	return nil
}

//Sum returns the total mass.
func (w Weights) Sum() float64 {
	return floats.Sum(w)
}
