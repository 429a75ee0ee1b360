package sbl

import (
	"math"

	"golang.org/x/sync/errgroup"
)

//DimensionScan contains results of the threshold selection in one feature dimension.
type DimensionScan struct {
	dimension int
	threshold float64
	polarity  float64
	errorRate float64
	validScan bool
}

//polarities are evaluated in this order; a later one wins only with a strictly lower error.
var polarities = [...]float64{-1, 1}

//classMeans returns the weighted mean of a feature row over positive and over negative samples.
//ok is false when one of the classes carries no weight.
func classMeans(row []float64, labels []Label, weights []float64) (posMean, negMean float64, ok bool) {
	sumPos, sumPosW := 0.0, 0.0
	sumNeg, sumNegW := 0.0, 0.0
	for ind, value := range row {
		if labels[ind] == Positive {
			sumPos += weights[ind] * value
			sumPosW += weights[ind]
		} else {
			sumNeg += weights[ind] * value
			sumNegW += weights[ind]
		}
	}
	if sumPosW == 0 || sumNegW == 0 {
		return 0, 0, false
	}
	return sumPos / sumPosW, sumNeg / sumNegW, true
}

//weightedError sums the weights of samples misclassified by the rule (threshold, polarity).
func weightedError(row []float64, labels []Label, weights []float64, threshold, polarity float64) float64 {
	rule := Stump{Threshold: threshold, Polarity: polarity}
	errorRate := 0.0
	for ind, value := range row {
		if rule.Classify(value) != labels[ind] {
			errorRate += weights[ind]
		}
	}
	return errorRate
}

//scanDimension places the threshold halfway between the weighted class means of dimension d
//and keeps the polarity with the lower weighted error.
func scanDimension(sm SMatrix, weights []float64, d int) (scan DimensionScan) {
	scan.dimension = d
	row := sm.Features.RawRowView(d)

	posMean, negMean, ok := classMeans(row, sm.Labels, weights)
	if !ok {
		return
	}
	scan.threshold = (posMean + negMean) / 2

	scan.errorRate = math.Inf(1)
	for _, polarity := range polarities {
		errorRate := weightedError(row, sm.Labels, weights, scan.threshold, polarity)
		if errorRate < scan.errorRate {
			scan.errorRate = errorRate
			scan.polarity = polarity
		}
	}
	scan.validScan = !math.IsInf(scan.errorRate, 1) && !math.IsNaN(scan.threshold)
	return
}

//scanAllDimensions runs scanDimension for every dimension. With threads > 1 the dimensions are
//fanned out; every goroutine writes only its own slot of the result.
func scanAllDimensions(sm SMatrix, weights []float64, dims, threads int) []DimensionScan {
	result := make([]DimensionScan, dims)

	if threads <= 1 {
		for d := 0; d < dims; d++ {
			result[d] = scanDimension(sm, weights, d)
		}
		return result
	}

	var g errgroup.Group
	g.SetLimit(min(threads, dims))
	for d := 0; d < dims; d++ {
		g.Go(func() error {
			result[d] = scanDimension(sm, weights, d)
			return nil
		})
	}
	_ = g.Wait()
	return result
}

//theBestScan reduces per-dimension results in dimension order. Strict comparison keeps the
//first dimension on ties whatever order the scans finished in.
func theBestScan(result []DimensionScan) *DimensionScan {
	bestIndex := -1
	for ind, currentScan := range result {
		if currentScan.validScan && (bestIndex == -1 || currentScan.errorRate < result[bestIndex].errorRate) {
			bestIndex = ind
		}
	}
	if bestIndex == -1 {
		return nil
	}
	return &result[bestIndex]
}

//FitStump finds the dimension, threshold and polarity with the minimal weighted error.
//The fitted error must be below 0.5; anything else is an invariant violation.
func FitStump(sm SMatrix, weights []float64, threads int) (Stump, error) {
	dims, samples, err := sm.validatedDimensions()
	if err != nil {
		return Stump{}, err
	}
	if len(weights) != samples {
		return Stump{}, invariantf("the weight count %d is not equal to the sample count %d", len(weights), samples)
	}
	if dims == 0 {
		return Stump{}, invariantf("the feature matrix has no dimensions")
	}

	best := theBestScan(scanAllDimensions(sm, weights, dims, threads))
	if best == nil {
		return Stump{}, invariantf("no dimension separates the weighted classes")
	}

	stump := Stump{
		Dimension: best.dimension,
		Threshold: best.threshold,
		Polarity:  best.polarity,
		Error:     best.errorRate,
	}
	if !(stump.Error < 0.5) {
		return stump, invariantf("the best %v is not better than chance", stump)
	}
	return stump, nil
}
