package sbl

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//DefaultThresholdStep is the decrement of the cascade threshold sweep.
const DefaultThresholdStep = 0.1

//SearchThreshold scans candidate thresholds from +sumAlpha down to -sumAlpha in decrements of step
//and returns the first (highest) one whose full-set TPR reaches targetTPR, together with the
//detection rate at that threshold. ErrThresholdUnreachable is returned when no candidate qualifies.
func SearchThreshold(labels []Label, scores []float64, sumAlpha, step, targetTPR float64) (th, detectionRate float64, err error) {
	if step <= 0 {
		return 0, 0, configurationf("threshold step %v must be positive", step)
	}
	sweep := NewSweep(sumAlpha, -sumAlpha, -step)
	for sweep.HasNext() {
		candidate := sweep.GetNext()
		confusion := ConfusionAt(labels, scores, candidate)
		if confusion.TPR() >= targetTPR {
			return candidate, confusion.DetectionRate(), nil
		}
	}
	return 0, 0, errors.Wrapf(ErrThresholdUnreachable, "tpr %v over [%v, %v]", targetTPR, -sumAlpha, sumAlpha)
}

//ROCPoint is one row of the threshold sweep table.
type ROCPoint struct {
	Threshold float64 `json:"threshold"`
	TPR       float64 `json:"tpr"`
	FPR       float64 `json:"fpr"`
}

//ROC evaluates full-set rates at ascending thresholds over [-sumAlpha/2, +sumAlpha/2).
func ROC(labels []Label, scores []float64, sumAlpha, step float64) []ROCPoint {
	sweep := NewHalfOpenSweep(-sumAlpha/2, sumAlpha/2, step)
	points := make([]ROCPoint, 0, sweep.Len())
	for sweep.HasNext() {
		th := sweep.GetNext()
		confusion := ConfusionAt(labels, scores, th)
		points = append(points, ROCPoint{Threshold: th, TPR: confusion.TPR(), FPR: confusion.FPR()})
	}
	return points
}

//ROCMatrix packs ROC points into an n x 3 matrix of (threshold, tpr, fpr) rows.
func ROCMatrix(points []ROCPoint) *mat.Dense {
	if len(points) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(points), 3, nil)
	for ind, point := range points {
		m.SetRow(ind, []float64{point.Threshold, point.TPR, point.FPR})
	}
	return m
}

//FindThreshold searches the operating threshold of an ensemble over a labeled sample set.
func (e *Ensemble) FindThreshold(sm SMatrix, step, targetTPR float64) (th, detectionRate float64, err error) {
	scores, err := e.Score(sm.Features)
	if err != nil {
		return 0, 0, err
	}
	return SearchThreshold(sm.Labels, scores, e.SumAlpha(), step, targetTPR)
}

//ROC builds the threshold sweep table of an ensemble over a labeled sample set.
func (e *Ensemble) ROC(sm SMatrix, step float64) ([]ROCPoint, error) {
	scores, err := e.Score(sm.Features)
	if err != nil {
		return nil, err
	}
	return ROC(sm.Labels, scores, e.SumAlpha(), step), nil
}
