package sbl

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//StumpRecord is the persisted form of one trained stump. Records are stored in training order.
type StumpRecord struct {
	Alpha     float64 `json:"alpha"`
	Dimension int     `json:"dimension"`
	Polarity  float64 `json:"polarity"`
	Threshold float64 `json:"threshold"`
}

//Ensemble is a weighted majority of stumps. Stumps and Alphas run in parallel in training order,
//which is also the order of evaluation.
type Ensemble struct {
	Stumps    []Stump
	Alphas    []float64
	Threshold float64
}

//NewEnsembleFromRecords rebuilds an ensemble from persisted records. A positive limit keeps only
//the first limit stumps. The training weights are not needed.
func NewEnsembleFromRecords(records []StumpRecord, limit int) (*Ensemble, error) {
	n := len(records)
	if limit > 0 && limit < n {
		n = limit
	}
	ensemble := &Ensemble{
		Stumps: make([]Stump, 0, n),
		Alphas: make([]float64, 0, n),
	}
	for ind, record := range records[:n] {
		if record.Polarity != 1 && record.Polarity != -1 {
			return nil, configurationf("record %d has polarity %v", ind, record.Polarity)
		}
		if record.Dimension < 0 {
			return nil, configurationf("record %d has dimension %d", ind, record.Dimension)
		}
		ensemble.Append(Stump{
			Dimension: record.Dimension,
			Threshold: record.Threshold,
			Polarity:  record.Polarity,
		}, record.Alpha)
	}
	return ensemble, nil
}

//Records returns the persisted form of the ensemble.
func (e *Ensemble) Records() []StumpRecord {
	records := make([]StumpRecord, len(e.Stumps))
	for ind, stump := range e.Stumps {
		records[ind] = StumpRecord{
			Alpha:     e.Alphas[ind],
			Dimension: stump.Dimension,
			Polarity:  stump.Polarity,
			Threshold: stump.Threshold,
		}
	}
	return records
}

//Append adds a stump with its voting weight.
func (e *Ensemble) Append(stump Stump, alpha float64) {
	e.Stumps = append(e.Stumps, stump)
	e.Alphas = append(e.Alphas, alpha)
}

//Len is the number of stumps.
func (e *Ensemble) Len() int {
	return len(e.Stumps)
}

//SumAlpha is the largest possible absolute score.
func (e *Ensemble) SumAlpha() float64 {
	return floats.Sum(e.Alphas)
}

//Truncate returns an ensemble made of the first n stumps, sharing the threshold.
func (e *Ensemble) Truncate(n int) *Ensemble {
	if n > e.Len() {
		n = e.Len()
	}
	return &Ensemble{
		Stumps:    e.Stumps[:n:n],
		Alphas:    e.Alphas[:n:n],
		Threshold: e.Threshold,
	}
}

//Score computes the alpha-weighted vote of all stumps for every column of features.
func (e *Ensemble) Score(features *mat.Dense) ([]float64, error) {
	dims, samples := features.Dims()
	for ind, stump := range e.Stumps {
		if stump.Dimension >= dims {
			return nil, invariantf("stump %d reads dimension %d of a %d-dimensional matrix", ind, stump.Dimension, dims)
		}
	}

	scores := make([]float64, samples)
	vote := make([]float64, samples)
	for ind, stump := range e.Stumps {
		stump.Vote(features, vote)
		for i := range scores {
			scores[i] += e.Alphas[ind] * vote[i]
		}
	}
	return scores, nil
}

//Predict labels every column of features, positive when the score is strictly above th.
func (e *Ensemble) Predict(features *mat.Dense, th float64) ([]Label, error) {
	scores, err := e.Score(features)
	if err != nil {
		return nil, err
	}
	return ClassifyAll(scores, th), nil
}

//PredictDefault labels features with the ensemble's own threshold.
func (e *Ensemble) PredictDefault(features *mat.Dense) ([]Label, error) {
	return e.Predict(features, e.Threshold)
}

//ClassifyAll turns scores into labels.
func ClassifyAll(scores []float64, th float64) []Label {
	labels := make([]Label, len(scores))
	for ind, score := range scores {
		labels[ind] = Classify(score, th)
	}
	return labels
}
