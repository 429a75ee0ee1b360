package sbl

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//VoteCache keeps the signed vote of every stump over one sample set, one row per round.
//The booster accumulates its training scores from it, and learning curves of a saved model
//read score prefixes from it instead of re-evaluating stumps.
//Rows are allocated as rounds are appended, the capacity doubles when the cache is full.
type VoteCache struct {
	votes    *tensor.Dense
	capacity int
	samples  int
	filled   int
}

//NewVoteCache prepares a cache for votes over samples samples. capacity is the initial number
//of rows and only a hint.
func NewVoteCache(capacity, samples int) *VoteCache {
	vc := &VoteCache{samples: samples}
	if capacity > 0 && samples > 0 {
		vc.resize(capacity)
	}
	return vc
}

//CacheVotes fills a cache with the votes of every stump of the ensemble over features.
func CacheVotes(e *Ensemble, features *mat.Dense) (*VoteCache, error) {
	dims, samples := features.Dims()
	vc := NewVoteCache(e.Len(), samples)
	vote := make([]float64, samples)
	for ind, stump := range e.Stumps {
		if stump.Dimension >= dims {
			return nil, invariantf("stump %d reads dimension %d of a %d-dimensional matrix", ind, stump.Dimension, dims)
		}
		if err := vc.Append(stump.Vote(features, vote)); err != nil {
			return nil, err
		}
	}
	return vc, nil
}

func (vc *VoteCache) resize(capacity int) {
	votes := tensor.New(tensor.WithShape(capacity, vc.samples), tensor.Of(tensor.Float64))
	if vc.votes != nil {
		// row-major, the filled rows are a prefix of the backing slice
		copy(votes.Data().([]float64), vc.votes.Data().([]float64))
	}
	vc.votes = votes
	vc.capacity = capacity
}

//Append stores the votes of the next round.
func (vc *VoteCache) Append(vote []float64) error {
	if vc.samples < 1 {
		return invariantf("vote cache over no samples")
	}
	if len(vote) != vc.samples {
		return invariantf("vote of %d samples for a cache of %d", len(vote), vc.samples)
	}
	if vc.filled == vc.capacity {
		vc.resize(max(1, 2*vc.capacity))
	}
	for ind, value := range vote {
		if err := vc.votes.SetAt(value, vc.filled, ind); err != nil {
			return errors.Wrap(err, "vote cache")
		}
	}
	vc.filled++
	return nil
}

//Vote returns the cached vote of stump m on sample i.
func (vc *VoteCache) Vote(m, i int) (float64, error) {
	if m < 0 || m >= vc.filled {
		return 0, invariantf("vote of round %d requested, %d cached", m, vc.filled)
	}
	element, err := vc.votes.At(m, i)
	if err != nil {
		return 0, errors.Wrap(err, "vote cache")
	}
	return element.(float64), nil
}

//Accumulate adds the alpha-weighted votes of round m to scores.
func (vc *VoteCache) Accumulate(scores []float64, alpha float64, m int) error {
	if len(scores) != vc.samples {
		return invariantf("%d scores for a cache of %d samples", len(scores), vc.samples)
	}
	for i := range scores {
		vote, err := vc.Vote(m, i)
		if err != nil {
			return err
		}
		scores[i] += alpha * vote
	}
	return nil
}

//Scores accumulates alpha-weighted votes of the first n rounds in training order.
func (vc *VoteCache) Scores(alphas []float64, n int) ([]float64, error) {
	if n > vc.filled || n > len(alphas) {
		return nil, invariantf("scores of %d rounds requested, %d cached", n, vc.filled)
	}
	scores := make([]float64, vc.samples)
	for m := 0; m < n; m++ {
		if err := vc.Accumulate(scores, alphas[m], m); err != nil {
			return nil, err
		}
	}
	return scores, nil
}

//Len returns the number of cached rounds.
func (vc *VoteCache) Len() int {
	return vc.filled
}

//Capacity returns the number of allocated rows.
func (vc *VoteCache) Capacity() int {
	return vc.capacity
}
