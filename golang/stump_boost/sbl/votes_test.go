package sbl

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestVoteCacheScores(t *testing.T) {
	vc := NewVoteCache(3, 4)
	for _, vote := range [][]float64{
		{1, 1, -1, -1},
		{1, -1, -1, 1},
	} {
		if err := vc.Append(vote); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if vc.Len() != 2 {
		t.Fatalf("len %d", vc.Len())
	}

	v, err := vc.Vote(1, 3)
	if err != nil || v != 1 {
		t.Fatalf("vote(1, 3) = %v, %v", v, err)
	}

	scores, err := vc.Scores([]float64{2, 0.5}, 2)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	want := []float64{2.5, 1.5, -2.5, -1.5}
	for ind := range want {
		if scores[ind] != want[ind] {
			t.Fatalf("scores %v, want %v", scores, want)
		}
	}

	first, err := vc.Scores([]float64{2, 0.5}, 1)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if first[1] != 2 {
		t.Fatalf("truncated scores %v", first)
	}
}

func TestVoteCacheBounds(t *testing.T) {
	vc := NewVoteCache(1, 2)
	if err := vc.Append([]float64{1}); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("short vote: %v", err)
	}
	if err := vc.Append([]float64{1, -1}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := vc.Scores([]float64{1, 1}, 2); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("uncached rounds: %v", err)
	}
	if _, err := vc.Vote(1, 0); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("uncached vote: %v", err)
	}
	if err := vc.Accumulate([]float64{0}, 1, 0); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("short scores: %v", err)
	}
}

func TestVoteCacheGrowsWithRounds(t *testing.T) {
	vc := NewVoteCache(0, 3)
	if vc.Capacity() != 0 {
		t.Fatalf("capacity before the first round %d", vc.Capacity())
	}
	for m := 0; m < 5; m++ {
		vote := []float64{1, -1, 1}
		if m%2 == 1 {
			vote = []float64{-1, -1, 1}
		}
		if err := vc.Append(vote); err != nil {
			t.Fatalf("append %d: %v", m, err)
		}
	}
	if vc.Len() != 5 || vc.Capacity() != 8 {
		t.Fatalf("len %d capacity %d", vc.Len(), vc.Capacity())
	}

	// rows written before a resize survive it
	scores, err := vc.Scores([]float64{1, 1, 1, 1, 1}, 5)
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	want := []float64{1, -5, 5}
	for ind := range want {
		if scores[ind] != want[ind] {
			t.Fatalf("scores %v, want %v", scores, want)
		}
	}
}

func TestCacheVotesOfEnsemble(t *testing.T) {
	e := &Ensemble{}
	e.Append(Stump{Dimension: 0, Threshold: 5, Polarity: 1}, 2)
	e.Append(Stump{Dimension: 1, Threshold: 0, Polarity: -1}, 0.5)
	features := mat.NewDense(2, 3, []float64{
		1, 6, 9,
		-1, 1, 2,
	})

	vc, err := CacheVotes(e, features)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	cached, err := vc.Scores(e.Alphas, e.Len())
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	direct, err := e.Score(features)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	for ind := range direct {
		if cached[ind] != direct[ind] {
			t.Fatalf("cached %v, direct %v", cached, direct)
		}
	}

	e.Append(Stump{Dimension: 2, Polarity: 1}, 1)
	if _, err := CacheVotes(e, features); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("missing dimension: %v", err)
	}
}
