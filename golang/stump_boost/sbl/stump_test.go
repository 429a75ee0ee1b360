package sbl

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for ind := range w {
		w[ind] = 1 / float64(n)
	}
	return w
}

func fourSamples(t *testing.T, rows ...[]float64) SMatrix {
	t.Helper()
	data := make([]float64, 0, 4*len(rows))
	for _, row := range rows {
		data = append(data, row...)
	}
	sm, err := NewSMatrix(mat.NewDense(len(rows), 4, data), []Label{Positive, Positive, Negative, Negative})
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	return sm
}

func TestFitStumpMidpointThreshold(t *testing.T) {
	sm := fourSamples(t, []float64{1, 2, 8, 9})

	stump, err := FitStump(sm, uniformWeights(4), 1)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if stump.Dimension != 0 || stump.Threshold != 5.0 || stump.Polarity != 1 || stump.Error != 0 {
		t.Fatalf("unexpected %v", stump)
	}

	prediction := stump.Predict(sm.Features)
	for ind, label := range sm.Labels {
		if prediction[ind] != label {
			t.Fatalf("sample %d predicted %v, want %v", ind, prediction[ind], label)
		}
	}
}

func TestFitStumpNegativePolarity(t *testing.T) {
	sm := fourSamples(t, []float64{9, 8, 2, 1})

	stump, err := FitStump(sm, uniformWeights(4), 1)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if stump.Polarity != -1 || stump.Threshold != 5.0 || stump.Error != 0 {
		t.Fatalf("unexpected %v", stump)
	}
}

func TestStumpBoundaryIsNegative(t *testing.T) {
	for _, polarity := range []float64{-1, 1} {
		stump := Stump{Threshold: 3, Polarity: polarity}
		if got := stump.Classify(3); got != Negative {
			t.Fatalf("polarity %v: value at threshold classified %v", polarity, got)
		}
	}
}

func TestFitStumpUsesWeights(t *testing.T) {
	// the second positive is heavy and drags the positive mean towards the negatives
	sm := fourSamples(t, []float64{1, 6, 8, 9})
	weights := []float64{1.0 / 6, 1.0 / 2, 1.0 / 6, 1.0 / 6}

	stump, err := FitStump(sm, weights, 1)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if math.Abs(stump.Threshold-6.625) > 1e-12 {
		t.Fatalf("threshold = %v, want 6.625", stump.Threshold)
	}
	if stump.Error != 0 {
		t.Fatalf("error = %v, want 0", stump.Error)
	}
}

func TestFitStumpFirstDimensionWinsTies(t *testing.T) {
	sm := fourSamples(t,
		[]float64{5, 1, 9, 2},
		[]float64{1, 2, 8, 9},
		[]float64{1, 2, 8, 9},
		[]float64{1, 2, 8, 9},
	)

	for _, threads := range []int{1, 2, 4, 16} {
		stump, err := FitStump(sm, uniformWeights(4), threads)
		if err != nil {
			t.Fatalf("threads %d: %v", threads, err)
		}
		if stump.Dimension != 1 {
			t.Fatalf("threads %d: dimension %d, want 1", threads, stump.Dimension)
		}
	}
}

func TestFitStumpParallelMatchesSequential(t *testing.T) {
	dims, samples := 37, 50
	features := mat.NewDense(dims, samples, nil)
	labels := make([]Label, samples)
	for i := 0; i < samples; i++ {
		labels[i] = Negative
		if i%3 == 0 {
			labels[i] = Positive
		}
		for d := 0; d < dims; d++ {
			features.Set(d, i, math.Sin(float64(d*samples+i))+0.05*float64(d)*labels[i].Float())
		}
	}
	sm, err := NewSMatrix(features, labels)
	if err != nil {
		t.Fatalf("matrix: %v", err)
	}
	weights, err := NewWeights(labels)
	if err != nil {
		t.Fatalf("weights: %v", err)
	}

	sequential, err := FitStump(sm, weights, 1)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	for run := 0; run < 5; run++ {
		parallel, err := FitStump(sm, weights, 8)
		if err != nil {
			t.Fatalf("parallel: %v", err)
		}
		if parallel != sequential {
			t.Fatalf("run %d: parallel %v, sequential %v", run, parallel, sequential)
		}
	}
}

func TestFitStumpIsDeterministic(t *testing.T) {
	sm := fourSamples(t, []float64{3, 1, 4, 1}, []float64{5, 9, 2, 6}, []float64{1, 2, 8, 9})
	first, err := FitStump(sm, uniformWeights(4), 1)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	for run := 0; run < 10; run++ {
		again, err := FitStump(sm, uniformWeights(4), 1)
		if err != nil {
			t.Fatalf("fit: %v", err)
		}
		if again != first {
			t.Fatalf("run %d: %v != %v", run, again, first)
		}
	}
}

func TestFitStumpRejectsChance(t *testing.T) {
	sm := fourSamples(t, []float64{5, 1, 9, 2})

	_, err := FitStump(sm, uniformWeights(4), 1)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestFitStumpRejectsShapeMismatch(t *testing.T) {
	sm := fourSamples(t, []float64{1, 2, 8, 9})

	_, err := FitStump(sm, uniformWeights(3), 1)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}

	_, err = NewSMatrix(mat.NewDense(1, 4, []float64{1, 2, 8, 9}), []Label{Positive, Negative})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestStumpPredictOtherSampleCount(t *testing.T) {
	stump := Stump{Dimension: 1, Threshold: 5, Polarity: 1}
	features := mat.NewDense(2, 6, []float64{
		100, 100, 100, 100, 100, 100,
		0, 4, 5, 6, 10, -3,
	})

	first := stump.Predict(features)
	second := stump.Predict(features)
	want := []Label{Positive, Positive, Negative, Negative, Negative, Positive}
	for ind := range want {
		if first[ind] != want[ind] || second[ind] != want[ind] {
			t.Fatalf("sample %d: %v / %v, want %v", ind, first[ind], second[ind], want[ind])
		}
	}
}
