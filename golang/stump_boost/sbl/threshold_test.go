package sbl

import (
	"errors"
	"math"
	"testing"
)

func TestSearchThresholdScansFromHighToLow(t *testing.T) {
	labels := make([]Label, 0, 20)
	scores := make([]float64, 0, 20)
	for ind := 0; ind < 10; ind++ {
		// 6.625 - 3.375: a positive score between the 3.3 and 3.2 candidates
		labels = append(labels, Positive)
		scores = append(scores, 3.25)
	}
	for ind := 0; ind < 10; ind++ {
		labels = append(labels, Negative)
		scores = append(scores, -10)
	}

	th, detectionRate, err := SearchThreshold(labels, scores, 10, 0.1, 0.9)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if math.Abs(th-3.2) > 1e-9 {
		t.Fatalf("threshold = %v, want 3.2", th)
	}
	if detectionRate != 1 {
		t.Fatalf("detection rate = %v, want 1", detectionRate)
	}
}

func TestSearchThresholdFirstMatchWins(t *testing.T) {
	// every candidate at or below 0.9 reaches the target; the highest one is returned
	labels := []Label{Positive, Positive, Negative}
	scores := []float64{0.95, 2, -2}

	th, _, err := SearchThreshold(labels, scores, 2, 0.1, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if math.Abs(th-0.9) > 1e-9 {
		t.Fatalf("threshold = %v, want 0.9", th)
	}
}

func TestSearchThresholdUnreachable(t *testing.T) {
	// a positive scoring the minimum is never strictly above any candidate
	labels := []Label{Positive, Positive, Negative}
	scores := []float64{-1, 1, 0}

	_, _, err := SearchThreshold(labels, scores, 0.5, 0.1, 1)
	if !errors.Is(err, ErrThresholdUnreachable) {
		t.Fatalf("expected unreachable, got %v", err)
	}
}

func TestROCSweep(t *testing.T) {
	labels := []Label{Positive, Positive, Negative, Negative}
	scores := []float64{1, 0.2, -0.2, -1}

	points := ROC(labels, scores, 2, 0.5)
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4", len(points))
	}
	want := []ROCPoint{
		{Threshold: -1, TPR: 1, FPR: 0.5},
		{Threshold: -0.5, TPR: 1, FPR: 0.5},
		{Threshold: 0, TPR: 1, FPR: 0},
		{Threshold: 0.5, TPR: 0.5, FPR: 0},
	}
	for ind := range want {
		if points[ind] != want[ind] {
			t.Fatalf("point %d = %+v, want %+v", ind, points[ind], want[ind])
		}
	}

	m := ROCMatrix(points)
	if h, w := m.Dims(); h != 4 || w != 3 {
		t.Fatalf("matrix %dx%d", h, w)
	}
	if m.At(3, 1) != 0.5 {
		t.Fatalf("tpr at the last row = %v", m.At(3, 1))
	}
}
