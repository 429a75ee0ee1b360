package sbl

import (
	"errors"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestReadSMatrixSamplesInRows(t *testing.T) {
	dir := t.TempDir()
	featuresFile := filepath.Join(dir, "features.npy")
	labelsFile := filepath.Join(dir, "labels.npy")

	// three samples of two features each
	if err := WriteNpy(featuresFile, mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})); err != nil {
		t.Fatalf("write features: %v", err)
	}
	if err := WriteNpy(labelsFile, []float64{1, -1, 1}); err != nil {
		t.Fatalf("write labels: %v", err)
	}

	sm, err := ReadSMatrix(featuresFile, labelsFile, true)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if sm.Dimensions() != 2 || sm.Samples() != 3 {
		t.Fatalf("dims %d samples %d", sm.Dimensions(), sm.Samples())
	}
	if sm.Features.At(1, 2) != 30 {
		t.Fatalf("feature 1 of sample 2 = %v", sm.Features.At(1, 2))
	}
	if positives, negatives := sm.ClassCounts(); positives != 2 || negatives != 1 {
		t.Fatalf("class counts %d / %d", positives, negatives)
	}

	asStored, err := ReadSMatrix(featuresFile, labelsFile, false)
	if err == nil {
		t.Fatalf("a 3x2 matrix with 3 labels read as %d samples", asStored.Samples())
	}
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestReadSMatrixRejectsLabels(t *testing.T) {
	dir := t.TempDir()
	featuresFile := filepath.Join(dir, "features.npy")
	labelsFile := filepath.Join(dir, "labels.npy")
	if err := WriteNpy(featuresFile, mat.NewDense(1, 2, []float64{1, 2})); err != nil {
		t.Fatalf("write features: %v", err)
	}
	if err := WriteNpy(labelsFile, []float64{1, 0}); err != nil {
		t.Fatalf("write labels: %v", err)
	}

	if _, err := ReadSMatrix(featuresFile, labelsFile, false); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := ReadSMatrix(filepath.Join(dir, "missing.npy"), labelsFile, false); err == nil {
		t.Fatal("missing file read without error")
	}
}

func TestSMatrixTitle(t *testing.T) {
	var sm SMatrix
	if sm.Title() != "" {
		t.Fatalf("title %q", sm.Title())
	}
	sm.SetDescription("validation")
	if sm.Title() != "validation" {
		t.Fatalf("title %q", sm.Title())
	}
}
