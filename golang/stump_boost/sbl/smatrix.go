package sbl

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//SMatrix holds a labeled sample set. Features has one row per feature dimension and one
//column per sample, so a stump only ever reads one contiguous row.
type SMatrix struct {
	Features    *mat.Dense
	Labels      []Label
	Description *string
}

//SetDescription sets a description for an SMatrix object
func (sm *SMatrix) SetDescription(description string) {
	sm.Description = &description
}

//Title returns the description or an empty string.
func (sm SMatrix) Title() string {
	if sm.Description == nil {
		return ""
	}
	return *sm.Description
}

//NewSMatrix checks that labels fit the matrix and builds an SMatrix.
func NewSMatrix(features *mat.Dense, labels []Label) (SMatrix, error) {
	sm := SMatrix{Features: features, Labels: labels}
	if _, _, err := sm.validatedDimensions(); err != nil {
		return SMatrix{}, err
	}
	return sm, nil
}

//ReadSMatrix reads a feature matrix and a label vector from npy files. When samplesInRows is
//set the features file is stored as samples x dimensions and is transposed on load.
func ReadSMatrix(fileNameFeatures, fileNameLabels string, samplesInRows bool) (sm SMatrix, err error) {
	features, err := ReadNpy(fileNameFeatures)
	if err != nil {
		return sm, err
	}
	if samplesInRows {
		features = mat.DenseCopyOf(features.T())
	}

	rawLabels, err := ReadNpyVector(fileNameLabels)
	if err != nil {
		return sm, err
	}
	labels, err := ParseLabels(rawLabels)
	if err != nil {
		return sm, errors.Wrapf(err, "labels %s", fileNameLabels)
	}

	return NewSMatrix(features, labels)
}

//ReadNpy reads the content of npy file
func ReadNpy(fileName string) (denseMat *mat.Dense, err error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "npy header of %s", fileName)
	}

	denseMat = &mat.Dense{}
	if err = r.Read(denseMat); err != nil {
		return nil, errors.Wrapf(err, "npy data of %s", fileName)
	}
	return denseMat, nil
}

//ReadNpyVector reads a float64 npy array of any shape as a flat vector.
func ReadNpyVector(fileName string) (values []float64, err error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	if err = npyio.Read(f, &values); err != nil {
		return nil, errors.Wrapf(err, "npy data of %s", fileName)
	}
	return values, nil
}

//WriteNpy stores a value supported by npyio (a *mat.Dense or a slice) to a file.
func WriteNpy(fileName string, value interface{}) (err error) {
	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create %s", fileName)
	}
	defer func() {
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
	}()
	return errors.Wrapf(npyio.Write(dst, value), "write %s", fileName)
}

//validatedDimensions checks the consistency of the feature matrix and the labels and returns
//the number of feature dimensions and the number of samples.
func (sm SMatrix) validatedDimensions() (dims, samples int, err error) {
	if sm.Features == nil {
		return 0, 0, invariantf("feature matrix is missing")
	}
	dims, samples = sm.Features.Dims()
	if len(sm.Labels) != samples {
		return 0, 0, invariantf("the label count %d is not equal to the sample count %d", len(sm.Labels), samples)
	}
	return dims, samples, nil
}

//ClassCounts returns the number of positive and negative samples.
func (sm SMatrix) ClassCounts() (positives, negatives int) {
	for _, label := range sm.Labels {
		if label == Positive {
			positives++
		} else {
			negatives++
		}
	}
	return
}

//Samples returns the number of samples (columns).
func (sm SMatrix) Samples() int {
	_, w := sm.Features.Dims()
	return w
}

//Dimensions returns the number of feature dimensions (rows).
func (sm SMatrix) Dimensions() int {
	h, _ := sm.Features.Dims()
	return h
}
