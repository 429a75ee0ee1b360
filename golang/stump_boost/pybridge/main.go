// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/tarstars/stump_boosting/golang/stump_boost/modelio"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
	"gonum.org/v1/gonum/mat"
)

//model is what a handle refers to. booster is set only for models trained in this process.
//mu guards the ensemble threshold, the only state changed after the handle is stored.
type model struct {
	mu       sync.RWMutex
	ensemble *sbl.Ensemble
	booster  *sbl.Booster
}

//score evaluates the first limit stumps, all of them when limit <= 0, and returns the threshold
//read under the same lock.
func (m *model) score(features *mat.Dense, limit int) (scores []float64, th float64, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ensemble := m.ensemble
	if limit > 0 {
		ensemble = ensemble.Truncate(limit)
	}
	scores, err = ensemble.Score(features)
	return scores, ensemble.Threshold, err
}

//tuneThreshold searches the cascade threshold over sm and keeps it on success.
func (m *model) tuneThreshold(sm sbl.SMatrix, step, targetTPR float64) (th, detectionRate float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	th, detectionRate, err = m.ensemble.FindThreshold(sm, step, targetTPR)
	if err == nil {
		m.ensemble.Threshold = th
	}
	return th, detectionRate, err
}

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	models            = make(map[uint64]*model)

	monitorMu       sync.Mutex
	pendingMonitors []sbl.SMatrix

	lastErrorMu sync.Mutex
	lastError   string

	bridgeLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeModel(m *model) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	models[handle] = m
	nextHandle++
	return handle
}

func fetchModel(handle uint64) (*model, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	m, ok := models[handle]
	if !ok {
		return nil, errors.New("invalid model handle")
	}
	return m, nil
}

//export FreeModel
func FreeModel(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(models, uint64(handle))
}

//floatsAt views length doubles starting at ptr. The view aliases C memory.
func floatsAt(ptr unsafe.Pointer, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(ptr), length), nil
}

//buildFeatures copies a C-ordered dims x samples array.
func buildFeatures(ptr *C.double, dims, samples C.int) (*mat.Dense, error) {
	d, s := int(dims), int(samples)
	if d <= 0 || s <= 0 {
		return nil, errors.New("invalid matrix dimensions")
	}
	data, err := floatsAt(unsafe.Pointer(ptr), d*s)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(d, s, slices.Clone(data)), nil
}

func buildSMatrix(featuresPtr *C.double, dims, samples C.int, labelsPtr *C.double) (sbl.SMatrix, error) {
	features, err := buildFeatures(featuresPtr, dims, samples)
	if err != nil {
		return sbl.SMatrix{}, err
	}
	raw, err := floatsAt(unsafe.Pointer(labelsPtr), int(samples))
	if err != nil {
		return sbl.SMatrix{}, err
	}
	labels, err := sbl.ParseLabels(raw)
	if err != nil {
		return sbl.SMatrix{}, err
	}
	return sbl.NewSMatrix(features, labels)
}

//export RegisterMonitorDataset
func RegisterMonitorDataset(
	featuresPtr *C.double,
	dims C.int,
	samples C.int,
	labelsPtr *C.double,
	desc *C.char,
) C.int {
	setLastError(nil)

	sm, err := buildSMatrix(featuresPtr, dims, samples, labelsPtr)
	if err != nil {
		setLastError(err)
		return 1
	}
	if desc != nil {
		sm.SetDescription(C.GoString(desc))
	}

	monitorMu.Lock()
	defer monitorMu.Unlock()
	pendingMonitors = append(pendingMonitors, sm)
	return 0
}

//export TrainModel
func TrainModel(
	featuresPtr *C.double,
	dims C.int,
	samples C.int,
	labelsPtr *C.double,
	maxRounds C.int,
	targetTPR C.double,
	targetFPR C.double,
	cascade C.int,
	errorFloor C.double,
	thresholdStep C.double,
	threads C.int,
) C.ulonglong {
	setLastError(nil)

	sm, err := buildSMatrix(featuresPtr, dims, samples, labelsPtr)
	if err != nil {
		setLastError(err)
		return 0
	}

	params := sbl.BoosterParams{
		Matrix:        sm,
		MaxRounds:     int(maxRounds),
		TargetTPR:     float64(targetTPR),
		TargetFPR:     float64(targetFPR),
		Cascade:       cascade != 0,
		ErrorFloor:    float64(errorFloor),
		ThresholdStep: float64(thresholdStep),
		Threads:       max(1, int(threads)),
		Logger:        bridgeLogger,
	}

	monitorMu.Lock()
	if len(pendingMonitors) > 0 {
		params.Monitors = append([]sbl.SMatrix(nil), pendingMonitors...)
		pendingMonitors = nil
	}
	monitorMu.Unlock()

	booster, err := sbl.NewBooster(params)
	if err != nil {
		setLastError(err)
		return 0
	}
	if _, _, err := booster.Train(); err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeModel(&model{ensemble: &booster.Ensemble, booster: booster}))
}

//export Predict
func Predict(
	handle C.ulonglong,
	featuresPtr *C.double,
	dims C.int,
	samples C.int,
	scoresPtr *C.double,
	labelsPtr *C.double,
	stumpLimit C.int,
) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	features, err := buildFeatures(featuresPtr, dims, samples)
	if err != nil {
		setLastError(err)
		return 2
	}

	scores, th, err := m.score(features, int(stumpLimit))
	if err != nil {
		setLastError(err)
		return 3
	}

	scoresOut, err := floatsAt(unsafe.Pointer(scoresPtr), int(samples))
	if err != nil {
		setLastError(err)
		return 4
	}
	copy(scoresOut, scores)

	if labelsPtr != nil {
		labelsOut, err := floatsAt(unsafe.Pointer(labelsPtr), int(samples))
		if err != nil {
			setLastError(err)
			return 5
		}
		for ind, label := range sbl.ClassifyAll(scores, th) {
			labelsOut[ind] = label.Float()
		}
	}
	return 0
}

//export FindThreshold
func FindThreshold(
	handle C.ulonglong,
	featuresPtr *C.double,
	dims C.int,
	samples C.int,
	labelsPtr *C.double,
	targetTPR C.double,
	thresholdStep C.double,
	thresholdOut *C.double,
	detectionRateOut *C.double,
) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	sm, err := buildSMatrix(featuresPtr, dims, samples, labelsPtr)
	if err != nil {
		setLastError(err)
		return 2
	}

	step := float64(thresholdStep)
	if step <= 0 {
		step = sbl.DefaultThresholdStep
	}
	th, detectionRate, err := m.tuneThreshold(sm, step, float64(targetTPR))
	if err != nil {
		setLastError(err)
		if errors.Is(err, sbl.ErrThresholdUnreachable) {
			return 3
		}
		return 4
	}

	if thresholdOut != nil {
		*thresholdOut = C.double(th)
	}
	if detectionRateOut != nil {
		*detectionRateOut = C.double(detectionRate)
	}
	return 0
}

//export ModelInfo
func ModelInfo(handle C.ulonglong, stumpsOut *C.int, thresholdOut *C.double, sumAlphaOut *C.double) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if stumpsOut != nil {
		*stumpsOut = C.int(m.ensemble.Len())
	}
	if thresholdOut != nil {
		*thresholdOut = C.double(m.ensemble.Threshold)
	}
	if sumAlphaOut != nil {
		*sumAlphaOut = C.double(m.ensemble.SumAlpha())
	}
	return 0
}

//export SaveModel
func SaveModel(handle C.ulonglong, path *C.char) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := modelio.Save(C.GoString(path), m.ensemble); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export LoadModel
func LoadModel(path *C.char, stumpLimit C.int) C.ulonglong {
	setLastError(nil)
	ensemble, err := modelio.Load(C.GoString(path), int(stumpLimit))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeModel(&model{ensemble: ensemble}))
}

//export RenderModel
func RenderModel(handle C.ulonglong, path, figureType *C.char) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	goFigureType := C.GoString(figureType)
	if goFigureType == "" {
		goFigureType = "svg"
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.ensemble.RenderEnsemble(C.GoString(path), goFigureType); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export DumpLearningCurves
func DumpLearningCurves(handle C.ulonglong, path *C.char) C.int {
	setLastError(nil)
	m, err := fetchModel(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	if m.booster == nil {
		setLastError(errors.New("learning curves are kept only for models trained in this process"))
		return 2
	}
	if err := m.booster.DumpLearningCurves(C.GoString(path)); err != nil {
		setLastError(err)
		return 3
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
