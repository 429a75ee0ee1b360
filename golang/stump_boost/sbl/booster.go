package sbl

import (
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
)

//DefaultErrorFloor keeps a perfect stump from getting an infinite voting weight.
const DefaultErrorFloor = 1e-4

const initialVoteRows = 16

//VotingWeight clamps the weighted error to floor and derives beta = e/(1-e) and alpha = ln(1/beta).
func VotingWeight(errorRate, floor float64) (clamped, beta, alpha float64) {
	clamped = math.Max(errorRate, floor)
	beta = clamped / (1 - clamped)
	alpha = math.Log(1 / beta)
	return
}

//RoundReport describes the state of the booster after one training round.
type RoundReport struct {
	Round            int
	Stump            Stump
	ErrorRate        float64 // weighted error after the floor is applied
	Alpha            float64
	Beta             float64
	Accuracy         float64
	TPR              float64
	FPR              float64
	DetectionRate    float64
	Threshold        float64
	ThresholdFound   bool
	LearningCurveRow []float64
	Duration         time.Duration
}

//RoundObserver is called after every finished round.
type RoundObserver func(report RoundReport)

//BoosterParams collect arguments required to construct a booster.
type BoosterParams struct {
	Matrix        SMatrix
	MaxRounds     int
	TargetTPR     float64
	TargetFPR     float64
	Cascade       bool
	ErrorFloor    float64
	ThresholdStep float64
	Threads       int
	Learner       WeakLearnerFunc
	Monitors      []SMatrix
	Logger        *slog.Logger
	Observer      RoundObserver
}

//Booster trains an AdaBoost ensemble of stumps. It owns the sample weights exclusively.
type Booster struct {
	Ensemble
	Rounds              []RoundReport
	Accuracy            []float64
	LearningCurveTitles []string
	TPR, FPR            float64
	DetectionRate       float64

	params        BoosterParams
	logger        *slog.Logger
	weights       Weights
	votes         *VoteCache
	scores        []float64
	monitorScores [][]float64
	stopped       bool
}

//NewBooster validates the training set and the parameters and prepares the initial weights.
func NewBooster(params BoosterParams) (*Booster, error) {
	dims, samples, err := params.Matrix.validatedDimensions()
	if err != nil {
		return nil, err
	}
	if params.MaxRounds < 1 {
		return nil, configurationf("max rounds %d must be positive", params.MaxRounds)
	}
	if params.ErrorFloor == 0 {
		params.ErrorFloor = DefaultErrorFloor
	}
	if params.ErrorFloor < 0 || params.ErrorFloor >= 0.5 {
		return nil, configurationf("error floor %v must be in (0, 0.5)", params.ErrorFloor)
	}
	if params.ThresholdStep == 0 {
		params.ThresholdStep = DefaultThresholdStep
	}
	if params.ThresholdStep < 0 {
		return nil, configurationf("threshold step %v must be positive", params.ThresholdStep)
	}
	if params.TargetTPR < 0 || params.TargetTPR > 1 || params.TargetFPR < 0 || params.TargetFPR > 1 {
		return nil, configurationf("target rates tpr=%v fpr=%v must be in [0, 1]", params.TargetTPR, params.TargetFPR)
	}
	if params.Learner == nil {
		params.Learner = StumpLearner(params.Threads)
	}
	if params.Logger == nil {
		params.Logger = slog.Default()
	}

	weights, err := NewWeights(params.Matrix.Labels)
	if err != nil {
		return nil, err
	}

	b := &Booster{
		params:              params,
		logger:              params.Logger,
		weights:             weights,
		votes:               NewVoteCache(min(params.MaxRounds, initialVoteRows), samples),
		scores:              make([]float64, samples),
		LearningCurveTitles: make([]string, 0, len(params.Monitors)),
	}

	for ind, monitor := range params.Monitors {
		monitorDims, monitorSamples, err := monitor.validatedDimensions()
		if err != nil {
			return nil, errors.Wrapf(err, "monitor %d", ind)
		}
		if monitorDims != dims {
			return nil, configurationf("monitor %d has %d dimensions, training set has %d", ind, monitorDims, dims)
		}
		b.LearningCurveTitles = append(b.LearningCurveTitles, monitor.Title())
		b.monitorScores = append(b.monitorScores, make([]float64, monitorSamples))
	}

	return b, nil
}

//Train runs boosting rounds until the target rates are met or MaxRounds stumps are trained.
//It returns the training-set predictions at the final threshold and the final false positive rate.
func (b *Booster) Train() (predictions []Label, finalFPR float64, err error) {
	started := time.Now()
	for m := b.Len(); m < b.params.MaxRounds && !b.stopped; m++ {
		report, err := b.trainRound(m)
		if err != nil {
			return nil, 0, errors.WithMessagef(err, "round %d", m+1)
		}
		b.Rounds = append(b.Rounds, report)
		if b.params.Observer != nil {
			b.params.Observer(report)
		}
	}

	if b.stopped {
		b.logger.Info("target rates reached",
			"stumps", b.Len(), "tpr", b.TPR, "fpr", b.FPR, "elapsed", time.Since(started))
	} else {
		b.logger.Info("round limit reached",
			"stumps", b.Len(), "tpr", b.TPR, "fpr", b.FPR, "elapsed", time.Since(started))
	}

	return ClassifyAll(b.scores, b.Threshold), b.FPR, nil
}

func (b *Booster) trainRound(m int) (report RoundReport, err error) {
	started := time.Now()
	sm := b.params.Matrix

	stump, err := b.params.Learner(sm, b.weights)
	if err != nil {
		return report, err
	}
	if !(stump.Error >= 0 && stump.Error < 0.5) {
		return report, invariantf("weak learner returned %v", stump)
	}

	errorRate, beta, alpha := VotingWeight(stump.Error, b.params.ErrorFloor)

	vote := stump.Vote(sm.Features, nil)
	correct := make([]bool, len(vote))
	for ind, label := range sm.Labels {
		correct[ind] = vote[ind] == label.Float()
	}
	if err = b.weights.Reweight(correct, beta); err != nil {
		return report, err
	}
	if err = b.votes.Append(vote); err != nil {
		return report, err
	}
	b.Append(stump, alpha)
	if err = b.votes.Accumulate(b.scores, alpha, m); err != nil {
		return report, err
	}

	report = RoundReport{
		Round:     m + 1,
		Stump:     stump,
		ErrorRate: errorRate,
		Alpha:     alpha,
		Beta:      beta,
	}

	if b.params.Cascade {
		th, detectionRate, err := b.FindThreshold(b.params.TargetTPR)
		switch {
		case err == nil:
			b.Threshold = th
			b.DetectionRate = detectionRate
			report.ThresholdFound = true
		case errors.Is(err, ErrThresholdUnreachable):
			b.logger.Warn("cascade threshold not found, keeping the previous one",
				"round", m+1, "target_tpr", b.params.TargetTPR, "threshold", b.Threshold)
		default:
			return report, err
		}
	}

	b.stopped = b.isGoodEnough()

	report.Accuracy = b.Accuracy[len(b.Accuracy)-1]
	report.TPR, report.FPR = b.TPR, b.FPR
	report.DetectionRate = b.DetectionRate
	report.Threshold = b.Threshold
	report.LearningCurveRow = b.updateMonitors(stump, alpha)
	report.Duration = time.Since(started)

	b.logger.Debug("stump trained",
		"round", report.Round,
		"dimension", stump.Dimension,
		"threshold", stump.Threshold,
		"polarity", stump.Polarity,
		"error", errorRate,
		"alpha", alpha,
		"accuracy", report.Accuracy,
		"detection_rate", report.DetectionRate,
		"booster_threshold", report.Threshold)
	return report, nil
}

//isGoodEnough evaluates the ensemble at the current threshold over the full training set and
//checks the stopping criterion.
func (b *Booster) isGoodEnough() bool {
	confusion := ConfusionAt(b.params.Matrix.Labels, b.scores, b.Threshold)
	b.Accuracy = append(b.Accuracy, confusion.Accuracy())
	b.DetectionRate = confusion.DetectionRate()
	b.TPR = confusion.TPR()
	b.FPR = confusion.FPR()
	return b.TPR > b.params.TargetTPR && b.FPR < b.params.TargetFPR
}

//updateMonitors adds the new stump to the running scores of every monitor set and returns
//their accuracies at the current threshold.
func (b *Booster) updateMonitors(stump Stump, alpha float64) []float64 {
	if len(b.params.Monitors) == 0 {
		return nil
	}
	row := make([]float64, len(b.params.Monitors))
	for ind, monitor := range b.params.Monitors {
		vote := stump.Vote(monitor.Features, nil)
		scores := b.monitorScores[ind]
		for i := range scores {
			scores[i] += alpha * vote[i]
		}
		row[ind] = ConfusionAt(monitor.Labels, scores, b.Threshold).Accuracy()
		b.logger.Debug("monitor accuracy", "monitor", monitor.Title(), "accuracy", row[ind])
	}
	return row
}

//FindThreshold runs the cascade threshold search over the training set.
func (b *Booster) FindThreshold(targetTPR float64) (th, detectionRate float64, err error) {
	return SearchThreshold(b.params.Matrix.Labels, b.scores, b.SumAlpha(), b.params.ThresholdStep, targetTPR)
}

//ROC returns the threshold sweep table over the training set. A non-positive step falls back to
//the configured one.
func (b *Booster) ROC(step float64) []ROCPoint {
	if step <= 0 {
		step = b.params.ThresholdStep
	}
	return ROC(b.params.Matrix.Labels, b.scores, b.SumAlpha(), step)
}

//TrainingScores returns the scores of the first n stumps over the training set.
func (b *Booster) TrainingScores(n int) ([]float64, error) {
	return b.votes.Scores(b.Alphas, n)
}

//Weights returns a copy of the current sample distribution.
func (b *Booster) Weights() Weights {
	return append(Weights(nil), b.weights...)
}

//Done reports whether the target rates were reached.
func (b *Booster) Done() bool {
	return b.stopped
}

type LearningCurvesDump struct {
	Titles []string
	Values [][]float64
}

//LearningCurves collects the training accuracy followed by the monitor accuracies of every round.
func (b *Booster) LearningCurves() LearningCurvesDump {
	dump := LearningCurvesDump{
		Titles: append([]string{"train"}, b.LearningCurveTitles...),
		Values: make([][]float64, 0, len(b.Rounds)),
	}
	for _, report := range b.Rounds {
		dump.Values = append(dump.Values, append([]float64{report.Accuracy}, report.LearningCurveRow...))
	}
	return dump
}

func (b *Booster) DumpLearningCurves(filenameLearningCurves string) (err error) {
	destination, err := os.Create(filenameLearningCurves)
	if err != nil {
		return errors.Wrapf(err, "create %s", filenameLearningCurves)
	}
	defer func() {
		if closeErr := destination.Close(); err == nil {
			err = closeErr
		}
	}()

	bytesResult, err := json.MarshalIndent(b.LearningCurves(), "", "  ")
	if err != nil {
		return err
	}
	_, err = destination.Write(bytesResult)
	return err
}
