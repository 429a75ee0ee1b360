package main

import (
	"github.com/spf13/cobra"
	"github.com/tarstars/stump_boosting/golang/stump_boost/modelio"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
	"gonum.org/v1/gonum/mat"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Label samples with a saved model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var predictConfig PredictConfig
		if err := decodeConfig(configPath(cmd), &predictConfig, defaults); err != nil {
			return err
		}
		return predict(cmd, predictConfig)
	},
}

func predict(cmd *cobra.Command, predictConfig PredictConfig) error {
	features, err := sbl.ReadNpy(predictConfig.FileNameFeatures)
	if err != nil {
		return err
	}
	if predictConfig.SamplesInRows {
		features = mat.DenseCopyOf(features.T())
	}

	clf, err := modelio.Load(predictConfig.FileNameModel, predictConfig.StumpsNumber)
	if err != nil {
		return err
	}
	th := clf.Threshold
	if predictConfig.Threshold != nil {
		th = *predictConfig.Threshold
	}

	scores, err := clf.Score(features)
	if err != nil {
		return err
	}
	prediction := sbl.ClassifyAll(scores, th)
	if err := writeLabels(predictConfig.FileNamePrediction, prediction); err != nil {
		return err
	}
	if predictConfig.FileNameScores != "" {
		if err := sbl.WriteNpy(predictConfig.FileNameScores, scores); err != nil {
			return err
		}
	}

	positives := 0
	for _, label := range prediction {
		if label == sbl.Positive {
			positives++
		}
	}
	s := newSummary(cmd)
	s.header("prediction written")
	s.line("stumps", clf.Len())
	s.line("threshold", th)
	s.line("samples", len(prediction))
	s.line("positive", positives)
	return nil
}
