package main

import (
	"github.com/spf13/cobra"
	"github.com/tarstars/stump_boosting/golang/stump_boost/metrics"
	"github.com/tarstars/stump_boosting/golang/stump_boost/modelio"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a stump ensemble and save the model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var trainConfig TrainConfig
		if err := decodeConfig(configPath(cmd), &trainConfig, defaults); err != nil {
			return err
		}
		return train(cmd, trainConfig)
	},
}

func train(cmd *cobra.Command, trainConfig TrainConfig) error {
	logger.Info("load train", "features", trainConfig.Train.FileNameFeatures)
	smTrain, err := trainConfig.Train.read()
	if err != nil {
		return err
	}

	var smTests []sbl.SMatrix
	for _, testConfig := range trainConfig.Tests {
		logger.Info("load test", "features", testConfig.FileNameFeatures, "description", testConfig.Description)
		sm, err := testConfig.read()
		if err != nil {
			return err
		}
		smTests = append(smTests, sm)
	}

	var training *metrics.Training
	if trainConfig.MetricsTextfile != "" {
		training = metrics.NewTraining(trainConfig.RunName)
	}

	booster, err := sbl.NewBooster(sbl.BoosterParams{
		Matrix:        smTrain,
		MaxRounds:     trainConfig.MaxRounds,
		TargetTPR:     trainConfig.TargetTPR,
		TargetFPR:     trainConfig.TargetFPR,
		Cascade:       trainConfig.Cascade,
		ErrorFloor:    trainConfig.ErrorFloor,
		ThresholdStep: trainConfig.ThresholdStep,
		Threads:       trainConfig.Threads,
		Monitors:      smTests,
		Logger:        logger,
		Observer: func(report sbl.RoundReport) {
			logger.Info("round finished",
				"round", report.Round,
				"error", report.ErrorRate,
				"tpr", report.TPR,
				"fpr", report.FPR,
				"duration", report.Duration)
			if training != nil {
				training.Observe(report)
			}
		},
	})
	if err != nil {
		return err
	}

	predictions, fpr, err := booster.Train()
	if err != nil {
		return err
	}

	if err := modelio.Save(trainConfig.FileNameModel, &booster.Ensemble); err != nil {
		return err
	}
	if trainConfig.FileNamePrediction != "" {
		if err := writeLabels(trainConfig.FileNamePrediction, predictions); err != nil {
			return err
		}
	}
	if trainConfig.FileNameLearningCurves != "" {
		if err := booster.DumpLearningCurves(trainConfig.FileNameLearningCurves); err != nil {
			return err
		}
	}
	if trainConfig.FileNameROC != "" {
		if err := writeROC(trainConfig.FileNameROC, booster.ROC(trainConfig.ThresholdStep)); err != nil {
			return err
		}
	}
	if training != nil {
		if err := training.WriteTextfile(trainConfig.MetricsTextfile); err != nil {
			return err
		}
	}

	s := newSummary(cmd)
	s.header("training finished")
	s.line("model", trainConfig.FileNameModel)
	s.line("stumps", booster.Len())
	s.line("threshold", booster.Threshold)
	s.status("tpr", booster.TPR, booster.TPR > trainConfig.TargetTPR)
	s.status("fpr", fpr, fpr < trainConfig.TargetFPR)
	s.status("targets reached", booster.Done(), booster.Done())
	return nil
}

func writeLabels(fileName string, labels []sbl.Label) error {
	values := make([]float64, len(labels))
	for ind, label := range labels {
		values[ind] = label.Float()
	}
	return sbl.WriteNpy(fileName, values)
}
