package main

import (
	"github.com/spf13/cobra"
	"github.com/tarstars/stump_boosting/golang/stump_boost/modelio"
)

var thresholdCmd = &cobra.Command{
	Use:   "threshold",
	Short: "Find the cascade threshold of a saved model for a target true positive rate",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var thresholdConfig ThresholdConfig
		if err := decodeConfig(configPath(cmd), &thresholdConfig, defaults); err != nil {
			return err
		}
		return threshold(cmd, thresholdConfig)
	},
}

func threshold(cmd *cobra.Command, thresholdConfig ThresholdConfig) error {
	sm, err := thresholdConfig.Dataset.read()
	if err != nil {
		return err
	}
	clf, err := modelio.Load(thresholdConfig.FileNameModel, thresholdConfig.StumpsNumber)
	if err != nil {
		return err
	}

	th, detectionRate, err := clf.FindThreshold(sm, thresholdConfig.ThresholdStep, thresholdConfig.TargetTPR)
	if err != nil {
		return err
	}
	logger.Info("threshold found", "threshold", th, "detection_rate", detectionRate)

	if thresholdConfig.FileNameModelOut != "" {
		clf.Threshold = th
		if err := modelio.Save(thresholdConfig.FileNameModelOut, clf); err != nil {
			return err
		}
	}

	s := newSummary(cmd)
	s.header("threshold found")
	s.line("threshold", th)
	s.status("detection rate", detectionRate, detectionRate >= thresholdConfig.TargetTPR)
	return nil
}
