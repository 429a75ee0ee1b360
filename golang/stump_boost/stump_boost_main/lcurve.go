package main

import (
	"github.com/spf13/cobra"
	"github.com/tarstars/stump_boosting/golang/stump_boost/modelio"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
	"gonum.org/v1/gonum/mat"
)

var lcurveCmd = &cobra.Command{
	Use:   "lcurve",
	Short: "Evaluate a saved model stump by stump over a labeled set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var lcurveConfig LcurveConfig
		if err := decodeConfig(configPath(cmd), &lcurveConfig, defaults); err != nil {
			return err
		}
		return lcurve(cmd, lcurveConfig)
	},
}

//learningCurve returns one row per stump count: accuracy, tpr and fpr at the ensemble threshold.
func learningCurve(clf *sbl.Ensemble, sm sbl.SMatrix) (*mat.Dense, error) {
	votes, err := sbl.CacheVotes(clf, sm.Features)
	if err != nil {
		return nil, err
	}
	if clf.Len() == 0 {
		return &mat.Dense{}, nil
	}

	curve := mat.NewDense(clf.Len(), 3, nil)
	scores := make([]float64, sm.Samples())
	for ind, alpha := range clf.Alphas {
		if err := votes.Accumulate(scores, alpha, ind); err != nil {
			return nil, err
		}
		confusion := sbl.ConfusionAt(sm.Labels, scores, clf.Threshold)
		curve.SetRow(ind, []float64{confusion.Accuracy(), confusion.TPR(), confusion.FPR()})
	}
	return curve, nil
}

func lcurve(cmd *cobra.Command, lcurveConfig LcurveConfig) error {
	sm, err := lcurveConfig.Dataset.read()
	if err != nil {
		return err
	}
	clf, err := modelio.Load(lcurveConfig.FileNameModel, 0)
	if err != nil {
		return err
	}

	curve, err := learningCurve(clf, sm)
	if err != nil {
		return err
	}
	if err := sbl.WriteNpy(lcurveConfig.FileNameLearningCurve, curve); err != nil {
		return err
	}

	s := newSummary(cmd)
	s.header("learning curve written")
	s.line("file", lcurveConfig.FileNameLearningCurve)
	s.line("stumps", clf.Len())
	return nil
}
