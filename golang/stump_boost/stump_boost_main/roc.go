package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tarstars/stump_boosting/golang/stump_boost/modelio"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
)

var rocCmd = &cobra.Command{
	Use:   "roc",
	Short: "Sweep the decision threshold of a saved model over a labeled set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var rocConfig RocConfig
		if err := decodeConfig(configPath(cmd), &rocConfig, defaults); err != nil {
			return err
		}
		return roc(cmd, rocConfig)
	},
}

func roc(cmd *cobra.Command, rocConfig RocConfig) error {
	sm, err := rocConfig.Dataset.read()
	if err != nil {
		return err
	}
	clf, err := modelio.Load(rocConfig.FileNameModel, rocConfig.StumpsNumber)
	if err != nil {
		return err
	}
	points, err := clf.ROC(sm, rocConfig.ThresholdStep)
	if err != nil {
		return err
	}
	if err := writeROC(rocConfig.FileNameROC, points); err != nil {
		return err
	}

	s := newSummary(cmd)
	s.header("roc written")
	s.line("file", rocConfig.FileNameROC)
	s.line("points", len(points))
	return nil
}

//writeROC stores the sweep as an n x 3 npy matrix for .npy files and as tab separated
//tpr, fpr, threshold lines otherwise.
func writeROC(fileName string, points []sbl.ROCPoint) (err error) {
	if strings.EqualFold(filepath.Ext(fileName), ".npy") {
		return sbl.WriteNpy(fileName, sbl.ROCMatrix(points))
	}

	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create %s", fileName)
	}
	defer func() {
		if closeErr := dst.Close(); err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(dst)
	for _, point := range points {
		if _, err = fmt.Fprintf(w, "%g\t%g\t%g\n", point.TPR, point.FPR, point.Threshold); err != nil {
			return err
		}
	}
	return w.Flush()
}
