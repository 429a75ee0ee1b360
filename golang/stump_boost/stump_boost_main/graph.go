package main

import (
	"github.com/spf13/cobra"
	"github.com/tarstars/stump_boosting/golang/stump_boost/modelio"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render a saved model as a chain of stumps",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var graphConfig GraphConfig
		if err := decodeConfig(configPath(cmd), &graphConfig, defaults); err != nil {
			return err
		}

		clf, err := modelio.Load(graphConfig.FileNameModel, 0)
		if err != nil {
			return err
		}
		if err := clf.RenderEnsemble(graphConfig.FileNamePicture, graphConfig.FigureType); err != nil {
			return err
		}
		newSummary(cmd).line("picture", graphConfig.FileNamePicture)
		return nil
	},
}
