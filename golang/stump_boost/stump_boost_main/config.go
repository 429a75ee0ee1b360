package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
)

var validate = validator.New()

//defaults are applied before a config file is read; keys a mode does not know are ignored.
var defaults = map[string]any{
	"max_rounds":     4,
	"target_tpr":     0.99,
	"target_fpr":     0.5,
	"threshold_step": sbl.DefaultThresholdStep,
	"error_floor":    sbl.DefaultErrorFloor,
	"threads":        1,
	"run_name":       "train",
	"figure_type":    "svg",
}

//decodeConfig reads a JSON config file into out, filling unset keys from defaults,
//and validates the result.
func decodeConfig(srcConfig string, out any, defaults map[string]any) error {
	v := viper.New()
	v.SetConfigFile(srcConfig)
	v.SetConfigType("json")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", srcConfig)
	}
	if err := v.Unmarshal(out); err != nil {
		return errors.Wrapf(err, "unmarshal config %s", srcConfig)
	}
	if err := validate.Struct(out); err != nil {
		return errors.Wrapf(err, "validate config %s", srcConfig)
	}
	return nil
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

//DatasetConfig points at a labeled sample set stored as two npy files.
type DatasetConfig struct {
	Description      string `mapstructure:"description"`
	FileNameFeatures string `mapstructure:"filename_features" validate:"required"`
	FileNameLabels   string `mapstructure:"filename_labels" validate:"required"`
	SamplesInRows    bool   `mapstructure:"samples_in_rows"`
}

func (dc DatasetConfig) read() (sbl.SMatrix, error) {
	sm, err := sbl.ReadSMatrix(dc.FileNameFeatures, dc.FileNameLabels, dc.SamplesInRows)
	if err != nil {
		return sm, err
	}
	if dc.Description != "" {
		sm.SetDescription(dc.Description)
	}
	return sm, nil
}

type TrainConfig struct {
	Train                  DatasetConfig   `mapstructure:"train" validate:"required"`
	Tests                  []DatasetConfig `mapstructure:"tests" validate:"dive"`
	FileNameModel          string          `mapstructure:"filename_model" validate:"required"`
	MaxRounds              int             `mapstructure:"max_rounds" validate:"gte=1"`
	TargetTPR              float64         `mapstructure:"target_tpr" validate:"gte=0,lte=1"`
	TargetFPR              float64         `mapstructure:"target_fpr" validate:"gte=0,lte=1"`
	Cascade                bool            `mapstructure:"cascade"`
	ErrorFloor             float64         `mapstructure:"error_floor" validate:"gt=0,lt=0.5"`
	ThresholdStep          float64         `mapstructure:"threshold_step" validate:"gt=0"`
	Threads                int             `mapstructure:"threads" validate:"gte=1"`
	FileNamePrediction     string          `mapstructure:"filename_prediction"`
	FileNameLearningCurves string          `mapstructure:"filename_learning_curves"`
	FileNameROC            string          `mapstructure:"filename_roc"`
	MetricsTextfile        string          `mapstructure:"metrics_textfile"`
	RunName                string          `mapstructure:"run_name"`
}

type PredictConfig struct {
	FileNameFeatures   string   `mapstructure:"filename_features" validate:"required"`
	SamplesInRows      bool     `mapstructure:"samples_in_rows"`
	FileNameModel      string   `mapstructure:"filename_model" validate:"required"`
	FileNamePrediction string   `mapstructure:"filename_prediction" validate:"required"`
	FileNameScores     string   `mapstructure:"filename_scores"`
	StumpsNumber       int      `mapstructure:"stumps_number" validate:"gte=0"`
	Threshold          *float64 `mapstructure:"threshold"`
}

type RocConfig struct {
	Dataset       DatasetConfig `mapstructure:"dataset" validate:"required"`
	FileNameModel string        `mapstructure:"filename_model" validate:"required"`
	StumpsNumber  int           `mapstructure:"stumps_number" validate:"gte=0"`
	ThresholdStep float64       `mapstructure:"threshold_step" validate:"gt=0"`
	FileNameROC   string        `mapstructure:"filename_roc" validate:"required"`
}

type LcurveConfig struct {
	Dataset               DatasetConfig `mapstructure:"dataset" validate:"required"`
	FileNameModel         string        `mapstructure:"filename_model" validate:"required"`
	FileNameLearningCurve string        `mapstructure:"filename_learning_curve" validate:"required"`
}

type GraphConfig struct {
	FileNameModel   string `mapstructure:"filename_model" validate:"required"`
	FigureType      string `mapstructure:"figure_type" validate:"oneof=png svg jpg dot"`
	FileNamePicture string `mapstructure:"filename_picture" validate:"required"`
}

type ThresholdConfig struct {
	Dataset          DatasetConfig `mapstructure:"dataset" validate:"required"`
	FileNameModel    string        `mapstructure:"filename_model" validate:"required"`
	StumpsNumber     int           `mapstructure:"stumps_number" validate:"gte=0"`
	TargetTPR        float64       `mapstructure:"target_tpr" validate:"gte=0,lte=1"`
	ThresholdStep    float64       `mapstructure:"threshold_step" validate:"gt=0"`
	FileNameModelOut string        `mapstructure:"filename_model_out"`
}
