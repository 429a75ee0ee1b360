package sbl

import (
	"github.com/pkg/errors"
)

var (
	//ErrInvariantViolation marks a fatal training failure: a stump at or above chance,
	//shapes of matrix, labels and weights that disagree, or a degenerate weight vector.
	ErrInvariantViolation = errors.New("invariant violation")

	//ErrThresholdUnreachable is returned by the threshold search when no candidate reaches
	//the requested true positive rate. The booster recovers from it.
	ErrThresholdUnreachable = errors.New("threshold unreachable")

	//ErrConfiguration marks inputs that can not start a training run.
	ErrConfiguration = errors.New("configuration error")
)

func invariantf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvariantViolation, format, args...)
}

func configurationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}
