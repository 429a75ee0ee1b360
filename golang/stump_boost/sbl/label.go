package sbl

import (
	"fmt"

	"github.com/pkg/errors"
)

//Label is one of the two sentinel class values.
type Label int8

const (
	Positive Label = 1
	Negative Label = -1
)

//ParseLabel converts a raw numeric label into a Label. Only +1 and -1 are accepted.
func ParseLabel(value float64) (Label, error) {
	switch value {
	case float64(Positive):
		return Positive, nil
	case float64(Negative):
		return Negative, nil
	}
	return 0, configurationf("label %v is neither %d nor %d", value, Positive, Negative)
}

//ParseLabels converts a raw label column.
func ParseLabels(values []float64) ([]Label, error) {
	labels := make([]Label, len(values))
	for ind, value := range values {
		label, err := ParseLabel(value)
		if err != nil {
			return nil, errors.Wrapf(err, "sample %d", ind)
		}
		labels[ind] = label
	}
	return labels, nil
}

func (l Label) String() string {
	if l == Positive {
		return "positive"
	}
	if l == Negative {
		return "negative"
	}
	return fmt.Sprintf("Label(%d)", int8(l))
}

//Float returns the signed vote of the label.
func (l Label) Float() float64 {
	return float64(l)
}
