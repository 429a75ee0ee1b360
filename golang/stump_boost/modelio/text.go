package modelio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
)

const linesPerStump = 4

//TextCodec writes one value per line, four lines per stump in training order:
//alpha, dimension, polarity, threshold. The threshold of the ensemble is not stored,
//a decoded model has threshold 0.
type TextCodec struct{}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

func (TextCodec) Encode(w io.Writer, model Model) error {
	bw := bufio.NewWriter(w)
	for _, record := range model.Stumps {
		for _, line := range [linesPerStump]string{
			formatFloat(record.Alpha),
			strconv.Itoa(record.Dimension),
			formatFloat(record.Polarity),
			formatFloat(record.Threshold),
		} {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func (TextCodec) Decode(r io.Reader) (Model, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return Model{}, err
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return Model{}, errors.Wrap(ErrFormat, "no stumps")
	}
	if len(lines)%linesPerStump != 0 {
		return Model{}, errors.Wrapf(ErrFormat, "%d lines do not split into stumps of %d", len(lines), linesPerStump)
	}

	model := Model{Stumps: make([]sbl.StumpRecord, 0, len(lines)/linesPerStump)}
	for start := 0; start < len(lines); start += linesPerStump {
		record, err := parseRecord(lines[start : start+linesPerStump])
		if err != nil {
			return Model{}, errors.Wrapf(err, "stump %d", start/linesPerStump)
		}
		model.Stumps = append(model.Stumps, record)
	}
	return model, nil
}

func parseRecord(lines []string) (record sbl.StumpRecord, err error) {
	if record.Alpha, err = strconv.ParseFloat(lines[0], 64); err != nil {
		return record, errors.Wrapf(ErrFormat, "alpha %q", lines[0])
	}
	if record.Dimension, err = strconv.Atoi(lines[1]); err != nil {
		return record, errors.Wrapf(ErrFormat, "dimension %q", lines[1])
	}
	if record.Polarity, err = strconv.ParseFloat(lines[2], 64); err != nil {
		return record, errors.Wrapf(ErrFormat, "polarity %q", lines[2])
	}
	if record.Threshold, err = strconv.ParseFloat(lines[3], 64); err != nil {
		return record, errors.Wrapf(ErrFormat, "threshold %q", lines[3])
	}
	return record, nil
}
