//Package modelio stores and restores trained stump ensembles.
package modelio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
)

//ErrFormat marks a model file that can not be decoded.
var ErrFormat = errors.New("model format error")

//Model is the persisted state of an ensemble: stumps in training order and the operating threshold.
type Model struct {
	Threshold float64           `json:"threshold" msgpack:"threshold"`
	Stumps    []sbl.StumpRecord `json:"stumps" msgpack:"stumps"`
}

//Codec encodes and decodes a model.
type Codec interface {
	Encode(w io.Writer, model Model) error
	Decode(r io.Reader) (Model, error)
}

//CodecFor picks a codec by file extension: .json, .msgpack (or .mp), anything else is text.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONCodec{}
	case ".msgpack", ".mp":
		return MsgpackCodec{}
	default:
		return TextCodec{}
	}
}

//ModelOf captures the persisted state of an ensemble.
func ModelOf(ensemble *sbl.Ensemble) Model {
	return Model{Threshold: ensemble.Threshold, Stumps: ensemble.Records()}
}

//Ensemble rebuilds an ensemble from the model, keeping the first limit stumps when limit > 0.
func (m Model) Ensemble(limit int) (*sbl.Ensemble, error) {
	ensemble, err := sbl.NewEnsembleFromRecords(m.Stumps, limit)
	if err != nil {
		return nil, err
	}
	ensemble.Threshold = m.Threshold
	return ensemble, nil
}

//Save writes the ensemble into path with the codec chosen by CodecFor. The file is replaced
//atomically, a failed write leaves the previous model in place.
func Save(path string, ensemble *sbl.Ensemble) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".model-*")
	if err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = CodecFor(path).Encode(f, ModelOf(ensemble)); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	if err = f.Chmod(0o644); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return errors.Wrapf(os.Rename(f.Name(), path), "save %s", path)
}

//Load reads a model file. A positive limit keeps only the first limit stumps.
func Load(path string, limit int) (ensemble *sbl.Ensemble, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	model, err := CodecFor(path).Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return model.Ensemble(limit)
}
