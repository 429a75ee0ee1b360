package modelio

import (
	"io"

	"fortio.org/safecast"
	"github.com/pkg/errors"
	"github.com/tarstars/stump_boosting/golang/stump_boost/sbl"
	"github.com/vmihailenco/msgpack/v5"
)

const msgpackSchema uint16 = 1

type msgpackStump struct {
	Alpha     float64 `msgpack:"a"`
	Dimension int32   `msgpack:"d"`
	Polarity  float64 `msgpack:"p"`
	Threshold float64 `msgpack:"t"`
}

type msgpackModel struct {
	Schema    uint16         `msgpack:"schema"`
	Threshold float64        `msgpack:"threshold"`
	Stumps    []msgpackStump `msgpack:"stumps"`
}

//MsgpackCodec is the compact binary form of the model.
type MsgpackCodec struct{}

func (MsgpackCodec) Encode(w io.Writer, model Model) error {
	payload := msgpackModel{
		Schema:    msgpackSchema,
		Threshold: model.Threshold,
		Stumps:    make([]msgpackStump, len(model.Stumps)),
	}
	for ind, record := range model.Stumps {
		dimension, err := safecast.Conv[int32](record.Dimension)
		if err != nil {
			return errors.Wrapf(err, "stump %d dimension", ind)
		}
		payload.Stumps[ind] = msgpackStump{
			Alpha:     record.Alpha,
			Dimension: dimension,
			Polarity:  record.Polarity,
			Threshold: record.Threshold,
		}
	}
	return msgpack.NewEncoder(w).Encode(&payload)
}

func (MsgpackCodec) Decode(r io.Reader) (Model, error) {
	var payload msgpackModel
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return Model{}, errors.Wrap(ErrFormat, err.Error())
	}
	if payload.Schema != msgpackSchema {
		return Model{}, errors.Wrapf(ErrFormat, "schema %d, expected %d", payload.Schema, msgpackSchema)
	}

	model := Model{
		Threshold: payload.Threshold,
		Stumps:    make([]sbl.StumpRecord, len(payload.Stumps)),
	}
	for ind, stump := range payload.Stumps {
		model.Stumps[ind] = sbl.StumpRecord{
			Alpha:     stump.Alpha,
			Dimension: int(stump.Dimension),
			Polarity:  stump.Polarity,
			Threshold: stump.Threshold,
		}
	}
	return model, nil
}
