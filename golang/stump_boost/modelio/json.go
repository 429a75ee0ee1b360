package modelio

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

//JSONCodec stores the model as an indented JSON document.
type JSONCodec struct{}

func (JSONCodec) Encode(w io.Writer, model Model) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(model)
}

func (JSONCodec) Decode(r io.Reader) (model Model, err error) {
	if err = json.NewDecoder(r).Decode(&model); err != nil {
		return Model{}, errors.Wrap(ErrFormat, err.Error())
	}
	return model, nil
}
