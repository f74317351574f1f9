package encoding

import (
	"encoding/json"
	"errors"
	"io"
)

var (
	ErrDecodeJSON = errors.New("failed to decode JSON")
	ErrEncodeJSON = errors.New("failed to encode JSON")
)

func UnmarshalJSON[T any](reader io.Reader) (T, error) {
	var value T
	if err := json.NewDecoder(reader).Decode(&value); err != nil {
		return value, errors.Join(err, ErrDecodeJSON)
	}

	return value, nil
}

func MarshalJSON(writer io.Writer, value any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return errors.Join(err, ErrEncodeJSON)
	}

	return nil
}
