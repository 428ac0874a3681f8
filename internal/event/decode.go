package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilPayload is returned when an event carries no payload.
var ErrNilPayload = errors.New("event payload is nil")

// DecodePayload returns the payload as T. In-process publishers hand over
// the struct (or a pointer to it); replayed dead letters carry raw JSON or a
// generic map, which is converted through JSON.
func DecodePayload[T any](input any) (T, error) {
	var out T
	switch v := input.(type) {
	case nil:
		return out, ErrNilPayload
	case T:
		return v, nil
	case *T:
		if v == nil {
			return out, ErrNilPayload
		}
		return *v, nil
	case json.RawMessage:
		return out, unmarshalPayload(v, &out)
	case []byte:
		return out, unmarshalPayload(v, &out)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return out, fmt.Errorf("encode %T payload: %w", input, err)
	}
	return out, unmarshalPayload(data, &out)
}

func unmarshalPayload[T any](data []byte, out *T) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %T payload: %w", *out, err)
	}
	return nil
}
