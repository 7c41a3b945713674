package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yourorg/miniapp-config/internal/apperr"
)

// Decode reads a document. A single object becomes a one-element collection;
// an array of objects is used as-is. Other JSON values are an apperr.ErrParse.
func Decode(r io.Reader) (Collection, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %v", apperr.ErrFetch, err)
	}
	return DecodeBytes(body)
}

// DecodeBytes is Decode over an in-memory body.
func DecodeBytes(body []byte) (Collection, error) {
	var raw json.RawMessage
	if err := unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}
	switch firstByte(raw) {
	case '{':
		var rec Record
		if err := unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
		}
		return Collection{rec}, nil
	case '[':
		var c Collection
		if err := unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrParse, err)
		}
		for i, rec := range c {
			if rec == nil {
				return nil, fmt.Errorf("%w: element %d is not an object", apperr.ErrParse, i)
			}
		}
		if c == nil {
			c = Collection{}
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: document is neither an object nor an array", apperr.ErrParse)
	}
}

func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("invalid character after top-level value")
	}
	return nil
}

func firstByte(b []byte) byte {
	b = bytes.TrimLeft(b, " \t\r\n")
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// Encode renders c as 2-space indented JSON without HTML escaping or a trailing newline.
// Object keys come out sorted.
func Encode(c Collection) ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
