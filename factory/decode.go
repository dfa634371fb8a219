package factory

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Decode parses a JSON document into the value shapes Promote operates on:
// *Fields for objects (key order preserved), []any for arrays, and
// string / bool / json.Number / nil for scalars.
func Decode(data []byte) (any, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader is Decode over an io.Reader.
func DecodeReader(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if extra, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return nil, fmt.Errorf("decode json: trailing %v after value", extra)
	}
	return v, nil
}

// decodeValue builds the value starting at tok, consuming nested tokens
// from dec as needed. Object keys are recorded in the order the decoder
// yields them, which is the order they appear in the document.
func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			fields := NewFields()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeValue(dec, valTok)
				if err != nil {
					return nil, err
				}
				fields.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, err
			}
			return fields, nil
		case '[':
			var items []any
			for dec.More() {
				elemTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				elem, err := decodeValue(dec, elemTok)
				if err != nil {
					return nil, err
				}
				items = append(items, elem)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string, bool, json.Number, nil:
		return t, nil
	case float64:
		// UseNumber makes this unreachable for documents, but keep the
		// decoder total over the token type.
		return json.Number(fmt.Sprintf("%g", t)), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}
