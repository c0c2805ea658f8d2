package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/campusbot/whereis/internal/building"
)

// document is the object form shared by the JSON, YAML and TOML sources.
type document struct {
	Buildings []building.Record `json:"buildings" yaml:"buildings" toml:"buildings"`
}

// DecodeJSONArray decodes a JSON array streaming, sending each element to a channel.
// Expects input in the form [{...},{...}].
// Both channels are closed when processing completes.
func DecodeJSONArray[T any](ctx context.Context, r io.Reader) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)

		// Expect opening bracket
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- eris.Wrap(err, "json: read opening token")
			return
		}

		delim, ok := tok.(json.Delim)
		if !ok || delim != '[' {
			errCh <- eris.Errorf("json: expected '[', got %v", tok)
			return
		}

		for decoder.More() {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}

			var item T
			if err := decoder.Decode(&item); err != nil {
				errCh <- eris.Wrap(err, "json: decode element")
				return
			}

			select {
			case outCh <- item:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}
		}

		// Consume closing bracket
		if _, err := decoder.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "json: read closing token")
		}
	}()

	return outCh, errCh
}

// DecodeJSONObject decodes a single JSON object from a reader.
func DecodeJSONObject[T any](r io.Reader) (*T, error) {
	var obj T
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	return &obj, nil
}

// DecodeJSON parses a JSON catalog: either a top-level array of buildings or
// an object with a "buildings" array.
func DecodeJSON(ctx context.Context, data []byte) ([]building.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] != '[' {
		doc, err := DecodeJSONObject[document](bytes.NewReader(trimmed))
		if err != nil {
			return nil, err
		}
		return doc.Buildings, nil
	}

	outCh, errCh := DecodeJSONArray[building.Record](ctx, bytes.NewReader(trimmed))
	var records []building.Record
	for r := range outCh {
		records = append(records, r)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return records, nil
}
