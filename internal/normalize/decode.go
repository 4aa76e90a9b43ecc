package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeItems parses a JSON array of raw items. Numbers stay json.Number so
// ids wider than 53 bits survive intact.
func DecodeItems(data []byte) ([]Item, error) {
	var items []Item
	if err := decode(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DecodeItem parses a single raw JSON object, keeping numbers as json.Number.
func DecodeItem(data []byte) (Item, error) {
	var item Item
	if err := decode(data, &item); err != nil {
		return nil, err
	}
	return item, nil
}

func decode(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
