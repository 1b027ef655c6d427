package datasource

import (
	"bytes"
	"encoding/json"
	"math"
)

// DecodeFields decodes a JSON object of item fields. Whole numbers that fit
// in an int are decoded as int and other numbers as float64, matching the
// types produced by field parsers.
func DecodeFields(data []byte) (map[string]any, error) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		fields[k] = fromJSON(v)
	}
	return fields, nil
}

func fromJSON(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for k, elem := range v {
			v[k] = fromJSON(elem)
		}
		return v
	case []any:
		for i, elem := range v {
			v[i] = fromJSON(elem)
		}
		return v
	}
	return v
}

// UnmarshalJSON decodes the fields with DecodeFields.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     string          `json:"id"`
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.ID = raw.ID
	it.Fields = nil
	if len(raw.Fields) > 0 && !bytes.Equal(raw.Fields, []byte("null")) {
		fields, err := DecodeFields(raw.Fields)
		if err != nil {
			return err
		}
		it.Fields = fields
	}
	return nil
}
