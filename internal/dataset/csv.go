package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports of
// Japanese color tables usually carry one.
const utf8BOM = "\ufeff"

// ParseCSV reads a CSV table whose first row is the header and returns one
// record per data row keyed by header name, along with the header itself.
// Short rows yield nil for the missing columns; cells beyond the header are
// dropped.
func ParseCSV(r io.Reader) ([]Record, []string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read header: %v", ErrMalformed, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	records := []Record{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		rec := make(Record, len(header))
		for i, key := range header {
			if i < len(row) {
				rec[key] = row[i]
			} else {
				rec[key] = nil
			}
		}
		records = append(records, rec)
	}
	return records, header, nil
}

// DecodeCSV parses a CSV dataset body into raw records.
func DecodeCSV(data []byte) ([]Record, error) {
	records, _, err := ParseCSV(bytes.NewReader(data))
	return records, err
}

// WriteJSON writes records as an indented JSON array, keeping keys in header
// order and leaving non-ASCII text unescaped. Keys missing from the header
// are appended in the canonical field order.
func WriteJSON(w io.Writer, records []Record, header []string) error {
	ordered := make([]orderedRecord, 0, len(records))
	for _, rec := range records {
		ordered = append(ordered, orderedRecord{keys: keyOrder(rec, header), values: rec})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(ordered)
}

func keyOrder(rec Record, header []string) []string {
	keys := make([]string, 0, len(rec))
	seen := make(map[string]bool, len(rec))
	for _, k := range header {
		if _, ok := rec[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	for _, k := range Fields {
		if _, ok := rec[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	return keys
}

// orderedRecord marshals a Record with a fixed key order.
type orderedRecord struct {
	keys   []string
	values Record
}

func (o orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONValue(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(&buf, o.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
