package directory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

var errNotObject = errors.New("expected a JSON object")

// Record is a user exactly as a client sent it: a JSON object whose values
// are kept undecoded and whose keys keep their original order. Only "id"
// and "name" are ever interpreted.
type Record struct {
	keys   []string
	fields map[string]json.RawMessage
}

// NewRecord converts v to a Record through its JSON encoding.
func NewRecord(v any) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// UnmarshalJSON accepts any JSON object. A repeated key keeps its first
// position and its last value. null leaves r unchanged.
func (r *Record) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}

	out := Record{fields: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return err
		}
		out.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// MarshalJSON writes the fields in their stored order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(r.fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the raw value stored under key.
func (r Record) Get(key string) (json.RawMessage, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Set stores val under key, appending key if it is new.
func (r *Record) Set(key string, val json.RawMessage) {
	if r.fields == nil {
		r.fields = make(map[string]json.RawMessage)
	}
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = append(json.RawMessage(nil), val...)
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len reports the number of fields.
func (r Record) Len() int { return len(r.keys) }

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	var out Record
	for _, k := range r.keys {
		out.Set(k, r.fields[k])
	}
	return out
}

// merge overwrites r's fields with every field of p.
func (r *Record) merge(p Record) {
	for _, k := range p.keys {
		r.Set(k, p.fields[k])
	}
}

// hasID reports whether the record's id is the number id. Ids that are not
// JSON numbers never match.
func (r Record) hasID(id int) bool {
	raw, ok := r.fields["id"]
	if !ok {
		return false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	return n == float64(id)
}

// sameField reports whether r and other hold equal JSON values under key.
// A field missing from r differs from any value, null included.
func (r Record) sameField(other Record, key string) bool {
	a, ok := r.fields[key]
	if !ok {
		return false
	}
	b, ok := other.fields[key]
	if !ok {
		return false
	}
	var av, bv any
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}
