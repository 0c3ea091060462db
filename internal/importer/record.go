package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// record is one CSV row addressed by lower-cased header name.
type record struct {
	index  map[string]int
	fields []string
}

// get returns the first present column among names.
func (r record) get(names ...string) (string, bool) {
	for _, name := range names {
		if i, ok := r.index[name]; ok && i < len(r.fields) {
			return strings.TrimSpace(r.fields[i]), true
		}
	}
	return "", false
}

func (r record) str(names ...string) (string, error) {
	v, ok := r.get(names...)
	if !ok {
		return "", fmt.Errorf("missing column %q", names[0])
	}
	return v, nil
}

// nullable maps an empty cell to SQL NULL.
func (r record) nullable(names ...string) any {
	v, ok := r.get(names...)
	if !ok || v == "" {
		return nil
	}
	return v
}

func (r record) integer(names ...string) (int64, error) {
	v, err := r.str(names...)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", names[0], err)
	}
	return n, nil
}

// nullableInteger is integer with an empty cell meaning NULL.
func (r record) nullableInteger(names ...string) (any, error) {
	if v, ok := r.get(names...); !ok || v == "" {
		return nil, nil
	}
	return r.integer(names...)
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999-07:00", "2006-01-02 15:04:05"}

// timestamp parses a timestamp column; an empty cell means now.
func (r record) timestamp(name string) (time.Time, error) {
	v, _ := r.get(name)
	if v == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("column %q: unrecognised timestamp %q", name, v)
}
