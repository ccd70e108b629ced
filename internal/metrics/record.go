// Package metrics renders status records as InfluxDB line protocol for an
// execd-style collector.
package metrics

import (
	"time"
)

// Tag is a single key=value tag. Tags keep the order they were added in.
type Tag struct {
	Key   string
	Value string
}

// Field is a single typed field. Value holds an int64, uint64, float64,
// bool or string.
type Field struct {
	Key   string
	Value interface{}
}

// Record is one line of output: a measurement with its tags, fields and a
// timestamp shared by every record of a check.
type Record struct {
	Measurement string
	Tags        []Tag
	Fields      []Field
	Time        time.Time
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Tags builds an ordered tag list from alternating key, value pairs.
// A trailing key without a value is dropped.
func Tags(kv ...string) []Tag {
	tags := make([]Tag, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		tags = append(tags, Tag{Key: kv[i], Value: kv[i+1]})
	}
	return tags
}

// Tag returns the value of the named tag and whether it was present
func (r Record) Tag(key string) (string, bool) {
	for _, t := range r.Tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Field returns the value of the named field and whether it was present
func (r Record) Field(key string) (interface{}, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}
