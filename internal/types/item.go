package types

import (
	"fmt"
	"time"
)

// Item is the flat export form of a crawled record, consumed by storage backends.
type Item struct {
	// ID is the record identity, e.g. "product:109802".
	ID string

	// Kind is the record type: "category", "product" or "product_detail".
	Kind string

	// Fields stores the extracted key-value data.
	Fields map[string]any

	// Timestamp is when this item was created.
	Timestamp time.Time
}

// NewItem creates a new empty Item.
func NewItem(id, kind string) *Item {
	return &Item{
		ID:        id,
		Kind:      kind,
		Fields:    make(map[string]any),
		Timestamp: time.Now(),
	}
}

// Set sets a field value.
func (i *Item) Set(key string, value any) {
	i.Fields[key] = value
}

// Delete removes a field.
func (i *Item) Delete(key string) {
	delete(i.Fields, key)
}

// GetString retrieves a field value as a string.
func (i *Item) GetString(key string) string {
	s, _ := i.Fields[key].(string)
	return s
}

// ToMap returns the fields plus the _id, _kind and _timestamp metadata keys.
func (i *Item) ToMap() map[string]any {
	m := make(map[string]any, len(i.Fields)+3)
	m["_id"] = i.ID
	m["_kind"] = i.Kind
	m["_timestamp"] = i.Timestamp
	for k, v := range i.Fields {
		m[k] = v
	}
	return m
}

// ToFlatMap stringifies every field for tabular outputs.
func (i *Item) ToFlatMap() map[string]string {
	flat := make(map[string]string, len(i.Fields)+1)
	flat["_id"] = i.ID
	for k, v := range i.Fields {
		if v == nil {
			flat[k] = ""
			continue
		}
		flat[k] = fmt.Sprint(v)
	}
	return flat
}
