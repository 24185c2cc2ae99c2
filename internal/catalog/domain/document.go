package domain

// Document is a read snapshot of one stored record: its identity plus its raw fields.
// Field values are string, int64, float64, bool, time.Time, []any, map[string]any or Reference.
type Document struct {
	ID         string
	Collection string
	Fields     map[string]any
}

func NewDocument(collection, id string, fields map[string]any) Document {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Document{ID: id, Collection: collection, Fields: cp}
}

func (d Document) Ref() Reference {
	return Reference{Collection: d.Collection, ID: d.ID}
}

// Get returns the raw value of a field. A nil value counts as absent.
func (d Document) Get(field string) (any, bool) {
	v, ok := d.Fields[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
