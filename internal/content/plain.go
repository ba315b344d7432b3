package content

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"
)

// Plain rewrites the bson.M/bson.A/bson.D values the driver produces inside
// interface{} fields into plain maps and slices, so downstream code (entity
// decoding, JSON encoding, tests) sees one canonical shape.
func Plain(doc sections.Document) sections.Document {
	if doc == nil {
		return nil
	}
	out := make(sections.Document, len(doc))
	for k, v := range doc {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		return Plain(map[string]interface{}(val))
	case map[string]interface{}:
		return Plain(val)
	case bson.D:
		return Plain(map[string]interface{}(val.Map()))
	case bson.A:
		return plainSlice([]interface{}(val))
	case []interface{}:
		return plainSlice(val)
	default:
		return v
	}
}

func plainSlice(items []interface{}) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = plainValue(item)
	}
	return out
}
