// Package sections is the registry of content shapes a page section may
// carry. The database stores section content as an opaque document; this
// package is the single place that knows which keys exist, what fields each
// one has, and what a never-saved section looks like.
package sections

import (
	"errors"
	"fmt"
	"sort"
)

type Document = map[string]interface{}

var ErrUnknownKey = errors.New("unknown section key")

// ShapeError reports a document that does not match its section's
// registered shape.
type ShapeError struct {
	Key    string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("section %q: %s", e.Key, e.Reason)
}

const (
	KeyHero    = "hero"
	KeyFAQ     = "faq"
	KeyTrust   = "trust"
	KeyFooter  = "footer"
	KeyTeam    = "team"
	KeyCases   = "cases"
	KeyAbout   = "about"
	KeyContact = "contact"
)

type shape struct {
	// required fields must be present in a saved document
	required []string
	// list fields, when present, must be arrays of objects
	lists    []string
	defaults Document
}

var registry = map[string]shape{
	KeyHero: {
		required: []string{"title"},
		defaults: Document{
			"title":     "Videoproduktion, die Ihre Marke bewegt",
			"subtitle":  "Imagefilme, Recruiting-Videos und Social-Media-Content aus einer Hand.",
			"video_url": "",
			"cta_label": "Projekt anfragen",
			"cta_href":  "/kontakt",
		},
	},
	KeyFAQ: {
		required: []string{"items"},
		lists:    []string{"items"},
		defaults: Document{
			"title":    "Häufige Fragen",
			"subtitle": "",
			"items": []interface{}{
				Document{
					"question": "Wie lange dauert eine Videoproduktion?",
					"answer":   "Je nach Umfang zwischen zwei und acht Wochen vom Briefing bis zur Abnahme.",
				},
				Document{
					"question": "Was kostet ein Imagefilm?",
					"answer":   "Das hängt von Drehtagen, Locations und Postproduktion ab. Wir erstellen ein individuelles Angebot.",
				},
			},
		},
	},
	KeyTrust: {
		required: []string{"logos"},
		lists:    []string{"logos"},
		defaults: Document{
			"title": "Unternehmen, die uns vertrauen",
			"logos": []interface{}{},
		},
	},
	KeyFooter: {
		required: []string{"company_name"},
		lists:    []string{"links"},
		defaults: Document{
			"company_name": "BSP Media",
			"tagline":      "Videoproduktion aus Berlin",
			"email":        "hallo@bsp-media.de",
			"phone":        "",
			"address":      "",
			"links":        []interface{}{},
		},
	},
	KeyTeam: {
		defaults: Document{
			"title":    "Das Team hinter der Kamera",
			"subtitle": "",
		},
	},
	KeyCases: {
		defaults: Document{
			"title":           "Ausgewählte Projekte",
			"subtitle":        "",
			"category_filter": true,
		},
	},
	KeyAbout: {
		required: []string{"title"},
		defaults: Document{
			"title": "Über uns",
			"body":  "",
		},
	},
	KeyContact: {
		defaults: Document{
			"title":    "Lassen Sie uns über Ihr Projekt sprechen",
			"subtitle": "",
			"email":    "hallo@bsp-media.de",
			"phone":    "",
		},
	},
}

func Known(key string) bool {
	_, ok := registry[key]
	return ok
}

func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Default returns a deep copy of the fallback document for key, so callers
// can mutate the result without corrupting the registry.
func Default(key string) (Document, error) {
	s, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return copyDocument(s.defaults), nil
}

// Validate checks that doc matches the registered shape for key: required
// fields are present and list fields hold arrays of objects. Field values
// beyond that are free-form; the editors own the details.
func Validate(key string, doc Document) error {
	s, ok := registry[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	for _, field := range s.required {
		if _, present := doc[field]; !present {
			return &ShapeError{Key: key, Reason: fmt.Sprintf("missing required field %q", field)}
		}
	}
	for _, field := range s.lists {
		raw, present := doc[field]
		if !present || raw == nil {
			continue
		}
		list, ok := raw.([]interface{})
		if !ok {
			return &ShapeError{Key: key, Reason: fmt.Sprintf("field %q must be a list", field)}
		}
		for i, item := range list {
			if _, ok := item.(map[string]interface{}); !ok {
				return &ShapeError{Key: key, Reason: fmt.Sprintf("%s[%d] must be an object", field, i)}
			}
		}
	}
	return nil
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return copyDocument(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
