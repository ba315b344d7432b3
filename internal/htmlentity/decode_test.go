package htmlentity

import (
	"reflect"
	"testing"
)

func TestDecodePlainStringUnchanged(t *testing.T) {
	inputs := []string{
		"",
		"Imagefilm für den Mittelstand",
		"Ton & Schnitt", // bare ampersand is not an entity
		"a < b",
	}
	for _, in := range inputs {
		if got := Decode(in); got != in {
			t.Fatalf("Decode(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestDecodeNamedEntities(t *testing.T) {
	cases := map[string]string{
		"Ton &amp; Schnitt":        "Ton & Schnitt",
		"&quot;Action&quot;":       `"Action"`,
		"M&uuml;nchen &ndash; Ost": "München – Ost",
		"&lt;b&gt;fett&lt;/b&gt;":  "<b>fett</b>",
	}
	for in, want := range cases {
		if got := Decode(in); got != want {
			t.Fatalf("Decode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeNumericReferences(t *testing.T) {
	cases := map[string]string{
		"&#8211;":  "–",
		"&#x2013;": "–",
		"&#38;":    "&",
		"&#xE4;":   "ä",
		"&#;":      "&#;", // malformed stays put
	}
	for in, want := range cases {
		if got := Decode(in); got != want {
			t.Fatalf("Decode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeDoubleEncoded(t *testing.T) {
	// The editor pipeline can encode twice: the ampersand itself gets
	// entity-encoded, hiding the real entity behind it.
	cases := map[string]string{
		"&amp;ndash;":  "–",
		"&amp;#8211;":  "–",
		"&amp;amp;":    "&",
		"&amp;#x2013;": "–",
	}
	for in, want := range cases {
		if got := Decode(in); got != want {
			t.Fatalf("Decode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeIdempotent(t *testing.T) {
	inputs := []string{
		"Ton &amp; Schnitt",
		"&amp;ndash;",
		"&amp;#8211;",
		"plain text",
		"M&uuml;ller &amp; S&ouml;hne &#8211; Showreel",
	}
	for _, in := range inputs {
		once := Decode(in)
		twice := Decode(once)
		if once != twice {
			t.Fatalf("Decode not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDecodeDocument(t *testing.T) {
	doc := map[string]interface{}{
		"title":    "Ton &amp; Schnitt",
		"subtitle": nil,
		"count":    float64(3),
		"items": []interface{}{
			map[string]interface{}{
				"question": "Was kostet ein Imagefilm&#63;",
				"answer":   "Kommt drauf an &ndash; siehe Preise.",
			},
		},
	}

	got := DecodeDocument(doc).(map[string]interface{})
	if got["title"] != "Ton & Schnitt" {
		t.Fatalf("title not decoded: %v", got["title"])
	}
	if got["subtitle"] != nil {
		t.Fatalf("nil leaf changed: %v", got["subtitle"])
	}
	if got["count"] != float64(3) {
		t.Fatalf("numeric leaf changed: %v", got["count"])
	}
	items := got["items"].([]interface{})
	item := items[0].(map[string]interface{})
	if item["question"] != "Was kostet ein Imagefilm?" {
		t.Fatalf("nested question not decoded: %v", item["question"])
	}
	if item["answer"] != "Kommt drauf an – siehe Preise." {
		t.Fatalf("nested answer not decoded: %v", item["answer"])
	}
}

func TestDecodeDocumentPreservesStructure(t *testing.T) {
	in := []interface{}{"&amp;", float64(1), true}
	got := DecodeDocument(in)
	want := []interface{}{"&", float64(1), true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DecodeDocument(%v) = %v, want %v", in, got, want)
	}
}
