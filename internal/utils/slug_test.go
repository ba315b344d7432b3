package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Imagefilm für Müller & Söhne": "imagefilm-fuer-mueller-und-soehne",
		"  Recruiting/Video  ":         "recruiting-video",
		"Straße 42":                    "strasse-42",
		"already-a-slug":               "already-a-slug",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSlugifyEmpty(t *testing.T) {
	if got := Slugify("   "); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
	if got := Slugify("///"); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}
