// Package htmlentity normalizes rich-text content coming out of the admin
// editor. The editor widget entity-encodes on every save, so content that
// travels through it more than once arrives double-encoded; Decode collapses
// any depth of encoding down to plain text and is a no-op on already-plain
// strings.
package htmlentity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxPasses bounds the re-decode loop for pathological inputs. Two passes
// cover everything the editor actually produces.
const maxPasses = 3

var numericRef = regexp.MustCompile(`&#(?:[0-9]{1,7}|[xX][0-9a-fA-F]{1,6});`)

// namedEntities is applied in order. &amp; must come first: decoding it last
// would turn "&amp;ndash;" into a fresh "&ndash;" only after the ndash pass
// already ran, leaving an encoded intermediate behind.
var namedEntities = [][2]string{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&apos;", "'"},
	{"&nbsp;", " "},
	{"&ndash;", "–"},
	{"&mdash;", "—"},
	{"&hellip;", "…"},
	{"&lsquo;", "‘"},
	{"&rsquo;", "’"},
	{"&ldquo;", "“"},
	{"&rdquo;", "”"},
	{"&laquo;", "«"},
	{"&raquo;", "»"},
	{"&auml;", "ä"},
	{"&ouml;", "ö"},
	{"&uuml;", "ü"},
	{"&Auml;", "Ä"},
	{"&Ouml;", "Ö"},
	{"&Uuml;", "Ü"},
	{"&szlig;", "ß"},
	{"&eacute;", "é"},
	{"&egrave;", "è"},
	{"&agrave;", "à"},
	{"&ccedil;", "ç"},
	{"&euro;", "€"},
	{"&copy;", "©"},
	{"&reg;", "®"},
	{"&trade;", "™"},
	{"&sect;", "§"},
	{"&middot;", "·"},
}

// Decode resolves numeric character references and the named entities above,
// repeating until the string stops changing or maxPasses is reached.
// Decode(Decode(s)) == Decode(s) for every s.
func Decode(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	for i := 0; i < maxPasses; i++ {
		next := decodeNumeric(s)
		next = decodeNamed(next)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func decodeNumeric(s string) string {
	if !strings.Contains(s, "&#") {
		return s
	}
	return numericRef.ReplaceAllStringFunc(s, func(ref string) string {
		body := ref[2 : len(ref)-1]
		var code int64
		var err error
		if body[0] == 'x' || body[0] == 'X' {
			code, err = strconv.ParseInt(body[1:], 16, 32)
		} else {
			code, err = strconv.ParseInt(body, 10, 32)
		}
		if err != nil || code <= 0 || !utf8.ValidRune(rune(code)) {
			return ref
		}
		return string(rune(code))
	})
}

func decodeNamed(s string) string {
	for _, pair := range namedEntities {
		if strings.Contains(s, pair[0]) {
			s = strings.ReplaceAll(s, pair[0], pair[1])
		}
	}
	return s
}

// DecodeDocument walks a structured content document and decodes every string
// leaf. Maps and slices are rebuilt; any other value passes through untouched.
func DecodeDocument(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return Decode(val)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = DecodeDocument(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = DecodeDocument(item)
		}
		return out
	default:
		return v
	}
}
