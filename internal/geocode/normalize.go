package geocode

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Japanese address normalization: free-form user input carries building
// names, room numbers and full-width punctuation that confuse geocoders.

var (
	parentheticalRe = regexp.MustCompile(`（[^）]*）|\([^)]*\)`)
	buildingRe      = regexp.MustCompile(`(マンション|アパート|ハイツ|コーポ|ビル|タワー|レジデンス|メゾン)[^、,／/]*`)
	roomRe          = regexp.MustCompile(`[0-9０-９]+号室`)
	hyphenRe        = regexp.MustCompile(`[‐‑‒–—―ー−－〜~]`)
	multiHyphenRe   = regexp.MustCompile(`-{2,}`)
)

// NormalizeJP rewrites a Japanese postal-style address into the hyphenated
// form Nominatim resolves best: annotations and building names removed,
// block markers (丁目/番地/番/号) hyphenated, country hint appended.
func NormalizeJP(addr string) string {
	s := norm.NFKC.String(addr)
	s = parentheticalRe.ReplaceAllString(s, "")
	s = buildingRe.ReplaceAllString(s, "")
	s = roomRe.ReplaceAllString(s, "")
	s = hyphenRe.ReplaceAllString(s, "-")

	s = strings.ReplaceAll(s, "丁目", "-")
	s = strings.ReplaceAll(s, "番地", "-")
	s = strings.ReplaceAll(s, "番", "-")
	s = strings.ReplaceAll(s, "号", "")

	s = multiHyphenRe.ReplaceAllString(s, "-")
	s = strings.Join(strings.Fields(s), " ")

	if !strings.Contains(s, "日本") && !strings.Contains(s, "Japan") {
		s += " 日本"
	}
	return s
}

// truncations returns progressively shorter forms of a normalized
// address, dropping trailing block numbers one at a time (1-2-3 → 1-2).
func truncations(normalized string) []string {
	if !strings.Contains(normalized, "-") {
		return nil
	}
	parts := strings.Split(normalized, "-")
	var out []string
	for cut := len(parts) - 1; cut > 1; cut-- {
		out = append(out, strings.Join(parts[:cut], "-"))
	}
	return out
}
