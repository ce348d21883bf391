package schema

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ============================================================================
// AUTO-DISCOVERY — Header → Field Mapping
// ============================================================================
// Exports from different publishers label the same metric differently
// ("Complétion Vidéo 25%", "Video completion 25 %", "Retention 25%").
// Discover folds each header (lowercase, diacritics stripped, whitespace
// collapsed) and matches it against ordered patterns. First match wins per
// field; a header is assigned at most once. Fields with no matching header
// keep their default column name.
// ============================================================================

// DiscoverResult is the outcome of header discovery.
type DiscoverResult struct {
	Fields  Fields            `json:"fields"`
	Matched map[string]string `json:"matched"` // field → header
	Missing []string          `json:"missing,omitempty"`
	Skipped []SkippedColumn   `json:"skippedColumns,omitempty"`
}

type headerPattern struct {
	field string
	re    *regexp.Regexp
	set   func(*Fields, string)
}

// Checkpoint patterns come before the completion-rate pattern so that
// "completion 25%" never lands in CompletionRate.
var headerPatterns = []headerPattern{
	{"comp25", regexp.MustCompile(`(complet|retention|watched).*\b25\s*%`), func(f *Fields, h string) { f.Comp25 = h }},
	{"comp50", regexp.MustCompile(`(complet|retention|watched).*\b50\s*%`), func(f *Fields, h string) { f.Comp50 = h }},
	{"comp75", regexp.MustCompile(`(complet|retention|watched).*\b75\s*%`), func(f *Fields, h string) { f.Comp75 = h }},
	{"comp100", regexp.MustCompile(`(complet|retention|watched).*\b100\s*%`), func(f *Fields, h string) { f.Comp100 = h }},
	{"completionRate", regexp.MustCompile(`taux de completion|completion rate|(avg|average|mean) completion`), func(f *Fields, h string) { f.CompletionRate = h }},
	{"viewTime", regexp.MustCompile(`view(ing)? time|watch time|temps de visionnage|kijktijd`), func(f *Fields, h string) { f.ViewTime = h }},
	{"streams", regexp.MustCompile(`^(streams?|views|vues|weergaven|plays)$`), func(f *Fields, h string) { f.Streams = h }},
	{"date", regexp.MustCompile(`^(jour|date|day|dag|datum)$`), func(f *Fields, h string) { f.Date = h }},
	{"catalogue", regexp.MustCompile(`^(catalogue|catalog|catalogus|publisher|editeur|channel)$`), func(f *Fields, h string) { f.Catalogue = h }},
	{"title", regexp.MustCompile(`^(video|video title|title|titre|titel)$`), func(f *Fields, h string) { f.Title = h }},
}

// Discover maps a header row onto pipeline fields.
func Discover(headers []string) DiscoverResult {
	res := DiscoverResult{
		Fields:  DefaultFields(),
		Matched: make(map[string]string),
	}

	used := make(map[int]bool)
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = FoldHeader(h)
	}

	for _, p := range headerPatterns {
		for i, h := range headers {
			if used[i] || folded[i] == "" {
				continue
			}
			if p.re.MatchString(folded[i]) {
				h = strings.TrimSpace(h)
				p.set(&res.Fields, h)
				res.Matched[p.field] = h
				used[i] = true
				break
			}
		}
		if _, ok := res.Matched[p.field]; !ok {
			res.Missing = append(res.Missing, p.field)
		}
	}

	for i, h := range headers {
		if used[i] {
			continue
		}
		reason := "No pipeline field matches this header"
		if folded[i] == "" {
			reason = "Empty header"
		}
		res.Skipped = append(res.Skipped, SkippedColumn{Column: h, Reason: reason})
	}

	return res
}

// FoldHeader lowercases s, strips diacritics and collapses whitespace.
// "Complétion  Vidéo 25%" → "completion video 25%"
func FoldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}
