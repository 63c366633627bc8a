// Package extract recovers a structured ParsedQuery from raw model output.
//
// The model is prompted to return a single JSON object but is never trusted to
// comply: extraction runs an ordered chain of strategies, from strict to
// lenient, and the first one that succeeds wins. New strategies can be
// appended to the chain without touching callers.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/querylens-ai/querylens/pkg/models"
)

// Error reports that no strategy could recover a structured record. It
// carries the raw model text so prompt or model regressions can be diagnosed.
type Error struct {
	RawText string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract: no strategy recovered a record from %q", truncate(e.RawText, 120))
}

type strategy struct {
	name string
	fn   func(raw string) (models.ParsedQuery, bool)
}

// Ordered from strict to lenient. The exact-text parse always shadows the
// substring parse because the chain stops at the first success.
var strategies = []strategy{
	{name: "direct", fn: parseDirect},
	{name: "isolate", fn: parseIsolated},
	{name: "fields", fn: parseFields},
}

// Parse converts raw model text into a ParsedQuery, or returns *Error when
// every strategy fails.
func Parse(raw string) (models.ParsedQuery, error) {
	for _, s := range strategies {
		if pq, ok := s.fn(raw); ok {
			return pq, nil
		}
	}
	return models.ParsedQuery{}, &Error{RawText: raw}
}

// rawRecord distinguishes a JSON null from a quoted value; both collapse to
// an absent field after normalization.
type rawRecord struct {
	ItemType *string `json:"item_type"`
	Material *string `json:"material"`
	Color    *string `json:"color"`
}

func (r rawRecord) normalize() models.ParsedQuery {
	return models.ParsedQuery{
		ItemType: cleanValue(r.ItemType),
		Material: cleanValue(r.Material),
		Color:    cleanValue(r.Color),
	}
}

// cleanValue trims whitespace and surrounding quotes and maps null, empty,
// and literal "null" values to absent.
func cleanValue(v *string) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(*v)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// parseDirect treats the entire text as one JSON object.
func parseDirect(raw string) (models.ParsedQuery, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return models.ParsedQuery{}, false
	}
	var rec rawRecord
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return models.ParsedQuery{}, false
	}
	return rec.normalize(), true
}

// parseIsolated cuts from the first opening brace to the last closing brace,
// discarding any surrounding prose, and retries the direct parse. Taking the
// last brace rather than the first closing one keeps nested objects intact.
func parseIsolated(raw string) (models.ParsedQuery, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.ParsedQuery{}, false
	}
	return parseDirect(raw[start : end+1])
}

// fieldPatterns matches key/value fragments per field: optionally quoted key,
// colon or equals, then a quoted string, the null literal, or a bare word run.
var fieldPatterns = map[string]*regexp.Regexp{
	"item_type": fieldPattern("item_type"),
	"material":  fieldPattern("material"),
	"color":     fieldPattern("color"),
}

func fieldPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)["']?` + name + `["']?\s*[:=]\s*("([^"\n]*)"|'([^'\n]*)'|null|[A-Za-z][A-Za-z ]*[A-Za-z]|[A-Za-z])`)
}

// parseFields scans the text for recognizable key/value fragments, building a
// partial record from confident matches only. It fails when nothing matched.
func parseFields(raw string) (models.ParsedQuery, bool) {
	found := false
	values := map[string]string{}
	for name, re := range fieldPatterns {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		found = true
		v := m[1]
		values[name] = cleanValue(&v)
	}
	if !found {
		return models.ParsedQuery{}, false
	}
	return models.ParsedQuery{
		ItemType: values["item_type"],
		Material: values["material"],
		Color:    values["color"],
	}, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
