package models

import "fmt"

// Source identifies the catalog a product originated from. The set is closed;
// adapters are registered against these tags and nothing else.
type Source string

const (
	SourceOpenFoodFacts Source = "open_food_facts"
	SourceUSDAFoodData  Source = "usda_fooddata"
	SourceManual        Source = "manual"
)

// AllSources lists every known source tag in declaration order.
func AllSources() []Source {
	return []Source{SourceOpenFoodFacts, SourceUSDAFoodData, SourceManual}
}

// ParseSource converts a raw string into a Source, rejecting unknown tags.
func ParseSource(raw string) (Source, error) {
	switch Source(raw) {
	case SourceOpenFoodFacts, SourceUSDAFoodData, SourceManual:
		return Source(raw), nil
	default:
		return "", fmt.Errorf("unknown product source %q", raw)
	}
}

// Valid reports whether the source is one of the known tags.
func (s Source) Valid() bool {
	_, err := ParseSource(string(s))
	return err == nil
}
