// Package intent routes raw user queries to fast-path tool calls.
//
// Classification is keyword matching plus a regular expression, not language
// understanding. A missed fast path only costs a completion round, so the
// rules favor precision over recall.
package intent

import (
	"strings"
)

// Category is the closed set of fast-path categories plus General.
type Category string

const (
	General Category = "general"
	Weather Category = "weather"
)

// Classification is the router's verdict for one query.
type Classification struct {
	Category Category
	// Tool is the tool the fast path should call. Empty for General.
	Tool string
	// Args are the extracted tool arguments. Nil for General.
	Args map[string]any
}

// IsFastPath reports whether the query can skip the completion endpoint.
func (c Classification) IsFastPath() bool {
	return c.Category != General && c.Tool != ""
}

// Classifier decides whether a query has a fast path.
type Classifier interface {
	Classify(query string) Classification
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(query string) Classification

func (f ClassifierFunc) Classify(query string) Classification { return f(query) }

// Rule describes one fast-path category.
type Rule struct {
	Category Category
	Tool     string
	// Keywords are matched case-insensitively as substrings.
	Keywords []string
	// Extract pulls the tool arguments out of the query. A false return
	// sends the query down the general path even though a keyword matched.
	Extract func(query string) (map[string]any, bool)
}

func (r Rule) matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// KeywordClassifier evaluates rules in order. The first rule with a keyword
// hit decides the outcome, including a fall back to General when its
// extraction fails.
type KeywordClassifier struct {
	rules []Rule
}

// NewKeywordClassifier creates a classifier over the given rules.
func NewKeywordClassifier(rules ...Rule) *KeywordClassifier {
	return &KeywordClassifier{rules: rules}
}

// DefaultClassifier returns the classifier with the built-in weather rule.
func DefaultClassifier() *KeywordClassifier {
	return NewKeywordClassifier(WeatherRule())
}

// Classify implements Classifier.
func (c *KeywordClassifier) Classify(query string) Classification {
	lowered := strings.ToLower(query)
	for _, rule := range c.rules {
		if !rule.matches(lowered) {
			continue
		}
		if rule.Extract == nil {
			return Classification{Category: rule.Category, Tool: rule.Tool, Args: map[string]any{}}
		}
		args, ok := rule.Extract(query)
		if !ok {
			return Classification{Category: General}
		}
		return Classification{Category: rule.Category, Tool: rule.Tool, Args: args}
	}
	return Classification{Category: General}
}
