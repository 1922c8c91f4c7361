package intent

import (
	"regexp"
	"strings"
)

// WeatherTool is the tool called by the weather fast path.
const WeatherTool = "weather"

// Argument names of the weather tool.
const (
	ArgCity       = "city"
	ArgPostalCode = "postalCode"
)

// WeatherKeywords trigger the weather rule, in French and English.
var WeatherKeywords = []string{
	"météo", "temps", "prévisions", "température", "pluie", "soleil",
	"neige", "vent", "humidité", "climat", "weather", "forecast",
}

// locationPattern captures the place named after a French preposition. The
// preposition must start a word so that "la météo" does not match on "a".
var locationPattern = regexp.MustCompile(`(?i)(?:^|\s)(?:à|a|de|pour|sur|en)\s+([a-zA-ZÀ-ÿ\s'-]+)`)

// knownPostalCodes pins cities whose name alone is ambiguous for the
// provider.
var knownPostalCodes = map[string]string{
	"chelles": "77500",
}

// WeatherRule returns the weather fast-path rule.
func WeatherRule() Rule {
	return Rule{
		Category: Weather,
		Tool:     WeatherTool,
		Keywords: WeatherKeywords,
		Extract:  ExtractLocation,
	}
}

// ExtractLocation returns the weather tool arguments for the first location
// phrase in query.
func ExtractLocation(query string) (map[string]any, bool) {
	m := locationPattern.FindStringSubmatch(query)
	if m == nil {
		return nil, false
	}
	city := strings.Trim(strings.TrimSpace(m[1]), "'-")
	if city == "" {
		return nil, false
	}
	if code, ok := knownPostalCodes[strings.ToLower(city)]; ok {
		return map[string]any{ArgCity: strings.ToLower(city), ArgPostalCode: code}, true
	}
	return map[string]any{ArgCity: city, ArgPostalCode: ""}, true
}
