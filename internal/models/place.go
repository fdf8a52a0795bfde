package models

import "strings"

// PlaceholderName is shown when a position cannot be named
const PlaceholderName = "Your Location"

// Coordinates is a WGS84 position
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// PlaceName is a displayable location produced by forward or reverse geocoding
type PlaceName struct {
	Name        string
	Country     string // empty when unknown
	Coordinates Coordinates
}

// Placeholder returns the stand-in place used when reverse geocoding yields nothing
func Placeholder(c Coordinates) PlaceName {
	return PlaceName{Name: PlaceholderName, Coordinates: c}
}

// SuggestionItem is an autocomplete candidate
type SuggestionItem struct {
	Place  PlaceName
	Admin1 string // e.g. state or province
	Admin2 string // e.g. county
}

// Detail returns the secondary line shown under a suggestion ("Admin1, Country")
func (s SuggestionItem) Detail() string {
	var parts []string
	if s.Admin1 != "" {
		parts = append(parts, s.Admin1)
	}
	if s.Place.Country != "" {
		parts = append(parts, s.Place.Country)
	}
	return strings.Join(parts, ", ")
}

// DisplayName picks the first usable name from the geocoder's
// administrative fields, falling back to the placeholder
func DisplayName(name, admin1, admin2 string) string {
	for _, candidate := range []string{name, admin1, admin2} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return PlaceholderName
}
