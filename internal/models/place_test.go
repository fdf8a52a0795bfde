package models

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		place  string
		admin1 string
		admin2 string
		want   string
	}{
		{"name wins", "Paris", "Île-de-France", "Paris", "Paris"},
		{"falls back to admin1", "", "Bavaria", "Upper Bavaria", "Bavaria"},
		{"falls back to admin2", " ", "", "Kent", "Kent"},
		{"placeholder", "", "", "", PlaceholderName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.place, tt.admin1, tt.admin2); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuggestionItem_Detail(t *testing.T) {
	tests := []struct {
		name string
		item SuggestionItem
		want string
	}{
		{
			name: "admin1 and country",
			item: SuggestionItem{Place: PlaceName{Name: "Springfield", Country: "United States"}, Admin1: "Illinois"},
			want: "Illinois, United States",
		},
		{
			name: "country only",
			item: SuggestionItem{Place: PlaceName{Name: "Monaco", Country: "Monaco"}},
			want: "Monaco",
		},
		{
			name: "nothing",
			item: SuggestionItem{Place: PlaceName{Name: "Somewhere"}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Detail(); got != tt.want {
				t.Errorf("Detail() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	c := Coordinates{Latitude: 51.5, Longitude: -0.12}
	p := Placeholder(c)
	if p.Name != "Your Location" || p.Country != "" || p.Coordinates != c {
		t.Errorf("Placeholder() = %+v", p)
	}
}
