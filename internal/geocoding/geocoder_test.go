package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient("")

	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %s, want %s", client.baseURL, DefaultBaseURL)
	}

	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", client.httpClient.Timeout)
	}

	if client.userAgent == "" {
		t.Error("userAgent should not be empty")
	}

	if got := NewClient("http://localhost:8080/").baseURL; got != "http://localhost:8080" {
		t.Errorf("baseURL = %s, want trailing slash trimmed", got)
	}
}

func TestClient_Search(t *testing.T) {
	fixture, err := os.ReadFile("testdata/search_response.json")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("path = %s, want /v1/search", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "Paris" {
			t.Errorf("name = %q, want Paris", got)
		}
		if got := r.URL.Query().Get("count"); got != "5" {
			t.Errorf("count = %q, want 5", got)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header not set")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	items, err := client.Search(context.Background(), "  Paris ", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0]
	if first.Place.Name != "Paris" || first.Place.Country != "France" {
		t.Errorf("first = %+v, want Paris, France", first.Place)
	}
	if first.Admin1 != "Île-de-France" {
		t.Errorf("Admin1 = %s, want Île-de-France", first.Admin1)
	}
	if first.Place.Coordinates.Latitude != 48.85341 || first.Place.Coordinates.Longitude != 2.3488 {
		t.Errorf("coordinates = %+v", first.Place.Coordinates)
	}
	if items[1].Detail() != "Texas, United States" {
		t.Errorf("second Detail() = %s", items[1].Detail())
	}
}

func TestClient_Search_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Open-Meteo omits "results" entirely when nothing matches
		w.Write([]byte(`{"generationtime_ms": 0.5}`))
	}))
	defer server.Close()

	items, err := NewClient(server.URL).Search(context.Background(), "Nowhereville", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestClient_Search_UnnamedCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [
			{"name": "", "admin1": "Bavaria", "country": "Germany", "latitude": 48.1, "longitude": 11.6},
			{"name": " ", "admin1": "", "admin2": "Kreis Lippe", "country": "Germany", "latitude": 52.0, "longitude": 8.9},
			{"name": "", "country": "Nowhere", "latitude": 1, "longitude": 2}
		]}`))
	}))
	defer server.Close()

	items, err := NewClient(server.URL).Search(context.Background(), "Mu", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []string{"Bavaria", "Kreis Lippe", "Your Location"}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i, name := range want {
		if items[i].Place.Name != name {
			t.Errorf("items[%d].Place.Name = %q, want %q", i, items[i].Place.Name, name)
		}
	}
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	if _, err := NewClient("http://127.0.0.1:0").Search(context.Background(), "   ", 5); err == nil {
		t.Error("Search() with blank query should fail")
	}
}

func TestClient_Reverse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantName    string
		wantCountry string
		wantErr     error
	}{
		{
			name:        "named place",
			body:        `{"results":[{"name":"Lyon","country":"France","admin1":"Auvergne-Rhône-Alpes","latitude":45.75,"longitude":4.85}]}`,
			wantName:    "Lyon",
			wantCountry: "France",
		},
		{
			name:        "falls back to admin1",
			body:        `{"results":[{"name":"","country":"Germany","admin1":"Bavaria","admin2":"Upper Bavaria"}]}`,
			wantName:    "Bavaria",
			wantCountry: "Germany",
		},
		{
			name:     "no name fields",
			body:     `{"results":[{"latitude":1,"longitude":2}]}`,
			wantName: "Your Location",
		},
		{
			name:    "no results",
			body:    `{}`,
			wantErr: ErrNoResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("latitude") != "45.7578" || q.Get("longitude") != "4.832" || q.Get("count") != "1" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			place, err := NewClient(server.URL).Reverse(context.Background(), 45.7578, 4.832)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Reverse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reverse() error = %v", err)
			}
			if place.Name != tt.wantName || place.Country != tt.wantCountry {
				t.Errorf("Reverse() = %+v, want %s, %s", place, tt.wantName, tt.wantCountry)
			}
			// Queried coordinates are kept, not the match's
			if place.Coordinates.Latitude != 45.7578 || place.Coordinates.Longitude != 4.832 {
				t.Errorf("coordinates = %+v, want queried position", place.Coordinates)
			}
		})
	}
}

func TestClient_ErrorHandling(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"400 with reason", http.StatusBadRequest, `{"error":true,"reason":"Parameter count must be between 1 and 100."}`},
		{"500 server error", http.StatusInternalServerError, "error"},
		{"200 malformed body", http.StatusOK, "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			if _, err := client.Search(context.Background(), "Paris", 1); err == nil {
				t.Error("Search() expected error, got nil")
			}
			if _, err := client.Reverse(context.Background(), 1, 2); err == nil || errors.Is(err, ErrNoResults) {
				t.Errorf("Reverse() error = %v, want transport error", err)
			}
		})
	}
}
