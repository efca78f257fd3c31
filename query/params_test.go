package query

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"estate_browser/models"
)

func TestParseParams(t *testing.T) {
	values := url.Values{
		"q":         {" oak "},
		"price_min": {"100,000"},
		"price_max": {"500000"},
		"beds_min":  {"2"},
		"baths_min": {"1.5"},
		"type":      {"house,condo", "Townhouse"},
		"feature":   {"garage", "HARDWOOD FLOORS,Pool", "Wine Cellar"},
		"sort":      {"price-high"},
		"limit":     {"10"},
		"offset":    {"20"},
	}

	got, err := ParseParams(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := Params{
		Search: " oak ",
		Filter: models.Filter{
			PriceMin:      int64Ptr(100000),
			PriceMax:      int64Ptr(500000),
			BedroomsMin:   intPtr(2),
			BathroomsMin:  float64Ptr(1.5),
			PropertyTypes: []models.PropertyType{models.PropertyTypeHouse, models.PropertyTypeCondo, models.PropertyTypeTownhouse},
			Features:      []string{"Garage", "Hardwood Floors", "Pool", "Wine Cellar"},
		},
		Sort:   models.SortPriceHigh,
		Limit:  10,
		Offset: 20,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestParseParamsDefaults(t *testing.T) {
	got, err := ParseParams(url.Values{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Sort != models.DefaultSort || !got.Filter.IsEmpty() || got.Limit != 0 {
		t.Errorf("unexpected defaults %+v", got)
	}
}

func TestParseParamsErrors(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		field  string
	}{
		{"non-numeric price", url.Values{"price_min": {"cheap"}}, "price_min"},
		{"fractional beds", url.Values{"beds_min": {"2.5"}}, "beds_min"},
		{"bad baths", url.Values{"baths_min": {"x"}}, "baths_min"},
		{"inverted range", url.Values{"price_min": {"9"}, "price_max": {"1"}}, "price_min"},
		{"unknown type", url.Values{"type": {"castle"}}, "property_types"},
		{"negative limit", url.Values{"limit": {"-1"}}, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseParams(tt.values)
			ve, ok := err.(*models.ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}
