package routes

import (
	"testing"

	"tripmate-server/models"
)

func TestNextCityOrder(t *testing.T) {
	cases := []struct {
		name   string
		cities []models.TripCity
		want   int
	}{
		{"first city", nil, 0},
		{"sequential", []models.TripCity{{OrderIndex: 0}, {OrderIndex: 1}}, 2},
		{"gap after deletion", []models.TripCity{{OrderIndex: 0}, {OrderIndex: 3}}, 4},
		{"unsorted result set", []models.TripCity{{OrderIndex: 2}, {OrderIndex: 0}, {OrderIndex: 1}}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextCityOrder(tc.cities); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
