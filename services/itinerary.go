package services

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ItineraryDateForDay derives the stored calendar date for a day-indexed
// item: trip start date plus (day - 1). Day numbering starts at 1.
func ItineraryDateForDay(startDate string, day int) (string, error) {
	if day < 1 {
		return "", fmt.Errorf("day must be at least 1, got %d", day)
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return "", fmt.Errorf("invalid trip start date %q: %w", startDate, err)
	}
	return start.AddDate(0, 0, day-1).Format(dateLayout), nil
}

// TripDurationDays returns the inclusive day count between two trip dates.
func TripDurationDays(startDate, endDate string) (int, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}
