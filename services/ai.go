package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"

	"tripmate-server/models"
)

// Generated itinerary suggestions come back from Gemini as a JSON array of
// these; every field is sanitized before persisting.
type GeneratedItem struct {
	Day             int     `json:"day"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Time            string  `json:"time"`
	Location        string  `json:"location"`
	DurationMinutes *int    `json:"duration_minutes"`
	CostEstimate    string  `json:"cost_estimate"`
	BookingURL      *string `json:"booking_url"`
	Notes           string  `json:"notes"`
}

var hhmmPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
var hourPattern = regexp.MustCompile(`(\d{1,2})`)

// SanitizeItemTime clamps a free-form time description into a fixed 24-hour
// HH:MM value. index rotates the fallback slot for "flexible" answers so a
// whole day of flexible items doesn't collapse onto 09:00.
func SanitizeItemTime(raw string, index int) string {
	sanitized := "09:00"
	if raw == "" {
		return sanitized
	}
	timeStr := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case hhmmPattern.MatchString(timeStr):
		if len(timeStr) == 4 {
			timeStr = "0" + timeStr
		}
		sanitized = timeStr
	case strings.Contains(timeStr, "morning") || strings.Contains(timeStr, "breakfast"):
		sanitized = "09:00"
	case strings.Contains(timeStr, "lunch") || strings.Contains(timeStr, "afternoon"):
		sanitized = "13:00"
	case strings.Contains(timeStr, "evening") || strings.Contains(timeStr, "dinner"):
		sanitized = "18:00"
	case strings.Contains(timeStr, "night"):
		sanitized = "20:00"
	case strings.Contains(timeStr, "flexible") || strings.Contains(timeStr, "anytime"):
		baseHour := 9 + (index % 8)
		sanitized = fmt.Sprintf("%02d:00", baseHour)
	default:
		if m := hourPattern.FindStringSubmatch(timeStr); m != nil {
			if hour, err := strconv.Atoi(m[1]); err == nil && hour >= 0 && hour <= 23 {
				sanitized = fmt.Sprintf("%02d:00", hour)
			}
		}
	}
	return sanitized
}

// StripCodeFences removes a surrounding Markdown code block from a model
// response, with or without a language tag.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		} else {
			text = strings.TrimPrefix(text, "```json")
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// ParseGeneratedItinerary validates a model response into sanitized items
// bound to the trip: fences stripped, array shape enforced, times clamped,
// days and dates filled in, order preserved.
func ParseGeneratedItinerary(raw string, trip *models.Trip, createdBy uint) ([]models.ItineraryItem, error) {
	text := StripCodeFences(raw)

	var generated []GeneratedItem
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		return nil, fmt.Errorf("model response is not a JSON array: %w", err)
	}

	items := make([]models.ItineraryItem, 0, len(generated))
	for i, g := range generated {
		day := g.Day
		if day < 1 {
			day = i/3 + 1
		}
		date, err := ItineraryDateForDay(trip.StartDate, day)
		if err != nil {
			return nil, err
		}

		title := g.Title
		if title == "" {
			title = fmt.Sprintf("Activity %d", i+1)
		}
		description := g.Description
		if description == "" {
			description = "Generated activity"
		}
		location := g.Location
		if location == "" {
			location = trip.Location
		}
		bookingURL := ""
		if g.BookingURL != nil {
			bookingURL = *g.BookingURL
		}

		items = append(items, models.ItineraryItem{
			TripID:          trip.ID,
			Day:             day,
			Date:            date,
			Time:            SanitizeItemTime(g.Time, i),
			OrderIndex:      i,
			Title:           title,
			Description:     description,
			Location:        location,
			DurationMinutes: g.DurationMinutes,
			CostEstimate:    g.CostEstimate,
			BookingURL:      bookingURL,
			Notes:           g.Notes,
			CreatedBy:       createdBy,
		})
	}
	return items, nil
}

// BuildItineraryPrompt assembles the structured natural-language prompt for
// the generative model.
func BuildItineraryPrompt(trip *models.Trip, durationDays int, userInstructions string) string {
	if userInstructions == "" {
		userInstructions = "Create a balanced itinerary with a mix of must-see attractions, local experiences, and free time."
	}

	var sb strings.Builder
	sb.WriteString("You are an expert travel planner AI. Generate a detailed day-by-day itinerary for the following trip.\n\n")
	sb.WriteString("TRIP CONTEXT:\n")
	fmt.Fprintf(&sb, "Destination: %s\n", trip.Location)
	fmt.Fprintf(&sb, "Title: %s\n", trip.Title)
	if trip.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", trip.Description)
	}
	fmt.Fprintf(&sb, "Dates: %s to %s\n", trip.StartDate, trip.EndDate)
	if trip.Budget > 0 {
		fmt.Fprintf(&sb, "Budget: %.2f\n", trip.Budget)
	}
	fmt.Fprintf(&sb, "Group size: %d\n\n", trip.CurrentMembers)
	fmt.Fprintf(&sb, "DURATION: %d days\n", durationDays)
	fmt.Fprintf(&sb, "USER INSTRUCTIONS: %s\n\n", userInstructions)
	sb.WriteString("REQUIREMENTS:\n")
	fmt.Fprintf(&sb, "1. Create exactly %d days of activities\n", durationDays)
	sb.WriteString("2. Each day should have 2-4 activities\n")
	sb.WriteString("3. Consider travel time between locations\n")
	sb.WriteString("4. Include a mix of sightseeing, dining, cultural experiences, and relaxation\n\n")
	sb.WriteString("RESPONSE FORMAT:\n")
	sb.WriteString("Respond with a valid JSON array only. No other text before or after. Each element:\n")
	sb.WriteString(`{"day": 1, "title": "...", "description": "...", "time": "09:00", "location": "...", "duration_minutes": 120, "cost_estimate": "$25 per person", "booking_url": null, "notes": "..."}` + "\n\n")
	sb.WriteString("CRITICAL TIME FORMAT RULES:\n")
	sb.WriteString("- ALWAYS use 24-hour time format HH:MM (e.g., \"09:00\", \"14:30\")\n")
	sb.WriteString("- NEVER use words like \"Flexible\", \"Morning\", \"Afternoon\", \"Evening\"\n")
	sb.WriteString("- NEVER use 12-hour format (no AM/PM)\n\n")
	sb.WriteString("Generate the itinerary now as a JSON array:")
	return sb.String()
}

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// GenerateText sends a prompt to Gemini and returns the raw text of the
// first candidate.
func GenerateText(prompt string) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", geminiEndpoint+"?key="+apiKey, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != 200 {
		return "", fmt.Errorf("gemini request failed with status %d: %s", res.StatusCode, string(body))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
