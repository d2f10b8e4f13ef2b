package services

import (
	"errors"
	"fmt"
	"testing"

	"tripmate-server/models"

	"gorm.io/gorm"
)

func TestTripAcceptsJoinRequests(t *testing.T) {
	cases := []struct {
		visibility string
		want       bool
	}{
		{VisibilityPublic, true},
		{VisibilityLink, true},
		{VisibilityPrivate, false},
	}
	for _, tc := range cases {
		t.Run(tc.visibility, func(t *testing.T) {
			trip := models.Trip{Visibility: tc.visibility}
			if got := TripAcceptsJoinRequests(&trip); got != tc.want {
				t.Fatalf("visibility %q: expected %v, got %v", tc.visibility, tc.want, got)
			}
		})
	}
}

func TestTranslateRequestInsertError(t *testing.T) {
	if got := translateRequestInsertError(gorm.ErrDuplicatedKey); !errors.Is(got, ErrRequestPending) {
		t.Fatalf("expected ErrRequestPending for duplicate key, got %v", got)
	}

	wrapped := fmt.Errorf("create failed: %w", gorm.ErrDuplicatedKey)
	if got := translateRequestInsertError(wrapped); !errors.Is(got, ErrRequestPending) {
		t.Fatalf("expected ErrRequestPending for wrapped duplicate key, got %v", got)
	}

	other := errors.New("connection reset")
	if got := translateRequestInsertError(other); got != other {
		t.Fatalf("expected unrelated error passed through, got %v", got)
	}
}
