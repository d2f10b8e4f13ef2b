package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Name                string         `json:"name"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	Password            string         `json:"-"`
	SocialLogin         bool           `json:"socialLogin"`
	SocialProvider      string         `json:"socialProvider"`
	AvatarURL           string         `json:"avatarURL"`
	Bio                 string         `json:"bio"`
	Languages           datatypes.JSON `json:"languages"`
	TravelPreferences   datatypes.JSON `json:"travelPreferences"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	LastLoginAt         *time.Time     `json:"lastLoginAt"`
	Role                string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin, super_admin
}

// Custom JSON marshaling so array-typed columns render as arrays, not raw bytes
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Languages         []string `json:"languages,omitempty"`
		TravelPreferences []string `json:"travelPreferences,omitempty"`
		*Alias
	}{
		Languages:         []string{},
		TravelPreferences: []string{},
		Alias:             (*Alias)(u),
	}

	if u.Languages != nil {
		var languages []string
		if err := json.Unmarshal(u.Languages, &languages); err == nil {
			aux.Languages = languages
		}
	}

	if u.TravelPreferences != nil {
		var prefs []string
		if err := json.Unmarshal(u.TravelPreferences, &prefs); err == nil {
			aux.TravelPreferences = prefs
		}
	}

	return json.Marshal(aux)
}

// DisplayName prefers the full name, falling back to first/last parts.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return "Someone"
	}
	return name
}
