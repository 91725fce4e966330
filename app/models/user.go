package models

import "math"

// UserProfile is the gateway's user record.
type UserProfile struct {
	ID        string `json:"_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Photo     string `json:"photo,omitempty"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Zipcode   string `json:"zipcode,omitempty"`
	Country   string `json:"country,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// completionFields is the total the percentage is computed against:
// name and email always count, plus the four optional contact fields.
const completionFields = 6

// Completion returns the profile completion percentage. Name and email
// are always present on a created account, so the floor is 2 of 6.
func (u UserProfile) Completion() int {
	filled := 2
	for _, v := range []string{u.Phone, u.Address, u.Zipcode, u.Country} {
		if v != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / completionFields * 100))
}

// IsAdmin reports whether the profile carries the admin role.
func (u UserProfile) IsAdmin() bool {
	return u.Role == "admin"
}

// ProfilePatch carries the editable contact fields for PATCH requests.
// Pointer fields distinguish "leave unchanged" from "set empty".
type ProfilePatch struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Zipcode *string `json:"zipcode,omitempty"`
	Country *string `json:"country,omitempty"`
}
