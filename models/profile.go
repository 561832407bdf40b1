package models

import "time"

// UserProfile is the current user as returned by the auth service.
// It is read-only here; nothing in this service writes it back.
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	Title     string    `json:"title,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	NIC       string    `json:"nic,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   *Address  `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type Address struct {
	Line1    string `json:"line1,omitempty"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Province string `json:"province,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// DisplayName falls back to the username when no names are on file.
func (u UserProfile) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return u.Username
}

// String renders the address on one line, skipping empty parts.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	out := ""
	for _, p := range []string{a.Line1, a.Line2, a.City, a.District, a.Province, a.Postcode} {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
