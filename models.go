package authclient

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used when normalizing profile phone numbers that
// carry no country prefix.
const DefaultPhoneRegion = "ES"

// UserProfile is the authoritative user record fetched from the backend.
// A serialized copy is mirrored into Storage as a read-through cache for
// process restarts; the in-memory copy is authoritative while running.
type UserProfile struct {
	ID             uuid.UUID  `json:"id,omitempty"`
	FirstName      string     `json:"first_name,omitempty"`
	LastName       string     `json:"last_name,omitempty"`
	Username       string     `json:"username,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone_number,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	Roles          []string   `json:"roles,omitempty"`
	ClubID         *uuid.UUID `json:"club_id,omitempty"`
	ClubName       string     `json:"club_name,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// FullName joins first and last names for display.
func (p *UserProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// ProfileUpdate is the partial payload for a profile PUT. Nil fields are
// left untouched by the backend.
type ProfileUpdate struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone_number,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// Validate will run validation rules
func (p ProfileUpdate) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.Length(1, 200)),
		validation.Field(&p.LastName, validation.Length(1, 200)),
		validation.Field(&p.Email, validation.Length(6, 100), is.Email),
		validation.Field(&p.Phone, validation.Length(6, 20)),
	)
}

// Normalize rewrites the phone field into E.164 when it parses as a valid
// number for the given region. Unparseable values are left as typed.
func (p *ProfileUpdate) Normalize(region string) {
	if p.Phone == nil || *p.Phone == "" {
		return
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := phonenumbers.Parse(*p.Phone, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return
	}
	formatted := phonenumbers.Format(num, phonenumbers.E164)
	p.Phone = &formatted
}
