package models

import "time"

// GuestRecord represents one guest's RSVP
type GuestRecord struct {
	ID             string    `json:"uuid"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Attending      bool      `json:"rsvp"`
	DessertChoice  string    `json:"dessert_choice"`
	DessertTopping string    `json:"dessert_topping"`
	Allergies      string    `json:"allergies"`
	CreatedAt      time.Time `json:"created_at"`
}

// Status reports the attendance status of the record
func (g GuestRecord) Status() RSVPStatus {
	if g.Attending {
		return RSVPAttending
	}
	return RSVPDeclined
}

// RSVPStatus represents the attendance confirmation status
type RSVPStatus string

const (
	RSVPAttending RSVPStatus = "attending"
	RSVPDeclined  RSVPStatus = "declined"
)

// ParseRSVPStatus accepts the status names plus the yes/no spellings used by the forms.
func ParseRSVPStatus(s string) (RSVPStatus, bool) {
	switch s {
	case "attending", "accepted", "yes":
		return RSVPAttending, true
	case "declined", "not_attending", "no":
		return RSVPDeclined, true
	}
	return "", false
}

// EventKind tells notifications whether a record was just created or changed
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
)
