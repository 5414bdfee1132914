package model

// Contact is one phone number entry of the address book. A person with two
// phone numbers shows up as two contacts that share the same Id.
type Contact struct {
	Id     int64  `json:"id"     db:"id"`
	Name   string `json:"name"   db:"name"`
	Number string `json:"number" db:"number"`
}
