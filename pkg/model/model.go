package model

// Contact is the JSON representation of an address book entry as returned by
// the contacts service.
type Contact struct {
	Id     int64  `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// ContactData is the request body for creating and updating a contact. For
// creation, missing fields are stored as empty strings. For updates, both
// fields are mandatory.
type ContactData struct {
	Name   *string `json:"name,omitempty"`
	Number *string `json:"number,omitempty"`
}
