// Package store provides access to the contact store: raw contacts and the
// typed data rows (structured name, phone number) attached to them.
package store

import (
	"context"
	"errors"

	"gitlab.com/dirk.krummacker/contact-store/internal/model"
)

// MIME types that discriminate the data rows of a raw contact.
const (
	MimeTypeName  = "vnd.android.cursor.item/name"
	MimeTypePhone = "vnd.android.cursor.item/phone_v2"
)

// Phone types stored in the data2 column of a phone row.
const (
	PhoneTypeHome   = "1"
	PhoneTypeMobile = "2"
	PhoneTypeWork   = "3"
	PhoneTypeOther  = "7"
)

var (
	// ErrStoreWrite is returned when a write yields no usable result, most
	// notably when the raw contact insert returns no identifier.
	ErrStoreWrite = errors.New("store: write failed")

	// ErrStoreQuery is returned when the contact list cannot be queried.
	ErrStoreQuery = errors.New("store: query failed")
)

// ContactRepository is the capability to read and write the contact store.
type ContactRepository interface {
	// List returns one contact per phone data row in store order.
	List(ctx context.Context) ([]model.Contact, error)

	// Create inserts a local-only raw contact and attaches a name row and a
	// mobile phone row to it.
	Create(ctx context.Context, name string, phone string) error

	// Update rewrites the name rows and the phone rows of the contact in two
	// independent writes. Rows that do not exist are not created.
	Update(ctx context.Context, id int64, name string, phone string) error

	// Delete removes the contact and its data rows. Unknown ids are ignored.
	Delete(ctx context.Context, id int64) error
}
