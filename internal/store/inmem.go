package store

import (
	"context"
	"slices"
	"sync"

	"gitlab.com/dirk.krummacker/contact-store/internal/model"
)

type dataRow struct {
	id           int64
	rawContactID int64
	mimetype     string
	data1        string
	data2        string
}

// Inmem implements [ContactRepository] in memory with the same row model as
// the relational store.
type Inmem struct {
	mu       sync.Mutex
	lastRaw  int64
	lastData int64
	raw      []int64
	data     []dataRow
}

var _ ContactRepository = (*Inmem)(nil)

func NewInmem() *Inmem {
	return &Inmem{}
}

func (s *Inmem) List(_ context.Context) ([]model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contacts := []model.Contact{}
	for _, row := range s.data {
		if row.mimetype != MimeTypePhone {
			continue
		}
		contacts = append(contacts, model.Contact{
			Id:     row.rawContactID,
			Name:   s.nameOf(row.rawContactID),
			Number: row.data1,
		})
	}
	return contacts, nil
}

// nameOf returns the first structured name of the raw contact, or "".
func (s *Inmem) nameOf(rawContactID int64) string {
	for _, row := range s.data {
		if row.rawContactID == rawContactID && row.mimetype == MimeTypeName {
			return row.data1
		}
	}
	return ""
}

func (s *Inmem) Create(_ context.Context, name string, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRaw++
	s.raw = append(s.raw, s.lastRaw)
	s.attach(s.lastRaw, MimeTypeName, name, "")
	s.attach(s.lastRaw, MimeTypePhone, phone, PhoneTypeMobile)
	return nil
}

func (s *Inmem) attach(rawContactID int64, mimetype string, data1 string, data2 string) {
	s.lastData++
	s.data = append(s.data, dataRow{
		id:           s.lastData,
		rawContactID: rawContactID,
		mimetype:     mimetype,
		data1:        data1,
		data2:        data2,
	})
}

func (s *Inmem) Update(_ context.Context, id int64, name string, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data {
		if s.data[i].rawContactID != id {
			continue
		}
		switch s.data[i].mimetype {
		case MimeTypeName:
			s.data[i].data1 = name
		case MimeTypePhone:
			s.data[i].data1 = phone
		}
	}
	return nil
}

func (s *Inmem) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = slices.DeleteFunc(s.data, func(row dataRow) bool { return row.rawContactID == id })
	s.raw = slices.DeleteFunc(s.raw, func(raw int64) bool { return raw == id })
	return nil
}

// InsertRow attaches a single data row to an existing raw contact. It allows
// building contacts that the public operations cannot produce, like a contact
// with a second number or without a name row.
func (s *Inmem) InsertRow(rawContactID int64, mimetype string, data1 string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attach(rawContactID, mimetype, data1, "")
}

// InsertRawContact adds a raw contact without data rows and returns its id.
func (s *Inmem) InsertRawContact() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRaw++
	s.raw = append(s.raw, s.lastRaw)
	return s.lastRaw
}
