// Package gateway is the single entry point of the address book into the
// contact store. It enforces the permission gate and logs every store call.
package gateway

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-store/internal/model"
	"gitlab.com/dirk.krummacker/contact-store/internal/store"
)

// ErrPermissionDenied is returned for every operation while the contact
// permissions are not granted. The store is not contacted in that case.
var ErrPermissionDenied = errors.New("gateway: contact permissions denied")

// SortOrder is the client-side order of a contact list.
type SortOrder int

const (
	// StoreOrder keeps the order defined by the store.
	StoreOrder SortOrder = iota
	Ascending
	Descending
)

func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "store"
	}
}

// Gateway wraps a contact repository behind the permission gate.
type Gateway struct {
	repo   store.ContactRepository
	perms  Permissions
	logger *zap.Logger
}

func New(repo store.ContactRepository, perms Permissions, logger *zap.Logger) *Gateway {
	return &Gateway{repo: repo, perms: perms, logger: logger}
}

// Authorize checks the permissions and requests them if they are missing.
func (g *Gateway) Authorize(ctx context.Context) bool {
	if g.perms.Granted(ctx) {
		return true
	}
	granted := g.perms.Request(ctx)
	if !granted {
		g.logger.Warn("contact permissions denied")
	}
	return granted
}

// List returns the current contacts. The slice is never nil, also when an
// error is returned.
func (g *Gateway) List(ctx context.Context) ([]model.Contact, error) {
	if !g.perms.Granted(ctx) {
		return []model.Contact{}, ErrPermissionDenied
	}
	contacts, err := g.repo.List(ctx)
	if err != nil {
		g.logger.Error("could not list contacts", zap.Error(err))
		return []model.Contact{}, err
	}
	g.logger.Debug("listed contacts", zap.Int("count", len(contacts)))
	return contacts, nil
}

// Create adds a local-only contact.
func (g *Gateway) Create(ctx context.Context, name string, phone string) error {
	if !g.perms.Granted(ctx) {
		return ErrPermissionDenied
	}
	if err := g.repo.Create(ctx, name, phone); err != nil {
		g.logger.Error("could not create contact", zap.String("name", name), zap.Error(err))
		return err
	}
	g.logger.Info("created contact", zap.String("name", name))
	return nil
}

// Update rewrites the name and the number of a contact. The two writes are
// not atomic.
func (g *Gateway) Update(ctx context.Context, id int64, name string, phone string) error {
	if !g.perms.Granted(ctx) {
		return ErrPermissionDenied
	}
	if err := g.repo.Update(ctx, id, name, phone); err != nil {
		g.logger.Error("could not update contact", zap.Int64("id", id), zap.Error(err))
		return err
	}
	g.logger.Info("updated contact", zap.Int64("id", id))
	return nil
}

// Delete removes a contact. Unknown ids are ignored by the store.
func (g *Gateway) Delete(ctx context.Context, id int64) error {
	if !g.perms.Granted(ctx) {
		return ErrPermissionDenied
	}
	if err := g.repo.Delete(ctx, id); err != nil {
		g.logger.Error("could not delete contact", zap.Int64("id", id), zap.Error(err))
		return err
	}
	g.logger.Info("deleted contact", zap.Int64("id", id))
	return nil
}

// Sort returns a copy of contacts ordered by name. Contacts with equal names
// keep their relative order.
func Sort(contacts []model.Contact, order SortOrder) []model.Contact {
	sorted := slices.Clone(contacts)
	switch order {
	case Ascending:
		slices.SortStableFunc(sorted, func(a, b model.Contact) int {
			return strings.Compare(a.Name, b.Name)
		})
	case Descending:
		slices.SortStableFunc(sorted, func(a, b model.Contact) int {
			return strings.Compare(b.Name, a.Name)
		})
	}
	if sorted == nil {
		sorted = []model.Contact{}
	}
	return sorted
}
