// Package screen holds the address book screen: an explicit state object,
// the operations that change it and a pure rendering of it.
package screen

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contact-store/internal/gateway"
	"gitlab.com/dirk.krummacker/contact-store/internal/model"
)

// State is what the screen shows. Contacts is a snapshot that is replaced as
// a whole on every refresh. Loaded is set once the screen has been opened.
type State struct {
	Contacts  []model.Contact
	Order     gateway.SortOrder
	Permitted bool
	Loaded    bool
}

// Screen applies user actions to the contact store and keeps the State in
// sync with it. Gateway calls are issued one at a time.
type Screen struct {
	gw     *gateway.Gateway
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

func New(gw *gateway.Gateway, logger *zap.Logger) *Screen {
	return &Screen{gw: gw, logger: logger, state: State{Contacts: []model.Contact{}}}
}

// State returns a copy of the current state.
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Open checks the contact permissions, asking for them if needed, and loads
// the list. If the permissions are denied the list stays empty.
func (s *Screen) Open(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Permitted = s.gw.Authorize(ctx)
	if !s.state.Permitted {
		s.state.Contacts = []model.Contact{}
		s.state.Loaded = true
		return s.snapshot()
	}
	s.refresh(ctx)
	return s.snapshot()
}

// Refresh replaces the list with the current content of the store.
func (s *Screen) Refresh(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	return s.snapshot()
}

// SortAscending orders the list by name, A first. The order is kept across
// refreshes.
func (s *Screen) SortAscending(context.Context) State {
	return s.sort(gateway.Ascending)
}

// SortDescending orders the list by name, Z first. The order is kept across
// refreshes.
func (s *Screen) SortDescending(context.Context) State {
	return s.sort(gateway.Descending)
}

func (s *Screen) sort(order gateway.SortOrder) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Order = order
	s.state.Contacts = gateway.Sort(s.state.Contacts, order)
	return s.snapshot()
}

func (s *Screen) Create(ctx context.Context, name string, phone string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gw.Create(ctx, name, phone); err != nil {
		s.logger.Warn("create contact ignored", zap.Error(err))
	}
	s.refresh(ctx)
	return s.snapshot()
}

func (s *Screen) Update(ctx context.Context, id int64, name string, phone string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gw.Update(ctx, id, name, phone); err != nil {
		s.logger.Warn("update contact ignored", zap.Int64("id", id), zap.Error(err))
	}
	s.refresh(ctx)
	return s.snapshot()
}

func (s *Screen) Delete(ctx context.Context, id int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gw.Delete(ctx, id); err != nil {
		s.logger.Warn("delete contact ignored", zap.Int64("id", id), zap.Error(err))
	}
	s.refresh(ctx)
	return s.snapshot()
}

// refresh must be called with mu held. A failed query empties the list.
func (s *Screen) refresh(ctx context.Context) {
	contacts, err := s.gw.List(ctx)
	if err != nil {
		s.logger.Warn("showing empty contact list", zap.Error(err))
	}
	s.state.Contacts = gateway.Sort(contacts, s.state.Order)
	s.state.Loaded = true
}

func (s *Screen) snapshot() State {
	state := s.state
	state.Contacts = slices.Clone(s.state.Contacts)
	return state
}
