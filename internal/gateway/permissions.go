package gateway

import (
	"context"
	"sync"
)

// Capability is a permission the host environment grants to the address book.
type Capability string

const (
	ReadContacts  Capability = "read-contacts"
	WriteContacts Capability = "write-contacts"
)

// Capabilities are requested, granted and denied together.
var Capabilities = []Capability{ReadContacts, WriteContacts}

// Permissions is the permission boundary of the host environment.
type Permissions interface {
	// Granted reports whether both capabilities are currently granted.
	Granted(ctx context.Context) bool

	// Request asks the host environment for both capabilities and reports
	// whether they were granted.
	Request(ctx context.Context) bool
}

// StaticPermissions is a permission decision made up front, for example by
// configuration.
type StaticPermissions bool

func (p StaticPermissions) Granted(context.Context) bool { return bool(p) }
func (p StaticPermissions) Request(context.Context) bool { return bool(p) }

// PromptPermissions asks once through Prompt and remembers the answer. A
// denial is final; there is no second prompt. Without a Prompt the
// permissions are denied.
type PromptPermissions struct {
	Prompt func(ctx context.Context, capabilities []Capability) bool

	mu      sync.Mutex
	asked   bool
	granted bool
}

func (p *PromptPermissions) Granted(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted
}

func (p *PromptPermissions) Request(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.asked {
		p.asked = true
		p.granted = p.Prompt != nil && p.Prompt(ctx, Capabilities)
	}
	return p.granted
}
