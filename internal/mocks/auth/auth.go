package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	domainauth "github.com/campuslabs/gatehouse/internal/domain/auth"
	"github.com/campuslabs/gatehouse/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider  = (*MockAuthProvider)(nil)
	_ ports.UserDirectory = (*MemoryUserDirectory)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	// Deterministic values for predictable testing
	AuthURL         string
	DefaultIdentity domainauth.Identity

	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultIdentity: domainauth.Identity{
			ProviderID:  "mock-user-1",
			DisplayName: "Mock User",
			Email:       "mock.user@example.com",
			AvatarURL:   "https://mock-idp/avatar.png",
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	// Deterministic state and nonce based on call count
	state := fmt.Sprintf("state-%d", m.callCount)
	nonce := fmt.Sprintf("nonce-%d", m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultIdentity, nil
}

// MemoryUserDirectory is an in-memory user directory for unit tests. It
// mirrors the storage-layer uniqueness guarantee: concurrent FindOrCreate
// calls for the same provider ID yield a single record.
type MemoryUserDirectory struct {
	mu      sync.Mutex
	byProv  map[string]domainauth.User
	byRef   map[string]domainauth.User
	nextRef int

	// FindOrCreateErr and FindByRefErr force failures when set.
	FindOrCreateErr error
	FindByRefErr    error
}

// NewMemoryUserDirectory creates an empty in-memory directory.
func NewMemoryUserDirectory() *MemoryUserDirectory {
	return &MemoryUserDirectory{
		byProv: make(map[string]domainauth.User),
		byRef:  make(map[string]domainauth.User),
	}
}

func (d *MemoryUserDirectory) FindOrCreate(_ context.Context, id domainauth.Identity) (domainauth.User, error) {
	if d.FindOrCreateErr != nil {
		return domainauth.User{}, d.FindOrCreateErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.byProv[id.ProviderID]; ok {
		// Stale profile fields are intentionally not refreshed.
		return existing, nil
	}

	d.nextRef++
	user := domainauth.User{
		Ref:         "ref-" + strconv.Itoa(d.nextRef),
		ProviderID:  id.ProviderID,
		DisplayName: id.DisplayName,
		Email:       id.Email,
		AvatarURL:   id.AvatarURL,
	}
	d.byProv[id.ProviderID] = user
	d.byRef[user.Ref] = user
	return user, nil
}

func (d *MemoryUserDirectory) FindByRef(_ context.Context, ref string) (domainauth.User, error) {
	if d.FindByRefErr != nil {
		return domainauth.User{}, d.FindByRefErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.byRef[ref]
	if !ok {
		return domainauth.User{}, ports.ErrNotFound
	}
	return user, nil
}

// Len reports the number of stored user records.
func (d *MemoryUserDirectory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byProv)
}

// Delete removes a record by ref, simulating out-of-band deletion.
func (d *MemoryUserDirectory) Delete(ref string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if user, ok := d.byRef[ref]; ok {
		delete(d.byProv, user.ProviderID)
		delete(d.byRef, ref)
	}
}
