package hubservice

import (
	"context"
	"strings"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/auth"
	"github.com/itsatony/w4b_v3/server/apiary/internal/cleanup"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/ingest"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
)

// Limits caps the "most recent N" views.
type Limits struct {
	Alerts   int
	Readings int
	Workflow int
}

// DefaultLimits mirrors the dashboard sizes.
func DefaultLimits() Limits {
	return Limits{Alerts: 5, Readings: 60, Workflow: 10}
}

// HubService contains all repositories and service-wide dependencies.
// Every method takes the caller as an explicit actor and runs the access
// guard before touching storage.
type HubService struct {
	Store     repository.Store
	Guard     *access.Guard
	Pipeline  *ingest.Pipeline
	Cleanup   *cleanup.CleanupService
	Passwords *auth.PasswordHasher
	Tokens    auth.TokenIssuer
	Limits    Limits

	now func() time.Time
}

// New creates a new HubService instance
func New(
	store repository.Store,
	guard *access.Guard,
	pipeline *ingest.Pipeline,
	passwords *auth.PasswordHasher,
	tokens auth.TokenIssuer,
	limits Limits,
) *HubService {
	svc := &HubService{
		Store:     store,
		Guard:     guard,
		Pipeline:  pipeline,
		Passwords: passwords,
		Tokens:    tokens,
		Limits:    limits,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if store != nil && guard != nil {
		svc.Cleanup = cleanup.New(store, guard)
	}
	return svc
}

// Validate checks if all required dependencies are initialized
func (s *HubService) Validate() error {
	if s.Store == nil {
		return ErrMissingRepository("store")
	}
	if s.Guard == nil {
		return ErrMissingDependency("guard")
	}
	if s.Pipeline == nil {
		return ErrMissingDependency("pipeline")
	}
	if s.Cleanup == nil {
		return ErrMissingDependency("cleanup")
	}
	if s.Passwords == nil {
		return ErrMissingDependency("passwords")
	}
	if s.Tokens == nil {
		return ErrMissingDependency("tokens")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

func ErrMissingDependency(name string) error {
	return errors.NewInternalError("missing dependency: "+name, nil)
}

// guarded runs fn in one transaction with a guard bound to it, so the
// authorization check and the write see the same state.
func (s *HubService) guarded(ctx context.Context, fn func(tx repository.Store, guard *access.Guard) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(tx, s.Guard.Within(tx))
	})
}

func missingFields(what string) error {
	return errors.NewValidationError(errors.CodeMissingFields, what, nil)
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
