package hubservice

import (
	"context"
	"testing"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/auth"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/ingest"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	svc   *HubService
	store *memory.Store
	jwt   *auth.JWTService
}

func newHarness(t *testing.T, src ingest.ReadingSource) *harness {
	t.Helper()
	store := memory.NewStore()
	guard := access.NewGuard(store)
	pipeline := ingest.New(store, guard, ingest.Options{Picker: ingest.FirstPicker{}, Source: src})
	jwt := auth.NewJWTService("test-secret-0123456789", "apiary", time.Hour)
	svc := New(store, guard, pipeline, auth.NewPasswordHasher(bcrypt.MinCost), jwt, DefaultLimits())
	require.NoError(t, svc.Validate())
	return &harness{svc: svc, store: store, jwt: jwt}
}

func registration(name, email string) models.Registration {
	return models.Registration{
		FullName:        name,
		Email:           email,
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	}
}

// seedAdmin writes an admin directly, the way an operator bootstraps one.
func (h *harness) seedAdmin(t *testing.T) *models.Actor {
	t.Helper()
	hash, err := h.svc.Passwords.Hash("rootpassword")
	require.NoError(t, err)
	require.NoError(t, h.store.Accounts().Create(context.Background(), &models.Account{
		ID: "acc_admin", FullName: "Root", Email: "root@apiary.io", PasswordHash: hash,
		Role: models.RoleAdmin, Approved: true, CreatedAt: time.Now(),
	}))
	return &models.Actor{ID: "acc_admin", Role: models.RoleAdmin}
}

func (h *harness) beekeeper(t *testing.T, name, email string) *models.Actor {
	t.Helper()
	acc, err := h.svc.Register(context.Background(), registration(name, email))
	require.NoError(t, err)
	return &models.Actor{ID: acc.ID, Role: acc.Role}
}

func (h *harness) officer(t *testing.T, admin *models.Actor, name, email string) *models.Actor {
	t.Helper()
	reg := registration(name, email)
	reg.Role = "agricultural_officer"
	acc, err := h.svc.CreateAccount(context.Background(), admin, reg)
	require.NoError(t, err)
	require.Equal(t, models.RoleOfficer, acc.Role)
	return &models.Actor{ID: acc.ID, Role: models.RoleOfficer}
}

func (h *harness) hive(t *testing.T, owner *models.Actor, name string) *models.Hive {
	t.Helper()
	hv := &models.Hive{Name: name, Location: "Orchard"}
	require.NoError(t, h.svc.CreateHive(context.Background(), owner, hv))
	return hv
}

func TestValidateReportsMissingDependencies(t *testing.T) {
	err := (&HubService{}).Validate()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.CodeOf(err))
}
