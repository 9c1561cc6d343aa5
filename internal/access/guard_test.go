package access

import (
	"context"
	"testing"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	guard    *Guard
	keeperA  *models.Actor
	keeperB  *models.Actor
	officer  *models.Actor
	officer2 *models.Actor
	admin    *models.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Now().UTC()
	for _, a := range []models.Account{
		{ID: "acc_a", Email: "a@x.io", Role: models.RoleBeekeeper, Approved: true},
		{ID: "acc_b", Email: "b@x.io", Role: models.RoleBeekeeper, Approved: true},
		{ID: "acc_o", Email: "o@x.io", Role: models.RoleOfficer, Approved: true},
		{ID: "acc_o2", Email: "o2@x.io", Role: models.RoleOfficer, Approved: true},
		{ID: "acc_admin", Email: "root@x.io", Role: models.RoleAdmin, Approved: true},
	} {
		a := a
		require.NoError(t, s.Accounts().Create(ctx, &a))
	}
	require.NoError(t, s.Hives().Create(ctx, &models.Hive{ID: "hv_a", OwnerID: "acc_a", Name: "A1", Location: "x"}))
	require.NoError(t, s.Hives().Create(ctx, &models.Hive{ID: "hv_b", OwnerID: "acc_b", Name: "B1", Location: "y"}))
	require.NoError(t, s.Sensors().Create(ctx, &models.Sensor{ID: "sn_a", HiveID: "hv_a", SerialNumber: "A-1", Type: models.SensorTypeCombined}))
	require.NoError(t, s.Sensors().Create(ctx, &models.Sensor{ID: "sn_b", HiveID: "hv_b", SerialNumber: "B-1", Type: models.SensorTypeCombined}))
	require.NoError(t, s.Reports().Create(ctx, &models.Report{ID: "rp_b", BeekeeperID: "acc_b", OfficerID: "acc_o", Message: "help", CreatedAt: now}))
	require.NoError(t, s.Recommendations().Create(ctx, &models.Recommendation{ID: "rc_o", OfficerID: "acc_o", BeekeeperID: "acc_b", Message: "do x", CreatedAt: now}))

	return &fixture{
		store:    s,
		guard:    NewGuard(s),
		keeperA:  &models.Actor{ID: "acc_a", Role: models.RoleBeekeeper},
		keeperB:  &models.Actor{ID: "acc_b", Role: models.RoleBeekeeper},
		officer:  &models.Actor{ID: "acc_o", Role: models.RoleOfficer},
		officer2: &models.Actor{ID: "acc_o2", Role: models.RoleOfficer},
		admin:    &models.Actor{ID: "acc_admin", Role: models.RoleAdmin},
	}
}

func TestPrecedence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// unauthenticated beats everything else
	d := f.guard.Authorize(ctx, nil, ActionHiveDelete, On("hv_missing"))
	assert.Equal(t, errors.CodeUnauthorized, d.Code)

	// role is checked before ownership, even for a target that does not exist
	d = f.guard.Authorize(ctx, f.officer, ActionHiveDelete, On("hv_missing"))
	assert.Equal(t, errors.CodeForbiddenRole, d.Code)

	d = f.guard.Authorize(ctx, f.keeperA, ActionAccountList, Target{})
	assert.Equal(t, errors.CodeForbiddenRole, d.Code)

	d = f.guard.Authorize(ctx, f.admin, ActionRecommendationCreate, Target{})
	assert.Equal(t, errors.CodeForbiddenRole, d.Code)

	// public actions need no actor
	assert.True(t, f.guard.Authorize(ctx, nil, ActionRegister, Target{}).Allowed)
	assert.True(t, f.guard.Authorize(ctx, nil, ActionLogin, Target{}).Allowed)
}

func TestCrossTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		action Action
		own    string
		other  string
	}{
		{ActionHiveRead, "hv_a", "hv_b"},
		{ActionHiveUpdate, "hv_a", "hv_b"},
		{ActionHiveDelete, "hv_a", "hv_b"},
		{ActionSensorRegister, "hv_a", "hv_b"},
		{ActionSensorRead, "sn_a", "sn_b"},
		{ActionSensorUpdate, "sn_a", "sn_b"},
		{ActionSensorDelete, "sn_a", "sn_b"},
		{ActionReadingView, "hv_a", "hv_b"},
	}
	for _, c := range cases {
		t.Run(string(c.action), func(t *testing.T) {
			assert.True(t, f.guard.Authorize(ctx, f.keeperA, c.action, On(c.own)).Allowed)

			foreign := f.guard.Authorize(ctx, f.keeperA, c.action, On(c.other))
			missing := f.guard.Authorize(ctx, f.keeperA, c.action, On("does_not_exist"))
			assert.False(t, foreign.Allowed)
			assert.Equal(t, errors.CodeNotFoundOrUnauthorized, foreign.Code)
			assert.Equal(t, foreign.Code, missing.Code, "foreign and missing must be indistinguishable")
			assert.Equal(t, foreign.Err().Error(), missing.Err().Error())
		})
	}

	// reports and recommendations addressed to B are invisible to A
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, f.guard.Authorize(ctx, f.keeperA, ActionReportUpdate, On("rp_b")).Code)
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, f.guard.Authorize(ctx, f.keeperA, ActionReportDelete, On("rp_b")).Code)
	assert.True(t, f.guard.Authorize(ctx, f.keeperB, ActionReportDelete, On("rp_b")).Allowed)
}

func TestSimulateDenialLooksLikeNoHive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.guard.Authorize(ctx, f.keeperA, ActionReadingSimulate, On("hv_b"))
	assert.Equal(t, errors.CodeNoHivesFound, d.Code)
	assert.True(t, errors.IsNotFound(d.Err()))
	assert.True(t, f.guard.Authorize(ctx, f.keeperA, ActionReadingSimulate, On("hv_a")).Allowed)
}

func TestReportAndRecommendationDeleteAsymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// the recipient officer may delete a report
	assert.True(t, f.guard.Authorize(ctx, f.officer, ActionReportDeleteAsRecipient, On("rp_b")).Allowed)
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, f.guard.Authorize(ctx, f.officer2, ActionReportDeleteAsRecipient, On("rp_b")).Code)

	// only the authoring officer may delete a recommendation
	assert.True(t, f.guard.Authorize(ctx, f.officer, ActionRecommendationDelete, On("rc_o")).Allowed)
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, f.guard.Authorize(ctx, f.officer2, ActionRecommendationDelete, On("rc_o")).Code)
	assert.Equal(t, errors.CodeForbiddenRole, f.guard.Authorize(ctx, f.keeperB, ActionRecommendationDelete, On("rc_o")).Code)
}

func TestAdminSelfProtection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	demote := models.RoleBeekeeper
	keep := models.RoleAdmin
	unapprove := false
	name := "New Name"

	d := f.guard.Authorize(ctx, f.admin, ActionAccountUpdate, Target{ID: f.admin.ID, Update: &models.AccountUpdate{Role: &demote, FullName: &name}})
	assert.Equal(t, errors.CodeSelfEditForbidden, d.Code)

	d = f.guard.Authorize(ctx, f.admin, ActionAccountUpdate, Target{ID: f.admin.ID, Update: &models.AccountUpdate{Approved: &unapprove}})
	assert.Equal(t, errors.CodeSelfEditForbidden, d.Code)

	d = f.guard.Authorize(ctx, f.admin, ActionAccountDelete, On(f.admin.ID))
	assert.Equal(t, errors.CodeSelfDeleteForbidden, d.Code)

	// harmless self edits and edits of others are allowed
	assert.True(t, f.guard.Authorize(ctx, f.admin, ActionAccountUpdate, Target{ID: f.admin.ID, Update: &models.AccountUpdate{Role: &keep, FullName: &name}}).Allowed)
	assert.True(t, f.guard.Authorize(ctx, f.admin, ActionAccountUpdate, Target{ID: "acc_a", Update: &models.AccountUpdate{Role: &demote}}).Allowed)
	assert.True(t, f.guard.Authorize(ctx, f.admin, ActionAccountDelete, On("acc_a")).Allowed)
}

func TestAuthorizeIsIdempotentAndUncached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.guard.Authorize(ctx, f.keeperA, ActionHiveUpdate, On("hv_a"))
	second := f.guard.Authorize(ctx, f.keeperA, ActionHiveUpdate, On("hv_a"))
	assert.Equal(t, first, second)
	assert.True(t, first.Allowed)

	// ownership is re-read from storage on every call
	require.NoError(t, f.store.Hives().Delete(ctx, "hv_a"))
	after := f.guard.Authorize(ctx, f.keeperA, ActionHiveUpdate, On("hv_a"))
	assert.False(t, after.Allowed)
	assert.Equal(t, errors.CodeNotFoundOrUnauthorized, after.Code)
}

func TestMissingTargetAndUnknownAction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.guard.Authorize(ctx, f.keeperA, ActionHiveUpdate, Target{})
	assert.Equal(t, errors.CodeMissingID, d.Code)
	assert.True(t, errors.IsValidation(d.Err()))

	d = f.guard.Authorize(ctx, f.keeperA, Action("hive.explode"), On("hv_a"))
	assert.Equal(t, errors.CodeInvalidAction, d.Code)
	assert.False(t, Known(Action("hive.explode")))
}

func TestDenyHook(t *testing.T) {
	f := newFixture(t)
	var seen []string
	f.guard.OnDeny(func(action Action, code string) { seen = append(seen, string(action)+":"+code) })

	_ = f.guard.Authorize(context.Background(), f.officer, ActionHiveCreate, Target{})
	_ = f.guard.Authorize(context.Background(), f.keeperA, ActionHiveCreate, Target{})
	assert.Equal(t, []string{"hive.create:FORBIDDEN_ROLE"}, seen)
}
