// FilePath: server/apiary/internal/access/guard.go
package access

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Target identifies the entity an action applies to. Update carries the
// requested account change for the admin self-protection rules.
type Target struct {
	ID     string
	Update *models.AccountUpdate
}

// On is shorthand for a target with only an id.
func On(id string) Target {
	return Target{ID: id}
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Code    string
	Reason  string
	cause   error
}

var allow = Decision{Allowed: true}

func deny(code, reason string) Decision {
	return Decision{Code: code, Reason: reason}
}

// Err converts a denial into the matching APIError. It is nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.cause != nil {
		return d.cause
	}
	switch d.Code {
	case errors.CodeUnauthorized:
		return errors.NewAuthError(d.Reason, nil)
	case errors.CodeNoHivesFound:
		return errors.NewNotFoundError(d.Code, d.Reason, nil)
	case errors.CodeMissingID, errors.CodeInvalidAction:
		return errors.NewValidationError(d.Code, d.Reason, nil)
	}
	return errors.NewAuthorizationError(d.Code, d.Reason, nil)
}

// DenyHook observes every denial, e.g. for metrics.
type DenyHook func(action Action, code string)

// Guard decides allow or deny for an actor, action and target. It never
// caches: every call re-reads ownership from the store it is bound to.
type Guard struct {
	store  repository.Store
	onDeny DenyHook
}

func NewGuard(store repository.Store) *Guard {
	return &Guard{store: store}
}

// OnDeny registers a hook called for each denial.
func (g *Guard) OnDeny(hook DenyHook) *Guard {
	g.onDeny = hook
	return g
}

// Within returns a guard that resolves ownership through store, typically
// a running transaction.
func (g *Guard) Within(store repository.Store) *Guard {
	return &Guard{store: store, onDeny: g.onDeny}
}

// Require is Authorize reduced to an error.
func (g *Guard) Require(ctx context.Context, actor *models.Actor, action Action, target Target) error {
	return g.Authorize(ctx, actor, action, target).Err()
}

// Authorize applies the rules in precedence order: authentication, role,
// ownership or assignment, admin self-protection.
func (g *Guard) Authorize(ctx context.Context, actor *models.Actor, action Action, target Target) Decision {
	d := g.decide(ctx, actor, action, target)
	if !d.Allowed {
		if d.cause == nil {
			nuts.L.Infof("[AccessGuard] Denied %s on %q: %s", action, target.ID, d.Code)
		}
		if g.onDeny != nil {
			g.onDeny(action, d.Code)
		}
	}
	return d
}

func (g *Guard) decide(ctx context.Context, actor *models.Actor, action Action, target Target) Decision {
	r, ok := rules[action]
	if !ok {
		return deny(errors.CodeInvalidAction, "unknown action")
	}
	if r.public {
		return allow
	}
	if actor.Anonymous() {
		return deny(errors.CodeUnauthorized, "authentication required")
	}
	if !roleAllowed(actor.Role, r.roles) {
		return deny(errors.CodeForbiddenRole, "role not permitted for this action")
	}
	if r.relation == relNone {
		return allow
	}
	if target.ID == "" {
		return deny(errors.CodeMissingID, "target id is required")
	}
	if r.relation == relAccountSelfGuard {
		return selfGuard(actor, action, target)
	}

	related, err := g.related(ctx, actor, r.relation, target.ID)
	if err != nil {
		return Decision{Code: errors.CodeOf(err), Reason: "failed to resolve ownership", cause: err}
	}
	if !related {
		code := errors.CodeNotFoundOrUnauthorized
		if r.denyCode != "" {
			code = r.denyCode
		}
		return deny(code, "not found or not permitted")
	}
	return allow
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func selfGuard(actor *models.Actor, action Action, target Target) Decision {
	if target.ID != actor.ID {
		return allow
	}
	switch action {
	case ActionAccountDelete:
		return deny(errors.CodeSelfDeleteForbidden, "admins cannot delete their own account")
	case ActionAccountUpdate:
		if u := target.Update; u != nil {
			if u.Role != nil && *u.Role != models.RoleAdmin {
				return deny(errors.CodeSelfEditForbidden, "admins cannot change their own role")
			}
			if u.Approved != nil && !*u.Approved {
				return deny(errors.CodeSelfEditForbidden, "admins cannot unapprove themselves")
			}
		}
	}
	return allow
}

// related resolves the relation against current storage. A missing row
// and a foreign row are both reported as unrelated.
func (g *Guard) related(ctx context.Context, actor *models.Actor, rel relation, id string) (bool, error) {
	switch rel {
	case relHiveOwner:
		hive, err := g.store.Hives().Get(ctx, id)
		if err != nil {
			return false, ignoreNotFound(err)
		}
		return hive.OwnerID == actor.ID, nil

	case relSensorOwner:
		sensor, err := g.store.Sensors().Get(ctx, id)
		if err != nil {
			return false, ignoreNotFound(err)
		}
		hive, err := g.store.Hives().Get(ctx, sensor.HiveID)
		if err != nil {
			return false, ignoreNotFound(err)
		}
		return hive.OwnerID == actor.ID, nil

	case relReportAuthor, relReportRecipient:
		report, err := g.store.Reports().Get(ctx, id)
		if err != nil {
			return false, ignoreNotFound(err)
		}
		if rel == relReportAuthor {
			return report.BeekeeperID == actor.ID, nil
		}
		return report.OfficerID == actor.ID, nil

	case relRecommendationAuthor:
		rec, err := g.store.Recommendations().Get(ctx, id)
		if err != nil {
			return false, ignoreNotFound(err)
		}
		return rec.OfficerID == actor.ID, nil
	}
	return false, nil
}

func ignoreNotFound(err error) error {
	if errors.IsNotFound(err) {
		return nil
	}
	return err
}
