package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type accountRepo struct{ s *Store }

func emailTaken(st *state, email, exceptID string) bool {
	return find(st.accounts, func(a *models.Account) bool {
		return strings.EqualFold(a.Email, email) && a.ID != exceptID
	}) >= 0
}

func (r *accountRepo) Create(_ context.Context, account *models.Account) error {
	return r.s.write(func(st *state) error {
		if emailTaken(st, account.Email, "") {
			return errors.NewConflictError(errors.CodeEmailTaken, "email already registered", nil)
		}
		st.accounts = append(st.accounts, *account)
		return nil
	})
}

func (r *accountRepo) get(match func(*models.Account) bool) (*models.Account, error) {
	var out *models.Account
	err := r.s.read(func(st *state) error {
		i := find(st.accounts, match)
		if i < 0 {
			return notFound("account")
		}
		v := st.accounts[i]
		out = &v
		return nil
	})
	return out, err
}

func (r *accountRepo) Get(_ context.Context, id string) (*models.Account, error) {
	return r.get(func(a *models.Account) bool { return a.ID == id })
}

func (r *accountRepo) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return r.get(func(a *models.Account) bool { return strings.EqualFold(a.Email, email) })
}

func (r *accountRepo) Update(_ context.Context, account *models.Account) error {
	return r.s.write(func(st *state) error {
		cur := st.account(account.ID)
		if cur == nil {
			return notFound("account")
		}
		if emailTaken(st, account.Email, account.ID) {
			return errors.NewConflictError(errors.CodeEmailTaken, "email already registered", nil)
		}
		created := cur.CreatedAt
		*cur = *account
		cur.CreatedAt = created
		return nil
	})
}

// Delete cascades like the foreign keys in the relational schema.
func (r *accountRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if st.account(id) == nil {
			return notFound("account")
		}
		for _, h := range append([]models.Hive(nil), st.hives...) {
			if h.OwnerID == id {
				st.deleteHive(h.ID)
			}
		}
		st.reports = remove(st.reports, func(rp *models.Report) bool {
			return rp.BeekeeperID == id || rp.OfficerID == id
		})
		st.recommendations = remove(st.recommendations, func(rec *models.Recommendation) bool {
			return rec.BeekeeperID == id || rec.OfficerID == id
		})
		st.accounts = remove(st.accounts, func(a *models.Account) bool { return a.ID == id })
		return nil
	})
}

func (r *accountRepo) List(_ context.Context) ([]*models.Account, error) {
	var out []*models.Account
	err := r.s.read(func(st *state) error {
		out = newestFirst(st.accounts, func(*models.Account) bool { return true },
			func(a *models.Account) time.Time { return a.CreatedAt }, 0)
		return nil
	})
	return out, err
}

func (r *accountRepo) ListOfficers(_ context.Context) ([]*models.OfficerContact, error) {
	out := []*models.OfficerContact{}
	err := r.s.read(func(st *state) error {
		for _, a := range st.accounts {
			if a.Role == models.RoleOfficer && a.Approved {
				out = append(out, &models.OfficerContact{ID: a.ID, FullName: a.FullName, Email: a.Email})
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, err
}
