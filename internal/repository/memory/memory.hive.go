package memory

import (
	"context"
	"sort"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type hiveRepo struct{ s *Store }

func (r *hiveRepo) Create(_ context.Context, hive *models.Hive) error {
	return r.s.write(func(st *state) error {
		if st.account(hive.OwnerID) == nil {
			return missingRef("hive")
		}
		st.hives = append(st.hives, *hive)
		return nil
	})
}

func (r *hiveRepo) Get(_ context.Context, id string) (*models.Hive, error) {
	var out *models.Hive
	err := r.s.read(func(st *state) error {
		h := st.hive(id)
		if h == nil {
			return notFound("hive")
		}
		v := *h
		out = &v
		return nil
	})
	return out, err
}

func (r *hiveRepo) Update(_ context.Context, hive *models.Hive) error {
	return r.s.write(func(st *state) error {
		h := st.hive(hive.ID)
		if h == nil {
			return notFound("hive")
		}
		h.Name = hive.Name
		h.Location = hive.Location
		h.UpdatedAt = hive.UpdatedAt
		return nil
	})
}

func (r *hiveRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if st.hive(id) == nil {
			return notFound("hive")
		}
		st.deleteHive(id)
		return nil
	})
}

func (r *hiveRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Hive, error) {
	out := []*models.Hive{}
	err := r.s.read(func(st *state) error {
		for _, h := range st.hives {
			if h.OwnerID == ownerID {
				v := h
				out = append(out, &v)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
