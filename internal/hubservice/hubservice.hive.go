package hubservice

import (
	"context"

	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// CreateHive creates a new hive owned by the actor
func (s *HubService) CreateHive(ctx context.Context, actor *models.Actor, hive *models.Hive) error {
	if err := s.Guard.Require(ctx, actor, access.ActionHiveCreate, access.Target{}); err != nil {
		return err
	}
	hive.Name = clean(hive.Name)
	hive.Location = clean(hive.Location)
	if hive.Name == "" || hive.Location == "" {
		return missingFields("hive name and location are required")
	}

	now := s.now()
	hive.ID = nuts.NID("hv", 12)
	hive.OwnerID = actor.ID
	hive.CreatedAt = now
	hive.UpdatedAt = now

	nuts.L.Infof("[HiveService] Creating new hive: %s (%s)", hive.Name, hive.ID)
	return s.Store.Hives().Create(ctx, hive)
}

// UpdateHive renames or relocates an owned hive
func (s *HubService) UpdateHive(ctx context.Context, actor *models.Actor, hive *models.Hive) (*models.Hive, error) {
	var updated *models.Hive
	err := s.guarded(ctx, func(tx repository.Store, guard *access.Guard) error {
		if err := guard.Require(ctx, actor, access.ActionHiveUpdate, access.On(hive.ID)); err != nil {
			return err
		}
		name, location := clean(hive.Name), clean(hive.Location)
		if name == "" || location == "" {
			return missingFields("hive name and location are required")
		}

		existing, err := tx.Hives().Get(ctx, hive.ID)
		if err != nil {
			return err
		}
		existing.Name = name
		existing.Location = location
		existing.UpdatedAt = s.now()
		if err := tx.Hives().Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	nuts.L.Infof("[HiveService] Updated hive %s", updated.ID)
	return updated, nil
}

// DeleteHive handles hive deletion with cascading cleanup
func (s *HubService) DeleteHive(ctx context.Context, actor *models.Actor, id string) error {
	return s.Cleanup.DeleteHive(ctx, actor, id)
}

// ListHives returns the actor's hives ordered by name
func (s *HubService) ListHives(ctx context.Context, actor *models.Actor) ([]*models.Hive, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionHiveList, access.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Hives().ListByOwner(ctx, actor.ID)
}

// ListHiveRefs is the id and name list used by selection inputs
func (s *HubService) ListHiveRefs(ctx context.Context, actor *models.Actor) ([]*models.HiveRef, error) {
	hives, err := s.ListHives(ctx, actor)
	if err != nil {
		return nil, err
	}
	refs := make([]*models.HiveRef, 0, len(hives))
	for _, h := range hives {
		refs = append(refs, &models.HiveRef{ID: h.ID, Name: h.Name})
	}
	return refs, nil
}

// GetOverview pairs every owned hive with its latest reading
func (s *HubService) GetOverview(ctx context.Context, actor *models.Actor) ([]*models.HiveOverview, error) {
	hives, err := s.ListHives(ctx, actor)
	if err != nil {
		return nil, err
	}

	overview := make([]*models.HiveOverview, 0, len(hives))
	for _, h := range hives {
		item := &models.HiveOverview{Hive: h}
		latest, err := s.Store.Readings().LatestByHive(ctx, h.ID, 1)
		if err != nil {
			return nil, err
		}
		if len(latest) > 0 {
			item.LatestReading = latest[0]
		}
		overview = append(overview, item)
	}
	return overview, nil
}
