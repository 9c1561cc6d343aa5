// FilePath: server/apiary/internal/repository/memory/memory.store.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
)

// state holds every collection in insertion order. Rows are values so a
// clone never shares mutable memory with the original.
type state struct {
	accounts        []models.Account
	hives           []models.Hive
	sensors         []models.Sensor
	readings        []models.Reading
	alerts          []models.Alert
	reports         []models.Report
	recommendations []models.Recommendation
}

func (s *state) clone() *state {
	return &state{
		accounts:        append([]models.Account(nil), s.accounts...),
		hives:           append([]models.Hive(nil), s.hives...),
		sensors:         append([]models.Sensor(nil), s.sensors...),
		readings:        cloneReadings(s.readings),
		alerts:          cloneAlerts(s.alerts),
		reports:         append([]models.Report(nil), s.reports...),
		recommendations: cloneRecommendations(s.recommendations),
	}
}

func cloneReadings(in []models.Reading) []models.Reading {
	return append([]models.Reading(nil), in...)
}

func cloneAlerts(in []models.Alert) []models.Alert {
	out := make([]models.Alert, len(in))
	for i, a := range in {
		a.ReadingID = cloneString(a.ReadingID)
		out[i] = a
	}
	return out
}

func cloneRecommendations(in []models.Recommendation) []models.Recommendation {
	out := make([]models.Recommendation, len(in))
	for i, r := range in {
		r.ReportID = cloneString(r.ReportID)
		r.ReadingID = cloneString(r.ReadingID)
		out[i] = r
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Store is an in-process repository.Store. A transaction takes the write
// lock for its whole duration, works on a copy of the state and swaps it
// in on success, so units are serializable and rollback is free.
type Store struct {
	mu   *sync.RWMutex
	data *state
	inTx bool
}

var _ repository.Store = (*Store)(nil)

// NewStore initializes an empty in-memory store.
func NewStore() *Store {
	return &Store{
		mu:   &sync.RWMutex{},
		data: &state{},
	}
}

func (s *Store) read(fn func(st *state) error) error {
	if s.inTx {
		return fn(s.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write applies fn to a copy and keeps it only if fn succeeds, so a failed
// single statement never leaves a half-applied cascade behind.
func (s *Store) write(fn func(st *state) error) error {
	if s.inTx {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Transaction implements repository.Store.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, data: s.data.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Hives() repository.HiveRepository       { return &hiveRepo{s} }
func (s *Store) Sensors() repository.SensorRepository   { return &sensorRepo{s} }
func (s *Store) Readings() repository.ReadingRepository { return &readingRepo{s} }
func (s *Store) Alerts() repository.AlertRepository     { return &alertRepo{s} }
func (s *Store) Accounts() repository.AccountRepository { return &accountRepo{s} }
func (s *Store) Reports() repository.ReportRepository   { return &reportRepo{s} }
func (s *Store) Recommendations() repository.RecommendationRepository {
	return &recommendationRepo{s}
}

func notFound(what string) error {
	return errors.NewNotFoundError(errors.CodeNotFound, what+" not found", nil)
}

func missingRef(what string) error {
	return errors.NewValidationError(errors.CodeMissingFields, what+" references a missing record", nil)
}

func find[T any](rows []T, match func(*T) bool) int {
	for i := range rows {
		if match(&rows[i]) {
			return i
		}
	}
	return -1
}

func remove[T any](rows []T, drop func(*T) bool) []T {
	out := rows[:0]
	for i := range rows {
		if !drop(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

// newestFirst walks rows from the most recently inserted and stable-sorts
// by the given timestamp, descending.
func newestFirst[T any](rows []T, keep func(*T) bool, at func(*T) time.Time, limit int) []*T {
	out := make([]*T, 0)
	for i := len(rows) - 1; i >= 0; i-- {
		if keep(&rows[i]) {
			v := rows[i]
			out = append(out, &v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return at(out[i]).After(at(out[j])) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (st *state) hive(id string) *models.Hive {
	if i := find(st.hives, func(h *models.Hive) bool { return h.ID == id }); i >= 0 {
		return &st.hives[i]
	}
	return nil
}

func (st *state) account(id string) *models.Account {
	if i := find(st.accounts, func(a *models.Account) bool { return a.ID == id }); i >= 0 {
		return &st.accounts[i]
	}
	return nil
}

func (st *state) ownsHive(ownerID, hiveID string) bool {
	h := st.hive(hiveID)
	return h != nil && h.OwnerID == ownerID
}

// deleteReadings emulates alerts.reading_id ON DELETE SET NULL.
func (st *state) deleteReadings(drop func(*models.Reading) bool) {
	gone := map[string]bool{}
	for i := range st.readings {
		if drop(&st.readings[i]) {
			gone[st.readings[i].ID] = true
		}
	}
	if len(gone) == 0 {
		return
	}
	st.readings = remove(st.readings, func(r *models.Reading) bool { return gone[r.ID] })
	for i := range st.alerts {
		if id := st.alerts[i].ReadingID; id != nil && gone[*id] {
			st.alerts[i].ReadingID = nil
		}
	}
}

// deleteHive emulates the ON DELETE CASCADE chain below hives.
func (st *state) deleteHive(id string) {
	st.alerts = remove(st.alerts, func(a *models.Alert) bool { return a.HiveID == id })
	st.deleteReadings(func(r *models.Reading) bool { return r.HiveID == id })
	st.sensors = remove(st.sensors, func(s *models.Sensor) bool { return s.HiveID == id })
	st.hives = remove(st.hives, func(h *models.Hive) bool { return h.ID == id })
}
