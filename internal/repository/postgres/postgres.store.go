// FilePath: server/apiary/internal/repository/postgres/postgres.store.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/itsatony/w4b_v3/server/apiary/internal/database"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	"github.com/jmoiron/sqlx"
	nuts "github.com/vaudience/go-nuts"
)

// Store implements repository.Store on PostgreSQL.
type Store struct {
	db   database.DB
	base PostgresBaseRepo
	tx   *sqlx.Tx
}

var _ repository.Store = (*Store)(nil)

func NewStore(db database.DB) *Store {
	return &Store{db: db, base: PostgresBaseRepo{q: db.GetDB()}}
}

func (s *Store) Hives() repository.HiveRepository       { return &HiveRepo{s.base} }
func (s *Store) Sensors() repository.SensorRepository   { return &SensorRepo{s.base} }
func (s *Store) Readings() repository.ReadingRepository { return &ReadingRepo{s.base} }
func (s *Store) Alerts() repository.AlertRepository     { return &AlertRepo{s.base} }
func (s *Store) Accounts() repository.AccountRepository { return &AccountRepo{s.base} }
func (s *Store) Reports() repository.ReportRepository   { return &ReportRepo{s.base} }
func (s *Store) Recommendations() repository.RecommendationRepository {
	return &RecommendationRepo{s.base}
}

// Transaction runs fn inside a READ COMMITTED transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.GetDB().BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return errors.NewDatabaseError("failed to begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txStore := &Store{db: s.db, base: PostgresBaseRepo{q: tx}, tx: tx}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			nuts.L.Errorf("[PostgresStore] Rollback failed: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", fmt.Errorf("ping: %w", err))
	}
	return nil
}
