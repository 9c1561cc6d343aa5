package postgres

import (
	"context"
	"strings"

	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
)

type AccountRepo struct {
	PostgresBaseRepo
}

const accountColumns = `id, full_name, email, password_hash, role, approved, phone, created_at, updated_at`

func (r *AccountRepo) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (:id, :full_name, :email, :password_hash, :role, :approved, :phone, :created_at, :updated_at)`

	_, err := r.namedExec(ctx, "account", query, account)
	return err
}

func (r *AccountRepo) Get(ctx context.Context, id string) (*models.Account, error) {
	account := &models.Account{}
	if err := r.get(ctx, account, "account", `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	account := &models.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = $1`
	if err := r.get(ctx, account, "account", query, strings.ToLower(email)); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepo) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts SET
			full_name = :full_name,
			email = :email,
			password_hash = :password_hash,
			role = :role,
			approved = :approved,
			phone = :phone,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.namedExec(ctx, "account", query, account)
	if err != nil {
		return err
	}
	return mustAffect(result, "account")
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	result, err := r.exec(ctx, "account", `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(result, "account")
}

func (r *AccountRepo) List(ctx context.Context) ([]*models.Account, error) {
	accounts := []*models.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id DESC`
	if err := r.list(ctx, &accounts, "accounts", query); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepo) ListOfficers(ctx context.Context) ([]*models.OfficerContact, error) {
	officers := []*models.OfficerContact{}
	query := `
		SELECT id, full_name, email FROM accounts
		WHERE role = $1 AND approved = TRUE
		ORDER BY full_name ASC`
	if err := r.list(ctx, &officers, "officers", query, models.RoleOfficer); err != nil {
		return nil, err
	}
	return officers, nil
}
