package hubservice

import (
	"context"
	"net/mail"
	"strings"

	"github.com/itsatony/struccy"
	"github.com/itsatony/w4b_v3/server/apiary/internal/access"
	"github.com/itsatony/w4b_v3/server/apiary/internal/auth"
	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/itsatony/w4b_v3/server/apiary/internal/models"
	"github.com/itsatony/w4b_v3/server/apiary/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

func normalizeEmail(email string) string {
	return strings.ToLower(clean(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@"):], ".")
}

// validateRegistration checks the sign-up payload. The role has already
// been resolved by the caller.
func validateRegistration(reg *models.Registration) error {
	reg.FullName = clean(reg.FullName)
	reg.Email = normalizeEmail(reg.Email)
	reg.Phone = clean(reg.Phone)
	if reg.FullName == "" || reg.Email == "" || reg.Password == "" || reg.ConfirmPassword == "" {
		return missingFields("full name, email and both password fields are required")
	}
	if !validEmail(reg.Email) {
		return errors.NewValidationError(errors.CodeInvalidEmailFormat, "invalid email format", nil)
	}
	if len(reg.Password) < auth.MinPasswordLength {
		return errors.NewValidationError(errors.CodePasswordTooShort, "password must be at least 8 characters long", nil)
	}
	if reg.Password != reg.ConfirmPassword {
		return errors.NewValidationError(errors.CodePasswordMismatch, "passwords do not match", nil)
	}
	return nil
}

func (s *HubService) createAccount(ctx context.Context, reg models.Registration, role models.Role) (*models.Account, error) {
	if err := validateRegistration(&reg); err != nil {
		return nil, err
	}
	if _, err := s.Store.Accounts().GetByEmail(ctx, reg.Email); err == nil {
		return nil, errors.NewConflictError(errors.CodeEmailTaken, "email already registered", nil)
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	hash, err := s.Passwords.Hash(reg.Password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}
	now := s.now()
	account := &models.Account{
		ID:           nuts.NID("acc", 12),
		FullName:     reg.FullName,
		Email:        reg.Email,
		PasswordHash: hash,
		Role:         role,
		Approved:     true,
		Phone:        reg.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}
	nuts.L.Infof("[AccountService] Created %s account %s", account.Role, account.ID)
	return account, nil
}

// Register is the public sign-up. Only beekeepers may self-register and
// they are approved immediately.
func (s *HubService) Register(ctx context.Context, reg models.Registration) (*models.Account, error) {
	if err := s.Guard.Require(ctx, nil, access.ActionRegister, access.Target{}); err != nil {
		return nil, err
	}
	role := models.RoleBeekeeper
	if clean(reg.Role) != "" {
		r, ok := models.ParseRole(reg.Role)
		if !ok || r != models.RoleBeekeeper {
			return nil, errors.NewValidationError(errors.CodeInvalidRole, "only beekeepers can register", nil)
		}
	}
	return s.createAccount(ctx, reg, role)
}

// Login verifies credentials and issues a session token
func (s *HubService) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if err := s.Guard.Require(ctx, nil, access.ActionLogin, access.Target{}); err != nil {
		return nil, err
	}
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, missingFields("email and password are required")
	}

	account, err := s.Store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewAuthError("no account with this email", nil).WithCode(errors.CodeAccountNotFound)
		}
		return nil, err
	}
	if !account.Approved {
		return nil, errors.NewAuthorizationError(errors.CodeAccountNotApproved, "account awaits approval", nil)
	}
	if !s.Passwords.Verify(creds.Password, account.PasswordHash) {
		return nil, errors.NewAuthError("incorrect password", nil).WithCode(errors.CodeIncorrectPassword)
	}

	token, err := s.Tokens.Issue(ctx, account, creds.Password)
	if err != nil {
		return nil, err
	}
	nuts.L.Infof("[AccountService] Login for %s as %s", account.ID, account.Role)
	return &models.Session{
		Token:   token,
		Account: accountView(account, []string{"owner"}),
		Landing: account.Role.LandingArea(),
	}, nil
}

// ResolveActor turns a verified identity into the actor for this request.
// The account is re-read every time, so role changes and revocations apply
// immediately.
func (s *HubService) ResolveActor(ctx context.Context, id *auth.Identity) (*models.Actor, error) {
	if id == nil {
		return nil, errors.NewAuthError("authentication required", nil)
	}
	var (
		account *models.Account
		err     error
	)
	switch {
	case id.AccountID != "":
		account, err = s.Store.Accounts().Get(ctx, id.AccountID)
	case id.Email != "":
		account, err = s.Store.Accounts().GetByEmail(ctx, normalizeEmail(id.Email))
	default:
		return nil, errors.NewAuthError("authentication required", nil)
	}
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewAuthError("account no longer exists", nil)
		}
		return nil, err
	}
	if !account.Approved {
		return nil, errors.NewAuthError("account is not approved", nil)
	}
	return &models.Actor{ID: account.ID, Role: account.Role}, nil
}

// ListOfficers lists approved officers a beekeeper can address
func (s *HubService) ListOfficers(ctx context.Context, actor *models.Actor) ([]*models.OfficerContact, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionOfficerList, access.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Accounts().ListOfficers(ctx)
}

// ListAccounts returns every account for the admin console
func (s *HubService) ListAccounts(ctx context.Context, actor *models.Actor) ([]*models.Account, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionAccountList, access.Target{}); err != nil {
		return nil, err
	}
	accounts, err := s.Store.Accounts().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*models.Account, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, accountView(a, []string{"admin"}))
	}
	return views, nil
}

// CreateAccount provisions an account of any role
func (s *HubService) CreateAccount(ctx context.Context, actor *models.Actor, reg models.Registration) (*models.Account, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionAccountCreate, access.Target{}); err != nil {
		return nil, err
	}
	role, ok := models.ParseRole(reg.Role)
	if !ok {
		return nil, errors.NewValidationError(errors.CodeInvalidRole, "unknown role", nil)
	}
	return s.createAccount(ctx, reg, role)
}

// ApproveAccount marks an account approved
func (s *HubService) ApproveAccount(ctx context.Context, actor *models.Actor, id string) (*models.Account, error) {
	if err := s.Guard.Require(ctx, actor, access.ActionAccountApprove, access.On(id)); err != nil {
		return nil, err
	}
	approved := true
	return s.applyAccountUpdate(ctx, id, &models.AccountUpdate{Approved: &approved})
}

// UpdateAccount applies an admin edit. Admins cannot demote or unapprove
// themselves.
func (s *HubService) UpdateAccount(ctx context.Context, actor *models.Actor, id string, upd *models.AccountUpdate) (*models.Account, error) {
	if upd == nil {
		return nil, missingFields("no changes given")
	}
	if upd.Role != nil {
		role, ok := models.ParseRole(string(*upd.Role))
		if !ok {
			return nil, errors.NewValidationError(errors.CodeInvalidRole, "unknown role", nil)
		}
		upd.Role = &role
	}
	if err := s.Guard.Require(ctx, actor, access.ActionAccountUpdate, access.Target{ID: id, Update: upd}); err != nil {
		return nil, err
	}
	return s.applyAccountUpdate(ctx, id, upd)
}

func (s *HubService) applyAccountUpdate(ctx context.Context, id string, upd *models.AccountUpdate) (*models.Account, error) {
	var updated *models.Account
	err := s.Store.Transaction(ctx, func(tx repository.Store) error {
		account, err := tx.Accounts().Get(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				return errors.NewNotFoundError(errors.CodeAccountNotFound, "account not found", nil)
			}
			return err
		}

		if upd.FullName != nil {
			name := clean(*upd.FullName)
			if name == "" {
				return missingFields("full name cannot be empty")
			}
			account.FullName = name
		}
		if upd.Email != nil {
			email := normalizeEmail(*upd.Email)
			if !validEmail(email) {
				return errors.NewValidationError(errors.CodeInvalidEmailFormat, "invalid email format", nil)
			}
			other, err := tx.Accounts().GetByEmail(ctx, email)
			if err == nil && other.ID != account.ID {
				return errors.NewConflictError(errors.CodeEmailTaken, "email already registered", nil)
			}
			if err != nil && !errors.IsNotFound(err) {
				return err
			}
			account.Email = email
		}
		if upd.Role != nil {
			account.Role = *upd.Role
		}
		if upd.Approved != nil {
			account.Approved = *upd.Approved
		}
		if upd.Phone != nil {
			account.Phone = clean(*upd.Phone)
		}
		account.UpdatedAt = s.now()
		if err := tx.Accounts().Update(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	nuts.L.Infof("[AccountService] Updated account %s", id)
	return accountView(updated, []string{"admin"}), nil
}

// DeleteAccount removes an account and everything it owns
func (s *HubService) DeleteAccount(ctx context.Context, actor *models.Actor, id string) error {
	if err := s.Guard.Require(ctx, actor, access.ActionAccountDelete, access.On(id)); err != nil {
		return err
	}
	if err := s.Store.Accounts().Delete(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			return errors.NewNotFoundError(errors.CodeAccountNotFound, "account not found", nil)
		}
		return err
	}
	nuts.L.Infof("[AccountService] Deleted account %s", id)
	return nil
}

// accountView filters account fields by the viewer's access roles. The
// password hash never leaves the service.
func accountView(account *models.Account, roles []string) *models.Account {
	fallback := *account
	fallback.PasswordHash = ""

	filteredMap, err := struccy.StructToMapFieldsWithReadXS(account, roles)
	if err != nil {
		nuts.L.Warnf("[AccountService] Failed to filter account %s: %v", account.ID, err)
		return &fallback
	}
	filtered := &models.Account{}
	if _, err := struccy.MergeMapStringFieldsToStruct(filtered, filteredMap, roles); err != nil {
		nuts.L.Warnf("[AccountService] Failed to map filtered fields to account %s: %v", account.ID, err)
		return &fallback
	}
	filtered.PasswordHash = ""
	return filtered
}
