package application

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// UserService manages accounts. Account administration is an admin concern;
// every authenticated principal may read its own account.
type UserService struct {
	users       UserRepository
	logger      *slog.Logger
	now         func() time.Time
	idGenerator func() string
	hashParams  Argon2idParams
}

// NewUserService wires a UserService. Nil now and idGenerator fall back to
// the system clock and an empty id, so production wiring must supply both.
func NewUserService(users UserRepository, logger *slog.Logger, now func() time.Time, idGenerator func() string) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:       users,
		logger:      defaultLogger(logger),
		now:         now,
		idGenerator: idGenerator,
		hashParams:  DefaultArgon2idParams,
	}
}

// CreateUser registers a new account. Only admins may create accounts.
func (s *UserService) CreateUser(ctx context.Context, principal Principal, params CreateUserParams) (user User, err error) {
	logger := serviceLogger(ctx, s.logger, "user", "CreateUser", "actor_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.Warn("create user failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("user created", "user_id", user.ID, "role", string(user.Role))
	}()

	if !principal.Role.CanManageCatalog() {
		return User{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || !strings.Contains(email, "@") {
		vErr.add("email", "must be a valid email address")
	}
	if strings.TrimSpace(params.DisplayName) == "" {
		vErr.add("display_name", "must not be empty")
	}
	if len(params.Password) < 8 {
		vErr.add("password", "must be at least 8 characters")
	}
	if !params.Role.Valid() {
		vErr.add("role", "must be one of student, professor, coordinator, admin")
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := HashPassword(params.Password, s.hashParams)
	if err != nil {
		return User{}, err
	}

	now := s.now().UTC()
	user = User{
		ID:           s.idGenerator(),
		Email:        email,
		DisplayName:  strings.TrimSpace(params.DisplayName),
		Role:         params.Role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = s.users.CreateUser(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUser returns an account. Admins may read any account; everyone else
// only their own.
func (s *UserService) GetUser(ctx context.Context, principal Principal, id string) (User, error) {
	if !principal.Role.CanManageCatalog() && principal.UserID != id {
		return User{}, ErrUnauthorized
	}
	return s.users.GetUser(ctx, id)
}

// ListUsers returns all accounts. Admin only.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if !principal.Role.CanManageCatalog() {
		return nil, ErrUnauthorized
	}
	return s.users.ListUsers(ctx)
}

// UpdateUser applies the provided changes. Admins may change any account;
// other principals may only change their own display name and password.
func (s *UserService) UpdateUser(ctx context.Context, principal Principal, id string, params UpdateUserParams) (user User, err error) {
	logger := serviceLogger(ctx, s.logger, "user", "UpdateUser", "actor_id", principal.UserID, "user_id", id)
	defer func() {
		if err != nil {
			logger.Warn("update user failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("user updated")
	}()

	isAdmin := principal.Role.CanManageCatalog()
	if !isAdmin && principal.UserID != id {
		return User{}, ErrUnauthorized
	}
	if params.Role != nil && !isAdmin {
		return User{}, ErrUnauthorized
	}

	user, err = s.users.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}

	vErr := &ValidationError{}
	if params.DisplayName != nil {
		name := strings.TrimSpace(*params.DisplayName)
		if name == "" {
			vErr.add("display_name", "must not be empty")
		}
		user.DisplayName = name
	}
	if params.Password != nil {
		if len(*params.Password) < 8 {
			vErr.add("password", "must be at least 8 characters")
		} else {
			hash, hashErr := HashPassword(*params.Password, s.hashParams)
			if hashErr != nil {
				return User{}, hashErr
			}
			user.PasswordHash = hash
		}
	}
	if params.Role != nil {
		if !params.Role.Valid() {
			vErr.add("role", "must be one of student, professor, coordinator, admin")
		}
		user.Role = *params.Role
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	user.UpdatedAt = s.now().UTC()
	if err = s.users.UpdateUser(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// DeleteUser removes an account. Admin only; an admin cannot delete itself.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, id string) (err error) {
	logger := serviceLogger(ctx, s.logger, "user", "DeleteUser", "actor_id", principal.UserID, "user_id", id)
	defer func() {
		if err != nil {
			logger.Warn("delete user failed", "error_kind", ErrorKind(err))
			return
		}
		logger.Info("user deleted")
	}()

	if !principal.Role.CanManageCatalog() {
		return ErrUnauthorized
	}
	if principal.UserID == id {
		vErr := &ValidationError{}
		vErr.add("id", "cannot delete the acting account")
		return vErr
	}
	return s.users.DeleteUser(ctx, id)
}
