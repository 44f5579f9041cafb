// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"library/config"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/errors"
	logs "library/internal/infra/log"
	"library/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	deriver           service.CredentialDeriver
	throttle          service.LoginThrottle
	validate          *validator.Validate
	maxPasswordLength int
	maxRoles          int
	bootstrap         *config.BootstrapConfig
	decoyRecord       string
	logger            *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Deriver   service.CredentialDeriver
	Throttle  service.LoginThrottle
	Config    *config.Config
	Logger    *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	srv := &accountService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		deriver:           params.Deriver,
		throttle:          params.Throttle,
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		maxPasswordLength: config.DefaultMaxPasswordLength,
		maxRoles:          config.DefaultMaxRoles,
		decoyRecord:       newDecoyRecord(nil),
		logger:            params.Logger,
	}
	if params.Config != nil {
		srv.decoyRecord = newDecoyRecord(params.Config.Credential)
	}
	if params.Config != nil && params.Config.Account != nil {
		if params.Config.Account.MaxPasswordLength > 0 {
			srv.maxPasswordLength = params.Config.Account.MaxPasswordLength
		}
		if params.Config.Account.MaxRoles > 0 {
			srv.maxRoles = params.Config.Account.MaxRoles
		}
		srv.bootstrap = params.Config.Account.Bootstrap
	}

	return srv
}

// newDecoyRecord builds a well-formed record with the configured parameters.
// Unknown emails are verified against it so they cost as much as a wrong password.
func newDecoyRecord(cfg *config.CredentialConfig) string {
	iterations, saltLength, keyLength := config.DefaultIterations, config.DefaultSaltLength, config.DefaultKeyLength
	if cfg != nil {
		if cfg.Iterations > 0 {
			iterations = cfg.Iterations
		}
		if cfg.SaltLength > 0 {
			saltLength = cfg.SaltLength
		}
		if cfg.KeyLength > 0 {
			keyLength = cfg.KeyLength
		}
	}

	return fmt.Sprintf("%d:%s:%s", iterations, strings.Repeat("00", saltLength), strings.Repeat("00", keyLength))
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return logs.GetLoggerOrDefault(ctx, srv.logger)
}

// AddUser validates the input, hashes the password and stores the user.
// The email must not belong to another user.
func (srv *accountService) AddUser(ctx context.Context, input *usecase.AddUserInput) (*entity.User, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("input is required")
	}
	if err := srv.validate.Struct(input); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}
	if err := srv.checkPasswordLength(input.Password); err != nil {
		return nil, err
	}

	roles := dedupeRoles(entity.RolesFromStrings(input.Roles))
	if len(roles) > srv.maxRoles {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(
			fmt.Sprintf("a user can hold at most %d roles", srv.maxRoles))
	}

	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Adding user", slog.String("email", email), slog.Any("roles", roles.ToStrings()))

	// Derivation is CPU-bound; keep it outside the transaction.
	record, err := srv.deriver.Hash(ctx, input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: record,
		Roles:        roles,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email is already registered")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up email")
		}

		return userRepo.Create(ctx, user)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to add user", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to add user")
	}

	srv.log(ctx).Debug("User added", slog.Any("userID", user.ID))

	return user, nil
}

// Authenticate returns the user whose email and password match.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (srv *accountService) Authenticate(ctx context.Context, input *usecase.AuthenticateInput) (*entity.User, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("input is required")
	}
	if err := srv.validate.Struct(input); err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	email := normalizeEmail(input.Email)

	if err := srv.throttle.Check(ctx, email); err != nil {
		srv.log(ctx).Warn("Login blocked", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			if _, err := srv.deriver.Verify(ctx, input.Password, srv.decoyRecord); err != nil {
				srv.log(ctx).Debug("Decoy verification failed", slog.Any("error", err))
			}
			srv.recordFailure(ctx, email)

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	match, err := srv.deriver.Verify(ctx, input.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInvalidCredentialRecord) {
			srv.log(ctx).Error("Stored credential record is corrupt", slog.Any("userID", user.ID), slog.Any("error", err))
		}

		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !match {
		srv.recordFailure(ctx, email)

		return nil, domainerrors.ErrInvalidCredentials
	}

	if err := srv.throttle.Reset(ctx, email); err != nil {
		srv.log(ctx).Warn("Failed to reset login throttle", slog.String("email", email), slog.Any("error", err))
	}

	srv.upgradeRecord(ctx, user, input.Password)

	return user, nil
}

// upgradeRecord re-hashes a record made with weaker parameters. Failures are
// logged only; the login already succeeded.
func (srv *accountService) upgradeRecord(ctx context.Context, user *entity.User, password string) {
	needs, err := srv.deriver.NeedsRehash(user.PasswordHash)
	if err != nil || !needs {
		return
	}

	record, err := srv.deriver.Hash(ctx, password)
	if err != nil {
		srv.log(ctx).Warn("Failed to rehash password", slog.Any("userID", user.ID), slog.Any("error", err))

		return
	}

	previous := user.PasswordHash
	user.PasswordHash = record
	if err := srv.userRepo.Update(ctx, user); err != nil {
		user.PasswordHash = previous
		srv.log(ctx).Warn("Failed to store rehashed password", slog.Any("userID", user.ID), slog.Any("error", err))

		return
	}

	srv.log(ctx).Info("Credential record upgraded", slog.Any("userID", user.ID))
}

func (srv *accountService) recordFailure(ctx context.Context, email string) {
	if err := srv.throttle.RecordFailure(ctx, email); err != nil {
		srv.log(ctx).Warn("Failed to record login failure", slog.String("email", email), slog.Any("error", err))
	}
}

// ChangePassword replaces the user's password after checking the current one.
func (srv *accountService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	if input == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("input is required")
	}
	if err := srv.validate.Struct(input); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}
	if err := srv.checkPasswordLength(input.NewPassword); err != nil {
		return err
	}

	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("user does not exist")
		}

		return errors.Wrap(err, "failed to find user by id")
	}

	// Derivations are CPU-bound; run them before the transaction opens.
	match, err := srv.deriver.Verify(ctx, input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return errors.Wrap(err, "failed to verify current password")
	}
	if !match {
		return domainerrors.ErrInvalidCredentials
	}

	record, err := srv.deriver.Hash(ctx, input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	verified := user.PasswordHash

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		current, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("user does not exist")
			}

			return errors.Wrap(err, "failed to find user by id")
		}
		// The record checked above must still be the stored one.
		if current.PasswordHash != verified {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("password was changed concurrently")
		}

		current.PasswordHash = record
		if err := userRepo.Update(ctx, current); err != nil {
			return errors.Wrap(err, "failed to store new password")
		}

		srv.log(ctx).Info("Password changed", slog.Any("userID", current.ID))

		return nil
	})
}

// FindByID returns the user with the given ID.
func (srv *accountService) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if id == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("user id is required")
	}

	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user does not exist")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

func (srv *accountService) FindByFirstName(ctx context.Context, firstName string) ([]*entity.User, error) {
	return srv.filterUsers(ctx, firstName, func(user *entity.User) bool {
		return user.FirstName == firstName
	})
}

func (srv *accountService) FindByLastName(ctx context.Context, lastName string) ([]*entity.User, error) {
	return srv.filterUsers(ctx, lastName, func(user *entity.User) bool {
		return user.LastName == lastName
	})
}

func (srv *accountService) FindByEmail(ctx context.Context, email string) ([]*entity.User, error) {
	normalized := normalizeEmail(email)

	return srv.filterUsers(ctx, normalized, func(user *entity.User) bool {
		return strings.EqualFold(user.Email, normalized)
	})
}

// filterUsers returns the users accepted by keep. An empty search term matches nobody.
func (srv *accountService) filterUsers(ctx context.Context, term string, keep func(*entity.User) bool) ([]*entity.User, error) {
	if term == "" {
		return []*entity.User{}, nil
	}

	users, err := srv.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*entity.User, 0)
	for _, user := range users {
		if keep(user) {
			matched = append(matched, user)
		}
	}

	return matched, nil
}

func (srv *accountService) FindAll(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// DeleteUser removes the user. An unknown ID is logged and ignored.
func (srv *accountService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := srv.userRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("User to delete does not exist", slog.Any("userID", id))

		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", id))

	return nil
}

func (srv *accountService) DeleteAllUsers(ctx context.Context) error {
	if err := srv.userRepo.DeleteAll(ctx); err != nil {
		return errors.Wrap(err, "failed to delete users")
	}

	srv.log(ctx).Info("All users deleted")

	return nil
}

func (srv *accountService) Count(ctx context.Context) (int64, error) {
	count, err := srv.userRepo.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count users")
	}

	return count, nil
}

func (srv *accountService) IsLibrarian(user *entity.User) (bool, error) {
	if user == nil {
		return false, domainerrors.ErrValidationFailed.WrapMessage("user is required")
	}

	return user.IsLibrarian(), nil
}

// BootstrapLibrarian creates the configured librarian unless the email is taken.
func (srv *accountService) BootstrapLibrarian(ctx context.Context) error {
	if srv.bootstrap == nil || srv.bootstrap.Email == "" {
		srv.log(ctx).Debug("No bootstrap librarian configured")

		return nil
	}

	_, err := srv.AddUser(ctx, &usecase.AddUserInput{
		FirstName: srv.bootstrap.FirstName,
		LastName:  srv.bootstrap.LastName,
		Email:     srv.bootstrap.Email,
		Password:  srv.bootstrap.Password,
		Roles:     []string{entity.RoleLibrarian.String()},
	})
	if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
		srv.log(ctx).Info("Bootstrap librarian already exists", slog.String("email", normalizeEmail(srv.bootstrap.Email)))

		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to bootstrap librarian")
	}

	return nil
}

func (srv *accountService) checkPasswordLength(password string) error {
	if utf8.RuneCountInString(password) > srv.maxPasswordLength {
		return domainerrors.ErrValidationFailed.WrapMessage(
			fmt.Sprintf("password must be at most %d characters", srv.maxPasswordLength))
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func dedupeRoles(roles entity.Roles) entity.Roles {
	unique := make(entity.Roles, 0, len(roles))
	for _, role := range roles {
		if !slices.Contains(unique, role) {
			unique = append(unique, role)
		}
	}

	return unique
}
