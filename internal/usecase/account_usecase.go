// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AddUserInput defines the data required to create an account.
type AddUserInput struct {
	FirstName string   `validate:"required,max=100"`
	LastName  string   `validate:"required,max=100"`
	Email     string   `validate:"required,email,max=255"`
	Password  string   `validate:"required"`
	Roles     []string `validate:"required,min=1,dive,oneof=librarian member"`
}

// AuthenticateInput defines the data required to log in.
type AuthenticateInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// ChangePasswordInput defines the data required to replace a password.
type ChangePasswordInput struct {
	UserID          uuid.UUID `validate:"required"`
	CurrentPassword string    `validate:"required"`
	NewPassword     string    `validate:"required"`
}

// AccountUsecase defines the account management operations.
type AccountUsecase interface {
	// AddUser validates the input, hashes the password and stores a new user.
	AddUser(ctx context.Context, input *AddUserInput) (*entity.User, error)

	// Authenticate checks the email and password and returns the matching user.
	Authenticate(ctx context.Context, input *AuthenticateInput) (*entity.User, error)

	// ChangePassword verifies the current password and stores a record for the new one.
	ChangePassword(ctx context.Context, input *ChangePasswordInput) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByFirstName(ctx context.Context, firstName string) ([]*entity.User, error)
	FindByLastName(ctx context.Context, lastName string) ([]*entity.User, error)
	FindByEmail(ctx context.Context, email string) ([]*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)

	// DeleteUser removes a user. Deleting an unknown user is not an error.
	DeleteUser(ctx context.Context, id uuid.UUID) error
	DeleteAllUsers(ctx context.Context) error
	Count(ctx context.Context) (int64, error)

	IsLibrarian(user *entity.User) (bool, error)

	// BootstrapLibrarian creates the configured librarian account when its email is unused.
	BootstrapLibrarian(ctx context.Context) error
}
