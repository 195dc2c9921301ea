package services

import (
	"context"
	"errors"

	"github.com/wecare-app/apiserver/internal/store"
	"github.com/wecare-app/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password, so a caller cannot tell which of the two failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateProfile(ctx context.Context, email string, update types.ProfileUpdate, passwordHash string) (types.UpdateResult, error)
	UpdateRole(ctx context.Context, id int, role string) (types.UpdateResult, error)
}

// UserService encapsulates the registration, login, and account-update
// use-cases.
type UserService struct {
	repo UserRepository

	// protected holds seed/demo account emails whose password is never
	// changed through the profile-update flow.
	protected map[string]struct{}
}

func NewUserService(repo UserRepository, protectedEmails []string) *UserService {
	protected := make(map[string]struct{}, len(protectedEmails))
	for _, email := range protectedEmails {
		protected[email] = struct{}{}
	}
	return &UserService{repo: repo, protected: protected}
}

// Register hashes the password and inserts a new account. A duplicate
// email surfaces as store.ErrDuplicateEmail from the unique index, which
// also covers concurrent registrations for the same address.
func (s *UserService) Register(ctx context.Context, name, email, password, role string) (types.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	})
}

// Authenticate looks up the account and verifies the password against the
// stored hash. Unknown email and wrong password return the identical
// ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateProfile overwrites the mutable profile fields of the account keyed
// by email. The password is re-hashed only when one was supplied and the
// email is not a protected account; otherwise the stored hash is kept.
func (s *UserService) UpdateProfile(ctx context.Context, email string, update types.ProfileUpdate) (types.UpdateResult, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err != nil {
		return types.UpdateResult{}, err
	}

	var passwordHash string
	if update.Password != "" && !s.isProtected(email) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return types.UpdateResult{}, err
		}
		passwordHash = string(hashed)
	}

	return s.repo.UpdateProfile(ctx, email, update, passwordHash)
}

// UpdateRole overwrites the role of the account identified by id.
func (s *UserService) UpdateRole(ctx context.Context, id int, role string) (types.UpdateResult, error) {
	return s.repo.UpdateRole(ctx, id, role)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) isProtected(email string) bool {
	_, ok := s.protected[email]
	return ok
}
