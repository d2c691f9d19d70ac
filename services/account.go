package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mcnijman/go-emailaddress"
	"go.uber.org/zap"

	"github.com/lborres/accounts/core"
	"github.com/lborres/accounts/pkg/crypto"
	"github.com/lborres/accounts/pkg/metrics"
)

type AccountService struct {
	db             core.UserStorage
	passwordHasher crypto.PasswordHandler
	tokens         core.TokenIssuer
	validate       *validator.Validate
	logger         *zap.Logger
	metrics        *metrics.Metrics

	// dummyHash is verified against when no user matches a login, so an
	// unknown email costs the same as a wrong password.
	dummyOnce sync.Once
	dummyHash string
}

// Ensure AccountService implements AccountProvider
var _ core.AccountProvider = (*AccountService)(nil)

// NewAccountService wires the account operations. logger and m may be nil.
func NewAccountService(db core.UserStorage, passwordHasher crypto.PasswordHandler, tokens core.TokenIssuer, logger *zap.Logger, m *metrics.Metrics) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		db:             db,
		passwordHasher: passwordHasher,
		tokens:         tokens,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		logger:         logger,
		metrics:        m,
	}
}

// Register creates a user and issues a token for it.
func (s *AccountService) Register(ctx context.Context, input core.RegisterInput) (result *core.AuthResult, err error) {
	defer func() { s.metrics.RecordOperation("register", err == nil) }()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	// Step 1: Check if user already exists. The store's uniqueness
	// constraint still decides concurrent registrations.
	existing, err := s.db.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, core.ErrUserExists
	}

	// Step 2: Hash the password
	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Create the user
	user := &core.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Step 4: Issue the token
	return s.issue(user)
}

// Login checks credentials. An unknown email and a wrong password produce the
// same error.
func (s *AccountService) Login(ctx context.Context, input core.LoginInput) (result *core.AuthResult, err error) {
	defer func() { s.metrics.RecordOperation("login", err == nil) }()

	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		s.verifyDummy(input.Password)
		return nil, core.ErrInvalidCredentials
	}

	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			s.verifyDummy(input.Password)
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.passwordHasher.Verify(input.Password, user.PasswordHash) {
		return nil, core.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AccountService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.passwordHasher.Hash("no-such-account")
		if err != nil {
			s.logger.Warn("failed to prepare login timing hash", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		s.passwordHasher.Verify(password, s.dummyHash)
	}
}

func (s *AccountService) issue(user *core.User) (*core.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &core.AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate verifies token and resolves its user. The store is not
// touched unless the token verifies.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*core.Identity, error) {
	if token == "" {
		return nil, core.ErrMissingToken
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			s.logger.Debug("token refers to a missing user",
				zap.String("user_id", userID),
				zap.String("token", crypto.Fingerprint(token)),
			)
			return &core.Identity{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}

	return &core.Identity{UserID: userID, User: user}, nil
}

// UpdateProfile applies the non-empty fields of input.
func (s *AccountService) UpdateProfile(ctx context.Context, identity *core.Identity, input core.UpdateProfileInput) (updated *core.User, err error) {
	defer func() { s.metrics.RecordOperation("update_profile", err == nil) }()

	current, err := identity.RequireUser()
	if err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	user, err := s.db.GetUserByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		email, err := normalizeEmail(input.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}

	if err := s.db.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangePassword replaces the stored hash once the old password verifies
// and the new one is confirmed.
func (s *AccountService) ChangePassword(ctx context.Context, identity *core.Identity, input core.ChangePasswordInput) (updated *core.User, err error) {
	defer func() { s.metrics.RecordOperation("change_password", err == nil) }()

	current, err := identity.RequireUser()
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	user, err := s.db.GetUserByID(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	if !s.passwordHasher.Verify(input.OldPassword, user.PasswordHash) {
		return nil, core.ErrWrongPassword
	}

	if input.NewPassword != input.ConfirmPassword {
		return nil, core.ErrPasswordMismatch
	}

	hashedPassword, err := s.passwordHasher.Hash(input.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hashedPassword
	if err := s.db.UpdatePassword(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	return user, nil
}

// Delete removes the caller's own record.
func (s *AccountService) Delete(ctx context.Context, identity *core.Identity) (err error) {
	defer func() { s.metrics.RecordOperation("delete", err == nil) }()

	current, err := identity.RequireUser()
	if err != nil {
		return err
	}

	if _, err := s.db.GetUserByID(ctx, current.ID); err != nil {
		return err
	}

	if err := s.db.DeleteUser(ctx, current.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*core.User, error) {
	return s.db.GetUserByID(ctx, id)
}

// ListUsers returns every record ordered by creation time. A store failure
// is reported as ErrUserNotFound.
func (s *AccountService) ListUsers(ctx context.Context) ([]*core.User, error) {
	users, err := s.db.ListUsers(ctx)
	if err != nil {
		s.logger.Warn("failed to list users", zap.Error(err))
		return nil, core.ErrUserNotFound
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

func (s *AccountService) Health(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Warn("credential store ping failed", zap.Error(err))
		return fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
	}
	return nil
}

// normalizeEmail trims raw and lower-cases the whole address.
func normalizeEmail(raw string) (string, error) {
	addr, err := emailaddress.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", core.ErrInvalidEmail
	}
	return strings.ToLower(addr.LocalPart + "@" + addr.Domain), nil
}
