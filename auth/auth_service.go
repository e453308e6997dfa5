package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/coursedeck/accounts"
	"github.com/jrsteele09/coursedeck/token"
)

// dummyCredentialHash is a valid bcrypt hash compared against when a
// login hits an unknown email, so both failure paths cost one bcrypt
// comparison and cannot be told apart by timing.
const dummyCredentialHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service orchestrates registration and login against the credential
// store and the token codec.
type Service struct {
	store accounts.Store
	codec *token.Codec
}

func NewService(store accounts.Store, codec *token.Codec) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] account store is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] token codec is required")
	}
	return &Service{store: store, codec: codec}, nil
}

// Register creates a new account and returns a session token bound to
// it. The plaintext password never leaves this call's stack unhashed.
func (s *Service) Register(ctx context.Context, displayName, email, password string) (string, error) {
	if err := accounts.ValidateDisplayName(displayName); err != nil {
		return "", &ValidationError{Message: err.Error()}
	}
	if err := accounts.ValidateEmail(email); err != nil {
		return "", &ValidationError{Message: err.Error()}
	}
	if err := accounts.ValidatePassword(password); err != nil {
		return "", &ValidationError{Message: err.Error()}
	}

	// Pre-insert duplicate check for a friendly error. The store's
	// unique index still backstops concurrent registrations that both
	// pass this lookup.
	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", accounts.DuplicateAccountErr
	case !errors.Is(err, accounts.AccountNotFoundErr):
		return "", fmt.Errorf("[Register] FindByEmail: %w", err)
	}

	credentialHash, err := accounts.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("[Register] HashPassword: %w", err)
	}

	created, err := s.store.Insert(ctx, &accounts.Account{
		DisplayName:    displayName,
		Email:          email,
		CredentialHash: credentialHash,
	})
	if err != nil {
		return "", fmt.Errorf("[Register] Insert: %w", err)
	}

	sessionToken, err := s.codec.Issue(created.ID)
	if err != nil {
		return "", fmt.Errorf("[Register] Issue: %w", err)
	}
	return sessionToken, nil
}

// Login verifies the credentials and returns a session token bound to
// the account. Unknown email and wrong password both surface as
// InvalidCredentialsErr so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, accounts.AccountNotFoundErr) {
			accounts.CheckPasswordHash(password, dummyCredentialHash)
			return "", InvalidCredentialsErr
		}
		return "", fmt.Errorf("[Login] FindByEmail: %w", err)
	}

	if !accounts.CheckPasswordHash(password, account.CredentialHash) {
		return "", InvalidCredentialsErr
	}

	sessionToken, err := s.codec.Issue(account.ID)
	if err != nil {
		return "", fmt.Errorf("[Login] Issue: %w", err)
	}
	return sessionToken, nil
}

// Account resolves an authenticated subject identifier back to its
// account record.
func (s *Service) Account(ctx context.Context, subjectID string) (*accounts.Account, error) {
	account, err := s.store.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, accounts.AccountNotFoundErr) {
			return nil, accounts.AccountNotFoundErr
		}
		return nil, fmt.Errorf("[Account] FindByID: %w", err)
	}
	return account, nil
}
