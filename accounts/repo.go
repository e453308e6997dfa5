package accounts

import (
	"context"
	"errors"
)

var (
	AccountNotFoundErr  = errors.New("account not found")
	DuplicateAccountErr = errors.New("account already exists")
	StoreUnavailableErr = errors.New("account store unavailable")
)

// Store is the credential store contract. Implementations provide
// per-document atomicity; Insert assigns the account ID and must
// enforce email uniqueness, returning DuplicateAccountErr on conflict.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Insert(ctx context.Context, account *Account) (*Account, error)
}
