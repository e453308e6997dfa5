package storefake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/coursedeck/accounts"
)

var _ accounts.Store = (*FakeAccountStore)(nil)

// FakeAccountStore is an in-memory Store for tests.
type FakeAccountStore struct {
	accounts map[string]*accounts.Account
	emailIds map[string]string // normalized email to account id
	lock     sync.RWMutex

	// Unavailable makes every call fail with StoreUnavailableErr,
	// simulating a lost store connection.
	Unavailable bool
}

func NewFakeAccountStore() *FakeAccountStore {
	return &FakeAccountStore{
		accounts: make(map[string]*accounts.Account),
		emailIds: make(map[string]string),
	}
}

func (as *FakeAccountStore) FindByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	as.lock.RLock()
	defer as.lock.RUnlock()

	if as.Unavailable {
		return nil, accounts.StoreUnavailableErr
	}
	id, ok := as.emailIds[accounts.NormalizeEmail(email)]
	if !ok {
		return nil, accounts.AccountNotFoundErr
	}
	return copyAccount(as.accounts[id]), nil
}

func (as *FakeAccountStore) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	as.lock.RLock()
	defer as.lock.RUnlock()

	if as.Unavailable {
		return nil, accounts.StoreUnavailableErr
	}
	account, ok := as.accounts[id]
	if !ok {
		return nil, accounts.AccountNotFoundErr
	}
	return copyAccount(account), nil
}

func (as *FakeAccountStore) Insert(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	as.lock.Lock()
	defer as.lock.Unlock()

	if as.Unavailable {
		return nil, accounts.StoreUnavailableErr
	}
	email := accounts.NormalizeEmail(account.Email)
	if _, ok := as.emailIds[email]; ok {
		return nil, accounts.DuplicateAccountErr
	}

	stored := copyAccount(account)
	stored.ID = uuid.New().String()
	stored.Email = email
	stored.CreatedAt = time.Now().UTC()
	as.accounts[stored.ID] = stored
	as.emailIds[email] = stored.ID
	return copyAccount(stored), nil
}

func copyAccount(account *accounts.Account) *accounts.Account {
	if account == nil {
		return nil
	}
	cp := *account
	return &cp
}
