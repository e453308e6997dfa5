package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/coursedeck/accounts"
	"github.com/jrsteele09/coursedeck/accounts/storefake"
	"github.com/jrsteele09/coursedeck/auth"
	"github.com/jrsteele09/coursedeck/token"
)

const (
	testSecret   = "test-signing-secret"
	testName     = "Ann"
	testEmail    = "ann@x.com"
	testPassword = "abcdef"
)

// testFixture holds all test dependencies
type testFixture struct {
	store   *storefake.FakeAccountStore
	codec   *token.Codec
	service *auth.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	store := storefake.NewFakeAccountStore()
	codec := token.NewCodec([]byte(testSecret))

	service, err := auth.NewService(store, codec)
	require.NoError(t, err)

	return &testFixture{
		store:   store,
		codec:   codec,
		service: service,
	}
}

func TestNewService_RequiresDependencies(t *testing.T) {
	codec := token.NewCodec([]byte(testSecret))

	_, err := auth.NewService(nil, codec)
	require.Error(t, err)

	_, err = auth.NewService(storefake.NewFakeAccountStore(), nil)
	require.Error(t, err)
}

func TestRegister_IssuesTokenForNewAccount(t *testing.T) {
	f := setupTestFixture(t)

	sessionToken, err := f.service.Register(context.Background(), testName, testEmail, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, sessionToken)

	stored, err := f.store.FindByEmail(context.Background(), testEmail)
	require.NoError(t, err)
	require.Equal(t, testName, stored.DisplayName)
	require.NotEqual(t, testPassword, stored.CredentialHash)

	subjectID, err := f.codec.Verify(sessionToken)
	require.NoError(t, err)
	require.Equal(t, stored.ID, subjectID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Register(context.Background(), testName, testEmail, testPassword)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), "Someone Else", testEmail, "different-password")
	require.ErrorIs(t, err, accounts.DuplicateAccountErr)
}

func TestRegister_DuplicateEmailDifferentCase(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Register(context.Background(), testName, testEmail, testPassword)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), testName, "Ann@X.com", testPassword)
	require.ErrorIs(t, err, accounts.DuplicateAccountErr)
}

func TestRegister_ValidationPolicy(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		label    string
	}{
		{name: "", email: testEmail, password: testPassword, label: "empty name"},
		{name: testName, email: "not-an-email", password: testPassword, label: "bad email"},
		{name: testName, email: testEmail, password: "abcde", label: "five character password"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			_, err := f.service.Register(ctx, tt.name, tt.email, tt.password)
			var validationErr *auth.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotEmpty(t, validationErr.Message)
		})
	}
}

func TestRegister_StoreUnavailable(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Unavailable = true

	_, err := f.service.Register(context.Background(), testName, testEmail, testPassword)
	require.ErrorIs(t, err, accounts.StoreUnavailableErr)
}

func TestLogin_Succeeds(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	registerToken, err := f.service.Register(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	loginToken, err := f.service.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	// Both tokens resolve to the same subject.
	registeredSubject, err := f.codec.Verify(registerToken)
	require.NoError(t, err)
	loginSubject, err := f.codec.Verify(loginToken)
	require.NoError(t, err)
	require.Equal(t, registeredSubject, loginSubject)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	_, err = f.service.Login(ctx, testEmail, "wrong1")
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)
}

func TestLogin_UnknownEmailGetsSameError(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Login(context.Background(), "nobody@x.com", testPassword)
	require.ErrorIs(t, err, auth.InvalidCredentialsErr)
}

func TestAccount_ResolvesSubject(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sessionToken, err := f.service.Register(ctx, testName, testEmail, testPassword)
	require.NoError(t, err)

	subjectID, err := f.codec.Verify(sessionToken)
	require.NoError(t, err)

	account, err := f.service.Account(ctx, subjectID)
	require.NoError(t, err)
	require.Equal(t, testName, account.DisplayName)
	require.Equal(t, testEmail, account.Email)
}

func TestAccount_UnknownSubject(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Account(context.Background(), "no-such-id")
	require.ErrorIs(t, err, accounts.AccountNotFoundErr)
}
