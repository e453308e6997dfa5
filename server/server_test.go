package server_test

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/coursedeck/accounts/storefake"
	"github.com/jrsteele09/coursedeck/auth"
	"github.com/jrsteele09/coursedeck/server"
	"github.com/jrsteele09/coursedeck/token"
)

const testSecret = "test-signing-secret"

type testFixture struct {
	store  *storefake.FakeAccountStore
	codec  *token.Codec
	server *server.Server
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	store := storefake.NewFakeAccountStore()
	codec := token.NewCodec([]byte(testSecret))

	authService, err := auth.NewService(store, codec)
	require.NoError(t, err)

	return &testFixture{
		store:  store,
		codec:  codec,
		server: server.New(authService, codec, zerolog.Nop()),
	}
}

// register creates an account through the HTTP surface and returns the
// issued token.
func (f *testFixture) register(t *testing.T, name, email, password string) string {
	t.Helper()

	result := apitest.New().
		Handler(f.server).
		Post(server.RouteAuthRegister).
		JSON(server.RegisterRequest{Name: name, Email: email, Password: password}).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Present("$.token")).
		End()

	var body server.TokenResponse
	result.JSON(&body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestRegister_Created(t *testing.T) {
	f := setupTestFixture(t)

	sessionToken := f.register(t, "Ann", "ann@x.com", "abcdef")

	subjectID, err := f.codec.Verify(sessionToken)
	require.NoError(t, err)
	require.NotEmpty(t, subjectID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ann", "ann@x.com", "abcdef")

	apitest.New().
		Handler(f.server).
		Post(server.RouteAuthRegister).
		JSON(server.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "abcdef"}).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.message", "account already exists")).
		End()
}

func TestRegister_ValidationFailures(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		label string
		req   server.RegisterRequest
	}{
		{label: "empty name", req: server.RegisterRequest{Name: "", Email: "ann@x.com", Password: "abcdef"}},
		{label: "bad email", req: server.RegisterRequest{Name: "Ann", Email: "not-an-email", Password: "abcdef"}},
		{label: "short password", req: server.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "abcde"}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			apitest.New().
				Handler(f.server).
				Post(server.RouteAuthRegister).
				JSON(tt.req).
				Expect(t).
				Status(http.StatusBadRequest).
				Assert(jsonpath.Present("$.message")).
				End()
		})
	}
}

func TestRegister_InvalidBody(t *testing.T) {
	f := setupTestFixture(t)

	apitest.New().
		Handler(f.server).
		Post(server.RouteAuthRegister).
		Body("{not json").
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.message", "invalid request body")).
		End()
}

func TestLogin_OK(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ann", "ann@x.com", "abcdef")

	apitest.New().
		Handler(f.server).
		Post(server.RouteAuthLogin).
		JSON(server.LoginRequest{Email: "ann@x.com", Password: "abcdef"}).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Present("$.token")).
		End()
}

func TestLogin_WrongPassword(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ann", "ann@x.com", "abcdef")

	apitest.New().
		Handler(f.server).
		Post(server.RouteAuthLogin).
		JSON(server.LoginRequest{Email: "ann@x.com", Password: "wrong1"}).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.message", "invalid email or password")).
		End()
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := setupTestFixture(t)

	apitest.New().
		Handler(f.server).
		Post(server.RouteAuthLogin).
		JSON(server.LoginRequest{Email: "nobody@x.com", Password: "abcdef"}).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.message", "invalid email or password")).
		End()
}

func TestLogin_StoreUnavailable(t *testing.T) {
	f := setupTestFixture(t)
	f.store.Unavailable = true

	apitest.New().
		Handler(f.server).
		Post(server.RouteAuthLogin).
		JSON(server.LoginRequest{Email: "ann@x.com", Password: "abcdef"}).
		Expect(t).
		Status(http.StatusServiceUnavailable).
		Assert(jsonpath.Equal("$.message", "service temporarily unavailable")).
		End()
}

func TestMe_ReturnsProfile(t *testing.T) {
	f := setupTestFixture(t)
	sessionToken := f.register(t, "Ann", "ann@x.com", "abcdef")

	apitest.New().
		Handler(f.server).
		Get(server.RouteAuthMe).
		Header("Authorization", "Bearer "+sessionToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.name", "Ann")).
		Assert(jsonpath.Equal("$.email", "ann@x.com")).
		End()
}

func TestMe_MissingHeader(t *testing.T) {
	f := setupTestFixture(t)

	apitest.New().
		Handler(f.server).
		Get(server.RouteAuthMe).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.message", "missing bearer token")).
		End()
}

func TestMe_MalformedHeader(t *testing.T) {
	f := setupTestFixture(t)

	apitest.New().
		Handler(f.server).
		Get(server.RouteAuthMe).
		Header("Authorization", "Token abc").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.message", "missing bearer token")).
		End()
}

func TestMe_ExpiredToken(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t, "Ann", "ann@x.com", "abcdef")

	account, err := f.store.FindByEmail(t.Context(), "ann@x.com")
	require.NoError(t, err)

	// Same secret, issued far enough in the past to be expired now.
	past := time.Now().Add(-2 * token.DefaultLifetime)
	staleCodec := token.NewCodec([]byte(testSecret), token.WithNowTime(func() time.Time { return past }))
	staleToken, err := staleCodec.Issue(account.ID)
	require.NoError(t, err)

	apitest.New().
		Handler(f.server).
		Get(server.RouteAuthMe).
		Header("Authorization", "Bearer "+staleToken).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.message", "not authorized")).
		End()
}

func TestPreflight_AnswersWithCORSHeaders(t *testing.T) {
	f := setupTestFixture(t)

	for _, route := range []string{server.RouteAuthRegister, server.RouteAuthLogin, server.RouteAuthMe} {
		apitest.New().
			Handler(f.server).
			Method(http.MethodOptions).
			URL(route).
			Expect(t).
			Status(http.StatusOK).
			Header("Access-Control-Allow-Origin", "*").
			Header("Access-Control-Allow-Headers", "Content-Type, Authorization").
			End()
	}
}

func TestFailures_LogWithRequestScope(t *testing.T) {
	var buf bytes.Buffer

	store := storefake.NewFakeAccountStore()
	store.Unavailable = true
	codec := token.NewCodec([]byte(testSecret))
	authService, err := auth.NewService(store, codec)
	require.NoError(t, err)
	srv := server.New(authService, codec, zerolog.New(&buf))

	apitest.New().
		Handler(srv).
		Post(server.RouteAuthLogin).
		JSON(server.LoginRequest{Email: "ann@x.com", Password: "abcdef"}).
		Expect(t).
		Status(http.StatusServiceUnavailable).
		End()

	// The error line comes from the request-scoped logger, so it
	// carries the method and path installed by the logging middleware.
	logged := buf.String()
	require.Contains(t, logged, "account store unavailable")
	require.Contains(t, logged, `"method":"POST"`)
	require.Contains(t, logged, `"path":"/api/auth/login"`)
}

func TestMe_TokenForDeletedAccount(t *testing.T) {
	f := setupTestFixture(t)

	orphanToken, err := f.codec.Issue("no-such-account")
	require.NoError(t, err)

	apitest.New().
		Handler(f.server).
		Get(server.RouteAuthMe).
		Header("Authorization", "Bearer "+orphanToken).
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.message", "not authorized")).
		End()
}
