package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "john.doe"
	testPassword = "password123"
)

func newTestClient(t *testing.T, handler http.Handler) (*identity.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := identity.NewClient(server.URL, identity.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client, server
}

func jsonResponse(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestLoginAuthenticated(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login/", r.URL.Path)

		var form identity.Form
		require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		require.Equal(t, testUsername, form.Username)
		require.Equal(t, testPassword, form.Password)

		jsonResponse(t, w, http.StatusOK, map[string]string{"access": "a1", "refresh": "r1"})
	}))

	outcome := client.Login(context.Background(), identity.Form{Username: testUsername, Password: testPassword})
	require.Equal(t, identity.StatusAuthenticated, outcome.Status)
	require.Equal(t, "a1", outcome.Credentials.AccessToken())
	require.Equal(t, "r1", outcome.Credentials.RefreshToken())
}

func TestLoginStepUpRequired(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusAccepted, map[string]string{"detail": "otp sent"})
	}))

	outcome := client.Login(context.Background(), identity.Form{Username: testUsername, Password: testPassword})
	require.Equal(t, identity.StatusStepUpRequired, outcome.Status)
	require.Equal(t, testUsername, outcome.PendingUsername)
	require.True(t, outcome.Credentials.Empty())
}

func TestLoginSuccessWithoutTokensIsStepUp(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusOK, map[string]string{"detail": "otp sent"})
	}))

	outcome := client.Login(context.Background(), identity.Form{Username: testUsername, Password: testPassword})
	require.Equal(t, identity.StatusStepUpRequired, outcome.Status)
	require.True(t, outcome.Credentials.Empty())
}

func TestLoginValidationFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusBadRequest, map[string]any{
			"username": []string{"This field is required."},
			"detail":   "invalid credentials",
		})
	}))

	outcome := client.Login(context.Background(), identity.Form{Password: testPassword})
	require.Equal(t, identity.StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, identity.UnexpectedStatusErr)
	require.Equal(t, []string{"This field is required."}, outcome.FieldErrors["username"])
	require.Equal(t, "invalid credentials", outcome.FieldErrors.Detail())
}

func TestLoginTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := identity.NewClient(server.URL)
	require.NoError(t, err)

	outcome := client.Login(context.Background(), identity.Form{Username: testUsername})
	require.Equal(t, identity.StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, identity.TransportErr)
	require.Nil(t, outcome.FieldErrors)
}

func TestRegisterStepUpOnCreated(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register/", r.URL.Path)
		jsonResponse(t, w, http.StatusCreated, map[string]string{"detail": "otp sent"})
	}))

	outcome := client.Register(context.Background(), identity.Form{Username: testUsername, Password: testPassword, PasswordConfirm: testPassword})
	require.Equal(t, identity.StatusStepUpRequired, outcome.Status)
	require.Equal(t, testUsername, outcome.PendingUsername)
}

func TestConfirmOTPSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify-otp/", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, testUsername, req["username"])
		require.Equal(t, "123456", req["otp_code"])

		jsonResponse(t, w, http.StatusOK, map[string]any{
			"access":  "a1",
			"refresh": "r1",
			"user":    map[string]string{"username": testUsername, "email": "john@example.com"},
		})
	}))

	outcome := client.ConfirmOTP(context.Background(), testUsername, "123456")
	require.Equal(t, identity.StatusAuthenticated, outcome.Status)
	require.True(t, outcome.Credentials.Complete())
	require.NotNil(t, outcome.User)
	require.Equal(t, testUsername, outcome.User.Username)
}

func TestConfirmOTPFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusBadRequest, map[string]any{"otp_code": []string{"Invalid code."}})
	}))

	outcome := client.ConfirmOTP(context.Background(), testUsername, "000000")
	require.Equal(t, identity.StatusFailed, outcome.Status)
	require.Equal(t, []string{"Invalid code."}, outcome.FieldErrors["otp_code"])
}

func TestConfirmOTPMissingTokens(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusOK, map[string]string{"access": "a1"})
	}))

	outcome := client.ConfirmOTP(context.Background(), testUsername, "123456")
	require.Equal(t, identity.StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, identity.MissingTokensErr)
}

func TestRefreshSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token_refresh/", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "r1", req["refresh"])

		jsonResponse(t, w, http.StatusOK, map[string]string{"access": "a2"})
	}))

	outcome := client.Refresh(context.Background(), "r1")
	require.Equal(t, identity.StatusAuthenticated, outcome.Status)
	require.Equal(t, "a2", outcome.Credentials.AccessToken())
	require.Empty(t, outcome.Credentials.RefreshToken())
}

func TestRefreshUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
	}))

	outcome := client.Refresh(context.Background(), "r1")
	require.Equal(t, identity.StatusFailed, outcome.Status)
	require.ErrorIs(t, outcome.Err, identity.UnexpectedStatusErr)
}

func TestProfile(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/profile/", r.URL.Path)
		require.Equal(t, "Bearer a1", r.Header.Get("Authorization"))

		jsonResponse(t, w, http.StatusOK, map[string]string{"username": testUsername, "first_name": "John", "last_name": "Doe"})
	}))

	user, err := client.Profile(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, "John Doe", user.FullName())
}

func TestProfileUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusUnauthorized, map[string]string{"detail": "invalid token"})
	}))

	_, err := client.Profile(context.Background(), "stale")
	require.ErrorIs(t, err, identity.UnexpectedStatusErr)
}
