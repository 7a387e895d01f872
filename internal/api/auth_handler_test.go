package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskward/internal/domain"
	"github.com/phrazzld/taskward/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postJSON builds a request with the given payload and runs it through the handler.
func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		payload     map[string]interface{}
		wantStatus  int
		wantMessage string
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"username": "alice",
				"password": "hunter2",
			},
			wantStatus:  http.StatusCreated,
			wantMessage: "User registered",
		},
		{
			name: "missing username",
			payload: map[string]interface{}{
				"password": "hunter2",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			payload: map[string]interface{}{
				"username": "alice",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "empty username",
			payload: map[string]interface{}{
				"username": "",
				"password": "hunter2",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userStore := mocks.NewMockUserStore()
			jwtService := &mocks.MockJWTService{Token: "test-token"}
			passwordVerifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
			handler := NewAuthHandler(userStore, jwtService, passwordVerifier)

			recorder := postJSON(t, handler.Register, "/register", tt.payload)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantMessage != "" {
				var resp MessageResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := NewAuthHandler(
		userStore,
		&mocks.MockJWTService{Token: "test-token"},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
	)

	payload := map[string]interface{}{
		"username": "alice",
		"password": "hunter2",
	}

	recorder := postJSON(t, handler.Register, "/register", payload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Same username again, different password
	payload["password"] = "other-password"
	recorder = postJSON(t, handler.Register, "/register", payload)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Username already exists")
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	handler := NewAuthHandler(
		userStore,
		&mocks.MockJWTService{Token: "test-token"},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
	)

	recorder := postJSON(t, handler.Register, "/register", map[string]interface{}{
		"username": "alice",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	stored, ok := userStore.Users["alice"]
	require.True(t, ok)
	assert.Empty(t, stored.Password)
	assert.NotEmpty(t, stored.HashedPassword)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	registeredID := uuid.New()

	newStoreWithUser := func() *mocks.MockUserStore {
		userStore := mocks.NewMockUserStore()
		userStore.Users["alice"] = &domain.User{
			ID:             registeredID,
			Username:       "alice",
			HashedPassword: "hashed:hunter2",
		}
		return userStore
	}

	tests := []struct {
		name          string
		payload       map[string]interface{}
		passwordOK    bool
		wantStatus    int
		wantToken     string
		wantErrorBody string
	}{
		{
			name: "valid credentials",
			payload: map[string]interface{}{
				"username": "alice",
				"password": "hunter2",
			},
			passwordOK: true,
			wantStatus: http.StatusOK,
			wantToken:  "test-token",
		},
		{
			name: "wrong password",
			payload: map[string]interface{}{
				"username": "alice",
				"password": "wrong",
			},
			passwordOK:    false,
			wantStatus:    http.StatusUnauthorized,
			wantErrorBody: "Invalid credentials",
		},
		{
			name: "unknown username",
			payload: map[string]interface{}{
				"username": "mallory",
				"password": "hunter2",
			},
			passwordOK:    true,
			wantStatus:    http.StatusUnauthorized,
			wantErrorBody: "Invalid credentials",
		},
		{
			name: "missing password",
			payload: map[string]interface{}{
				"username": "alice",
			},
			passwordOK: true,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewAuthHandler(
				newStoreWithUser(),
				&mocks.MockJWTService{Token: "test-token"},
				&mocks.MockPasswordVerifier{ShouldSucceed: tt.passwordOK},
			)

			recorder := postJSON(t, handler.Login, "/login", tt.payload)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken != "" {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantToken, resp.AccessToken)
			}

			if tt.wantErrorBody != "" {
				assert.Contains(t, recorder.Body.String(), tt.wantErrorBody)
			}
		})
	}
}

func TestLoginTokenGenerationFailure(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	userStore.Users["alice"] = &domain.User{
		ID:             uuid.New(),
		Username:       "alice",
		HashedPassword: "hashed:hunter2",
	}

	handler := NewAuthHandler(
		userStore,
		&mocks.MockJWTService{Err: assert.AnError},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
	)

	recorder := postJSON(t, handler.Login, "/login", map[string]interface{}{
		"username": "alice",
		"password": "hunter2",
	})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
