package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/vinom-rollmaze/domain"
	"github.com/beka-birhanu/vinom-rollmaze/service"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenizer struct {
	claims map[string]interface{}
}

func (s stubTokenizer) Generate(map[string]interface{}, time.Duration) (string, error) {
	return "", nil
}

func (s stubTokenizer) Decode(token string) (map[string]interface{}, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return s.claims, nil
}

type stubAuth struct {
	user *dmn.User
}

func (s stubAuth) Register(username, password string) (*dmn.User, error) {
	switch {
	case username == "taken":
		return nil, service.ErrUsernameTaken
	case password == "weak":
		return nil, dmn.ErrWeakPassword
	case username == "broken":
		return nil, errors.New("mongo down")
	}
	return &dmn.User{ID: s.user.ID, Username: username}, nil
}

func (s stubAuth) SignIn(username, password string) (*dmn.User, string, error) {
	if password != "secret" {
		return nil, "", service.ErrInvalidCredentials
	}
	return s.user, "token-123", nil
}

func (s stubAuth) Player(id uuid.UUID) (*dmn.User, error) {
	if id != s.user.ID {
		return nil, service.ErrPlayerNotFound
	}
	return s.user, nil
}

func TestAuthoriz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	playerID := uuid.New()

	tests := []struct {
		name   string
		header string
		claims map[string]interface{}
		status int
	}{
		{"missing header", "", nil, http.StatusUnauthorized},
		{"not bearer", "Basic good", nil, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", nil, http.StatusUnauthorized},
		{"no player claim", "Bearer good", map[string]interface{}{}, http.StatusUnauthorized},
		{"valid", "Bearer good", map[string]interface{}{i.ClaimPlayerID: playerID.String()}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Authoriz(stubTokenizer{claims: tt.claims}))
			router.GET("/me", func(c *gin.Context) {
				id, ok := PlayerID(c)
				require.True(t, ok)
				c.String(http.StatusOK, id.String())
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, playerID.String(), w.Body.String())
			}
		})
	}
}

func TestIdentityServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := &dmn.User{ID: uuid.New(), Username: "runner", Wins: 4}
	server := NewIdentityServer(stubAuth{user: user})

	router := gin.New()
	server.RegisterPublic(router.Group("/api/v1"))
	protected := router.Group("/api/v1")
	protected.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-Player")); err == nil {
			c.Set(ContextPlayerID, id)
		}
		c.Next()
	})
	server.RegisterProtected(protected)

	send := func(method, path string, body any, player string) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(b)
		} else {
			reader = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		if player != "" {
			req.Header.Set("X-Player", player)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("register returns the new player", func(t *testing.T) {
		w := send(http.MethodPost, "/api/v1/auth/register", AuthRequest{Username: "runner", Password: "secret"}, "")
		require.Equal(t, http.StatusCreated, w.Code)
		var player PlayerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &player))
		assert.Equal(t, PlayerResponse{ID: user.ID.String(), Username: "runner"}, player)
	})

	t.Run("register failures", func(t *testing.T) {
		tests := []struct {
			name   string
			body   any
			status int
		}{
			{"taken username", AuthRequest{Username: "taken", Password: "secret"}, http.StatusConflict},
			{"weak password", AuthRequest{Username: "runner", Password: "weak"}, http.StatusBadRequest},
			{"missing password", map[string]string{"username": "runner"}, http.StatusBadRequest},
			{"storage failure", AuthRequest{Username: "broken", Password: "secret"}, http.StatusInternalServerError},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.status, send(http.MethodPost, "/api/v1/auth/register", tt.body, "").Code)
			})
		}
	})

	t.Run("login returns the player and token", func(t *testing.T) {
		w := send(http.MethodPost, "/api/v1/auth/login", AuthRequest{Username: "runner", Password: "secret"}, "")
		require.Equal(t, http.StatusOK, w.Code)
		var response AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, AuthResponse{
			Player: PlayerResponse{ID: user.ID.String(), Username: "runner", Wins: 4},
			Token:  "token-123",
		}, response)

		w = send(http.MethodPost, "/api/v1/auth/login", AuthRequest{Username: "runner", Password: "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns the signed-in player", func(t *testing.T) {
		w := send(http.MethodGet, "/api/v1/players/me", nil, user.ID.String())
		require.Equal(t, http.StatusOK, w.Code)
		var player PlayerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &player))
		assert.Equal(t, 4, player.Wins)

		assert.Equal(t, http.StatusNotFound, send(http.MethodGet, "/api/v1/players/me", nil, uuid.NewString()).Code)
		assert.Equal(t, http.StatusUnauthorized, send(http.MethodGet, "/api/v1/players/me", nil, "").Code)
	})
}
