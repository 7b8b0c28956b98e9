package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusvibe/internal/clock"
	"campusvibe/internal/config"
	"campusvibe/internal/database"
	"campusvibe/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	server *Server
	app    *fiber.App
	clock  *clock.Fake
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	clk := clock.NewFake(testStart)
	cfg := &config.Config{DeviceIDPepper: "test-pepper", VoteMaxRetries: 5}
	s := newServer(cfg, db, nil, clk)
	return &testEnv{server: s, app: s.NewApp(), clock: clk}
}

// do sends a JSON request and returns the status and raw body.
func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// doInto sends a request, asserts the status and decodes the body into dst.
func (e *testEnv) doInto(t *testing.T, method, path string, body any, wantStatus int, dst any) {
	t.Helper()
	status, raw := e.do(t, method, path, body)
	require.Equal(t, wantStatus, status, string(raw))
	if dst != nil {
		require.NoError(t, json.Unmarshal(raw, dst), string(raw))
	}
}

// Response envelopes, keyed the way the mobile client reads them.
type (
	postResponse struct {
		Post models.Post `json:"post"`
	}
	postsResponse struct {
		Posts []models.Post `json:"posts"`
	}
	commentResponse struct {
		Comment models.Comment `json:"comment"`
	}
	commentsResponse struct {
		Comments []models.Comment `json:"comments"`
	}
	storyResponse struct {
		Story models.Story `json:"story"`
	}
	storiesResponse struct {
		Stories []models.Story `json:"stories"`
	}
	pollResponse struct {
		Poll models.Poll `json:"poll"`
	}
	pollsResponse struct {
		Polls []models.Poll `json:"polls"`
	}
	voteResponse struct {
		Vote *models.Vote `json:"vote"`
	}
	votesResponse struct {
		Votes []models.Vote `json:"votes"`
	}
)

func (e *testEnv) authenticate(t *testing.T, device string) models.User {
	t.Helper()
	var resp struct {
		User models.User `json:"user"`
	}
	e.doInto(t, http.MethodPost, "/api/auth", fiber.Map{"deviceId": device}, fiber.StatusOK, &resp)
	require.NotEmpty(t, resp.User.ID)
	return resp.User
}

func (e *testEnv) createPost(t *testing.T, userID, content string) models.Post {
	t.Helper()
	var resp postResponse
	e.doInto(t, http.MethodPost, "/api/posts", fiber.Map{
		"userId":   userID,
		"content":  content,
		"category": "confession",
	}, fiber.StatusCreated, &resp)
	return resp.Post
}

func decodeError(t *testing.T, raw []byte) models.ErrorResponse {
	t.Helper()
	var e models.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e
}
