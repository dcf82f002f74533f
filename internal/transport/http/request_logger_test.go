package httpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/nail_salon/internal/logging"
)

// completedLines returns the request_completed entries written to buf and
// resets it.
func completedLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line), sc.Text())
		if line["msg"] == "request_completed" {
			out = append(out, line)
		}
	}
	require.NoError(t, sc.Err())
	buf.Reset()
	return out
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	s := initTestServerWithLogger(t, logging.NewWithWriter(&buf, "info"))

	token := s.register(t).AccessToken
	claims, err := s.issuer.AccessClaimsFromToken(token)
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/services", token, newService("Gel"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]any](t, rec)["id"].(string)
	buf.Reset()

	t.Run("public route", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/services/"+id, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		lines := completedLines(t, &buf)
		require.Len(t, lines, 1)
		line := lines[0]
		assert.Equal(t, "INFO", line["level"])
		assert.Equal(t, "/services/:id", line["route"])
		assert.Equal(t, "/services/"+id, line["url"])
		assert.Equal(t, http.MethodGet, line["method"])
		assert.EqualValues(t, http.StatusOK, line["status"])
		assert.Equal(t, rec.Header().Get("X-Request-Id"), line["request_id"])
		assert.NotEmpty(t, line["request_id"])
		assert.NotContains(t, line, "admin_id")
	})

	t.Run("guarded route carries the admin", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/services/"+id, token, map[string]any{"price": 40})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		lines := completedLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "INFO", lines[0]["level"])
		assert.Equal(t, "/services/:id", lines[0]["route"])
		assert.Equal(t, claims.Subject, lines[0]["admin_id"])
		assert.NotEmpty(t, lines[0]["request_id"])
	})

	t.Run("unauthorized", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/bookings", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		lines := completedLines(t, &buf)
		require.Len(t, lines, 1)
		line := lines[0]
		assert.Equal(t, "WARN", line["level"])
		assert.Equal(t, "/bookings", line["route"])
		assert.EqualValues(t, http.StatusUnauthorized, line["status"])
		assert.NotEmpty(t, line["request_id"])
		assert.NotContains(t, line, "admin_id")
	})

	t.Run("internal error", func(t *testing.T) {
		require.NoError(t, s.store.Close(context.Background()))

		rec := s.do(t, http.MethodGet, "/services/"+id, "", nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "closed")

		lines := completedLines(t, &buf)
		require.Len(t, lines, 1)
		line := lines[0]
		assert.Equal(t, "ERROR", line["level"])
		assert.Equal(t, "/services/:id", line["route"])
		assert.EqualValues(t, http.StatusInternalServerError, line["status"])
		assert.NotEmpty(t, line["request_id"])
		assert.NotEmpty(t, line["error"])
		assert.NotContains(t, line, "admin_id")
	})
}
