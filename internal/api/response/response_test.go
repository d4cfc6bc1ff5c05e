package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/console/internal/api/response"
	"github.com/daap14/console/internal/result"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	response.Success(w, http.StatusOK, map[string]string{"status": "healthy"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "message")
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
}

func TestFail(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	response.Fail(w, http.StatusNotFound, "User not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User not found", body["message"])
	assert.NotContains(t, body, "data")
}

func TestResult_Verbatim(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	response.Result(w, http.StatusBadRequest, result.Result{
		Success: false,
		Message: "No active subscription found",
		Data:    map[string]int{"attempts": 1},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No active subscription found", body["message"])
	assert.Equal(t, map[string]interface{}{"attempts": float64(1)}, body["data"])
}
