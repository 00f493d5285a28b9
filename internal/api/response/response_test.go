package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawroute/pawroute/internal/api/models"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/test", http.NoBody)

	JSON(w, r, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestJSON_NilBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/test", http.NoBody)

	JSON(w, r, http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCreated_SetsLocation(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/me/plans", http.NoBody)

	Created(w, r, "/v1/me/plans/pln_123", map[string]string{"id": "pln_123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/v1/me/plans/pln_123", w.Header().Get("Location"))
}

func TestBadRequest_ProblemShape(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/test", http.NoBody)

	BadRequest(w, r, "bad input", []models.FieldError{{Field: "lat", Message: "out of range"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.Equal(t, "/v1/test", problem.Instance)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "lat", problem.Errors[0].Field)
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/me/plans/nope", http.NoBody)

	NotFound(w, r, "plan not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeNotFound, problem.Type)
}
