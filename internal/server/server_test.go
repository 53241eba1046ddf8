package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/exercisegen"
	"github.com/abhisek/practiz/internal/practice"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type fakePractice struct {
	generated practice.GenerateRequest
	submitted practice.SubmitRequest
	hintsN    int
	hintsAll  bool
	err       error
}

func (f *fakePractice) Generate(_ context.Context, req practice.GenerateRequest) (*practice.GenerateResponse, error) {
	f.generated = req
	if f.err != nil {
		return nil, f.err
	}
	return &practice.GenerateResponse{
		Exercises: []*exercise.Exercise{{ID: "math-fractions-1", Type: exercise.TypeMultipleChoice}},
		Meta:      practice.GenerateMeta{Model: "fast", TokensUsed: 12},
	}, nil
}

func (f *fakePractice) Submit(_ context.Context, req practice.SubmitRequest) (*practice.SubmitResponse, error) {
	f.submitted = req
	if f.err != nil {
		return nil, f.err
	}
	return &practice.SubmitResponse{Passed: true, Score: 100, PointsEarned: 10, Feedback: "Correct!"}, nil
}

func (f *fakePractice) Get(_ context.Context, id string) (*exercise.Exercise, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &exercise.Exercise{ID: id}, nil
}

func (f *fakePractice) Hints(_ context.Context, id string, n int, all bool) ([]string, error) {
	f.hintsN, f.hintsAll = n, all
	if f.err != nil {
		return nil, f.err
	}
	return []string{"first"}, nil
}

func serve(t *testing.T, svc Practice, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(svc, DefaultConfig(), nil)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(t, &fakePractice{}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGenerate(t *testing.T) {
	svc := &fakePractice{}
	rec := serve(t, svc, http.MethodPost, "/api/v1/exercises/generate",
		`{"subject":"math","topic":"fractions","difficulty":"beginner","types":["multiple-choice"],"count":2,"options":{"hintCount":2}}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, exercise.Subject("math"), svc.generated.Subject)
	assert.Equal(t, 2, svc.generated.Count)
	assert.Equal(t, 2, svc.generated.Options.HintCount)
	assert.Equal(t, []exercise.Type{exercise.TypeMultipleChoice}, svc.generated.Types)

	var resp practice.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Exercises, 1)
	assert.Equal(t, "fast", resp.Meta.Model)
	assert.Equal(t, 12, resp.Meta.TokensUsed)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"malformed body", `{"subject":`, nil, http.StatusBadRequest, "bad_request"},
		{"request error", `{"subject":"alchemy","topic":"gold"}`, &exercisegen.RequestError{Field: "subject", Message: "unsupported"}, http.StatusBadRequest, "invalid_request"},
		{"storage failure", `{"subject":"math","topic":"gold"}`, errors.New("disk full"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakePractice{err: tt.err}, http.MethodPost, "/api/v1/exercises/generate", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			var env errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotContains(t, env.Error.Message, "disk full")
		})
	}
}

func TestSubmit(t *testing.T) {
	svc := &fakePractice{}
	rec := serve(t, svc, http.MethodPost, "/api/v1/exercises/submit",
		`{"exerciseId":"math-fractions-1","answer":["3/4"],"timeTaken":30,"hintsUsed":1,"userId":"u1"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "math-fractions-1", svc.submitted.ExerciseID)
	assert.JSONEq(t, `["3/4"]`, string(svc.submitted.Answer))
	assert.Equal(t, 1, svc.submitted.HintsUsed)
	assert.Equal(t, 30, svc.submitted.TimeTaken)

	var resp practice.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Passed)
	assert.Equal(t, 100, resp.Score)
}

func TestSubmit_NotFound(t *testing.T) {
	svc := &fakePractice{err: fmt.Errorf("%w: nope", practice.ErrExerciseNotFound)}
	rec := serve(t, svc, http.MethodPost, "/api/v1/exercises/submit", `{"exerciseId":"nope","answer":"a"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetExercise(t *testing.T) {
	rec := serve(t, &fakePractice{}, http.MethodGet, "/api/v1/exercises/math-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var ex exercise.Exercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ex))
	assert.Equal(t, "math-1", ex.ID)
}

func TestHints(t *testing.T) {
	tests := []struct {
		query      string
		wantStatus int
		wantN      int
		wantAll    bool
	}{
		{"", http.StatusOK, 1, false},
		{"?count=3", http.StatusOK, 3, false},
		{"?all=true", http.StatusOK, 1, true},
		{"?count=abc", http.StatusBadRequest, 0, false},
		{"?count=-1", http.StatusBadRequest, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &fakePractice{}
			rec := serve(t, svc, http.MethodGet, "/api/v1/exercises/math-1/hints"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantN, svc.hintsN)
			assert.Equal(t, tt.wantAll, svc.hintsAll)
			assert.JSONEq(t, `{"hints":["first"]}`, rec.Body.String())
		})
	}
}

func TestCORS(t *testing.T) {
	srv := New(&fakePractice{}, DefaultConfig(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/exercises/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
