package practice

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/cache"
	"github.com/abhisek/practiz/internal/catalog"
	"github.com/abhisek/practiz/internal/exercisegen"
	"github.com/abhisek/practiz/internal/llm"
	"github.com/abhisek/practiz/internal/store"
)

const mcExercise = `{
	"type": "multiple-choice",
	"instruction": "Pick the fraction equal to one half",
	"content": {
		"question": "Which fraction equals 1/2?",
		"options": [{"id": "a", "text": "1/3"}, {"id": "b", "text": "2/4"}, {"id": "c", "text": "3/4"}]
	},
	"solution": {"correctAnswer": "b", "explanation": "2/4 reduces to 1/2."},
	"hints": ["Reduce each fraction.", "Divide top and bottom by 2.", "Look at option b."]
}`

func newTestService(t *testing.T, responses ...llm.MockResponse) *Service {
	t.Helper()
	return newTestServiceWith(t, nil, responses...)
}

func newTestServiceWith(t *testing.T, opts []exercisegen.Option, responses ...llm.MockResponse) *Service {
	t.Helper()

	dsn := "file:practice-" + strings.ReplaceAll(t.Name(), "/", "-") + "?mode=memory&cache=shared"
	s, err := store.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cfg := exercisegen.DefaultConfig()
	cfg.Chain = exercisegen.ChainPolicy{Models: llm.ModelConfig{Fast: "fast", Default: "default", Light: "light"}}

	reg := llm.NewRegistry(llm.StaticOpener(map[string]llm.Provider{
		"fast": llm.NewNamedMockProvider("fast", responses...),
	}))
	opts = append([]exercisegen.Option{
		exercisegen.WithClock(func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) }),
	}, opts...)
	gen := exercisegen.New(reg, catalog.Default(), cfg, opts...)

	return NewService(gen, s.ExerciseRepo(), s.SubmissionRepo(), nil)
}

func fractionsRequest() GenerateRequest {
	return GenerateRequest{
		Subject:    "math",
		Category:   "fractions",
		Topic:      "  equivalent   fractions ",
		Difficulty: "beginner",
	}
}

func TestService_GenerateStoresExercises(t *testing.T) {
	svc := newTestService(t, llm.MockResponse{Text: mcExercise, Usage: llm.Usage{TotalTokens: 90}})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, fractionsRequest())
	require.NoError(t, err)
	require.Len(t, resp.Exercises, 1)
	assert.Equal(t, "fast", resp.Meta.Model)
	assert.Equal(t, 90, resp.Meta.TokensUsed)
	assert.Empty(t, resp.Meta.Warning)

	stored, err := svc.Get(ctx, resp.Exercises[0].ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Exercises[0].Problem.Instruction, stored.Problem.Instruction)

	list, err := svc.List(ctx, "math", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_GenerateRejectsBadRequest(t *testing.T) {
	svc := newTestService(t)

	req := fractionsRequest()
	req.Topic = " "
	_, err := svc.Generate(context.Background(), req)

	var reqErr *exercisegen.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "topic", reqErr.Field)

	list, err := svc.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_SubmitCorrect(t *testing.T) {
	svc := newTestService(t, llm.MockResponse{Text: mcExercise})
	ctx := context.Background()

	gen, err := svc.Generate(ctx, fractionsRequest())
	require.NoError(t, err)
	id := gen.Exercises[0].ID

	resp, err := svc.Submit(ctx, SubmitRequest{
		ExerciseID: id,
		Answer:     json.RawMessage(`"b"`),
		TimeTaken:  12,
		UserID:     "learner-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.Passed)
	assert.Equal(t, 100, resp.Score)
	assert.Equal(t, gen.Exercises[0].Problem.MaxPoints, resp.PointsEarned)
	require.NotNil(t, resp.Solution)
	assert.JSONEq(t, `"b"`, string(resp.Solution.CorrectAnswer))

	history, err := svc.History(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "learner-1", history[0].UserID)
	assert.Equal(t, 100, history[0].Score)
	assert.True(t, history[0].Passed)
}

func TestService_SubmitWrongHidesSolution(t *testing.T) {
	svc := newTestService(t, llm.MockResponse{Text: mcExercise})
	ctx := context.Background()

	gen, err := svc.Generate(ctx, fractionsRequest())
	require.NoError(t, err)

	resp, err := svc.Submit(ctx, SubmitRequest{
		ExerciseID: gen.Exercises[0].ID,
		Answer:     json.RawMessage(`"c"`),
		HintsUsed:  1,
	})
	require.NoError(t, err)
	assert.False(t, resp.Passed)
	assert.Zero(t, resp.Score)
	assert.False(t, resp.RevealSolution)
	assert.Nil(t, resp.Solution)
}

func TestService_SubmitErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitRequest{ExerciseID: "missing", Answer: json.RawMessage(`"a"`)})
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	var reqErr *exercisegen.RequestError
	_, err = svc.Submit(ctx, SubmitRequest{Answer: json.RawMessage(`"a"`)})
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "exerciseId", reqErr.Field)

	_, err = svc.Submit(ctx, SubmitRequest{ExerciseID: "missing"})
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "answer", reqErr.Field)
}

func TestService_Hints(t *testing.T) {
	svc := newTestService(t, llm.MockResponse{Text: mcExercise})
	ctx := context.Background()

	gen, err := svc.Generate(ctx, fractionsRequest())
	require.NoError(t, err)
	id := gen.Exercises[0].ID

	hints, err := svc.Hints(ctx, id, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Reduce each fraction."}, hints)

	all, err := svc.Hints(ctx, id, 0, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.Hints(ctx, "missing", 1, false)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestService_FallbackIsStoredAndGradable(t *testing.T) {
	svc := newTestService(t, llm.MockResponse{Text: "not json at all"})
	ctx := context.Background()

	gen, err := svc.Generate(ctx, fractionsRequest())
	require.NoError(t, err)
	require.Len(t, gen.Exercises, 1)
	assert.NotEmpty(t, gen.Meta.Warning)
	assert.Equal(t, exercisegen.FallbackModel, gen.Meta.Model)
	assert.True(t, gen.Exercises[0].Metadata.Fallback)

	resp, err := svc.Submit(ctx, SubmitRequest{ExerciseID: gen.Exercises[0].ID, Answer: json.RawMessage(`"a"`)})
	require.NoError(t, err)
	assert.True(t, resp.Passed)
}

func TestService_CacheHitDoesNotMarkStoredExercise(t *testing.T) {
	opts := []exercisegen.Option{exercisegen.WithCache(cache.NewMemory(10, time.Hour))}
	svc := newTestServiceWith(t, opts, llm.MockResponse{Text: mcExercise})
	ctx := context.Background()

	first, err := svc.Generate(ctx, fractionsRequest())
	require.NoError(t, err)
	require.False(t, first.Meta.Cached)

	second, err := svc.Generate(ctx, fractionsRequest())
	require.NoError(t, err)
	require.True(t, second.Meta.Cached)
	require.Len(t, second.Exercises, 1)
	assert.Equal(t, first.Exercises[0].ID, second.Exercises[0].ID)
	assert.True(t, second.Exercises[0].Metadata.Cached)

	stored, err := svc.Get(ctx, first.Exercises[0].ID)
	require.NoError(t, err)
	assert.False(t, stored.Metadata.Cached)
}
