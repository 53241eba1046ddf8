// Package practice ties generation, persistence and grading together for
// the CLI, the TUI and the HTTP server.
package practice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/exercisegen"
	"github.com/abhisek/practiz/internal/logger"
	"github.com/abhisek/practiz/internal/scoring"
	"github.com/abhisek/practiz/internal/store"
)

// ErrExerciseNotFound is returned when an exercise id is unknown.
var ErrExerciseNotFound = errors.New("exercise not found")

// Generator produces exercises for a request.
type Generator interface {
	Generate(ctx context.Context, req exercise.GenerationRequest) (*exercisegen.Result, error)
}

// Service generates, stores and grades exercises.
type Service struct {
	generator   Generator
	exercises   store.ExerciseRepo
	submissions store.SubmissionRepo
	log         *logger.Logger
}

// NewService creates a Service. log may be nil.
func NewService(gen Generator, exercises store.ExerciseRepo, submissions store.SubmissionRepo, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		generator:   gen,
		exercises:   exercises,
		submissions: submissions,
		log:         log,
	}
}

// Generate produces exercises for req and stores them so they can be
// submitted against later. Only request validation failures
// (*exercisegen.RequestError) and storage failures are returned.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	res, err := s.generator.Generate(ctx, req.GenerationRequest())
	if err != nil {
		return nil, err
	}

	topic := strings.Join(strings.Fields(req.Topic), " ")
	for _, ex := range res.Exercises {
		stored := ex
		if ex.Metadata.Cached {
			// Cached is a property of this response, not of the exercise.
			cp := *ex
			cp.Metadata.Cached = false
			stored = &cp
		}
		if err := s.exercises.Save(ctx, stored, topic); err != nil {
			return nil, fmt.Errorf("save exercise %s: %w", ex.ID, err)
		}
	}

	if res.Warning != "" {
		s.log.Warn("generation degraded", "subject", req.Subject, "topic", topic, "warning", res.Warning)
	}

	return &GenerateResponse{
		Exercises: res.Exercises,
		Meta: GenerateMeta{
			Model:       res.Model,
			GeneratedAt: res.GeneratedAt,
			Cached:      res.Cached,
			TokensUsed:  res.TokensUsed,
			Warning:     res.Warning,
		},
	}, nil
}

// Get returns a stored exercise.
func (s *Service) Get(ctx context.Context, id string) (*exercise.Exercise, error) {
	ex, err := s.exercises.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load exercise: %w", err)
	}
	if ex == nil {
		return nil, fmt.Errorf("%w: %s", ErrExerciseNotFound, id)
	}
	return ex, nil
}

// List returns recently generated exercises.
func (s *Service) List(ctx context.Context, subject exercise.Subject, limit int) ([]*exercise.Exercise, error) {
	return s.exercises.List(ctx, store.ExerciseQuery{Subject: subject, Limit: limit})
}

// Hints reveals the first n hints of an exercise, or all of them.
func (s *Service) Hints(ctx context.Context, id string, n int, all bool) ([]string, error) {
	ex, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ex.RevealHints(n, all), nil
}

// Submit grades an answer and records the submission.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if strings.TrimSpace(req.ExerciseID) == "" {
		return nil, &exercisegen.RequestError{Field: "exerciseId", Message: "is required"}
	}
	if len(req.Answer) == 0 {
		return nil, &exercisegen.RequestError{Field: "answer", Message: "is required"}
	}

	ex, err := s.Get(ctx, req.ExerciseID)
	if err != nil {
		return nil, err
	}

	result := scoring.Grade(ex, scoring.Submission{
		Answer:    req.Answer,
		HintsUsed: req.HintsUsed,
		TimeTaken: req.TimeTaken,
	})

	sub := &store.Submission{
		ExerciseID:   ex.ID,
		UserID:       req.UserID,
		Answer:       req.Answer,
		HintsUsed:    req.HintsUsed,
		TimeTaken:    req.TimeTaken,
		Score:        result.Score,
		PointsEarned: result.PointsEarned,
		Passed:       result.Passed,
	}
	if err := s.submissions.Append(ctx, sub); err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}

	s.log.Debug("submission graded",
		"exercise", ex.ID,
		"type", ex.Type,
		"score", result.Score,
		"passed", result.Passed)

	resp := &SubmitResponse{
		Passed:         result.Passed,
		Score:          result.Score,
		PointsEarned:   result.PointsEarned,
		Feedback:       result.Feedback,
		RevealSolution: result.RevealSolution,
	}
	if result.RevealSolution {
		sol := ex.Solution
		resp.Solution = &sol
	}
	return resp, nil
}

// History returns an exercise's submissions, newest first.
func (s *Service) History(ctx context.Context, id string, limit int) ([]store.Submission, error) {
	return s.submissions.ListByExercise(ctx, id, limit)
}
