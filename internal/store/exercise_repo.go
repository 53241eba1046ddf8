package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/practiz/internal/exercise"
)

// exerciseRepo implements ExerciseRepo. The full exercise is kept as a JSON
// payload; the remaining columns exist for filtering.
type exerciseRepo struct {
	db *sql.DB
}

func (r *exerciseRepo) Save(ctx context.Context, ex *exercise.Exercise, topic string) error {
	payload, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("marshal exercise %s: %w", ex.ID, err)
	}

	createdAt := ex.Metadata.CreatedAt
	if createdAt.IsZero() {
		return fmt.Errorf("exercise %s has no creation time", ex.ID)
	}

	query, args := builder().Insert(exercisesTable.Name).
		Columns("id", "subject", "category", "topic", "difficulty", "type",
			"content_rating", "generated_by", "fallback", "payload", "created_at").
		Values(
			ex.ID,
			string(ex.Subject),
			ex.Category,
			topic,
			string(ex.Difficulty),
			string(ex.Type),
			string(ex.Metadata.ContentRating),
			ex.Metadata.GeneratedBy,
			ex.Metadata.Fallback,
			string(payload),
			createdAt.UTC().UnixMilli(),
		).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save exercise %s: %w", ex.ID, err)
	}
	return nil
}

func (r *exerciseRepo) Get(ctx context.Context, id string) (*exercise.Exercise, error) {
	query, args := builder().Select("payload").
		From(builder().Table(exercisesTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var payload string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise %s: %w", id, err)
	}
	return decodeExercise(payload)
}

func (r *exerciseRepo) List(ctx context.Context, q ExerciseQuery) ([]*exercise.Exercise, error) {
	sel := builder().Select("payload").
		From(builder().Table(exercisesTable.Name)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if q.Subject != "" {
		sel.Where(entsql.EQ("subject", string(q.Subject)))
	}
	if q.Limit > 0 {
		sel.Limit(q.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var out []*exercise.Exercise
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		ex, err := decodeExercise(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func decodeExercise(payload string) (*exercise.Exercise, error) {
	var ex exercise.Exercise
	if err := json.Unmarshal([]byte(payload), &ex); err != nil {
		return nil, fmt.Errorf("decode exercise payload: %w", err)
	}
	return &ex, nil
}
