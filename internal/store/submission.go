package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type submissionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var submissionFields = []string{
	"id", "sequence", "timestamp", "exercise_id", "user_id", "answer",
	"hints_used", "time_taken", "score", "points_earned", "passed",
}

func (r *submissionRepo) Append(ctx context.Context, sub *Submission) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	now := time.Now().UTC()

	answer := string(sub.Answer)
	if answer == "" {
		answer = "null"
	}

	query, args := builder().Insert(submissionsTable.Name).
		Columns(submissionFields[1:]...).
		Values(
			seqNum,
			now.UnixMilli(),
			sub.ExerciseID,
			sub.UserID,
			answer,
			sub.HintsUsed,
			sub.TimeTaken,
			sub.Score,
			sub.PointsEarned,
			sub.Passed,
		).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("submission id: %w", err)
	}

	sub.ID = int(id)
	sub.Sequence = seqNum
	sub.Timestamp = time.UnixMilli(now.UnixMilli()).UTC()
	return nil
}

func (r *submissionRepo) ListByExercise(ctx context.Context, exerciseID string, limit int) ([]Submission, error) {
	sel := builder().Select(submissionFields...).
		From(builder().Table(submissionsTable.Name)).
		Where(entsql.EQ("exercise_id", exerciseID)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var (
			s      Submission
			ts     int64
			answer string
		)
		if err := rows.Scan(&s.ID, &s.Sequence, &ts, &s.ExerciseID, &s.UserID, &answer,
			&s.HintsUsed, &s.TimeTaken, &s.Score, &s.PointsEarned, &s.Passed); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.Timestamp = time.UnixMilli(ts).UTC()
		s.Answer = []byte(answer)
		out = append(out, s)
	}
	return out, rows.Err()
}
