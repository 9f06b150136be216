package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var resultFields = []string{
	"id", "sequence", "created_at", "session_id", "quiz_id", "topic", "user_id",
	"correct_answers", "total_questions", "total_score", "coins_earned",
	"xp_earned", "total_time", "local",
}

// resultRepo implements ResultRepo.
type resultRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *resultRepo) Append(ctx context.Context, rec ResultRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	created := rec.Timestamp
	if created.IsZero() {
		created = time.Now()
	}

	ins := dialectBuilder().Insert(tableResults).
		Columns(resultFields[1:]...).
		Values(seqNum, created.UnixMilli(), rec.SessionID, rec.QuizID, rec.Topic, rec.UserID,
			rec.CorrectAnswers, rec.TotalQuestions, rec.TotalScore, rec.CoinsEarned,
			rec.XPEarned, rec.TotalTime, rec.Local).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.DoNothing(),
		)
	if _, err := exec(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

func (r *resultRepo) List(ctx context.Context, opts QueryOpts) ([]ResultRecord, error) {
	d := dialectBuilder()
	sel := applyQueryOpts(d.Select(resultFields...).From(d.Table(tableResults)), opts)

	var out []ResultRecord
	err := query(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var rec ResultRecord
		var created int64
		if err := rows.Scan(&rec.ID, &rec.Sequence, &created, &rec.SessionID, &rec.QuizID,
			&rec.Topic, &rec.UserID, &rec.CorrectAnswers, &rec.TotalQuestions,
			&rec.TotalScore, &rec.CoinsEarned, &rec.XPEarned, &rec.TotalTime, &rec.Local); err != nil {
			return err
		}
		rec.Timestamp = time.UnixMilli(created)
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	return out, nil
}
