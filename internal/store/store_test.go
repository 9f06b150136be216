package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableKV, tableResults, tableLLMRequests, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.KV().Put(ctx, "user", map[string]string{"id": "u1"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	var got map[string]string
	if err := s.KV().Get(ctx, "user", &got); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got["id"] != "u1" {
		t.Errorf("id = %q, want u1", got["id"])
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestKVPutGetDelete(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	type prefs struct {
		Music    bool   `json:"music"`
		Language string `json:"language"`
	}

	var got prefs
	if err := kv.Get(ctx, "prefs", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := kv.Put(ctx, "prefs", prefs{Music: true, Language: "en"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "prefs", prefs{Music: false, Language: "vi"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := kv.Get(ctx, "prefs", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Music || got.Language != "vi" {
		t.Errorf("got %+v, want overwritten value", got)
	}

	if err := kv.Delete(ctx, "prefs"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Get(ctx, "prefs", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestResultsAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Results()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, sid := range []string{"s1", "s2", "s3"} {
		err := repo.Append(ctx, ResultRecord{
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			SessionID:      sid,
			QuizID:         "quiz-" + sid,
			Topic:          "Go",
			CorrectAnswers: i,
			TotalQuestions: 3,
			TotalTime:      12.5,
			Local:          i == 2,
		})
		if err != nil {
			t.Fatalf("append %s: %v", sid, err)
		}
	}

	// Same session again is ignored.
	if err := repo.Append(ctx, ResultRecord{SessionID: "s1", QuizID: "dup"}); err != nil {
		t.Fatalf("duplicate append: %v", err)
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].SessionID != "s3" || !all[0].Local {
		t.Errorf("newest = %+v, want local s3", all[0])
	}
	if !all[2].Timestamp.Equal(base) {
		t.Errorf("oldest timestamp = %v, want %v", all[2].Timestamp, base)
	}
	if all[2].TotalTime != 12.5 {
		t.Errorf("total time = %v", all[2].TotalTime)
	}

	limited, err := repo.List(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}

	recent, err := repo.List(ctx, QueryOpts{From: base.Add(90 * time.Second)})
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].SessionID != "s3" {
		t.Errorf("from filter = %+v", recent)
	}
}

func TestLLMEventsAndUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "m1", Purpose: "quiz-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 10, Success: true},
		{Provider: "mock", Model: "m1", Purpose: "quiz-gen", InputTokens: 200, OutputTokens: 70, LatencyMs: 30, Success: true},
		{Provider: "mock", Model: "m2", Purpose: "topics", InputTokens: 10, OutputTokens: 5, LatencyMs: 5, ErrorMessage: "boom", RequestBody: "[user]\nhi"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Purpose != "topics" || got[0].Success {
		t.Errorf("newest = %+v", got[0])
	}

	one, err := repo.GetLLMEvent(ctx, got[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if one == nil || one.RequestBody != "[user]\nhi" || one.ErrorMessage != "boom" {
		t.Errorf("get = %+v", one)
	}
	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("missing = %v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byPurpose) != 2 || byPurpose[0].Purpose != "quiz-gen" {
		t.Fatalf("by purpose = %+v", byPurpose)
	}
	if byPurpose[0].Calls != 2 || byPurpose[0].InputTokens != 300 || byPurpose[0].AvgLatencyMs != 20 {
		t.Errorf("quiz-gen usage = %+v", byPurpose[0])
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(byModel) != 2 || byModel[0].Model != "m1" || byModel[0].OutputTokens != 120 {
		t.Errorf("by model = %+v", byModel)
	}
}
