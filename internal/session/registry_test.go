package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStartGetAbandon(t *testing.T) {
	r := NewRegistry(DefaultOptions())

	s, err := r.Start(twoPlusTwo())
	require.NoError(t, err)
	require.NotEmpty(t, s.ID())

	got, ok := r.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Len())

	_, tr, err := s.Select("b")
	require.NoError(t, err)

	r.Abandon(s.ID())
	_, ok = r.Get(s.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	// The pending lock transition must not fire after abandon.
	_, err = s.Fire(tr.Token)
	assert.ErrorIs(t, err, ErrStaleTransition)
}

func TestRegistryRestart(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	s, err := r.Start(threeQuestions())
	require.NoError(t, err)
	_, _, err = s.Select("2")
	require.NoError(t, err)

	fresh, err := r.Restart(s.ID())
	require.NoError(t, err)
	assert.NotEqual(t, s.ID(), fresh.ID())
	assert.Equal(t, 0, fresh.Index())
	assert.Equal(t, 0, fresh.Score())
	assert.Empty(t, fresh.Answers())
	assert.Equal(t, PhaseAnswering, fresh.Phase())
	assert.Equal(t, s.Quiz().ID, fresh.Quiz().ID)

	_, ok := r.Get(s.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())

	_, err = r.Restart("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryStartRejectsInvalidQuiz(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	q := twoPlusTwo()
	q.Questions[0].Answers[1].IsCorrect = false
	_, err := r.Start(q)
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryConcurrentStarts(t *testing.T) {
	r := NewRegistry(DefaultOptions())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Start(twoPlusTwo())
			if err != nil {
				t.Error(err)
				return
			}
			if _, _, err := s.Select("b"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, r.Len())
}
