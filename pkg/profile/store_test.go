package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(StoreConfig{
		DBPath: filepath.Join(t.TempDir(), "learners.db"),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LearnerRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	learner := Learner{
		ID:           "L1",
		TenantID:     "T1",
		DisplayName:  "Avery",
		Region:       "north_america",
		CurrentGrade: 8,
	}
	require.NoError(t, store.UpsertLearner(ctx, learner))

	got, err := store.GetLearner(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, learner, *got)

	// Upsert updates in place.
	learner.CurrentGrade = 9
	require.NoError(t, store.UpsertLearner(ctx, learner))

	got, err = store.GetLearner(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.CurrentGrade)
}

func TestStore_GetLearner_NotFound(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetLearner(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrLearnerNotFound)
}

func TestStore_BrainProfileRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertLearner(ctx, Learner{
		ID: "L1", TenantID: "T1", DisplayName: "Avery",
		Region: "north_america", CurrentGrade: 8,
	}))

	profile := BrainProfile{
		LearnerID: "L1",
		GradeBand: "6_8",
		SubjectLevels: []SubjectLevel{
			{Subject: "math", AssessedGradeLevel: 6, MasteryScore: 0.42},
		},
		NeurodiversityFlags: []string{"adhd"},
		Preferences:         Preferences{PrefersShortSessions: true, ReducedStimulation: true},
	}
	require.NoError(t, store.UpsertBrainProfile(ctx, profile))

	got, err := store.GetBrainProfile(ctx, "L1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, profile, *got)
}

func TestStore_GetBrainProfile_AbsentIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetBrainProfile(context.Background(), "L1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore(StoreConfig{})
	assert.Error(t, err)
}
