package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/club-system/cache"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMatchRepo struct {
	matches map[int]models.Match
	nextID  int
}

func newFakeMatchRepo(seed ...models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[int]models.Match)}
	for _, m := range seed {
		repo.matches[m.ID] = m
		if m.ID > repo.nextID {
			repo.nextID = m.ID
		}
	}
	return repo
}

func (f *fakeMatchRepo) List(ctx context.Context) ([]models.Match, error) {
	out := make([]models.Match, 0, len(f.matches))
	for _, m := range f.matches {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

func (f *fakeMatchRepo) Create(ctx context.Context, match *models.Match) error {
	f.nextID++
	match.ID = f.nextID
	match.CreatedAt = time.Now()
	f.matches[match.ID] = *match
	return nil
}

func (f *fakeMatchRepo) UpdateScore(ctx context.Context, id int, score *string) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	now := time.Now()
	m.Score = score
	m.UpdatedAt = &now
	f.matches[id] = m
	return &m, nil
}

func (f *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(f.matches, id)
	return nil
}

func newMatchServiceForTest(repo repositories.MatchRepository) (MatchService, *stats.MatchCountIndex) {
	matchesCache := cache.NewEntityCache(func(m models.Match) int { return m.ID })
	index := stats.NewMatchCountIndex(matchesCache)
	// Generous max ages so background refreshes never kick in mid-test.
	policy := cache.Policy{MemberMaxAge: time.Hour, MatchMaxAge: time.Hour}
	svc := NewMatchService(repo, index, &fakeRoster{}, policy, testHub(), discardLogger())
	return svc, index
}

func allTime() stats.TimeWindow {
	return stats.TimeWindow{Period: stats.PeriodAll}
}

func TestRecordMatchUpdatesCounts(t *testing.T) {
	svc, _ := newMatchServiceForTest(newFakeMatchRepo())
	ctx := context.Background()

	p2 := 2
	match, err := svc.RecordMatch(ctx, RecordMatchInput{Player1ID: 1, Player2ID: &p2})
	require.NoError(t, err)
	assert.NotZero(t, match.ID)

	counts, err := svc.MatchCounts(ctx, allTime())
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 2: 1}, counts)
}

func TestRecordMatchValidation(t *testing.T) {
	svc, _ := newMatchServiceForTest(newFakeMatchRepo())
	ctx := context.Background()

	_, err := svc.RecordMatch(ctx, RecordMatchInput{Player1ID: 0})
	assert.ErrorIs(t, err, ErrMatchPlayerRequired)

	same := 5
	_, err = svc.RecordMatch(ctx, RecordMatchInput{Player1ID: 5, Player2ID: &same})
	assert.ErrorIs(t, err, ErrMatchPlayersIdentical)
}

func TestDeleteMatchRemovesCounts(t *testing.T) {
	repo := newFakeMatchRepo()
	svc, _ := newMatchServiceForTest(repo)
	ctx := context.Background()

	p2 := 2
	match, err := svc.RecordMatch(ctx, RecordMatchInput{Player1ID: 1, Player2ID: &p2})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatch(ctx, match.ID))
	assert.NotContains(t, repo.matches, match.ID)

	counts, err := svc.MatchCounts(ctx, allTime())
	require.NoError(t, err)
	assert.Empty(t, counts)

	assert.ErrorIs(t, svc.DeleteMatch(ctx, match.ID), ErrMatchNotFound)
}

func TestUpdateScoreKeepsCountsStable(t *testing.T) {
	svc, _ := newMatchServiceForTest(newFakeMatchRepo())
	ctx := context.Background()

	p2 := 2
	match, err := svc.RecordMatch(ctx, RecordMatchInput{Player1ID: 1, Player2ID: &p2})
	require.NoError(t, err)

	score := "11:7"
	updated, err := svc.UpdateScore(ctx, match.ID, &score)
	require.NoError(t, err)
	require.NotNil(t, updated.Score)
	assert.Equal(t, score, *updated.Score)
	require.NotNil(t, updated.UpdatedAt)

	counts, err := svc.MatchCounts(ctx, allTime())
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 2: 1}, counts)

	_, err = svc.UpdateScore(ctx, 999, &score)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestListMatchesLoadsLazily(t *testing.T) {
	seeded := models.Match{ID: 1, Player1ID: 3, CreatedAt: time.Now()}
	svc, index := newMatchServiceForTest(newFakeMatchRepo(seeded))

	assert.False(t, index.MatchesCache().Loaded())

	matches, err := svc.ListMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].ID)
	assert.True(t, index.MatchesCache().Loaded())
}

func TestInvalidateAllRebuildsFromSource(t *testing.T) {
	repo := newFakeMatchRepo()
	svc, _ := newMatchServiceForTest(repo)
	ctx := context.Background()

	p2 := 2
	_, err := svc.RecordMatch(ctx, RecordMatchInput{Player1ID: 1, Player2ID: &p2})
	require.NoError(t, err)

	// Simulate a change that bypassed this process entirely.
	repo.matches = map[int]models.Match{
		7: {ID: 7, Player1ID: 9, CreatedAt: time.Now()},
	}

	require.NoError(t, svc.InvalidateAll(ctx))

	counts, err := svc.MatchCounts(ctx, allTime())
	require.NoError(t, err)
	assert.Equal(t, map[int]int{9: 1}, counts)
}
