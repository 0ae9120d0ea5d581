package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/club-system/cache"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/realtime"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/stats"
	"golang.org/x/sync/errgroup"
)

var ErrMatchesListFailed = errors.New("failed to list matches")

type RecordMatchInput struct {
	Player1ID int     `json:"player1_id"`
	Player2ID *int    `json:"player2_id,omitempty"`
	Score     *string `json:"score,omitempty"`
}

// MatchService owns the matches cache through the match-count index and
// keeps both consistent on every record/update/delete. It is the inbound
// entry point for match push events and for the bulk "everything
// changed, refetch" signal.
type MatchService interface {
	ListMatches(ctx context.Context) ([]models.Match, error)
	RecordMatch(ctx context.Context, input RecordMatchInput) (*models.Match, error)
	UpdateScore(ctx context.Context, matchID int, score *string) (*models.Match, error)
	DeleteMatch(ctx context.Context, matchID int) error
	MatchCounts(ctx context.Context, window stats.TimeWindow) (map[int]int, error)
	HandleMatchPushed(match models.Match, isNew bool)
	InvalidateAll(ctx context.Context) error
}

type matchService struct {
	matchRepo repositories.MatchRepository
	index     *stats.MatchCountIndex
	roster    RosterService
	policy    cache.Policy
	hub       *realtime.Hub
	logger    *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	index *stats.MatchCountIndex,
	roster RosterService,
	policy cache.Policy,
	hub *realtime.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		index:     index,
		roster:    roster,
		policy:    policy,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) ListMatches(ctx context.Context) ([]models.Match, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.index.Matches(), nil
}

func (s *matchService) RecordMatch(ctx context.Context, input RecordMatchInput) (*models.Match, error) {
	if input.Player1ID <= 0 {
		return nil, ErrMatchPlayerRequired
	}
	if input.Player2ID != nil && *input.Player2ID == input.Player1ID {
		return nil, ErrMatchPlayersIdentical
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	match := &models.Match{
		Player1ID: input.Player1ID,
		Player2ID: input.Player2ID,
		Score:     input.Score,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchPlayerInvalid) {
			return nil, ErrMemberNotInRoster
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.index.RecordMatch(*match, true)
	s.hub.BroadcastClub(realtime.EventMatchRecorded, match)
	return match, nil
}

func (s *matchService) UpdateScore(ctx context.Context, matchID int, score *string) (*models.Match, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.UpdateScore(ctx, matchID, score)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update score for match %d: %w", matchID, err)
	}

	s.index.RecordMatch(*match, false)
	s.hub.BroadcastClub(realtime.EventMatchUpdated, match)
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, matchID int) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	// The player ids are needed for the per-window recount after the row
	// is gone.
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match %d for deletion: %w", matchID, err)
	}

	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", matchID, err)
	}

	s.index.RemoveMatch(match.ID, match.Player1ID, match.Player2ID)
	s.hub.BroadcastClub(realtime.EventMatchRemoved, map[string]int{"id": matchID})
	return nil
}

func (s *matchService) MatchCounts(ctx context.Context, window stats.TimeWindow) (map[int]int, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.index.Counts(window), nil
}

// HandleMatchPushed applies a single-entity push event. While the cache
// was never loaded the event is dropped in favor of a full refetch.
func (s *matchService) HandleMatchPushed(match models.Match, isNew bool) {
	if !s.index.MatchesCache().Loaded() {
		go func() {
			if err := s.refreshMatches(context.Background()); err != nil {
				s.logger.Error("match refresh after push failed", slog.Any("error", err))
			}
		}()
		return
	}
	s.index.RecordMatch(match, isNew)
	event := realtime.EventMatchUpdated
	if isNew {
		event = realtime.EventMatchRecorded
	}
	s.hub.BroadcastClub(event, match)
}

// InvalidateAll is the bulk-change signal: both collections are refetched
// concurrently, every cached window entry is dropped, and clients are told
// to rebuild their local state.
func (s *matchService) InvalidateAll(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.roster.Refresh(gCtx)
	})

	var matches []models.Match
	g.Go(func() error {
		list, err := s.matchRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMatchesListFailed, err)
		}
		matches = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.index.Clear()
	s.index.ReplaceAll(matches)
	s.hub.BroadcastClub(realtime.EventRosterRefreshed, nil)
	return nil
}

func (s *matchService) ensureLoaded(ctx context.Context) error {
	matchesCache := s.index.MatchesCache()
	if !matchesCache.Loaded() {
		return s.refreshMatches(ctx)
	}
	if s.policy.ShouldRefreshMatches(matchesCache) {
		go func() {
			if err := s.refreshMatches(context.Background()); err != nil {
				s.logger.Error("background match refresh failed", slog.Any("error", err))
			}
		}()
	}
	return nil
}

func (s *matchService) refreshMatches(ctx context.Context) error {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMatchesListFailed, err)
	}
	s.index.ReplaceAll(matches)
	return nil
}
