package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/club-system/brackets"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/realtime"
	"github.com/Dosada05/club-system/repositories"
)

const tournamentMinParticipants = 4

type CreateTournamentInput struct {
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	MemberIDs        []int   `json:"member_ids"`
	DesiredGroupSize int     `json:"desired_group_size"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	roster         RosterService
	hub            *realtime.Hub
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	roster RosterService,
	hub *realtime.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		roster:         roster,
		hub:            hub,
		logger:         logger,
	}
}

// Create turns the selected roster members into balanced groups plus a
// seed cap and persists the result. The grouping is a one-shot snapshot
// of the current ranking; organizers may still drag members between
// groups before the tournament starts.
func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}

	selected, err := dedupeSelection(input.MemberIDs)
	if err != nil {
		return nil, err
	}
	if len(selected) < tournamentMinParticipants {
		return nil, ErrTournamentTooFewParticipants
	}

	members, err := s.roster.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	ratings := make(map[int]int, len(members))
	known := make(map[int]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
		ratings[m.ID] = m.RatingOrZero()
	}
	for _, id := range selected {
		if !known[id] {
			return nil, fmt.Errorf("%w: member %d", ErrMemberNotInRoster, id)
		}
	}

	size := brackets.ClampGroupSize(input.DesiredGroupSize)
	groups := brackets.PartitionGroups(selected, s.roster.Ranks(), ratings, size)

	tournament := &models.Tournament{
		Name:             name,
		Description:      input.Description,
		DesiredGroupSize: size,
		SeedCap:          brackets.MaxSeeds(len(selected)),
		Status:           models.TournamentStatusDraft,
		Groups:           make([]models.TournamentGroup, 0, len(groups)),
	}
	for i, memberIDs := range groups {
		tournament.Groups = append(tournament.Groups, models.TournamentGroup{
			Position:  i + 1,
			MemberIDs: memberIDs,
		})
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.hub.BroadcastClub(realtime.EventTournamentCreated, tournament)
	s.hub.BroadcastToRoom(tournamentRoom(tournament.ID), realtime.EventTournamentCreated, tournament)
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, limit, offset int) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func dedupeSelection(ids []int) ([]int, error) {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, ErrTournamentDuplicateSelection
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func tournamentRoom(id int) string {
	return fmt.Sprintf("tournament_%d", id)
}
