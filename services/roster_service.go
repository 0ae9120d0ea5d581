package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/club-system/cache"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/realtime"
	"github.com/Dosada05/club-system/repositories"
	"github.com/Dosada05/club-system/stats"
	"github.com/Dosada05/club-system/storage"
	"github.com/google/uuid"
)

var ErrRosterListFailed = errors.New("failed to list roster")

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// RosterService keeps the member cache fresh and serves the derived rank
// map. It is also the inbound entry point for roster push events.
type RosterService interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	Ranks() map[int]int
	Refresh(ctx context.Context) error
	HandleMemberUpserted(member models.Member)
	HandleMemberRemoved(memberID int)
	UploadAvatar(ctx context.Context, memberID int, contentType string, body io.Reader) (*models.Member, error)
}

type rosterService struct {
	memberRepo repositories.MemberRepository
	members    *cache.EntityCache[models.Member]
	policy     cache.Policy
	uploader   storage.FileUploader
	hub        *realtime.Hub
	logger     *slog.Logger

	rankMu sync.RWMutex
	ranks  map[int]int
}

func NewRosterService(
	memberRepo repositories.MemberRepository,
	policy cache.Policy,
	uploader storage.FileUploader,
	hub *realtime.Hub,
	logger *slog.Logger,
) RosterService {
	s := &rosterService{
		memberRepo: memberRepo,
		members:    cache.NewEntityCache(func(m models.Member) int { return m.ID }),
		policy:     policy,
		uploader:   uploader,
		hub:        hub,
		logger:     logger,
		ranks:      map[int]int{},
	}
	// Rank assignment is cheap, so it is rebuilt synchronously on every
	// roster mutation rather than cached per window.
	s.members.SetOnMutate(s.rebuildRanks)
	return s
}

func (s *rosterService) ListMembers(ctx context.Context) ([]models.Member, error) {
	if !s.members.Loaded() {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	} else if s.policy.ShouldRefreshMembers(s.members) {
		// Serve the stale snapshot and refresh behind the response.
		go func() {
			if err := s.Refresh(context.Background()); err != nil {
				s.logger.Error("background roster refresh failed", slog.Any("error", err))
			}
		}()
	}

	members := s.members.Get()
	for i := range members {
		s.decorateAvatar(&members[i])
	}
	return members, nil
}

// Ranks returns the current dense rank map for rated members.
func (s *rosterService) Ranks() map[int]int {
	s.rankMu.RLock()
	defer s.rankMu.RUnlock()
	out := make(map[int]int, len(s.ranks))
	for id, rank := range s.ranks {
		out[id] = rank
	}
	return out
}

// Refresh replaces the cached roster with a fresh snapshot. A refresh
// that lands after a newer push event simply wins on wall-clock ordering,
// which both paths already maintain.
func (s *rosterService) Refresh(ctx context.Context) error {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRosterListFailed, err)
	}
	s.members.SetAll(members)
	return nil
}

func (s *rosterService) HandleMemberUpserted(member models.Member) {
	if !s.members.Loaded() {
		// A single push event cannot seed the cache; pull the full
		// snapshot instead.
		go func() {
			if err := s.Refresh(context.Background()); err != nil {
				s.logger.Error("roster refresh after push failed", slog.Any("error", err))
			}
		}()
		return
	}
	s.members.Upsert(member)
	s.decorateAvatar(&member)
	s.hub.BroadcastClub(realtime.EventMemberUpdated, member)
}

func (s *rosterService) HandleMemberRemoved(memberID int) {
	s.members.Remove(memberID)
	s.hub.BroadcastClub(realtime.EventMemberRemoved, map[string]int{"id": memberID})
}

func (s *rosterService) UploadAvatar(ctx context.Context, memberID int, contentType string, body io.Reader) (*models.Member, error) {
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return nil, ErrAvatarUnsupportedContentType
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to load member %d for avatar upload: %w", memberID, err)
	}

	key := fmt.Sprintf("avatars/%d/%s%s", memberID, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for member %d: %w", memberID, err)
	}

	oldKey := member.AvatarKey
	if err := s.memberRepo.UpdateAvatarKey(ctx, memberID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist avatar key for member %d: %w", memberID, err)
	}
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete replaced avatar",
				slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	member.AvatarKey = &result.Key
	s.members.Upsert(*member)
	s.decorateAvatar(member)
	s.hub.BroadcastClub(realtime.EventMemberUpdated, *member)
	return member, nil
}

func (s *rosterService) rebuildRanks() {
	ranks := stats.Rank(s.members.Get())
	s.rankMu.Lock()
	s.ranks = ranks
	s.rankMu.Unlock()
}

func (s *rosterService) decorateAvatar(m *models.Member) {
	if m.AvatarKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*m.AvatarKey)
	if url != "" {
		m.AvatarURL = &url
	}
}
