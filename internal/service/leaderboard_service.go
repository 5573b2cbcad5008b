package service

import (
	"context"
	"fmt"
	"sort"

	"ambassadord/internal/domain"
	"ambassadord/internal/models"

	"github.com/rs/zerolog"
)

// LeaderboardService пересчитывает очки и места амбассадоров.
// Пересчет всегда полный: инкрементального учета нет, согласованность
// обеспечивается запуском из-под guard пакетного прогона.
type LeaderboardService struct {
	store  domain.CollectionStore
	logger *zerolog.Logger
}

func NewLeaderboardService(store domain.CollectionStore, logger *zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{store: store, logger: logger}
}

// Recompute считает очки как сумму итоговых рейтингов одобренных публикаций
// и расставляет плотные ранги среди активных пользователей.
func (s *LeaderboardService) Recompute(ctx context.Context) error {
	users, err := s.store.Users(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	subs, err := s.store.Submissions(ctx)
	if err != nil {
		return fmt.Errorf("load submissions: %w", err)
	}

	points := make(map[string]float64)
	for _, sub := range subs {
		if sub.Status != models.StatusApproved || sub.Rating == nil {
			continue
		}
		points[sub.UserID] += sub.Rating.TotalScore
	}

	var active []*models.User
	for i := range users {
		u := &users[i]
		u.Points = points[u.ID]
		if u.Status == models.UserStatusActive {
			active = append(active, u)
		} else {
			u.Rank = 0
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Points > active[j].Points
	})

	// Плотный ранг: одинаковые очки делят место
	rank := 0
	prevPoints := -1.0
	for _, u := range active {
		if u.Points != prevPoints {
			rank++
			prevPoints = u.Points
		}
		u.Rank = rank
	}

	for i := range users {
		if err := s.store.UpsertUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("persist user %s: %w", users[i].ID, err)
		}
	}

	if s.logger != nil {
		s.logger.Info().Int("users", len(users)).Int("ranked", len(active)).Msg("leaderboard recomputed")
	}
	return nil
}

// Top возвращает первых n активных пользователей по рангу.
func (s *LeaderboardService) Top(ctx context.Context, n int) ([]models.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var active []models.User
	for _, u := range users {
		if u.Status == models.UserStatusActive {
			active = append(active, u)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Points != active[j].Points {
			return active[i].Points > active[j].Points
		}
		return active[i].Username < active[j].Username
	})

	if n > 0 && len(active) > n {
		active = active[:n]
	}
	return active, nil
}
