package store

import (
	"context"
	"encoding/json"
	"fmt"

	"ambassadord/internal/models"
)

// ListAs декодирует все документы коллекции в значения типа T.
func ListAs[T any](ctx context.Context, s *Store, collection string) ([]T, error) {
	raws, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// GetAs декодирует один документ коллекции в значение типа T.
func GetAs[T any](ctx context.Context, s *Store, collection, id string) (*T, error) {
	raw, err := s.GetByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return &v, nil
}

// Submissions возвращает все публикации.
func (s *Store) Submissions(ctx context.Context) ([]models.Submission, error) {
	return ListAs[models.Submission](ctx, s, models.CollectionSubmissions)
}

// Submission возвращает публикацию по идентификатору.
func (s *Store) Submission(ctx context.Context, id string) (*models.Submission, error) {
	return GetAs[models.Submission](ctx, s, models.CollectionSubmissions, id)
}

// UpdateSubmission перезаписывает публикацию.
func (s *Store) UpdateSubmission(ctx context.Context, sub *models.Submission) error {
	return s.Update(ctx, models.CollectionSubmissions, sub.ID, sub)
}

// Users возвращает всех пользователей.
func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	return ListAs[models.User](ctx, s, models.CollectionUsers)
}

// User возвращает пользователя по идентификатору.
func (s *Store) User(ctx context.Context, id string) (*models.User, error) {
	return GetAs[models.User](ctx, s, models.CollectionUsers, id)
}

// UpsertUser вставляет или обновляет пользователя.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	return s.Upsert(ctx, models.CollectionUsers, u.ID, u)
}
