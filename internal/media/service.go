package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type RegistryService interface {
	Import(ctx context.Context, input ImportInput) (*Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Exists(ctx context.Context, id string) bool
}

// ImportInput describes a media asset to register. The excluded I/O layer
// has already probed duration and produced a URL; the registry only records
// the descriptor.
type ImportInput struct {
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	Duration     float64 `json:"duration"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
	Name         string  `json:"name"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Import(ctx context.Context, input ImportInput) (*Item, error) {
	if !ValidType(input.Type) {
		return nil, fmt.Errorf("unknown media type %q", input.Type)
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, fmt.Errorf("url is required")
	}
	if input.Type == TypeImage {
		input.Duration = 0
	} else if input.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive for %s media", input.Type)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Untitled"
	}

	item := &Item{
		ID:           NewID(),
		Type:         input.Type,
		URL:          input.URL,
		Duration:     input.Duration,
		ThumbnailURL: input.ThumbnailURL,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("media imported", "media_id", item.ID, "type", item.Type, "duration", item.Duration)
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("media removed", "media_id", id)
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Exists reports whether the id still resolves. Lookup failures count as
// absent: active-clip resolution treats missing media as "no active clip",
// never as an error.
func (s *Service) Exists(ctx context.Context, id string) bool {
	item, err := s.repo.Get(ctx, id)
	return err == nil && item != nil
}
