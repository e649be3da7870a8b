package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type StoreService interface {
	Create(ctx context.Context, name string) (*Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, name string) error
	SaveSnapshot(ctx context.Context, projectID string, state []byte) (*Snapshot, error)
	LatestSnapshot(ctx context.Context, projectID string) (*Snapshot, error)
	GetSnapshot(ctx context.Context, projectID string, version int) (*Snapshot, error)
	ListSnapshots(ctx context.Context, projectID string) ([]*Snapshot, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled Project"
	}

	now := time.Now().UTC()
	p := &Project{
		ID:        NewID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("project created", "project_id", p.ID, "name", p.Name)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("project deleted", "project_id", id)
	}
	return nil
}

func (s *Service) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Rename(ctx, id, name)
}

func (s *Service) SaveSnapshot(ctx context.Context, projectID string, state []byte) (*Snapshot, error) {
	p, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("project %s not found", projectID)
	}

	snap, err := s.repo.SaveSnapshot(ctx, projectID, state)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("snapshot saved", "project_id", projectID, "version", snap.Version)
	}
	return snap, nil
}

func (s *Service) LatestSnapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	return s.repo.LatestSnapshot(ctx, projectID)
}

func (s *Service) GetSnapshot(ctx context.Context, projectID string, version int) (*Snapshot, error) {
	return s.repo.GetSnapshot(ctx, projectID, version)
}

func (s *Service) ListSnapshots(ctx context.Context, projectID string) ([]*Snapshot, error) {
	return s.repo.ListSnapshots(ctx, projectID)
}
