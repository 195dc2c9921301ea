package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/google/uuid"
	"github.com/wecare-app/apiserver/internal/events"
	"github.com/wecare-app/apiserver/internal/storage"
	"github.com/wecare-app/apiserver/types"
)

// SupplyRepository defines persistence operations for supply listings.
type SupplyRepository interface {
	List(ctx context.Context, category string) ([]types.Supply, error)
	Get(ctx context.Context, id int) (types.Supply, error)
	Create(ctx context.Context, supply types.Supply) (types.Supply, error)
	Update(ctx context.Context, supply types.Supply) (types.UpdateResult, error)
	UpdateImage(ctx context.Context, id int, image string) (types.UpdateResult, error)
	Delete(ctx context.Context, id int) error
}

// SupplyService encapsulates supply use-cases. Photo storage and event
// publishing are optional; a nil dependency disables that side effect.
type SupplyService struct {
	repo      SupplyRepository
	storage   *storage.Storage
	publisher *events.Publisher
}

func NewSupplyService(repo SupplyRepository, store *storage.Storage, publisher *events.Publisher) *SupplyService {
	return &SupplyService{repo: repo, storage: store, publisher: publisher}
}

func (s *SupplyService) List(ctx context.Context, category string) ([]types.Supply, error) {
	return s.repo.List(ctx, category)
}

func (s *SupplyService) Get(ctx context.Context, id int) (types.Supply, error) {
	return s.repo.Get(ctx, id)
}

func (s *SupplyService) Create(ctx context.Context, supply types.Supply) (types.Supply, error) {
	created, err := s.repo.Create(ctx, supply)
	if err != nil {
		return types.Supply{}, err
	}

	if s.publisher != nil {
		if err := s.publisher.SupplyCreated(ctx, created); err != nil {
			log.Printf("publish supply.created for %d: %v", created.ID, err)
		}
	}
	return created, nil
}

func (s *SupplyService) Update(ctx context.Context, supply types.Supply) (types.UpdateResult, error) {
	return s.repo.Update(ctx, supply)
}

func (s *SupplyService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.SupplyDeleted(ctx, id); err != nil {
			log.Printf("publish supply.deleted for %d: %v", id, err)
		}
	}
	return nil
}

// PhotoUploadsEnabled reports whether an object-storage backend was
// configured at startup.
func (s *SupplyService) PhotoUploadsEnabled() bool {
	return s.storage != nil
}

// AttachPhoto uploads the listing photo to object storage under a fresh
// key and points the supply's image field at it. The listing must exist.
func (s *SupplyService) AttachPhoto(ctx context.Context, id int, filename, contentType string, r io.Reader, size int64) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return "", err
	}

	key := fmt.Sprintf("supplies/%d/%s%s", id, uuid.New().String(), path.Ext(filename))
	if err := s.storage.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}

	if _, err := s.repo.UpdateImage(ctx, id, key); err != nil {
		// The object is orphaned if this fails; remove it so the bucket
		// does not accumulate unreferenced photos.
		_ = s.storage.Delete(ctx, key)
		return "", err
	}
	return key, nil
}
