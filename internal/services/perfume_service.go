package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"perfumeria/internal/domain"
	"perfumeria/internal/metrics"
	"perfumeria/internal/repos"
	"perfumeria/internal/storage"
)

var (
	ErrImageRequired = errors.New("image required")
	// ErrImageCleanup means the catalog change went through but the previous
	// image could not be removed from storage.
	ErrImageCleanup = errors.New("stored image could not be removed")
)

// Image is an upload that already passed validate.Image.
type Image struct {
	Data        []byte
	ContentType string
}

// PerfumeService applies admin edits to the catalog and keeps the image
// bucket in step with it.
type PerfumeService struct {
	Prods *repos.ProductRepo
	Disk  storage.Disk
}

func NewPerfumeService(prods *repos.ProductRepo, disk storage.Disk) *PerfumeService {
	return &PerfumeService{Prods: prods, Disk: disk}
}

// observe counts a mutation; a leftover image still counts as success.
func observe(action string, err error) {
	if errors.Is(err, ErrImageCleanup) {
		err = nil
	}
	metrics.Mutation(action, err)
}

func (s *PerfumeService) upload(ctx context.Context, img *Image) (path, url string, err error) {
	path = "perfumes/" + uuid.NewString() + ".webp"
	if err := s.Disk.Put(ctx, path, img.Data, img.ContentType); err != nil {
		return "", "", fmt.Errorf("upload image: %w", err)
	}
	metrics.ImageUploadBytes.Observe(float64(len(img.Data)))
	return path, s.Disk.URL(path), nil
}

// Create stores the image and inserts the perfume. If the insert fails the
// uploaded object is removed again.
func (s *PerfumeService) Create(ctx context.Context, f domain.ProductFields, img *Image) (id string, err error) {
	defer func() { observe("create", err) }()
	if img == nil || len(img.Data) == 0 {
		return "", ErrImageRequired
	}
	path, url, err := s.upload(ctx, img)
	if err != nil {
		return "", err
	}
	f.ImagenURL = url
	id, err = s.Prods.Insert(ctx, f)
	if err != nil {
		_ = s.Disk.Delete(ctx, path)
		return "", fmt.Errorf("insert perfume: %w", err)
	}
	return id, nil
}

// Update replaces the perfume's fields. Without a new image the current one
// is kept; with one, the old object is deleted once the row is saved.
func (s *PerfumeService) Update(ctx context.Context, id string, f domain.ProductFields, img *Image) (err error) {
	defer func() { observe("update", err) }()
	cur, err := s.Prods.Get(ctx, id)
	if err != nil {
		return err
	}
	f.ImagenURL = cur.ImagenURL

	var newPath string
	if img != nil && len(img.Data) > 0 {
		p, url, err := s.upload(ctx, img)
		if err != nil {
			return err
		}
		newPath, f.ImagenURL = p, url
	}

	if err := s.Prods.Update(ctx, id, f); err != nil {
		if newPath != "" {
			_ = s.Disk.Delete(ctx, newPath)
		}
		return fmt.Errorf("update perfume: %w", err)
	}

	if newPath != "" && cur.HasImage() {
		return s.removeImage(ctx, cur.ImagenURL)
	}
	return nil
}

// Delete removes the perfume, then its image. A failed image removal is
// reported as ErrImageCleanup; the row is gone either way.
func (s *PerfumeService) Delete(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()
	cur, err := s.Prods.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Prods.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete perfume: %w", err)
	}
	if cur.HasImage() {
		return s.removeImage(ctx, cur.ImagenURL)
	}
	return nil
}

func (s *PerfumeService) removeImage(ctx context.Context, url string) error {
	path, ok := s.Disk.PathFromURL(url)
	if !ok {
		return fmt.Errorf("%w: %s is not in the configured storage", ErrImageCleanup, url)
	}
	if err := s.Disk.Delete(ctx, path); err != nil {
		return fmt.Errorf("%w: %v", ErrImageCleanup, err)
	}
	return nil
}
