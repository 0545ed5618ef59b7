package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/model"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/repository"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/storage"
)

var (
	ErrForbidden        = errors.New("not allowed")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageNotFound    = errors.New("image not found")
)

// SaunaUpdate carries the owner-editable listing fields.
type SaunaUpdate struct {
	Name        string           `json:"name"`
	Location    string           `json:"location"`
	Capacity    int              `json:"capacity"`
	EventLength int              `json:"eventLength"`
	PriceMin    int              `json:"pricemin"`
	PriceMax    int              `json:"pricemax"`
	Equipment   model.StringList `json:"equipment"`
	MainImage   string           `json:"mainImage"`
	Winter      bool             `json:"winter"`
	Visible     bool             `json:"visible"`
	Notes       string           `json:"notes"`
}

type SaunaService struct {
	saunaRepository repository.SaunaRepository
	userRepository  repository.UserRepository
	storage         storage.Storage
}

func NewSaunaService(saunaRepository repository.SaunaRepository, userRepository repository.UserRepository, storage storage.Storage) *SaunaService {
	return &SaunaService{
		saunaRepository: saunaRepository,
		userRepository:  userRepository,
		storage:         storage,
	}
}

// List returns the public directory: visible saunas only.
func (s *SaunaService) List(ctx context.Context, filter repository.SaunaFilter) ([]model.Sauna, error) {
	return s.saunaRepository.ListVisible(ctx, filter)
}

func (s *SaunaService) ByID(ctx context.Context, id string) (*model.Sauna, error) {
	return s.saunaRepository.ByID(ctx, id)
}

// ForUser lists the saunas owned by targetUserID. The requester must be the
// target user or an admin; the admin flag is read fresh from the store, not
// from the bearer token.
func (s *SaunaService) ForUser(ctx context.Context, requesterUserID, targetUserID string) ([]model.Sauna, error) {
	requester, err := s.userRepository.ByID(ctx, requesterUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get requester: %w", err)
	}

	if requesterUserID != targetUserID && !requester.IsAdmin {
		return nil, ErrForbidden
	}

	target := requester
	if targetUserID != requesterUserID {
		target, err = s.userRepository.ByID(ctx, targetUserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrAccountNotFound
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
	}

	return s.saunaRepository.ListByOwner(ctx, target.Email)
}

// Update applies owner-editable fields. Only the owning user or an admin may
// modify a listing; ownership is checked against the store on every call.
func (s *SaunaService) Update(ctx context.Context, requesterUserID, saunaID string, update SaunaUpdate) (*model.Sauna, error) {
	sauna, err := s.authorize(ctx, requesterUserID, saunaID)
	if err != nil {
		return nil, err
	}

	sauna.Name = update.Name
	sauna.Location = update.Location
	sauna.Capacity = update.Capacity
	sauna.EventLength = update.EventLength
	sauna.PriceMin = update.PriceMin
	sauna.PriceMax = update.PriceMax
	sauna.Equipment = update.Equipment
	sauna.MainImage = update.MainImage
	sauna.Winter = update.Winter
	sauna.Visible = update.Visible
	sauna.Notes = update.Notes

	err = s.saunaRepository.Update(ctx, sauna)
	if err != nil {
		return nil, fmt.Errorf("failed to update sauna: %w", err)
	}

	slog.Info("sauna updated", "sauna_id", sauna.ID, "user_id", requesterUserID)
	return sauna, nil
}

// AddImage uploads an image to storage and appends it to the listing.
func (s *SaunaService) AddImage(ctx context.Context, requesterUserID, saunaID, filename string, file io.Reader) (*model.Sauna, error) {
	sauna, err := s.authorize(ctx, requesterUserID, saunaID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.New().String()[:8], ext)
	key := fmt.Sprintf("saunas/%s/%s", sauna.ID, name)

	err = s.storage.Save(ctx, key, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	sauna.Images = append(sauna.Images, name)
	if sauna.MainImage == "" {
		sauna.MainImage = name
	}

	err = s.saunaRepository.Update(ctx, sauna)
	if err != nil {
		return nil, fmt.Errorf("failed to update sauna: %w", err)
	}

	slog.Info("sauna image added", "sauna_id", sauna.ID, "image", name, "user_id", requesterUserID)
	return sauna, nil
}

// RemoveImage deletes an image from storage and the listing.
func (s *SaunaService) RemoveImage(ctx context.Context, requesterUserID, saunaID, filename string) (*model.Sauna, error) {
	sauna, err := s.authorize(ctx, requesterUserID, saunaID)
	if err != nil {
		return nil, err
	}

	found := false
	images := make(model.StringList, 0, len(sauna.Images))
	for _, img := range sauna.Images {
		if img == filename {
			found = true
			continue
		}
		images = append(images, img)
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrImageNotFound, filename)
	}
	sauna.Images = images

	if sauna.MainImage == filename {
		sauna.MainImage = ""
		if len(images) > 0 {
			sauna.MainImage = images[0]
		}
	}

	key := fmt.Sprintf("saunas/%s/%s", sauna.ID, filename)
	err = s.storage.Delete(ctx, key)
	if err != nil {
		slog.Warn("failed to delete image from storage", "error", err, "key", key)
	}

	err = s.saunaRepository.Update(ctx, sauna)
	if err != nil {
		return nil, fmt.Errorf("failed to update sauna: %w", err)
	}

	slog.Info("sauna image removed", "sauna_id", sauna.ID, "image", filename, "user_id", requesterUserID)
	return sauna, nil
}

// authorize loads the sauna and verifies the requester owns it or is an
// admin. Both facts come from the store on every call.
func (s *SaunaService) authorize(ctx context.Context, requesterUserID, saunaID string) (*model.Sauna, error) {
	requester, err := s.userRepository.ByID(ctx, requesterUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get requester: %w", err)
	}

	sauna, err := s.saunaRepository.ByID(ctx, saunaID)
	if err != nil {
		return nil, err
	}

	if !requester.IsAdmin && !strings.EqualFold(sauna.OwnerEmail, requester.Email) {
		return nil, ErrForbidden
	}

	return sauna, nil
}
