package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/washday/internal/apperror"
	"github.com/sakif/washday/internal/model"
	"github.com/sakif/washday/internal/repository"
)

const (
	MaxItemNameLength = 100

	// Defaults applied when a create request leaves the field blank.
	DefaultColor        = "#FF6B6B"
	DefaultCustomWashes = 60
)

// CreateItemInput carries the caller-supplied attributes for a new item.
// Blank values fall back to defaults where one exists; Name and
// PurchaseDate are required. CustomWashes is a pointer so an explicit 0
// is distinguishable from the field being absent (only absence defaults).
type CreateItemInput struct {
	Name         string
	Color        string
	Material     model.Material
	CustomWashes *int
	Accessories  []string
	PurchaseDate string
}

// ItemService handles the item lifecycle: create, wash, retire, delete,
// and the owner-scoped and public list views.
type ItemService struct {
	items  repository.ItemRepository
	logger *slog.Logger
}

func NewItemService(items repository.ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		items:  items,
		logger: logger,
	}
}

// Create validates the input, applies defaults, and persists a new item
// owned by ownerID with a zero wash counter.
func (s *ItemService) Create(ctx context.Context, ownerID string, in CreateItemInput) (*model.Item, error) {
	fields := map[string]string{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = "name is required"
	} else if len(name) > MaxItemNameLength {
		fields["name"] = fmt.Sprintf("name must be %d characters or less", MaxItemNameLength)
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = DefaultColor
	} else if !validHexColor(color) {
		fields["color"] = "color must be a hex string like #FF6B6B"
	}

	material := in.Material
	if material == "" {
		material = model.MaterialCotton
	} else if !material.Valid() {
		fields["material"] = "material must be one of: cotton, blend, synthetic, custom"
	}

	customWashes := DefaultCustomWashes
	if in.CustomWashes != nil {
		if *in.CustomWashes < 0 {
			fields["custom_washes"] = "custom_washes must not be negative"
		}
		customWashes = *in.CustomWashes
	}

	purchaseDate := strings.TrimSpace(in.PurchaseDate)
	if purchaseDate == "" {
		fields["purchase_date"] = "purchase_date is required"
	} else if _, err := time.Parse("2006-01-02", purchaseDate); err != nil {
		fields["purchase_date"] = "purchase_date must be a date in YYYY-MM-DD format"
	}

	if len(fields) > 0 {
		return nil, apperror.ValidationErrors(fields)
	}

	accessories := in.Accessories
	if accessories == nil {
		accessories = []string{}
	}

	item := &model.Item{
		UserID:       ownerID,
		Name:         name,
		Color:        color,
		Material:     material,
		CustomWashes: customWashes,
		Accessories:  accessories,
		PurchaseDate: purchaseDate,
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Error("failed to create item",
			slog.String("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating item: %w", err)
	}

	s.logger.Info("item created",
		slog.String("id", item.ID),
		slog.String("userID", ownerID),
		slog.String("name", item.Name),
	)

	return item, nil
}

// List returns the requesting user's items, newest first.
func (s *ItemService) List(ctx context.Context, ownerID string) ([]model.Item, error) {
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list items",
			slog.String("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// Wash records one wash on the item and returns it with any newly earned
// achievements attached. The increment and the grants commit together.
func (s *ItemService) Wash(ctx context.Context, itemID, ownerID string) (*model.Item, error) {
	item, unlocked, err := s.items.RecordWash(ctx, itemID, ownerID)
	if err != nil {
		return nil, err
	}

	washesRecorded.Inc()
	for _, badge := range unlocked {
		achievementsUnlocked.WithLabelValues(string(badge.Tier)).Inc()
		s.logger.Info("achievement unlocked",
			slog.String("itemID", item.ID),
			slog.String("name", badge.Name),
			slog.String("tier", string(badge.Tier)),
			slog.Int("washCount", item.WashCount),
		)
	}

	return item, nil
}

// Retire marks the item retired. Safe to call twice — the retirement
// timestamp is set only on the first call.
func (s *ItemService) Retire(ctx context.Context, itemID, ownerID string) (*model.Item, error) {
	item, err := s.items.Retire(ctx, itemID, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item retired",
		slog.String("id", item.ID),
		slog.String("userID", ownerID),
	)

	return item, nil
}

// Delete removes the item and, transitively, its achievements.
func (s *ItemService) Delete(ctx context.Context, itemID, ownerID string) error {
	if err := s.items.Delete(ctx, itemID, ownerID); err != nil {
		return err
	}

	s.logger.Info("item deleted",
		slog.String("id", itemID),
		slog.String("userID", ownerID),
	)
	return nil
}

// Leaderboard returns every item across all users, newest first, with
// owner summaries and achievements. Intentionally public — no caller
// identity required.
func (s *ItemService) Leaderboard(ctx context.Context) ([]model.Item, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load leaderboard", slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}
	return items, nil
}

// validHexColor accepts "#RGB" or "#RRGGBB".
func validHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
