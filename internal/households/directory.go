// Package households resolves household membership for the rest of
// the app.
package households

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"homeledger/internal/models"
	"homeledger/internal/repositories/docstore"
)

// Directory answers membership lookups. Reads hit the store once and
// are then served from a short TTL cache; membership mutations call
// Invalidate so the next lookup sees the new roster.
type Directory struct {
	store docstore.Store
	cache *gocache.Cache
}

func NewDirectory(store docstore.Store) *Directory {
	return &Directory{
		store: store,
		cache: gocache.New(time.Minute, 5*time.Minute),
	}
}

func (d *Directory) Household(ctx context.Context, householdID string) (models.Household, error) {
	if cached, ok := d.cache.Get(householdID); ok {
		return cached.(models.Household), nil
	}

	doc, err := d.store.Get(ctx, models.CollectionHouseholds, householdID)
	if err != nil {
		return models.Household{}, err
	}
	h, err := models.DecodeHousehold(doc)
	if err != nil {
		return models.Household{}, err
	}

	d.cache.SetDefault(householdID, h)
	return h, nil
}

// MembersOf returns every member of the household, owner first.
func (d *Directory) MembersOf(ctx context.Context, householdID string) ([]string, error) {
	h, err := d.Household(ctx, householdID)
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(h.MemberUserIDs)+1)
	members = append(members, h.OwnerUserID)
	for _, m := range h.MemberUserIDs {
		if m != h.OwnerUserID {
			members = append(members, m)
		}
	}
	return members, nil
}

func (d *Directory) OwnerOf(ctx context.Context, householdID string) (string, error) {
	h, err := d.Household(ctx, householdID)
	if err != nil {
		return "", err
	}
	return h.OwnerUserID, nil
}

// HouseholdsFor returns every household the user belongs to.
func (d *Directory) HouseholdsFor(ctx context.Context, userID string) ([]models.Household, error) {
	docs, err := d.store.Query(ctx, models.CollectionHouseholds,
		docstore.Contains("memberUserIds", userID))
	if err != nil {
		return nil, err
	}

	out := make([]models.Household, 0, len(docs))
	for _, doc := range docs {
		h, err := models.DecodeHousehold(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func (d *Directory) Invalidate(householdID string) {
	d.cache.Delete(householdID)
}
