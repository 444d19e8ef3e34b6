package ledger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"homeledger/internal/models"
	doc "homeledger/internal/repositories/docstore"
)

// SeedDefaultCategories loads the starter category set into an empty
// store. Installs that already have categories are left alone.
func SeedDefaultCategories(ctx context.Context, store doc.Store, path string, logger *logrus.Logger) error {
	existing, err := store.Query(ctx, models.CollectionCategories)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seed, err := models.LoadCategorySeed(path)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, cat := range seed {
		cat.CreatedAt = now
		if _, err := store.Create(ctx, models.CollectionCategories, cat.Document()); err != nil {
			return err
		}
	}

	logger.WithField("count", len(seed)).Info("seeded default categories")
	return nil
}
