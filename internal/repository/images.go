package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type imageRow struct {
	ImageURLs datatypes.JSONSlice[string] `gorm:"column:image_urls"`
}

// lockImages reads the image list of a row and holds it for update.
func lockImages(tx *gorm.DB, table string, id uuid.UUID, notFound error) ([]string, error) {
	var row imageRow
	err := tx.Table(table).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("image_urls").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return []string(row.ImageURLs), nil
}

func saveImages(tx *gorm.DB, table string, id uuid.UUID, urls []string) error {
	if urls == nil {
		urls = []string{}
	}
	return tx.Table(table).Where("id = ?", id).Updates(map[string]any{
		"image_urls": datatypes.JSONSlice[string](urls),
		"updated_at": time.Now(),
	}).Error
}

// appendImages adds urls to the row's list unless that would exceed max.
// A max of zero or less disables the check.
func appendImages(tx *gorm.DB, table string, id uuid.UUID, urls []string, max int, notFound, limit error) error {
	current, err := lockImages(tx, table, id, notFound)
	if err != nil {
		return err
	}
	if max > 0 && len(current)+len(urls) > max {
		return limit
	}
	return saveImages(tx, table, id, append(current, urls...))
}

// removeImage drops url from the row's list.
func removeImage(tx *gorm.DB, table string, id uuid.UUID, url string, notFound, missing error) error {
	current, err := lockImages(tx, table, id, notFound)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(current))
	for _, u := range current {
		if u != url {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(current) {
		return missing
	}
	return saveImages(tx, table, id, kept)
}
