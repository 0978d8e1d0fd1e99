package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/sparkloop/backend/internal/entity"
	"github.com/sparkloop/backend/pkg/xcontext"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type Migrator func(context.Context) error

var Migrators = map[int]Migrator{
	0: migrate0000,
}

// Migrate runs, in order, every migrator whose version is not recorded yet. A
// fresh database only runs version 0, it already has the latest schema.
func Migrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if !db.Migrator().HasTable(&entity.Migration{}) {
		if err := migrate0000(ctx); err != nil {
			return err
		}

		return markAll(ctx)
	}

	var last entity.Migration
	err := db.Order("version DESC").Take(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		last.Version = -1
	}

	for _, version := range sortedVersions() {
		if version <= last.Version {
			continue
		}

		xcontext.Logger(ctx).Infof("Migrate database to version %d", version)
		if err := Migrators[version](ctx); err != nil {
			return fmt.Errorf("migrate version %d: %w", version, err)
		}

		if err := db.Create(&entity.Migration{Version: version}).Error; err != nil {
			return err
		}
	}

	return nil
}

func markAll(ctx context.Context) error {
	versions := sortedVersions()
	records := make([]entity.Migration, 0, len(versions))
	for _, v := range versions {
		records = append(records, entity.Migration{Version: v})
	}

	return xcontext.DB(ctx).Create(&records).Error
}

func sortedVersions() []int {
	versions := maps.Keys(Migrators)
	slices.Sort(versions)
	return versions
}
