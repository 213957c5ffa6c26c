package config

import (
	"fmt"

	"barbertrack-backend/models"
	"barbertrack-backend/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultServiceTypes is the catalog a new shop starts with.
var DefaultServiceTypes = []models.ServiceType{
	{Name: "Haircut", DisplayOrder: 1, IsActive: true},
	{Name: "Shave", DisplayOrder: 2, IsActive: true},
	{Name: "Beard Trim", DisplayOrder: 3, IsActive: true},
	{Name: "Hair Wash", DisplayOrder: 4, IsActive: true},
	{Name: "Coloring", DisplayOrder: 5, IsActive: true},
}

// SeedServiceTypes inserts the default catalog, leaving existing names alone.
func SeedServiceTypes(db *gorm.DB) error {
	for _, st := range DefaultServiceTypes {
		st := st
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&st).Error; err != nil {
			return fmt.Errorf("seed service type %q: %w", st.Name, err)
		}
	}
	return nil
}

func SeedMemory(store *repository.MemoryStore) {
	for _, st := range DefaultServiceTypes {
		store.SeedServiceType(st)
	}
}
