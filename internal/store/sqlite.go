package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database at path and migrates the
// schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Diet{}, &Prediction{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateDiet(ctx context.Context, diet *Diet) error {
	if diet.ID == "" {
		diet.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Create(diet).Error
}

func (s *SQLiteStore) GetDiet(ctx context.Context, dietID string) (*Diet, error) {
	var diet Diet
	err := s.db.WithContext(ctx).First(&diet, "id = ?", dietID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &diet, nil
}

func (s *SQLiteStore) UpdateDiet(ctx context.Context, diet *Diet) error {
	result := s.db.WithContext(ctx).Model(&Diet{}).Where("id = ?", diet.ID).Updates(map[string]any{
		"name":          diet.Name,
		"corn_ratio":    diet.CornRatio,
		"soybean_ratio": diet.SoybeanRatio,
		"alfalfa_ratio": diet.AlfalfaRatio,
		"other_ratio":   diet.OtherRatio,
		"composition":   diet.Composition,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteDiet(ctx context.Context, dietID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Prediction{}, "diet_id = ?", dietID).Error; err != nil {
			return err
		}
		result := tx.Delete(&Diet{}, "id = ?", dietID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *SQLiteStore) ListDiets(ctx context.Context) ([]*Diet, error) {
	var diets []*Diet
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&diets).Error
	return diets, err
}

func (s *SQLiteStore) CreatePrediction(ctx context.Context, prediction *Prediction) error {
	if prediction.ID == "" {
		prediction.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Create(prediction).Error
}

func (s *SQLiteStore) ListPredictions(ctx context.Context, dietID string) ([]*Prediction, error) {
	var predictions []*Prediction
	err := s.db.WithContext(ctx).Where("diet_id = ?", dietID).Order("created_at desc").Find(&predictions).Error
	return predictions, err
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
