package repository

import (
	"gorm.io/gorm"

	"github.com/algoprep/backend/internal/domain"
)

// taxonomyRepository implements domain.TaxonomyRepository using GORM
type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new taxonomy repository
func NewTaxonomyRepository(db *gorm.DB) domain.TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

// FindAllTopics returns all topics ordered by name
func (r *taxonomyRepository) FindAllTopics() ([]domain.Topic, error) {
	var topics []domain.Topic
	result := r.db.Order("name ASC").Find(&topics)
	return topics, result.Error
}

// FindAllPatterns returns all patterns ordered by name
func (r *taxonomyRepository) FindAllPatterns() ([]domain.Pattern, error) {
	var patterns []domain.Pattern
	result := r.db.Order("name ASC").Find(&patterns)
	return patterns, result.Error
}

// CreateTopics inserts topics in a single batch
func (r *taxonomyRepository) CreateTopics(topics []domain.Topic) error {
	return r.db.CreateInBatches(topics, 50).Error
}

// CreatePatterns inserts patterns in a single batch
func (r *taxonomyRepository) CreatePatterns(patterns []domain.Pattern) error {
	return r.db.CreateInBatches(patterns, 50).Error
}

// CountTopics returns the number of stored topics
func (r *taxonomyRepository) CountTopics() (int64, error) {
	var count int64
	result := r.db.Model(&domain.Topic{}).Count(&count)
	return count, result.Error
}

// CountPatterns returns the number of stored patterns
func (r *taxonomyRepository) CountPatterns() (int64, error) {
	var count int64
	result := r.db.Model(&domain.Pattern{}).Count(&count)
	return count, result.Error
}
