package data

import (
	"embed"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/algoprep/backend/internal/domain"
)

//go:embed seed_topics.json seed_patterns.json
var seedFS embed.FS

type seedEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Seeder populates the taxonomy tables from embedded seed data.
type Seeder struct {
	repo   domain.TaxonomyRepository
	logger *zap.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(repo domain.TaxonomyRepository, logger *zap.Logger) *Seeder {
	return &Seeder{repo: repo, logger: logger}
}

// Seed inserts topics and patterns if the tables are empty. It is safe
// to call on every startup.
func (s *Seeder) Seed() error {
	if err := s.seedTopics(); err != nil {
		return err
	}
	return s.seedPatterns()
}

func (s *Seeder) seedTopics() error {
	count, err := s.repo.CountTopics()
	if err != nil {
		return fmt.Errorf("failed to count topics: %w", err)
	}
	if count > 0 {
		s.logger.Debug("topics already seeded", zap.Int64("count", count))
		return nil
	}

	entries, err := loadSeed("seed_topics.json")
	if err != nil {
		return err
	}
	topics := make([]domain.Topic, len(entries))
	for i, e := range entries {
		topics[i] = domain.Topic{Name: e.Name, Description: e.Description}
	}
	if err := s.repo.CreateTopics(topics); err != nil {
		return fmt.Errorf("failed to seed topics: %w", err)
	}
	s.logger.Info("seeded topics", zap.Int("count", len(topics)))
	return nil
}

func (s *Seeder) seedPatterns() error {
	count, err := s.repo.CountPatterns()
	if err != nil {
		return fmt.Errorf("failed to count patterns: %w", err)
	}
	if count > 0 {
		s.logger.Debug("patterns already seeded", zap.Int64("count", count))
		return nil
	}

	entries, err := loadSeed("seed_patterns.json")
	if err != nil {
		return err
	}
	patterns := make([]domain.Pattern, len(entries))
	for i, e := range entries {
		patterns[i] = domain.Pattern{Name: e.Name, Description: e.Description}
	}
	if err := s.repo.CreatePatterns(patterns); err != nil {
		return fmt.Errorf("failed to seed patterns: %w", err)
	}
	s.logger.Info("seeded patterns", zap.Int("count", len(patterns)))
	return nil
}

func loadSeed(name string) ([]seedEntry, error) {
	raw, err := seedFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded seed %s: %w", name, err)
	}
	var entries []seedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse embedded seed %s: %w", name, err)
	}
	return entries, nil
}
