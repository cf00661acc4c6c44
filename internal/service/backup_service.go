package service

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"brightsteps/internal/models"
	"brightsteps/internal/progress"
	"brightsteps/internal/repository"
)

// BackupService exports and imports progress documents as JSON files.
type BackupService struct {
	kidRepo      *repository.KidRepository
	progressRepo *repository.ProgressRepository
}

// NewBackupService creates a new backup service.
func NewBackupService(kidRepo *repository.KidRepository, progressRepo *repository.ProgressRepository) *BackupService {
	return &BackupService{kidRepo: kidRepo, progressRepo: progressRepo}
}

// BackupData is the on-disk backup format. Kid profiles are included for
// reference; credentials are not exported.
type BackupData struct {
	Version    int                         `json:"version"`
	ExportedAt time.Time                   `json:"exportedAt"`
	Kids       []models.Kid                `json:"kids"`
	Progress   map[int64]progress.Document `json:"progress"`
}

// Export writes every kid profile and progress document to path.
func (s *BackupService) Export(path string) error {
	kids, err := s.kidRepo.GetAllKids()
	if err != nil {
		return fmt.Errorf("failed to export kids: %w", err)
	}

	docs, err := s.progressRepo.All()
	if err != nil {
		return fmt.Errorf("failed to export progress: %w", err)
	}

	data := BackupData{
		Version:    1,
		ExportedAt: time.Now(),
		Kids:       kids,
		Progress:   docs,
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// Import restores progress documents from a backup file. With clear set,
// existing documents for kids present in the backup are removed first;
// either way each imported document fully replaces the stored one.
func (s *BackupService) Import(path string, clear bool) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup file: %w", err)
	}

	var data BackupData
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, fmt.Errorf("failed to decode backup file: %w", err)
	}
	if data.Version != 1 {
		return 0, fmt.Errorf("unsupported backup version %d", data.Version)
	}

	if clear {
		for kidID := range data.Progress {
			if err := s.progressRepo.Delete(kidID); err != nil {
				return 0, fmt.Errorf("failed to clear progress for kid %d: %w", kidID, err)
			}
		}
	}

	imported := 0
	for kidID, doc := range data.Progress {
		if err := s.progressRepo.Save(kidID, doc.Normalize()); err != nil {
			return imported, fmt.Errorf("failed to import progress for kid %d: %w", kidID, err)
		}
		imported++
	}

	return imported, nil
}
