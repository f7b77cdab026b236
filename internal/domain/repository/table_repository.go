package repository

import (
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/entity"
)

// TableRepository defines the interface for loading and serializing trigger tables.
type TableRepository interface {
	LoadTable(filePath string) (*entity.TriggerTable, error)
	SerializeTable(table *entity.TriggerTable) ([]byte, error)
	SaveTable(table *entity.TriggerTable, filePath string) error
}
