package repository

import (
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportTableToCSV(table *entity.TriggerTable, filename string, outputDir string) (string, error)
	ExportTableToJSON(table *entity.TriggerTable, filename string, outputDir string) (string, error)
	ExportTableToPDF(table *entity.TriggerTable, filename string, outputDir string) (string, error)

	ExportVerificationToCSV(report *entity.VerificationReport, filename string, outputDir string) (string, error)
	ExportVerificationToJSON(report *entity.VerificationReport, filename string, outputDir string) (string, error)
	ExportVerificationToPDF(report *entity.VerificationReport, filename string, outputDir string) (string, error)
}
