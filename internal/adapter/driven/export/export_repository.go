package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/entity"
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/repository"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// --- Funções de Exportação da Tabela de Triggers ---

func (r *ExportRepositoryImpl) ExportTableToCSV(table *entity.TriggerTable, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Command", "Workflow", "Check Run Name",
		"Profile", "Region", "Image ID", "Instance Type",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, name := range table.CommandNames() {
		resolved, err := table.ResolveCommand(name)
		if err != nil {
			return "", err
		}
		record := []string{
			resolved.Command.Name,
			resolved.Command.Workflow,
			resolved.Command.CheckRunName,
			resolved.Profile.Name,
			resolved.Profile.Region,
			resolved.Profile.ImageID,
			resolved.Profile.InstanceType,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportTableToJSON(table *entity.TriggerTable, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(table); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportTableToPDF(table *entity.TriggerTable, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf, tr := newReportPDF()

	pdf.AddPage()
	drawPageHeader(pdf, tr, "CI Trigger Table")

	drawSectionTitle(pdf, "Infrastructure Profiles")
	for _, name := range table.ProfileNames() {
		profile := table.Profiles[name]
		drawKeyValueBlock(pdf, tr, name, [][2]string{
			{"Region", profile.Region},
			{"Image ID", profile.ImageID},
			{"Instance Type", profile.InstanceType},
		})
	}

	drawSectionTitle(pdf, "Commands")
	for _, name := range table.CommandNames() {
		command := table.Commands[name]
		drawKeyValueBlock(pdf, tr, name, [][2]string{
			{"Workflow", command.Workflow},
			{"Profile", command.Profile},
			{"Check Run Name", command.CheckRunName},
		})
	}

	drawPageFooter(pdf, tr)

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções de Exportação do Relatório de Verificação ---

func (r *ExportRepositoryImpl) ExportVerificationToCSV(report *entity.VerificationReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating verification CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Profile", "Region", "Region OK",
		"Image ID", "Image OK", "Image Name",
		"Instance Type", "Instance Type OK",
		"Status", "Error",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, result := range report.Results {
		status := "PASS"
		if !result.Passed() {
			status = "FAIL"
		}
		record := []string{
			result.Profile,
			result.Region,
			fmt.Sprintf("%t", result.RegionOK),
			result.ImageID,
			fmt.Sprintf("%t", result.ImageOK),
			result.ImageName,
			result.InstanceType,
			fmt.Sprintf("%t", result.InstanceTypeOK),
			status,
			result.Error,
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportVerificationToJSON(report *entity.VerificationReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating verification JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding verification JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportVerificationToPDF(report *entity.VerificationReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf, tr := newReportPDF()

	pdf.AddPage()
	drawPageHeader(pdf, tr, "Profile Verification Report")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  AWS Profile: %s", report.AWSProfile)), "", 1, "L", true, 0, "")
	if report.AccountID != "" {
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Account ID: %s", report.AccountID)), "", 1, "L", true, 0, "")
	}
	pdf.Ln(8)

	for _, result := range report.Results {
		status := "PASS"
		if !result.Passed() {
			status = "FAIL"
		}

		details := [][2]string{
			{"Region", fmt.Sprintf("%s (%s)", result.Region, checkLabel(result.RegionOK))},
			{"Image", fmt.Sprintf("%s (%s)", result.ImageID, checkLabel(result.ImageOK))},
			{"Instance Type", fmt.Sprintf("%s (%s)", result.InstanceType, checkLabel(result.InstanceTypeOK))},
			{"Status", status},
		}
		if result.ImageName != "" {
			details = append(details, [2]string{"Image Name", result.ImageName})
		}
		if result.Error != "" {
			details = append(details, [2]string{"Error", result.Error})
		}
		drawKeyValueBlock(pdf, tr, result.Profile, details)
	}

	drawPageFooter(pdf, tr)

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing verification PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Helpers ---

func newReportPDF() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return pdf, tr
}

func drawPageHeader(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", title)), "", 1, "L", true, 0, "")
	pdf.Ln(4)
}

func drawSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, title)
	pdf.Ln(7)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(4)
}

func drawKeyValueBlock(pdf *gofpdf.Fpdf, tr func(string) string, name string, pairs [][2]string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(0, 6, tr(name), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, pair := range pairs {
		pdf.CellFormat(45, 5, tr("    "+pair[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(pair[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func drawPageFooter(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by AWS CI Trigger (Go) | %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")
}

func checkLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "not found"
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
