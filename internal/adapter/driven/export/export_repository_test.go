package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *entity.TriggerTable {
	return &entity.TriggerTable{
		Profiles: map[string]entity.Profile{
			"cpu-big": {
				Name:         "cpu-big",
				Region:       "eu-west-3",
				ImageID:      "ami-036932a3c92b2f502",
				InstanceType: "m6i.32xlarge",
			},
		},
		Commands: map[string]entity.Command{
			"cpu_test": {
				Name:         "cpu_test",
				Workflow:     "cpu_tests.yml",
				Profile:      "cpu-big",
				CheckRunName: "CPU Tests (cpu-big)",
			},
		},
	}
}

func sampleReport() *entity.VerificationReport {
	return &entity.VerificationReport{
		AWSProfile: "default",
		AccountID:  "123456789012",
		Results: []entity.ProfileVerification{
			{
				Profile:        "cpu-big",
				Region:         "eu-west-3",
				RegionOK:       true,
				ImageID:        "ami-036932a3c92b2f502",
				ImageOK:        true,
				ImageName:      "ci-runner-big",
				InstanceType:   "m6i.32xlarge",
				InstanceTypeOK: true,
			},
			{
				Profile:      "gpu-big",
				Region:       "us-east-1",
				RegionOK:     true,
				ImageID:      "ami-00000000000000000",
				InstanceType: "p4d.24xlarge",
			},
		},
	}
}

func TestExportTableToCSV(t *testing.T) {
	repo := NewExportRepository()

	path, err := repo.ExportTableToCSV(sampleTable(), "trigger_table", t.TempDir())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".csv"))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"Command", "Workflow", "Check Run Name",
		"Profile", "Region", "Image ID", "Instance Type",
	}, records[0])
	assert.Equal(t, []string{
		"cpu_test", "cpu_tests.yml", "CPU Tests (cpu-big)",
		"cpu-big", "eu-west-3", "ami-036932a3c92b2f502", "m6i.32xlarge",
	}, records[1])
}

func TestExportTableToJSONRoundTrips(t *testing.T) {
	repo := NewExportRepository()

	table := sampleTable()
	path, err := repo.ExportTableToJSON(table, "trigger_table", t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded entity.TriggerTable
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, table.Profiles, decoded.Profiles)
	assert.Equal(t, table.Commands, decoded.Commands)
}

func TestExportTableToPDF(t *testing.T) {
	repo := NewExportRepository()

	path, err := repo.ExportTableToPDF(sampleTable(), "trigger_table", t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportVerificationToCSV(t *testing.T) {
	repo := NewExportRepository()

	path, err := repo.ExportVerificationToCSV(sampleReport(), "verification", t.TempDir())
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "PASS", records[1][8])
	assert.Equal(t, "FAIL", records[2][8])
}

func TestExportVerificationToJSON(t *testing.T) {
	repo := NewExportRepository()

	report := sampleReport()
	path, err := repo.ExportVerificationToJSON(report, "verification", t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded entity.VerificationReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.AccountID, decoded.AccountID)
	require.Len(t, decoded.Results, 2)
	assert.False(t, decoded.Results[1].Passed())
}

func TestGenerateFilenameCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/reports"

	path, err := generateFilename("report", dir, "csv")
	require.NoError(t, err)
	assert.Contains(t, path, "nested/reports")

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
