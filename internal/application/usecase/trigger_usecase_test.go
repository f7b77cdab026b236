package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmarinho/aws-ci-trigger-go/internal/adapter/driven/config"
	"github.com/rmarinho/aws-ci-trigger-go/internal/adapter/driven/export"
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/entity"
	"github.com/rmarinho/aws-ci-trigger-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[profile.cpu-small]
region        = "eu-west-1"
image_id      = "ami-0f4bdd5b24a212a33"
instance_type = "m6i.4xlarge"

[profile.cpu-big]
region        = "eu-west-3"
image_id      = "ami-036932a3c92b2f502"
instance_type = "m6i.32xlarge"

[command.cpu_test]
workflow        = "cpu_tests.yml"
profile         = "cpu-big"
check_run_name  = "CPU Tests (cpu-big)"
`

// --- Fakes ---

type fakeAWSRepository struct {
	profiles     []string
	accountID    string
	regions      []string
	knownImages  map[string]string // region/imageID -> nome da imagem
	offeredTypes map[string]bool   // region/instanceType
	uploadedKeys []string
	imageErr     error
	regionsErr   error
}

func (f *fakeAWSRepository) GetAWSProfiles() []string { return f.profiles }

func (f *fakeAWSRepository) GetAccountID(ctx context.Context, profile string) (string, error) {
	if f.accountID == "" {
		return "", errors.New("no credentials")
	}
	return f.accountID, nil
}

func (f *fakeAWSRepository) GetAccessibleRegions(ctx context.Context, profile string) ([]string, error) {
	return f.regions, f.regionsErr
}

func (f *fakeAWSRepository) VerifyImage(ctx context.Context, profile, region, imageID string) (string, bool, error) {
	if f.imageErr != nil {
		return "", false, f.imageErr
	}
	name, ok := f.knownImages[region+"/"+imageID]
	return name, ok, nil
}

func (f *fakeAWSRepository) VerifyInstanceTypeOffering(ctx context.Context, profile, region, instanceType string) (bool, error) {
	return f.offeredTypes[region+"/"+instanceType], nil
}

func (f *fakeAWSRepository) UploadReportToS3(ctx context.Context, profile, bucket, key, filePath string) (string, error) {
	f.uploadedKeys = append(f.uploadedKeys, key)
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

type quietConsole struct {
	errors    []string
	successes []string
}

func (c *quietConsole) Print(a ...interface{})                  {}
func (c *quietConsole) Printf(format string, a ...interface{})  {}
func (c *quietConsole) Println(a ...interface{})                {}
func (c *quietConsole) LogInfo(format string, a ...interface{}) {}
func (c *quietConsole) LogWarning(format string, a ...interface{}) {
}
func (c *quietConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}
func (c *quietConsole) LogSuccess(format string, a ...interface{}) {
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}
func (c *quietConsole) Status(message string) types.StatusHandle     { return &noopHandle{} }
func (c *quietConsole) ProgressWithTotal(total int) types.ProgressHandle {
	return &noopHandle{}
}
func (c *quietConsole) CreateTable() types.TableInterface { return &noopTable{} }

type noopHandle struct{}

func (h *noopHandle) Update(message string) {}
func (h *noopHandle) Increment()            {}
func (h *noopHandle) Stop()                 {}

type noopTable struct{}

func (t *noopTable) AddColumn(name string, options ...interface{}) {}
func (t *noopTable) AddRow(cells ...interface{})                   {}
func (t *noopTable) Render() string                                { return "" }

// --- Helpers ---

func writeSampleTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triggers.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0644))
	return path
}

func newTestUseCase(awsRepo *fakeAWSRepository) (*TriggerUseCase, *quietConsole) {
	consoleFake := &quietConsole{}
	uc := NewTriggerUseCase(
		config.NewTableRepository(),
		awsRepo,
		export.NewExportRepository(),
		consoleFake,
	)
	return uc, consoleFake
}

func passingAWSRepository() *fakeAWSRepository {
	return &fakeAWSRepository{
		profiles:  []string{"default"},
		accountID: "123456789012",
		regions:   []string{"eu-west-1", "eu-west-3"},
		knownImages: map[string]string{
			"eu-west-3/ami-036932a3c92b2f502": "ci-runner-big",
			"eu-west-1/ami-0f4bdd5b24a212a33": "ci-runner-small",
		},
		offeredTypes: map[string]bool{
			"eu-west-3/m6i.32xlarge": true,
			"eu-west-1/m6i.4xlarge":  true,
		},
	}
}

// --- Tests ---

func TestRunValidate(t *testing.T) {
	uc, consoleFake := newTestUseCase(passingAWSRepository())

	err := uc.RunValidate(&types.CLIArgs{ConfigFile: writeSampleTable(t)})
	require.NoError(t, err)
	require.Len(t, consoleFake.successes, 1)
	assert.Contains(t, consoleFake.successes[0], "2 profile(s), 1 command(s)")
}

func TestRunValidateReportsEachIssue(t *testing.T) {
	uc, consoleFake := newTestUseCase(passingAWSRepository())

	path := filepath.Join(t.TempDir(), "triggers.toml")
	broken := sampleTOML + `
[command.gpu_test]
workflow        = "gpu_tests.yml"
profile         = "gpu-big"
check_run_name  = "GPU Tests"
`
	require.NoError(t, os.WriteFile(path, []byte(broken), 0644))

	err := uc.RunValidate(&types.CLIArgs{ConfigFile: path})
	require.Error(t, err)

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, consoleFake.errors)
}

func TestLoadTableRequiresConfigFile(t *testing.T) {
	uc, _ := newTestUseCase(passingAWSRepository())

	_, err := uc.LoadTable(&types.CLIArgs{})
	assert.ErrorIs(t, err, types.ErrNoConfigFile)
}

func TestRunResolveUnknownCommand(t *testing.T) {
	uc, _ := newTestUseCase(passingAWSRepository())

	err := uc.RunResolve(&types.CLIArgs{
		ConfigFile:  writeSampleTable(t),
		CommandName: "gpu_test",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not declared in the trigger table")
}

func TestRunVerifyAllPassing(t *testing.T) {
	uc, consoleFake := newTestUseCase(passingAWSRepository())

	err := uc.RunVerify(context.Background(), &types.CLIArgs{ConfigFile: writeSampleTable(t)})
	require.NoError(t, err)
	require.NotEmpty(t, consoleFake.successes)
	assert.Contains(t, consoleFake.successes[len(consoleFake.successes)-1], "All 2 profile(s) verified")
}

func TestRunVerifyFailsOnMissingImage(t *testing.T) {
	awsRepo := passingAWSRepository()
	delete(awsRepo.knownImages, "eu-west-3/ami-036932a3c92b2f502")
	uc, _ := newTestUseCase(awsRepo)

	err := uc.RunVerify(context.Background(), &types.CLIArgs{ConfigFile: writeSampleTable(t)})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrVerificationFailed)
	assert.Contains(t, err.Error(), "1 of 2 failed")
}

func TestRunVerifyFailsOnDisabledRegion(t *testing.T) {
	awsRepo := passingAWSRepository()
	awsRepo.regions = []string{"eu-west-1"} // eu-west-3 não habilitada
	uc, _ := newTestUseCase(awsRepo)

	err := uc.RunVerify(context.Background(), &types.CLIArgs{ConfigFile: writeSampleTable(t)})
	assert.ErrorIs(t, err, types.ErrVerificationFailed)
}

func TestRunVerifyRecordsImageAPIError(t *testing.T) {
	awsRepo := passingAWSRepository()
	awsRepo.imageErr = errors.New("RequestLimitExceeded")
	uc, consoleFake := newTestUseCase(awsRepo)

	err := uc.RunVerify(context.Background(), &types.CLIArgs{ConfigFile: writeSampleTable(t)})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrVerificationFailed)

	// O erro de API de cada perfil é reportado individualmente.
	require.NotEmpty(t, consoleFake.errors)
	assert.Contains(t, consoleFake.errors[0], "RequestLimitExceeded")
}

func TestRunVerifyFailsWhenRegionsUnavailable(t *testing.T) {
	awsRepo := passingAWSRepository()
	awsRepo.regionsErr = errors.New("AccessDenied: ec2:DescribeRegions")
	uc, _ := newTestUseCase(awsRepo)

	err := uc.RunVerify(context.Background(), &types.CLIArgs{ConfigFile: writeSampleTable(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestRunVerifyRegionFilter(t *testing.T) {
	awsRepo := passingAWSRepository()
	// Quebra o perfil fora do filtro; não deve ser verificado.
	delete(awsRepo.knownImages, "eu-west-1/ami-0f4bdd5b24a212a33")
	uc, consoleFake := newTestUseCase(awsRepo)

	err := uc.RunVerify(context.Background(), &types.CLIArgs{
		ConfigFile: writeSampleTable(t),
		Regions:    []string{"eu-west-3"},
	})
	require.NoError(t, err)
	assert.Contains(t, consoleFake.successes[len(consoleFake.successes)-1], "All 1 profile(s) verified")
}

func TestRunVerifyNoMatchingProfiles(t *testing.T) {
	uc, _ := newTestUseCase(passingAWSRepository())

	err := uc.RunVerify(context.Background(), &types.CLIArgs{
		ConfigFile: writeSampleTable(t),
		Regions:    []string{"sa-east-1"},
	})
	assert.ErrorIs(t, err, types.ErrNoMatchingProfiles)
}

func TestRunVerifyUnknownAWSProfile(t *testing.T) {
	uc, _ := newTestUseCase(passingAWSRepository())

	err := uc.RunVerify(context.Background(), &types.CLIArgs{
		ConfigFile: writeSampleTable(t),
		AWSProfile: "staging",
	})
	assert.ErrorIs(t, err, types.ErrAWSProfileNotFound)
}

func TestRunExportWritesAndUploads(t *testing.T) {
	awsRepo := passingAWSRepository()
	uc, consoleFake := newTestUseCase(awsRepo)

	outputDir := t.TempDir()
	err := uc.RunExport(context.Background(), &types.CLIArgs{
		ConfigFile: writeSampleTable(t),
		ReportType: []string{"csv", "json"},
		Dir:        outputDir,
		S3Bucket:   "ci-reports",
		S3Prefix:   "triggers",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.Len(t, awsRepo.uploadedKeys, 2)
	for _, key := range awsRepo.uploadedKeys {
		assert.Contains(t, key, "triggers/")
	}
	assert.NotEmpty(t, consoleFake.successes)
}

func TestRunExportFailsWhenNothingExported(t *testing.T) {
	uc, _ := newTestUseCase(passingAWSRepository())

	// Um arquivo comum no lugar do diretório de saída faz toda exportação falhar.
	blocked := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	err := uc.RunExport(context.Background(), &types.CLIArgs{
		ConfigFile: writeSampleTable(t),
		ReportType: []string{"csv", "json"},
		Dir:        blocked,
	})
	assert.ErrorIs(t, err, types.ErrExportFailed)
}

func TestRunExportRejectsUnknownType(t *testing.T) {
	uc, _ := newTestUseCase(passingAWSRepository())

	err := uc.RunExport(context.Background(), &types.CLIArgs{
		ConfigFile: writeSampleTable(t),
		ReportType: []string{"xlsx"},
	})
	assert.ErrorIs(t, err, types.ErrUnsupportedReportFmt)
}

func TestRunFmtWritesCanonicalForm(t *testing.T) {
	uc, consoleFake := newTestUseCase(passingAWSRepository())

	path := writeSampleTable(t)
	err := uc.RunFmt(&types.CLIArgs{ConfigFile: path, Write: true})
	require.NoError(t, err)
	require.NotEmpty(t, consoleFake.successes)

	// O arquivo reescrito continua sendo uma tabela válida e equivalente.
	table, err := config.NewTableRepository().LoadTable(path)
	require.NoError(t, err)
	assert.Len(t, table.Profiles, 2)
	assert.Len(t, table.Commands, 1)
}
