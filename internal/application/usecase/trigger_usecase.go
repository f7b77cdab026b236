package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/entity"
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/repository"
	"github.com/rmarinho/aws-ci-trigger-go/internal/shared/types"
)

// TriggerUseCase handles loading, inspecting and verifying the CI trigger table.
type TriggerUseCase struct {
	tableRepo  repository.TableRepository
	awsRepo    repository.AWSRepository
	exportRepo repository.ExportRepository
	console    types.ConsoleInterface
}

// NewTriggerUseCase creates a new trigger use case.
func NewTriggerUseCase(
	tableRepo repository.TableRepository,
	awsRepo repository.AWSRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
) *TriggerUseCase {
	return &TriggerUseCase{
		tableRepo:  tableRepo,
		awsRepo:    awsRepo,
		exportRepo: exportRepo,
		console:    console,
	}
}

// LoadTable carrega e valida a tabela de triggers apontada pelos argumentos.
func (uc *TriggerUseCase) LoadTable(args *types.CLIArgs) (*entity.TriggerTable, error) {
	if args.ConfigFile == "" {
		return nil, types.ErrNoConfigFile
	}

	table, err := uc.tableRepo.LoadTable(args.ConfigFile)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// RunValidate valida a tabela e reporta cada violação encontrada.
func (uc *TriggerUseCase) RunValidate(args *types.CLIArgs) error {
	table, err := uc.LoadTable(args)
	if err != nil {
		if validationErr, ok := err.(*entity.ValidationError); ok {
			uc.console.LogError("Trigger table %s is invalid:", args.ConfigFile)
			for _, issue := range validationErr.Issues {
				uc.console.LogError("  %s", issue.String())
			}
		}
		return err
	}

	uc.console.LogSuccess(
		"Trigger table %s is valid: %d profile(s), %d command(s)",
		args.ConfigFile, len(table.Profiles), len(table.Commands),
	)
	return nil
}

// RunList exibe os perfis e comandos da tabela.
func (uc *TriggerUseCase) RunList(args *types.CLIArgs) error {
	table, err := uc.LoadTable(args)
	if err != nil {
		return err
	}

	profileTable := uc.console.CreateTable()
	profileTable.AddColumn("Profile")
	profileTable.AddColumn("Region")
	profileTable.AddColumn("Image ID")
	profileTable.AddColumn("Instance Type")
	for _, name := range table.ProfileNames() {
		profile := table.Profiles[name]
		profileTable.AddRow(name, profile.Region, profile.ImageID, profile.InstanceType)
	}

	commandTable := uc.console.CreateTable()
	commandTable.AddColumn("Command")
	commandTable.AddColumn("Workflow")
	commandTable.AddColumn("Profile")
	commandTable.AddColumn("Check Run Name")
	for _, name := range table.CommandNames() {
		command := table.Commands[name]
		commandTable.AddRow(name, command.Workflow, command.Profile, command.CheckRunName)
	}

	uc.console.Println(profileTable.Render())
	uc.console.Println(commandTable.Render())
	return nil
}

// RunResolve resolve um comando para o workflow e o perfil de execução completo.
func (uc *TriggerUseCase) RunResolve(args *types.CLIArgs) error {
	table, err := uc.LoadTable(args)
	if err != nil {
		return err
	}

	resolved, err := table.ResolveCommand(args.CommandName)
	if err != nil {
		return err
	}

	detailTable := uc.console.CreateTable()
	detailTable.AddColumn("Field")
	detailTable.AddColumn("Value")
	detailTable.AddRow("Command", resolved.Command.Name)
	detailTable.AddRow("Workflow", resolved.Command.Workflow)
	detailTable.AddRow("Check Run Name", resolved.Command.CheckRunName)
	detailTable.AddRow("Profile", resolved.Profile.Name)
	detailTable.AddRow("Region", resolved.Profile.Region)
	detailTable.AddRow("Image ID", resolved.Profile.ImageID)
	detailTable.AddRow("Instance Type", resolved.Profile.InstanceType)

	uc.console.Println(detailTable.Render())
	return nil
}

// RunFmt re-serializa a tabela no formato TOML canônico.
func (uc *TriggerUseCase) RunFmt(args *types.CLIArgs) error {
	table, err := uc.LoadTable(args)
	if err != nil {
		return err
	}

	if args.Write {
		if err := uc.tableRepo.SaveTable(table, args.ConfigFile); err != nil {
			return err
		}
		uc.console.LogSuccess("Rewrote %s in canonical form", args.ConfigFile)
		return nil
	}

	data, err := uc.tableRepo.SerializeTable(table)
	if err != nil {
		return err
	}
	uc.console.Print(string(data))
	return nil
}

// RunExport exporta a tabela nos formatos solicitados, com upload opcional para o S3.
func (uc *TriggerUseCase) RunExport(ctx context.Context, args *types.CLIArgs) error {
	table, err := uc.LoadTable(args)
	if err != nil {
		return err
	}

	reportName := args.ReportName
	if reportName == "" {
		reportName = "trigger_table"
	}

	var exportedFiles []string
	for _, reportType := range args.ReportType {
		var path string
		var exportErr error
		switch reportType {
		case "csv":
			path, exportErr = uc.exportRepo.ExportTableToCSV(table, reportName, args.Dir)
		case "json":
			path, exportErr = uc.exportRepo.ExportTableToJSON(table, reportName, args.Dir)
		case "pdf":
			path, exportErr = uc.exportRepo.ExportTableToPDF(table, reportName, args.Dir)
		default:
			return fmt.Errorf("%w: %s", types.ErrUnsupportedReportFmt, reportType)
		}

		if exportErr != nil {
			uc.console.LogError("Failed to export to %s: %s", reportType, exportErr)
			continue
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", reportType, path)
		exportedFiles = append(exportedFiles, path)
	}

	if len(exportedFiles) == 0 && len(args.ReportType) > 0 {
		return types.ErrExportFailed
	}

	if args.S3Bucket != "" {
		awsProfile, err := uc.resolveAWSProfile(args)
		if err != nil {
			return err
		}
		for _, path := range exportedFiles {
			key := filepath.Base(path)
			if args.S3Prefix != "" {
				key = args.S3Prefix + "/" + key
			}
			location, err := uc.awsRepo.UploadReportToS3(ctx, awsProfile, args.S3Bucket, key, path)
			if err != nil {
				uc.console.LogError("Failed to upload report: %s", err)
				continue
			}
			uc.console.LogSuccess("Uploaded report to %s", location)
		}
	}

	return nil
}

// RunVerify checa cada perfil da tabela contra a AWS: região habilitada,
// AMI existente na região e tipo de instância ofertado nela.
func (uc *TriggerUseCase) RunVerify(ctx context.Context, args *types.CLIArgs) error {
	table, err := uc.LoadTable(args)
	if err != nil {
		return err
	}

	profilesToVerify := uc.filterProfiles(table, args.Regions)
	if len(profilesToVerify) == 0 {
		return types.ErrNoMatchingProfiles
	}

	awsProfile, err := uc.resolveAWSProfile(args)
	if err != nil {
		return err
	}

	report := &entity.VerificationReport{AWSProfile: awsProfile}

	status := uc.console.Status("Fetching AWS account context...")
	accountID, err := uc.awsRepo.GetAccountID(ctx, awsProfile)
	if err != nil {
		uc.console.LogWarning("Could not determine account ID for profile %s: %s", awsProfile, err)
	} else {
		report.AccountID = accountID
		status.Update(fmt.Sprintf("Verifying against account %s...", accountID))
	}

	accessibleRegions, err := uc.awsRepo.GetAccessibleRegions(ctx, awsProfile)
	status.Stop()
	if err != nil {
		return err
	}
	regionSet := make(map[string]bool, len(accessibleRegions))
	for _, region := range accessibleRegions {
		regionSet[region] = true
	}

	progress := uc.console.ProgressWithTotal(len(profilesToVerify))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, profile := range profilesToVerify {
		wg.Add(1)
		go func(p entity.Profile) {
			defer wg.Done()
			result := uc.verifyProfile(ctx, awsProfile, p, regionSet)
			mu.Lock()
			report.Results = append(report.Results, result)
			mu.Unlock()
			progress.Increment()
		}(profile)
	}
	wg.Wait()
	progress.Stop()

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Profile < report.Results[j].Profile
	})

	uc.renderVerificationTable(report)

	if args.ReportName != "" && len(args.ReportType) > 0 {
		uc.exportVerificationReport(report, args)
	}

	if !report.AllPassed() {
		return fmt.Errorf("%w: %d of %d failed", types.ErrVerificationFailed, report.FailedCount(), len(report.Results))
	}
	uc.console.LogSuccess("All %d profile(s) verified successfully", len(report.Results))
	return nil
}

// verifyProfile executa as três checagens de um perfil. Uma região não habilitada
// curto-circuita as checagens regionais.
func (uc *TriggerUseCase) verifyProfile(
	ctx context.Context,
	awsProfile string,
	profile entity.Profile,
	accessibleRegions map[string]bool,
) entity.ProfileVerification {
	result := entity.ProfileVerification{
		Profile:      profile.Name,
		Region:       profile.Region,
		ImageID:      profile.ImageID,
		InstanceType: profile.InstanceType,
	}

	result.RegionOK = accessibleRegions[profile.Region]
	if !result.RegionOK {
		return result
	}

	imageName, found, err := uc.awsRepo.VerifyImage(ctx, awsProfile, profile.Region, profile.ImageID)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.ImageOK = found
	result.ImageName = imageName

	offered, err := uc.awsRepo.VerifyInstanceTypeOffering(ctx, awsProfile, profile.Region, profile.InstanceType)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.InstanceTypeOK = offered

	return result
}

// filterProfiles aplica o filtro de regiões aos perfis da tabela, em ordem de nome.
func (uc *TriggerUseCase) filterProfiles(table *entity.TriggerTable, regions []string) []entity.Profile {
	regionFilter := make(map[string]bool, len(regions))
	for _, region := range regions {
		regionFilter[region] = true
	}

	profiles := make([]entity.Profile, 0, len(table.Profiles))
	for _, name := range table.ProfileNames() {
		profile := table.Profiles[name]
		if len(regionFilter) > 0 && !regionFilter[profile.Region] {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles
}

// resolveAWSProfile decide qual perfil de credenciais AWS usar.
func (uc *TriggerUseCase) resolveAWSProfile(args *types.CLIArgs) (string, error) {
	availableProfiles := uc.awsRepo.GetAWSProfiles()
	if len(availableProfiles) == 0 {
		return "", types.ErrNoProfilesFound
	}

	if args.AWSProfile != "" {
		for _, profile := range availableProfiles {
			if profile == args.AWSProfile {
				return profile, nil
			}
		}
		return "", fmt.Errorf("%w: %s", types.ErrAWSProfileNotFound, args.AWSProfile)
	}

	for _, profile := range availableProfiles {
		if profile == "default" {
			return "default", nil
		}
	}

	uc.console.LogWarning("No default AWS profile found. Using profile %q.", availableProfiles[0])
	return availableProfiles[0], nil
}

func (uc *TriggerUseCase) renderVerificationTable(report *entity.VerificationReport) {
	table := uc.console.CreateTable()
	table.AddColumn("Profile")
	table.AddColumn("Region")
	table.AddColumn("Image")
	table.AddColumn("Instance Type")
	table.AddColumn("Status")

	for _, result := range report.Results {
		status := pterm.FgGreen.Sprint("PASS")
		if !result.Passed() {
			status = pterm.FgRed.Sprint("FAIL")
		}
		table.AddRow(
			result.Profile,
			verificationCell(result.Region, result.RegionOK),
			verificationCell(result.ImageID, result.ImageOK),
			verificationCell(result.InstanceType, result.InstanceTypeOK),
			status,
		)
	}

	uc.console.Println(table.Render())

	for _, result := range report.Results {
		if result.Error != "" {
			uc.console.LogError("%s: %s", result.Profile, result.Error)
		}
	}
}

func (uc *TriggerUseCase) exportVerificationReport(report *entity.VerificationReport, args *types.CLIArgs) {
	for _, reportType := range args.ReportType {
		var path string
		var err error
		switch reportType {
		case "csv":
			path, err = uc.exportRepo.ExportVerificationToCSV(report, args.ReportName, args.Dir)
		case "json":
			path, err = uc.exportRepo.ExportVerificationToJSON(report, args.ReportName, args.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportVerificationToPDF(report, args.ReportName, args.Dir)
		default:
			uc.console.LogError("Unsupported report type: %s", reportType)
			continue
		}

		if err != nil {
			uc.console.LogError("Failed to export verification report to %s: %s", reportType, err)
			continue
		}
		uc.console.LogSuccess("Successfully exported verification report to %s: %s", reportType, path)
	}
}

func verificationCell(value string, ok bool) string {
	if ok {
		return value
	}
	return pterm.FgRed.Sprintf("%s (not found)", value)
}
