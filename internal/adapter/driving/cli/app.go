package cli

import (
	"context"

	"github.com/rmarinho/aws-ci-trigger-go/pkg/version"

	"github.com/rmarinho/aws-ci-trigger-go/internal/application/usecase"
	"github.com/rmarinho/aws-ci-trigger-go/internal/shared/types"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd        *cobra.Command
	triggerUseCase *usecase.TriggerUseCase
	version        string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "ci-trigger",
		Short:   "AWS CI Trigger table toolkit",
		Long:    "Load, validate, inspect and verify the CI trigger table that maps operator commands to GitHub Actions workflows and AWS runner profiles.",
		Version: formattedVersion,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS CI Trigger version: %s\n" .Version}}`)

	// Flags compartilhadas por todos os subcomandos
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to the trigger table file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().StringP("aws-profile", "p", "", "AWS credentials profile to use for verification and upload")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Base name for exported report files (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", nil, "Report types to export: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	rootCmd.AddCommand(
		app.newValidateCommand(),
		app.newListCommand(),
		app.newResolveCommand(),
		app.newVerifyCommand(),
		app.newExportCommand(),
		app.newFmtCommand(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetTriggerUseCase sets the trigger use case for the CLI app.
func (app *CLIApp) SetTriggerUseCase(useCase *usecase.TriggerUseCase) {
	app.triggerUseCase = useCase
}

func (app *CLIApp) newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the trigger table schema and referential integrity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			return app.triggerUseCase.RunValidate(cliArgs)
		},
	}
}

func (app *CLIApp) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the declared infrastructure profiles and commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayWelcomeBanner(app.version)
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			return app.triggerUseCase.RunList(cliArgs)
		},
	}
}

func (app *CLIApp) newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <command>",
		Short: "Resolve a command to its workflow and runner profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			cliArgs.CommandName = args[0]
			return app.triggerUseCase.RunResolve(cliArgs)
		},
	}
}

func (app *CLIApp) newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify each profile against AWS (region, AMI, instance type)",
		RunE: func(cmd *cobra.Command, args []string) error {
			displayWelcomeBanner(app.version)

			// Verifica a versão mais recente disponível
			go version.CheckLatestVersion(app.version)

			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			ctx := context.Background()
			return app.triggerUseCase.RunVerify(ctx, cliArgs)
		},
	}
	cmd.Flags().StringSliceP("regions", "r", nil, "Only verify profiles declared in these regions (comma-separated)")
	return cmd
}

func (app *CLIApp) newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the trigger table as csv, json or pdf reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			if len(cliArgs.ReportType) == 0 {
				cliArgs.ReportType = []string{"csv"}
			}
			ctx := context.Background()
			return app.triggerUseCase.RunExport(ctx, cliArgs)
		},
	}
	cmd.Flags().String("s3-bucket", "", "Upload the exported reports to this S3 bucket")
	cmd.Flags().String("s3-prefix", "", "Key prefix for reports uploaded to S3")
	return cmd
}

func (app *CLIApp) newFmtCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Re-serialize the trigger table in canonical TOML form",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			return app.triggerUseCase.RunFmt(cliArgs)
		},
	}
	cmd.Flags().BoolP("write", "w", false, "Rewrite the table file in place instead of printing")
	return cmd
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	configFile, _ := cmd.Flags().GetString("config-file")
	awsProfile, _ := cmd.Flags().GetString("aws-profile")
	reportName, _ := cmd.Flags().GetString("report-name")
	reportType, _ := cmd.Flags().GetStringSlice("report-type")
	dir, _ := cmd.Flags().GetString("dir")

	args := &types.CLIArgs{
		ConfigFile: configFile,
		AWSProfile: awsProfile,
		ReportName: reportName,
		ReportType: reportType,
		Dir:        dir,
	}

	// Flags específicas de subcomandos; ausentes nos demais
	if cmd.Flags().Lookup("regions") != nil {
		args.Regions, _ = cmd.Flags().GetStringSlice("regions")
	}
	if cmd.Flags().Lookup("s3-bucket") != nil {
		args.S3Bucket, _ = cmd.Flags().GetString("s3-bucket")
		args.S3Prefix, _ = cmd.Flags().GetString("s3-prefix")
	}
	if cmd.Flags().Lookup("write") != nil {
		args.Write, _ = cmd.Flags().GetBool("write")
	}

	return args, nil
}
