package main

import (
	"fmt"
	"os"

	"github.com/rmarinho/aws-ci-trigger-go/internal/adapter/driven/aws"
	"github.com/rmarinho/aws-ci-trigger-go/internal/adapter/driven/config"
	"github.com/rmarinho/aws-ci-trigger-go/internal/adapter/driven/export"
	"github.com/rmarinho/aws-ci-trigger-go/internal/adapter/driving/cli"
	"github.com/rmarinho/aws-ci-trigger-go/internal/application/usecase"
	"github.com/rmarinho/aws-ci-trigger-go/pkg/console"
	"github.com/rmarinho/aws-ci-trigger-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	tableRepo := config.NewTableRepository()
	awsRepo := aws.NewAWSRepository()
	exportRepo := export.NewExportRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	triggerUseCase := usecase.NewTriggerUseCase(
		tableRepo,
		awsRepo,
		exportRepo,
		consoleImpl,
	)

	// Define o caso de uso no aplicativo CLI
	app.SetTriggerUseCase(triggerUseCase)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
