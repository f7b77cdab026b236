package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rmarinho/aws-ci-trigger-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
          /$$$$$$  /$$$$$$       /$$$$$$$$        /$$
         /$$__  $$|_  $$_/      |__  $$__/       |__/
        | $$  \__/  | $$           | $$  /$$$$$$  /$$  /$$$$$$   /$$$$$$   /$$$$$$   /$$$$$$
        | $$        | $$           | $$ /$$__  $$| $$ /$$__  $$ /$$__  $$ /$$__  $$ /$$__  $$
        | $$        | $$           | $$| $$  \__/| $$| $$  \ $$| $$  \ $$| $$$$$$$$| $$  \__/
        | $$    $$  | $$           | $$| $$      | $$| $$  | $$| $$  | $$| $$_____/| $$
        |  $$$$$$/ /$$$$$$         | $$| $$      | $$|  $$$$$$$|  $$$$$$$|  $$$$$$$| $$
         \______/ |______/         |__/|__/      |__/ \____  $$ \____  $$ \_______/|__/
                                                      /$$  \ $$ /$$  \ $$
                                                     |  $$$$$$/|  $$$$$$/
                                                      \______/  \______/
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("AWS CI Trigger CLI (v%s)", formattedVersion)))
}
