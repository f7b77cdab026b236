package entity

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// TriggerTable é a tabela de triggers de CI: perfis de infraestrutura e comandos,
// ambos indexados por nome. Carregada uma única vez e somente leitura a partir daí.
type TriggerTable struct {
	Profiles map[string]Profile `json:"profile"`
	Commands map[string]Command `json:"command"`
}

var imageIDRegex = regexp.MustCompile(`^ami-[0-9a-f]+$`)

// ValidationIssue descreve uma violação de schema encontrada na tabela.
type ValidationIssue struct {
	Scope   string // "profile" ou "command"
	Name    string
	Message string
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("[%s.%s] %s", i.Scope, i.Name, i.Message)
}

// ValidationError agrega todas as violações encontradas em uma tabela.
// Uma tabela com qualquer violação deve ser rejeitada pelo consumidor.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}
	return fmt.Sprintf("invalid trigger table (%d issue(s)): %s", len(e.Issues), strings.Join(msgs, "; "))
}

// Validate verifica todas as invariantes da tabela e retorna a lista completa
// de violações, em ordem determinística.
func (t *TriggerTable) Validate() []ValidationIssue {
	var issues []ValidationIssue

	for _, name := range t.ProfileNames() {
		profile := t.Profiles[name]
		if profile.Region == "" {
			issues = append(issues, ValidationIssue{"profile", name, "region must not be empty"})
		}
		if !imageIDRegex.MatchString(profile.ImageID) {
			issues = append(issues, ValidationIssue{
				"profile", name,
				fmt.Sprintf("image_id %q does not match expected AMI format ami-<hex>", profile.ImageID),
			})
		}
		if profile.InstanceType == "" {
			issues = append(issues, ValidationIssue{"profile", name, "instance_type must not be empty"})
		}
	}

	for _, name := range t.CommandNames() {
		command := t.Commands[name]
		if command.Workflow == "" {
			issues = append(issues, ValidationIssue{"command", name, "workflow must not be empty"})
		} else if !strings.HasSuffix(command.Workflow, ".yml") {
			issues = append(issues, ValidationIssue{
				"command", name,
				fmt.Sprintf("workflow %q must be a filename ending in .yml", command.Workflow),
			})
		}
		if command.CheckRunName == "" {
			issues = append(issues, ValidationIssue{"command", name, "check_run_name must not be empty"})
		}
		if command.Profile == "" {
			issues = append(issues, ValidationIssue{"command", name, "profile must not be empty"})
		} else if _, ok := t.Profiles[command.Profile]; !ok {
			issues = append(issues, ValidationIssue{
				"command", name,
				fmt.Sprintf("references undeclared profile %q", command.Profile),
			})
		}
	}

	return issues
}

// ResolveCommand resolve um nome de comando para o workflow e o perfil completo.
// A tabela já deve ter sido validada; a referência de perfil é checada mesmo assim.
func (t *TriggerTable) ResolveCommand(name string) (*ResolvedCommand, error) {
	command, ok := t.Commands[name]
	if !ok {
		return nil, fmt.Errorf("command %q is not declared in the trigger table", name)
	}
	profile, ok := t.Profiles[command.Profile]
	if !ok {
		return nil, fmt.Errorf("command %q references undeclared profile %q", name, command.Profile)
	}
	return &ResolvedCommand{Command: command, Profile: profile}, nil
}

// ProfileNames retorna os nomes de perfil em ordem alfabética.
func (t *TriggerTable) ProfileNames() []string {
	names := make([]string, 0, len(t.Profiles))
	for name := range t.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandNames retorna os nomes de comando em ordem alfabética.
func (t *TriggerTable) CommandNames() []string {
	names := make([]string, 0, len(t.Commands))
	for name := range t.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
