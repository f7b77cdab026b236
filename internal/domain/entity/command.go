package entity

// Command mapeia uma instrução de operador (ex.: "cpu_test") para um workflow do
// GitHub Actions, o perfil de execução e o nome do check run reportado no PR.
type Command struct {
	Name         string `json:"name" toml:"-" yaml:"-"`
	Workflow     string `json:"workflow" toml:"workflow" yaml:"workflow"`
	Profile      string `json:"profile" toml:"profile" yaml:"profile"`
	CheckRunName string `json:"check_run_name" toml:"check_run_name" yaml:"check_run_name"`
}

// ResolvedCommand é um comando com a referência de perfil já resolvida.
type ResolvedCommand struct {
	Command Command `json:"command"`
	Profile Profile `json:"profile"`
}
