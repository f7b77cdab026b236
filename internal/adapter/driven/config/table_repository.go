package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/entity"
	"github.com/rmarinho/aws-ci-trigger-go/internal/domain/repository"
	"gopkg.in/yaml.v3"
)

// TableRepositoryImpl implementa o TableRepository.
type TableRepositoryImpl struct{}

// NewTableRepository cria uma nova implementação do TableRepository.
func NewTableRepository() repository.TableRepository {
	return &TableRepositoryImpl{}
}

// tableDocument é a representação no arquivo: perfis e comandos indexados por nome.
// O nome vive na chave da tabela, não no corpo ([profile.cpu-big], [command.cpu_test]).
type tableDocument struct {
	Profiles map[string]entity.Profile `toml:"profile" yaml:"profile" json:"profile"`
	Commands map[string]entity.Command `toml:"command" yaml:"command" json:"command"`
}

// LoadTable carrega uma tabela de triggers TOML, YAML ou JSON e a valida.
// Qualquer violação de schema rejeita a tabela inteira (fail fast).
func (r *TableRepositoryImpl) LoadTable(filePath string) (*entity.TriggerTable, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing trigger table file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading trigger table file: %w", err)
	}

	var doc tableDocument

	switch fileExtension {
	case ".toml":
		// Chaves duplicadas ([profile.x] declarado duas vezes) são erro de parse.
		if err := toml.Unmarshal(fileData, &doc); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &doc); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		// json.Unmarshal em maps é last-wins para chaves duplicadas; rejeitamos antes.
		if err := checkDuplicateJSONKeys(fileData); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
		if err := json.Unmarshal(fileData, &doc); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported trigger table format: %s", fileExtension)
	}

	table := doc.toTable()

	if issues := table.Validate(); len(issues) > 0 {
		return nil, &entity.ValidationError{Issues: issues}
	}

	return table, nil
}

// checkDuplicateJSONKeys percorre os tokens do documento e rejeita objetos com
// chaves repetidas, como os parsers de TOML e YAML já fazem.
func checkDuplicateJSONKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return checkDuplicateJSONValue(dec)
}

func checkDuplicateJSONValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		seen := make(map[string]bool)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("unexpected object key token %v", keyTok)
			}
			if seen[key] {
				return fmt.Errorf("duplicate key %q", key)
			}
			seen[key] = true

			if err := checkDuplicateJSONValue(dec); err != nil {
				return err
			}
		}
		// Consome o '}' de fechamento.
		if _, err := dec.Token(); err != nil {
			return err
		}
	case '[':
		for dec.More() {
			if err := checkDuplicateJSONValue(dec); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
	}

	return nil
}

// toTable converte o documento em entidades, propagando a chave como nome.
func (doc *tableDocument) toTable() *entity.TriggerTable {
	table := &entity.TriggerTable{
		Profiles: make(map[string]entity.Profile, len(doc.Profiles)),
		Commands: make(map[string]entity.Command, len(doc.Commands)),
	}
	for name, profile := range doc.Profiles {
		profile.Name = name
		table.Profiles[name] = profile
	}
	for name, command := range doc.Commands {
		command.Name = name
		table.Commands[name] = command
	}
	return table
}

// SerializeTable re-serializa a tabela no formato TOML canônico.
// Parse seguido de serialização produz uma tabela semanticamente equivalente.
func (r *TableRepositoryImpl) SerializeTable(table *entity.TriggerTable) ([]byte, error) {
	doc := tableDocument{
		Profiles: table.Profiles,
		Commands: table.Commands,
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error serializing trigger table to TOML: %w", err)
	}
	return data, nil
}

// SaveTable grava a tabela em disco no formato TOML canônico.
func (r *TableRepositoryImpl) SaveTable(table *entity.TriggerTable, filePath string) error {
	data, err := r.SerializeTable(table)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing trigger table file: %w", err)
	}
	return nil
}
