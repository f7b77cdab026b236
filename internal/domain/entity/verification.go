package entity

// ProfileVerification é o resultado da checagem de um perfil contra a AWS:
// a região existe, a AMI existe na região e o tipo de instância é ofertado nela.
type ProfileVerification struct {
	Profile        string `json:"profile"`
	Region         string `json:"region"`
	RegionOK       bool   `json:"region_ok"`
	ImageID        string `json:"image_id"`
	ImageOK        bool   `json:"image_ok"`
	ImageName      string `json:"image_name,omitempty"`
	InstanceType   string `json:"instance_type"`
	InstanceTypeOK bool   `json:"instance_type_ok"`
	Error          string `json:"error,omitempty"`
}

// Passed indica se todas as checagens do perfil passaram.
func (v ProfileVerification) Passed() bool {
	return v.Error == "" && v.RegionOK && v.ImageOK && v.InstanceTypeOK
}

// VerificationReport agrega os resultados de verificação de todos os perfis da tabela.
type VerificationReport struct {
	AWSProfile string                `json:"aws_profile"`
	AccountID  string                `json:"account_id,omitempty"`
	Results    []ProfileVerification `json:"results"`
}

// AllPassed indica se todos os perfis verificados passaram.
func (r *VerificationReport) AllPassed() bool {
	for _, result := range r.Results {
		if !result.Passed() {
			return false
		}
	}
	return true
}

// FailedCount retorna o número de perfis reprovados.
func (r *VerificationReport) FailedCount() int {
	failed := 0
	for _, result := range r.Results {
		if !result.Passed() {
			failed++
		}
	}
	return failed
}
