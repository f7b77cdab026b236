package entity

// Profile representa um perfil de infraestrutura usado para provisionar um runner de CI:
// a região AWS, a imagem de máquina (AMI) e o tipo de instância.
type Profile struct {
	Name         string `json:"name" toml:"-" yaml:"-"`
	Region       string `json:"region" toml:"region" yaml:"region"`
	ImageID      string `json:"image_id" toml:"image_id" yaml:"image_id"`
	InstanceType string `json:"instance_type" toml:"instance_type" yaml:"instance_type"`
}
