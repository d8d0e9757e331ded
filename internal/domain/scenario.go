package domain

// ScenarioFile is a batch of named calculations read from YAML
type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// Scenario names a calculator and its raw form inputs
type Scenario struct {
	Name       string            `yaml:"name" json:"name"`
	Calculator string            `yaml:"calculator" json:"calculator"`
	Inputs     map[string]string `yaml:"inputs" json:"inputs"`
}
