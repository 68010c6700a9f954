package yaml

import yamlv3 "gopkg.in/yaml.v3"

type document struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Nodes       []nodeDoc `yaml:"nodes"`
}

func (d *document) empty() bool {
	return d.ID == "" && d.Name == "" && d.Description == "" && len(d.Nodes) == 0
}

type nodeDoc struct {
	ID       string      `yaml:"id"`
	Type     string      `yaml:"type"`
	NodeType string      `yaml:"node_type"`
	Config   yamlv3.Node `yaml:"config"`
	Inputs   []inputDoc  `yaml:"inputs"`
	Outputs  []outputDoc `yaml:"outputs"`
}

type refDoc struct {
	Node string `yaml:"node"`
	Port string `yaml:"port"`
}

type inputDoc struct {
	ID               string  `yaml:"id"`
	DataType         string  `yaml:"data_type"`
	Upstream         *refDoc `yaml:"upstream"`
	UpstreamNodeID   *string `yaml:"upstream_node_id"`
	UpstreamOutputID *string `yaml:"upstream_output_id"`
}

type outputDoc struct {
	ID                string  `yaml:"id"`
	DataType          string  `yaml:"data_type"`
	Downstream        *refDoc `yaml:"downstream"`
	DownstreamNodeID  *string `yaml:"downstream_node_id"`
	DownstreamInputID *string `yaml:"downstream_input_id"`
}
