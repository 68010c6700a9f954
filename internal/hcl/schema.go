package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all top-level blocks from a file.
// Anything other than pipeline blocks is rejected.
type fileRoot struct {
	Pipelines []*pipelineBlock `hcl:"pipeline,block"`
}

type pipelineBlock struct {
	ID          string       `hcl:"id,label"`
	Name        string       `hcl:"name,optional"`
	Description string       `hcl:"description,optional"`
	Nodes       []*nodeBlock `hcl:"node,block"`
}

type nodeBlock struct {
	ID      string         `hcl:"id,label"`
	Type    string         `hcl:"type"`
	Config  *configBlock   `hcl:"config,block"`
	Inputs  []*inputBlock  `hcl:"input,block"`
	Outputs []*outputBlock `hcl:"output,block"`
}

// configBlock holds free-form attributes; they are read in source order.
type configBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type inputBlock struct {
	ID       string         `hcl:"id,label"`
	DataType hcl.Expression `hcl:"data_type"`
	Upstream *refBlock      `hcl:"upstream,block"`
}

type outputBlock struct {
	ID         string         `hcl:"id,label"`
	DataType   hcl.Expression `hcl:"data_type"`
	Downstream *refBlock      `hcl:"downstream,block"`
}

type refBlock struct {
	Node string `hcl:"node"`
	Port string `hcl:"port"`
}
