package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/pipescope/internal/ctxlog"
	"github.com/vk/pipescope/internal/pipeline"
)

// Loader is the HCL implementation of config.FormatLoader.
type Loader struct{}

// NewLoader creates a new HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.FormatLoader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// LoadFile implements config.FormatLoader.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*pipeline.Pipeline, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HCL file %s: %w", path, err)
	}
	return l.Parse(ctx, path, src)
}

// Parse decodes HCL source. filename is used in diagnostics only.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) ([]*pipeline.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	pipelines := make([]*pipeline.Pipeline, 0, len(root.Pipelines))
	for _, pb := range root.Pipelines {
		p, err := translatePipeline(ctx, pb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		pipelines = append(pipelines, p)
	}

	logger.Debug("HCL file decoded.", "file", filename, "pipelines", len(pipelines))
	return pipelines, nil
}

func translatePipeline(ctx context.Context, pb *pipelineBlock) (*pipeline.Pipeline, error) {
	p := &pipeline.Pipeline{
		ID:          pb.ID,
		Name:        pb.Name,
		Description: pb.Description,
		Nodes:       make([]pipeline.Node, 0, len(pb.Nodes)),
	}
	for _, nb := range pb.Nodes {
		n, err := translateNode(ctx, nb)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q, node %q: %w", pb.ID, nb.ID, err)
		}
		p.Nodes = append(p.Nodes, n)
	}
	return p, nil
}

func translateNode(ctx context.Context, nb *nodeBlock) (pipeline.Node, error) {
	nodeType, err := pipeline.ParseNodeType(nb.Type)
	if err != nil {
		return pipeline.Node{}, err
	}
	n := pipeline.Node{ID: nb.ID, Type: nodeType}

	if nb.Config != nil {
		if n.Config, err = translateConfig(ctx, nb.Config.Body); err != nil {
			return pipeline.Node{}, err
		}
	}

	for _, ib := range nb.Inputs {
		dataType, err := dataTypeString(ctx, ib.DataType)
		if err != nil {
			return pipeline.Node{}, fmt.Errorf("input %q: %w", ib.ID, err)
		}
		in := pipeline.Input{ID: ib.ID, DataType: dataType}
		if ib.Upstream != nil {
			in.Upstream = &pipeline.PortRef{Node: ib.Upstream.Node, Port: ib.Upstream.Port}
		}
		n.Inputs = append(n.Inputs, in)
	}

	for _, ob := range nb.Outputs {
		dataType, err := dataTypeString(ctx, ob.DataType)
		if err != nil {
			return pipeline.Node{}, fmt.Errorf("output %q: %w", ob.ID, err)
		}
		out := pipeline.Output{ID: ob.ID, DataType: dataType}
		if ob.Downstream != nil {
			out.Downstream = &pipeline.PortRef{Node: ob.Downstream.Node, Port: ob.Downstream.Port}
		}
		n.Outputs = append(n.Outputs, out)
	}

	return n, nil
}
