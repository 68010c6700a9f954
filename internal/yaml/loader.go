package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/pipescope/internal/ctxlog"
	"github.com/vk/pipescope/internal/pipeline"
	yamlv3 "gopkg.in/yaml.v3"
)

// ErrHalfReference is returned for a flat reference with only one of its
// two fields set.
var ErrHalfReference = errors.New("reference must set both node and port")

// Loader is the YAML and JSON implementation of config.FormatLoader.
type Loader struct{}

// NewLoader creates a new YAML pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.FormatLoader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

// LoadFile implements config.FormatLoader.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*pipeline.Pipeline, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return l.Parse(ctx, path, src)
}

// Parse decodes every document in src. filename is used in errors only.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) ([]*pipeline.Pipeline, error) {
	dec := yamlv3.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var pipelines []*pipeline.Pipeline
	for idx := 0; ; idx++ {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s (document %d): %w", filename, idx+1, err)
		}
		if doc.empty() {
			continue
		}

		p, err := translate(&doc)
		if err != nil {
			return nil, fmt.Errorf("%s (document %d): %w", filename, idx+1, err)
		}
		pipelines = append(pipelines, p)
	}

	ctxlog.FromContext(ctx).Debug("YAML file decoded.", "file", filename, "pipelines", len(pipelines))
	return pipelines, nil
}

func translate(doc *document) (*pipeline.Pipeline, error) {
	if doc.ID == "" {
		return nil, errors.New("pipeline id is required")
	}
	p := &pipeline.Pipeline{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Nodes:       make([]pipeline.Node, 0, len(doc.Nodes)),
	}
	for i := range doc.Nodes {
		n, err := translateNode(&doc.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("pipeline %q, node %q: %w", doc.ID, doc.Nodes[i].ID, err)
		}
		p.Nodes = append(p.Nodes, n)
	}
	return p, nil
}

func translateNode(nd *nodeDoc) (pipeline.Node, error) {
	typeName := nd.Type
	if typeName == "" {
		typeName = nd.NodeType
	} else if nd.NodeType != "" && nd.NodeType != nd.Type {
		return pipeline.Node{}, fmt.Errorf("type %q and node_type %q disagree", nd.Type, nd.NodeType)
	}
	nodeType, err := pipeline.ParseNodeType(typeName)
	if err != nil {
		return pipeline.Node{}, err
	}

	cfg, err := decodeConfig(&nd.Config)
	if err != nil {
		return pipeline.Node{}, fmt.Errorf("config: %w", err)
	}
	n := pipeline.Node{ID: nd.ID, Type: nodeType, Config: cfg}

	for _, in := range nd.Inputs {
		ref, err := portRef(in.Upstream, in.UpstreamNodeID, in.UpstreamOutputID)
		if err != nil {
			return pipeline.Node{}, fmt.Errorf("input %q upstream: %w", in.ID, err)
		}
		n.Inputs = append(n.Inputs, pipeline.Input{ID: in.ID, DataType: in.DataType, Upstream: ref})
	}
	for _, out := range nd.Outputs {
		ref, err := portRef(out.Downstream, out.DownstreamNodeID, out.DownstreamInputID)
		if err != nil {
			return pipeline.Node{}, fmt.Errorf("output %q downstream: %w", out.ID, err)
		}
		n.Outputs = append(n.Outputs, pipeline.Output{ID: out.ID, DataType: out.DataType, Downstream: ref})
	}
	return n, nil
}

// portRef merges the nested and flat spellings of a reference.
func portRef(nested *refDoc, node, port *string) (*pipeline.PortRef, error) {
	flatSet := node != nil || port != nil
	switch {
	case nested != nil && flatSet:
		return nil, errors.New("use either the nested reference or the flat fields, not both")
	case nested != nil:
		if nested.Node == "" || nested.Port == "" {
			return nil, ErrHalfReference
		}
		return &pipeline.PortRef{Node: nested.Node, Port: nested.Port}, nil
	case flatSet:
		if node == nil || port == nil {
			return nil, ErrHalfReference
		}
		return &pipeline.PortRef{Node: *node, Port: *port}, nil
	default:
		return nil, nil
	}
}
