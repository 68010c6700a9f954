package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/vk/pipescope/internal/pipeline"
	yamlv3 "gopkg.in/yaml.v3"
)

// decodeConfig turns the raw config node into ordered entries.
func decodeConfig(n *yamlv3.Node) (pipeline.NodeConfig, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yamlv3.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		return nil, fmt.Errorf("line %d: config must be a mapping or a list", n.Line)
	case yamlv3.MappingNode:
		if len(n.Content) == 2 && n.Content[0].Value == "props" && n.Content[1].Kind == yamlv3.SequenceNode {
			return decodePairs(n.Content[1])
		}
		cfg := make(pipeline.NodeConfig, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			value, err := scalarString(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			cfg = append(cfg, pipeline.Prop{Key: n.Content[i].Value, Value: value})
		}
		return cfg, nil
	case yamlv3.SequenceNode:
		return decodePairs(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported config shape", n.Line)
	}
}

// decodePairs reads a list of [key, value] pairs or {key, value} objects.
func decodePairs(n *yamlv3.Node) (pipeline.NodeConfig, error) {
	cfg := make(pipeline.NodeConfig, 0, len(n.Content))
	for _, item := range n.Content {
		var keyNode, valueNode *yamlv3.Node
		switch item.Kind {
		case yamlv3.SequenceNode:
			if len(item.Content) != 2 {
				return nil, fmt.Errorf("line %d: config pair must have exactly two elements, got %d", item.Line, len(item.Content))
			}
			keyNode, valueNode = item.Content[0], item.Content[1]
		case yamlv3.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				switch item.Content[i].Value {
				case "key":
					keyNode = item.Content[i+1]
				case "value":
					valueNode = item.Content[i+1]
				default:
					return nil, fmt.Errorf("line %d: unknown config entry field %q", item.Content[i].Line, item.Content[i].Value)
				}
			}
			if keyNode == nil {
				return nil, fmt.Errorf("line %d: config entry is missing its key", item.Line)
			}
		default:
			return nil, fmt.Errorf("line %d: config entry must be a pair or a key/value object", item.Line)
		}

		if keyNode.Kind != yamlv3.ScalarNode {
			return nil, fmt.Errorf("line %d: config key must be a scalar", keyNode.Line)
		}
		value := ""
		if valueNode != nil {
			var err error
			if value, err = scalarString(valueNode); err != nil {
				return nil, err
			}
		}
		cfg = append(cfg, pipeline.Prop{Key: keyNode.Value, Value: value})
	}
	return cfg, nil
}

// scalarString renders a config value. Scalars keep their literal text,
// null becomes empty, and nested structures are rendered as compact JSON.
func scalarString(n *yamlv3.Node) (string, error) {
	if n.Kind == yamlv3.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind == yamlv3.ScalarNode {
		if n.ShortTag() == "!!null" {
			return "", nil
		}
		return n.Value, nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return "", fmt.Errorf("line %d: %w", n.Line, err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("line %d: config value cannot be rendered: %w", n.Line, err)
	}
	return string(raw), nil
}
