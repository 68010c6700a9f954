package pipeline

import (
	"fmt"
	"strings"
)

// NodeType is the role a node plays in a pipeline. The set is closed.
type NodeType int

const (
	// Source nodes produce data and are expected to have no inputs.
	Source NodeType = iota + 1
	// Processor nodes transform data.
	Processor
	// Sink nodes consume data and are expected to have no outputs.
	Sink
)

var nodeTypeNames = map[NodeType]string{
	Source:    "source",
	Processor: "processor",
	Sink:      "sink",
}

// ParseNodeType parses a node role name, ignoring case.
func ParseNodeType(s string) (NodeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "source":
		return Source, nil
	case "processor":
		return Processor, nil
	case "sink":
		return Sink, nil
	}
	return 0, fmt.Errorf("unknown node type %q: must be one of 'source', 'processor' or 'sink'", s)
}

// Valid reports whether t is one of the declared roles.
func (t NodeType) Valid() bool {
	_, ok := nodeTypeNames[t]
	return ok
}

func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid node type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *NodeType) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
