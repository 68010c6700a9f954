package validate

import (
	"fmt"
	"strings"
)

// Severity grades an Issue.
type Severity int

const (
	// Warning is advisory; the pipeline is still structurally sound.
	Warning Severity = iota
	// Error marks a structural defect.
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "warning", "warn":
		*s = Warning
	case "error":
		*s = Error
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

// Issue is a single finding. An empty NodeID or PortID means the finding is
// not tied to a node or port.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	NodeID   string   `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	PortID   string   `json:"port_id,omitempty" yaml:"port_id,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", i.Severity, i.Message)
	switch {
	case i.NodeID != "" && i.PortID != "":
		fmt.Fprintf(&b, " (%s/%s)", i.NodeID, i.PortID)
	case i.NodeID != "":
		fmt.Fprintf(&b, " (%s)", i.NodeID)
	}
	return b.String()
}

func errorAt(nodeID, portID, msg string) Issue {
	return Issue{Severity: Error, Message: msg, NodeID: nodeID, PortID: portID}
}

func warningAt(nodeID, portID, msg string) Issue {
	return Issue{Severity: Warning, Message: msg, NodeID: nodeID, PortID: portID}
}
