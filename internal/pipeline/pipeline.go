package pipeline

// Pipeline is a named, ordered collection of processing nodes.
type Pipeline struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Nodes       []Node `json:"nodes" yaml:"nodes"`
}

// Node is a single unit of work with a role, configuration and ports.
type Node struct {
	ID      string     `json:"id" yaml:"id"`
	Type    NodeType   `json:"type" yaml:"type"`
	Config  NodeConfig `json:"config,omitempty" yaml:"config,omitempty"`
	Inputs  []Input    `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []Output   `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// PortRef points at a port on another node. A nil *PortRef means the port is
// not linked; there is no way to express a reference with only one half set.
type PortRef struct {
	Node string `json:"node" yaml:"node"`
	Port string `json:"port" yaml:"port"`
}

// String renders the reference as node.port.
func (r PortRef) String() string {
	return r.Node + "." + r.Port
}

// Input is a typed input slot, optionally fed by an upstream output.
type Input struct {
	ID       string   `json:"id" yaml:"id"`
	DataType string   `json:"data_type" yaml:"data_type"`
	Upstream *PortRef `json:"upstream,omitempty" yaml:"upstream,omitempty"`
}

// Output is a typed output slot, optionally feeding a downstream input.
type Output struct {
	ID         string   `json:"id" yaml:"id"`
	DataType   string   `json:"data_type" yaml:"data_type"`
	Downstream *PortRef `json:"downstream,omitempty" yaml:"downstream,omitempty"`
}

// Prop is a single configuration entry.
type Prop struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// NodeConfig is an ordered list of configuration entries. Keys are not
// required to be unique.
type NodeConfig []Prop

// Get returns the value of the first entry with the given key.
func (c NodeConfig) Get(key string) (string, bool) {
	for _, p := range c {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// DuplicateKeys returns every key that appears more than once, in order of
// its second occurrence.
func (c NodeConfig) DuplicateKeys() []string {
	seen := make(map[string]int, len(c))
	var dups []string
	for _, p := range c {
		seen[p.Key]++
		if seen[p.Key] == 2 {
			dups = append(dups, p.Key)
		}
	}
	return dups
}
