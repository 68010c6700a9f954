package graph

import "github.com/vk/pipescope/internal/pipeline"

// Endpoint identifies one port on one node.
type Endpoint struct {
	Node string
	Port string
}

func (e Endpoint) String() string {
	return e.Node + "." + e.Port
}

// Direction tells which side of a link declared a Reference.
type Direction int

const (
	// Upstream references are declared on inputs and point at outputs.
	Upstream Direction = iota
	// Downstream references are declared on outputs and point at inputs.
	Downstream
)

func (d Direction) String() string {
	if d == Downstream {
		return "downstream"
	}
	return "upstream"
}

// Reference is one declared port link, resolved or not.
type Reference struct {
	// From is the port carrying the reference.
	From      Endpoint
	Direction Direction
	Target    pipeline.PortRef
	// Resolved is true when Target names an existing node and an existing
	// port of the opposite direction on it.
	Resolved bool
}

// Edge is a resolved link from an output to an input.
type Edge struct {
	// Out is the producing output.
	Out Endpoint
	// In is the consuming input.
	In Endpoint
	// DeclaredBy is the first port, in declaration order, that declared the link.
	DeclaredBy Endpoint
	// OutType and InType are the declared data types at both ends.
	OutType string
	InType  string
}

// TypesMatch reports whether both ends declare the same data type.
func (e Edge) TypesMatch() bool {
	return e.OutType == e.InType
}

// SelfLoop reports whether the edge starts and ends on the same node.
func (e Edge) SelfLoop() bool {
	return e.Out.Node == e.In.Node
}
