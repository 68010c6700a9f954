package testutil

// YAML definitions of the reference scenarios, for loader and driver tests.
const (
	// SourceToSinkYAML is a valid int -> int pipeline.
	SourceToSinkYAML = `id: source-to-sink
nodes:
  - id: src
    type: source
    outputs:
      - id: O1
        data_type: int
  - id: sink
    type: sink
    inputs:
      - id: I1
        data_type: int
        upstream: {node: src, port: O1}
`

	// MismatchYAML feeds an int output into a string input.
	MismatchYAML = `id: mismatch
nodes:
  - id: src
    type: source
    outputs:
      - id: O1
        data_type: int
  - id: sink
    type: sink
    inputs:
      - id: I1
        data_type: string
        upstream: {node: src, port: O1}
`

	// CycleHCL is a two node cycle.
	CycleHCL = `pipeline "two-node-cycle" {
  node "A" {
    type = "processor"
    input "in" {
      data_type = string
      upstream {
        node = "B"
        port = "out"
      }
    }
    output "out" {
      data_type = string
    }
  }
  node "B" {
    type = "processor"
    input "in" {
      data_type = string
      upstream {
        node = "A"
        port = "out"
      }
    }
    output "out" {
      data_type = string
    }
  }
}
`
)
