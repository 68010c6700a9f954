// Package yaml loads pipeline definitions written in YAML or JSON.
//
// Each YAML document holds one pipeline, so a single file can declare several
// pipelines separated by "---". JSON files are read by the same decoder.
//
// Node configuration may be written as an ordered mapping, as a list of
// [key, value] pairs, as a list of {key, value} objects, or wrapped in a
// props field. The list forms allow repeated keys. Port links may be written
// as upstream/downstream objects or as the flat upstream_node_id and
// upstream_output_id (downstream_node_id and downstream_input_id) fields; a
// flat pair with only one half set is rejected.
package yaml
