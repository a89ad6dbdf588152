// Package writers turns annotated probes into serialized design exports.
//
// Design:
//   - Writers own all presentation knowledge (column layout, JSON/JSONL/YAML).
//   - The design engine stays domain-only; annotations are joined before export.
//   - JSON/JSONL/YAML go through pkg/api (v1) for a stable wire format.
package writers
