// Package diagnostic provides structured warnings, errors, and infos
// collected while validating entity definitions and compiling mappings.
//
// Key capabilities:
//   - Per-property skip reports (one bad property never fails a compilation)
//   - Structural validation findings for entity definition files
//   - Aggregation across entities with severity-based reporting
package diagnostic
