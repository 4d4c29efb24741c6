// Package mapping compiles entity descriptors into index mapping
// documents: one JSON object per root entity describing its fields,
// dynamic behavior and embedded fragments.
//
// A Compiler resolves entities through an EntityModel (usually the
// schema.Registry), walks the root entity's properties in declaration
// order, classifies each property into exactly one dispatch class, and
// streams the result through a content.Builder. Output is deterministic:
// identical input produces byte-identical documents.
//
// Non-fatal findings (skipped properties, unresolvable references,
// unreadable fragments) accumulate as diagnostics on the Result.
// Contradictory property configuration and writer failures abort the run
// with an error.
//
// A Compiler carries no per-run state and may be shared across
// goroutines; every Compile call works on its own compilation.
package mapping
