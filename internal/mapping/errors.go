package mapping

import "fmt"

// CompilationError reports a failure to produce any mapping document for
// an entity: the root entity is unknown or the document writer failed.
type CompilationError struct {
	Entity string
	Err    error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile mapping for %s: %v", e.Entity, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a contradictory property definition that has
// no sensible mapping. It aborts the whole compilation instead of being
// skipped: a silently dropped contradiction would ship a wrong index.
type ConfigurationError struct {
	Entity   string
	Property string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid mapping configuration for %s.%s: %s", e.Entity, e.Property, e.Reason)
}
