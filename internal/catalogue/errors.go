package catalogue

import "fmt"

// UnknownColumnError reports a label or column parameter naming a column the
// fact view does not carry. Surfaced to the end user as an unsupported field.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// InvalidParameterError reports a structurally invalid parameter
// combination: a missing required parameter or a malformed operator.
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Name, e.Reason)
}

// ConfigurationError reports a pipeline-ordering bug: a derived column the
// operation depends on was never computed on the input view.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("view is missing derived data: %s", e.Missing)
}
