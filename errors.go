package optiontree

import "fmt"

// ConfigurationError reports an invalid contract, dividend or lattice
// configuration. It is fatal: the offending call returns no partial result.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "optiontree: " + e.Reason }

func configErrf(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// CalibrationError reports a failed root search, or a parity derivation
// requested before either side of the pair has been computed.
type CalibrationError struct {
	Reason string
}

func (e *CalibrationError) Error() string { return "optiontree: " + e.Reason }

func calibErrf(format string, args ...interface{}) error {
	return &CalibrationError{Reason: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal diagnostic attached to a constructed value.
// Computation proceeds; callers decide whether to log, ignore or escalate.
type Warning struct {
	Message string
}
