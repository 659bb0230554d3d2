package webvfx

// Parameters supplies named values from the embedding application to
// effect content. Content looks parameters up by name while loading or
// rendering; a backend decides which names it understands.
//
// Implementations must be safe for use from the owner thread for the
// lifetime of the Effects instance that received them.
type Parameters interface {
	// StringParameter returns the named string parameter, or "" if the
	// name is not defined.
	StringParameter(name string) string

	// NumberParameter returns the named numeric parameter, or 0 if the
	// name is not defined.
	NumberParameter(name string) float64
}
