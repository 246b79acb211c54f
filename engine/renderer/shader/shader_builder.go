package shader

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithValidation toggles host-side parsing and entry point reflection. When disabled the
// source is handed to the GPU driver untouched and entry point checks are skipped.
//
// Parameters:
//   - enabled: true to validate on the host (default), false to defer to the driver
//
// Returns:
//   - ShaderBuilderOption: a function that sets the validation mode for this shader
func WithValidation(enabled bool) ShaderBuilderOption {
	return func(s *shader) {
		s.validate = enabled
	}
}

// WithStrictValidation additionally runs the IR validator after lowering and treats any
// finding as a compile error. Has no effect when validation is disabled.
//
// Parameters:
//   - strict: true to reject modules with IR validation findings
//
// Returns:
//   - ShaderBuilderOption: a function that sets the strict mode for this shader
func WithStrictValidation(strict bool) ShaderBuilderOption {
	return func(s *shader) {
		s.strict = strict
	}
}
