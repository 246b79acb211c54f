package shader

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// ShaderType identifies the pipeline stage an entry point belongs to.
type ShaderType int

const (
	// ShaderTypeCompute indicates a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex indicates a @vertex entry point, used for vertex processing in render pipelines.
	ShaderTypeVertex

	// ShaderTypeFragment indicates a @fragment entry point, used in pair with a vertex entry point.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeCompute:
		return "compute"
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// EntryPoint is a single reflected entry point of a WGSL module.
type EntryPoint struct {
	Name  string
	Stage ShaderType
}

// shader is the implementation of the Shader interface.
// It holds the WGSL source, the reflected entry points and the compiled GPU module once registered.
type shader struct {
	key         string
	source      string
	entryPoints []EntryPoint
	reflected   bool
	validate    bool
	strict      bool
	descriptor  *wgpu.ShaderModuleDescriptor
	module      *wgpu.ShaderModule
}

// Shader defines the interface for a loaded WGSL shader module. It exposes the shader's key,
// source code, the entry points reflected from the source and the compiled GPU module.
// A single Shader may carry both the vertex and fragment entry points of a render pipeline.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the GPU object label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoints returns every entry point reflected from the source, in declaration order.
	// The slice is empty when the shader was created without host-side validation.
	//
	// Returns:
	//   - []EntryPoint: the reflected entry points
	EntryPoints() []EntryPoint

	// EntryPoint looks up a reflected entry point by function name.
	//
	// Parameters:
	//   - name: the WGSL function name of the entry point
	//
	// Returns:
	//   - EntryPoint: the entry point if found
	//   - bool: true if an entry point with that name was reflected
	EntryPoint(name string) (EntryPoint, bool)

	// Reflected reports whether the entry points were reflected from the source.
	// When false, entry point checks are left to the GPU driver.
	//
	// Returns:
	//   - bool: true if host-side reflection ran
	Reflected() bool

	// Descriptor returns the wgpu.ShaderModuleDescriptor built from the source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Descriptor() *wgpu.ShaderModuleDescriptor

	// Module returns the compiled GPU shader module, or nil if it has not been registered yet.
	//
	// Returns:
	//   - *wgpu.ShaderModule: the compiled shader module
	Module() *wgpu.ShaderModule

	// SetModule stores the compiled GPU shader module created by the renderer backend.
	//
	// Parameters:
	//   - m: the compiled shader module
	SetModule(m *wgpu.ShaderModule)
}

var _ Shader = &shader{}

// NewShader creates a new Shader from WGSL source. Unless disabled with WithValidation(false),
// the source is parsed and lowered on the host so syntax and type errors are reported with
// line information before the GPU driver sees the module, and the entry points are reflected.
//
// Parameters:
//   - key: a unique identifier for the shader, used as the GPU object label
//   - source: the WGSL source code
//   - options: functional options applied before the source is processed
//
// Returns:
//   - Shader: the new shader
//   - error: a *CompileError if host-side validation rejected the source
func NewShader(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:      key,
		source:   source,
		validate: true,
	}
	for _, opt := range options {
		opt(s)
	}

	if s.validate {
		if err := s.reflect(); err != nil {
			return nil, err
		}
	}

	s.descriptor = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoints() []EntryPoint {
	return s.entryPoints
}

func (s *shader) EntryPoint(name string) (EntryPoint, bool) {
	for _, ep := range s.entryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

func (s *shader) Reflected() bool {
	return s.reflected
}

func (s *shader) Descriptor() *wgpu.ShaderModuleDescriptor {
	return s.descriptor
}

func (s *shader) Module() *wgpu.ShaderModule {
	return s.module
}

func (s *shader) SetModule(m *wgpu.ShaderModule) {
	s.module = m
}

// reflect parses and lowers the source with naga and records the entry points.
// In strict mode the IR validator also runs and any finding is a compile error.
func (s *shader) reflect() error {
	ast, err := naga.Parse(s.source)
	if err != nil {
		return &CompileError{Key: s.key, Phase: PhaseParse, Diagnostics: []string{err.Error()}}
	}

	mod, err := naga.LowerWithSource(ast, s.source)
	if err != nil {
		return &CompileError{Key: s.key, Phase: PhaseLower, Diagnostics: []string{err.Error()}}
	}

	if s.strict {
		findings, err := naga.Validate(mod)
		if err != nil {
			return &CompileError{Key: s.key, Phase: PhaseValidate, Diagnostics: []string{err.Error()}}
		}
		if len(findings) > 0 {
			diags := make([]string, 0, len(findings))
			for _, f := range findings {
				diags = append(diags, f.Error())
			}
			return &CompileError{Key: s.key, Phase: PhaseValidate, Diagnostics: diags}
		}
	}

	s.entryPoints = make([]EntryPoint, 0, len(mod.EntryPoints))
	for _, ep := range mod.EntryPoints {
		stage, ok := stageFromIR(ep.Stage)
		if !ok {
			continue
		}
		s.entryPoints = append(s.entryPoints, EntryPoint{Name: ep.Name, Stage: stage})
	}
	s.reflected = true
	return nil
}

// stageFromIR maps a naga IR stage to a ShaderType. Mesh and task stages have no
// WebGPU render pipeline equivalent and are skipped.
func stageFromIR(stage ir.ShaderStage) (ShaderType, bool) {
	switch stage {
	case ir.StageVertex:
		return ShaderTypeVertex, true
	case ir.StageFragment:
		return ShaderTypeFragment, true
	case ir.StageCompute:
		return ShaderTypeCompute, true
	default:
		return 0, false
	}
}
