package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-script/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func TestNewPipelineDefaults(t *testing.T) {
	s, err := shader.NewShader("tri", triangleWGSL)
	require.NoError(t, err)

	p := NewPipeline("pipeline-0", s, "vs_main", "fs_main")

	assert.Equal(t, "pipeline-0", p.PipelineKey())
	assert.Equal(t, s, p.Shader())
	assert.Equal(t, "vs_main", p.VertexEntry())
	assert.Equal(t, "fs_main", p.FragmentEntry())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Equal(t, BlendReplace(), p.BlendState())
	assert.Nil(t, p.RenderPipeline())
}

func TestPipelineValidate(t *testing.T) {
	s, err := shader.NewShader("tri", triangleWGSL)
	require.NoError(t, err)

	tests := []struct {
		name      string
		vertex    string
		fragment  string
		wantErr   bool
		wantFound bool
	}{
		{name: "matching stages", vertex: "vs_main", fragment: "fs_main"},
		{name: "missing vertex entry", vertex: "main", fragment: "fs_main", wantErr: true},
		{name: "missing fragment entry", vertex: "vs_main", fragment: "main", wantErr: true},
		{name: "swapped stages", vertex: "fs_main", fragment: "vs_main", wantErr: true, wantFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPipeline("p", s, tt.vertex, tt.fragment).Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var epErr *EntryPointError
			require.ErrorAs(t, err, &epErr)
			assert.Equal(t, "tri", epErr.Shader)
			assert.Equal(t, tt.wantFound, epErr.Found != nil)
		})
	}
}

func TestPipelineValidateSkipsUnreflectedShaders(t *testing.T) {
	s, err := shader.NewShader("raw", triangleWGSL, shader.WithValidation(false))
	require.NoError(t, err)

	assert.NoError(t, NewPipeline("p", s, "anything", "goes").Validate())
	assert.Error(t, NewPipeline("p", nil, "vs_main", "fs_main").Validate())
}
