package loader

import (
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// MediaType classifies a module source file by extension.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeJavaScript
	MediaTypeJSX
	MediaTypeTypeScript
	MediaTypeTSX
	MediaTypeJSON
)

var mediaTypes = map[string]MediaType{
	".js":   MediaTypeJavaScript,
	".mjs":  MediaTypeJavaScript,
	".cjs":  MediaTypeJavaScript,
	".jsx":  MediaTypeJSX,
	".ts":   MediaTypeTypeScript,
	".mts":  MediaTypeTypeScript,
	".cts":  MediaTypeTypeScript,
	".tsx":  MediaTypeTSX,
	".json": MediaTypeJSON,
}

// fallbackExtensions are tried in order for an extensionless import that does not exist on disk.
// Plain .js and .json are left to the require resolver.
var fallbackExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".jsx", ".mjs", ".cjs"}

// MediaTypeOf returns the media type for a path. Declaration files (.d.ts, .d.mts, .d.cts)
// are TypeScript.
//
// Parameters:
//   - path: the module path
//
// Returns:
//   - MediaType: the media type, or MediaTypeUnknown
func MediaTypeOf(path string) MediaType {
	ext := strings.ToLower(filepath.Ext(path))
	return mediaTypes[ext]
}

func (m MediaType) String() string {
	switch m {
	case MediaTypeJavaScript:
		return "javascript"
	case MediaTypeJSX:
		return "jsx"
	case MediaTypeTypeScript:
		return "typescript"
	case MediaTypeTSX:
		return "tsx"
	case MediaTypeJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Transpiled reports whether sources of this type are passed through esbuild.
func (m MediaType) Transpiled() bool {
	switch m {
	case MediaTypeJavaScript, MediaTypeJSX, MediaTypeTypeScript, MediaTypeTSX:
		return true
	default:
		return false
	}
}

func (m MediaType) esbuildLoader() api.Loader {
	switch m {
	case MediaTypeJSX:
		return api.LoaderJSX
	case MediaTypeTypeScript:
		return api.LoaderTS
	case MediaTypeTSX:
		return api.LoaderTSX
	default:
		return api.LoaderJS
	}
}
