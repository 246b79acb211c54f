package loader

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	gojarequire "github.com/dop251/goja_nodejs/require"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newTestLoader(t *testing.T, options ...LoaderBuilderOption) *loaderImpl {
	t.Helper()
	l, err := NewLoader(options...)
	require.NoError(t, err)
	return l.(*loaderImpl)
}

func TestMediaTypeOf(t *testing.T) {
	tests := []struct {
		path string
		want MediaType
	}{
		{"main.js", MediaTypeJavaScript},
		{"main.mjs", MediaTypeJavaScript},
		{"main.cjs", MediaTypeJavaScript},
		{"view.jsx", MediaTypeJSX},
		{"main.ts", MediaTypeTypeScript},
		{"main.MTS", MediaTypeTypeScript},
		{"types.d.ts", MediaTypeTypeScript},
		{"main.cts", MediaTypeTypeScript},
		{"view.tsx", MediaTypeTSX},
		{"data.json", MediaTypeJSON},
		{"shader.wgsl", MediaTypeUnknown},
		{"README", MediaTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaTypeOf(tt.path))
		})
	}
}

func TestLoadTypeScript(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "main.ts", `
import { drawFrame } from "gpu";
const count: number = 3;
export function draw(): void { drawFrame(0, 0, 0, 0, 1, count, 1); }
`)
	l := newTestLoader(t)

	code, err := l.Load(filepath.ToSlash(p))
	require.NoError(t, err)
	assert.Contains(t, string(code), `require("gpu")`)
	assert.NotContains(t, string(code), ": number")
	assert.NotContains(t, string(code), "import {")
	assert.Equal(t, 1, l.CacheLen())
}

func TestLoadJSONIsNotTranspiled(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.json", `{"title": "Demo"}`)
	l := newTestLoader(t)

	code, err := l.Load(p)
	require.NoError(t, err)
	assert.Equal(t, `{"title": "Demo"}`, string(code))
}

func TestLoadResolvesExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.ts", `export const n: number = 1;`)
	l := newTestLoader(t)

	code, err := l.Load(filepath.Join(dir, "util"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "n")

	_, err = l.Load(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, gojarequire.ModuleFileDoesNotExistError)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shader.wgsl", "@vertex fn main() {}")
	writeFile(t, dir, "broken.ts", "const = ;")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "lib"), 0o755))
	l := newTestLoader(t)

	t.Run("unknown extension", func(t *testing.T) {
		_, err := l.Load(filepath.Join(dir, "shader.wgsl"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)

		var mtErr *UnsupportedMediaTypeError
		require.True(t, errors.As(err, &mtErr))
		assert.Equal(t, ".wgsl", mtErr.Ext)
		assert.Contains(t, mtErr.Error(), "unknown extension")
	})

	t.Run("transpile error", func(t *testing.T) {
		_, err := l.Load(filepath.Join(dir, "broken.ts"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTranspile)

		var tErr *TranspileError
		require.True(t, errors.As(err, &tErr))
		assert.NotEmpty(t, tErr.Messages)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Load(filepath.Join(dir, "nope.ts"))
		assert.ErrorIs(t, err, gojarequire.ModuleFileDoesNotExistError)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := l.Load(filepath.Join(dir, "lib"))
		assert.ErrorIs(t, err, gojarequire.ModuleFileDoesNotExistError)
	})

	assert.Equal(t, 0, l.CacheLen())
}

func TestLoadCacheInvalidation(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "main.ts", `export const a: number = 1;`)
	l := newTestLoader(t)

	first, err := l.Load(p)
	require.NoError(t, err)
	again, err := l.Load(p)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(p, []byte(`export const changed: number = 2;`), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(p, later, later))

	updated, err := l.Load(p)
	require.NoError(t, err)
	assert.Contains(t, string(updated), "changed")
	assert.Equal(t, 1, l.CacheLen())
}

func TestLoadCacheEviction(t *testing.T) {
	dir := t.TempDir()
	l := newTestLoader(t, WithCacheSize(2))

	for _, name := range []string{"a.js", "b.js", "c.js"} {
		_, err := l.Load(writeFile(t, dir, name, "module.exports = 1;"))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, l.CacheLen())
}

func TestPrefetch(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ts", `
import { helper } from "./lib/helper";
import data from "./data.json";
import * as gpu from "gpu";
helper(data, gpu);
`)
	writeFile(t, dir, "lib/helper.ts", `
import { shared } from "../shared";
export function helper(a: unknown, b: unknown) { return shared(a, b); }
`)
	writeFile(t, dir, "shared.js", `export function shared(a, b) { return [a, b]; }`)
	writeFile(t, dir, "data.json", `{"n": 1}`)

	l := newTestLoader(t, WithPrefetchWorkers(2))
	n, err := l.Prefetch(entry)
	require.NoError(t, err)

	// main.ts, lib/helper.ts and data.json are found directly. shared resolves through
	// require's own .js lookup, so it is not counted here.
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, l.CacheLen())
}

func TestPrefetchReportsFailures(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.js", `
const a = require("./broken.ts");
const b = require("./missing.ts");
`)
	writeFile(t, dir, "broken.ts", "const = ;")
	l := newTestLoader(t)

	n, err := l.Prefetch(entry)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrTranspile)
	assert.ErrorIs(t, err, gojarequire.ModuleFileDoesNotExistError)
}

func TestRelativeImports(t *testing.T) {
	code := []byte(`var a = require("./a"); var b = require( '../b.json' ); var g = require("gpu");`)

	got := relativeImports(filepath.Join("root", "src", "main.ts"), code)
	sort.Strings(got)
	assert.Equal(t, []string{filepath.Join("root", "b.json"), filepath.Join("root", "src", "a")}, got)
}

func TestClose(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ts", `export const x: number = 1;`)
	l := newTestLoader(t)

	n, err := l.Prefetch(entry)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NotNil(t, l.pool)

	l.Close()
	assert.Nil(t, l.pool)
	l.Close()

	_, err = l.Prefetch(entry)
	assert.ErrorIs(t, err, ErrClosed)

	// Loading is unaffected by the stopped pool.
	_, err = l.Load(entry)
	assert.NoError(t, err)
}
