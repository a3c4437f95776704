package plan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/commonlog"

	"method-integrator/internal/classfile"
	"method-integrator/internal/classpath"
	"method-integrator/internal/diagnostic"
	"method-integrator/internal/integration"
	"method-integrator/internal/strategy"
)

// writeWidget writes com/example/Widget with foo()I and bar()V under dir.
func writeWidget(t *testing.T, dir string) []byte {
	t.Helper()

	c, err := classfile.New("com/example/Widget", "java/lang/Object", classfile.Java8)
	require.NoError(t, err)
	_, err = c.DefineMethod(classfile.AccPublic, "foo", "()I", &classfile.Code{
		MaxStack:  2,
		MaxLocals: 1,
		Bytecode:  []byte{0x04, 0x05, 0x60, 0xac}, // iconst_1; iconst_2; iadd; ireturn
	})
	require.NoError(t, err)
	_, err = c.DefineMethod(classfile.AccPublic, "bar", "()V", &classfile.Code{MaxLocals: 1, Bytecode: []byte{0xb1}})
	require.NoError(t, err)

	data, err := c.Bytes()
	require.NoError(t, err)

	path := filepath.Join(dir, "com", "example", "Widget.class")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return data
}

func newTestRunner(t *testing.T, opts ...RunnerOption) (*Runner, string, []byte) {
	t.Helper()

	in, out := t.TempDir(), t.TempDir()
	data := writeWidget(t, in)
	opts = append([]RunnerOption{WithLogger(commonlog.MOCK_LOGGER)}, opts...)

	return NewRunner(classpath.Dir(in), out, opts...), out, data
}

func readOutput(t *testing.T, path string) *classfile.Class {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	c, err := classfile.Parse(data)
	require.NoError(t, err)
	return c
}

func TestRunner_Run(t *testing.T) {
	runner, out, _ := newTestRunner(t)

	f, err := Parse([]byte(`
integrations:
  - class: com/example/Widget
    method: foo
    strategies: stub
  - class: com.example.Widget
    method: FOO
    signature: "()I"
    strategies: {name: access-flags, options: {set: final}}
  - class: com.example.Widget
    method: missing
    strategies: identity
`))
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, report.Failed())
	require.Len(t, report.Classes, 1)

	cr := report.Classes[0]
	assert.Equal(t, "com.example.Widget", cr.Class)
	assert.Equal(t, []string{"foo()I", "foo()I"}, cr.Transformed)
	assert.False(t, cr.Failed)
	assert.Equal(t, filepath.Join(out, "com", "example", "Widget.class"), cr.Path)
	assert.True(t, report.Diagnostics.HasCode(diagnostic.CodeMethodNotFound))

	c := readOutput(t, cr.Path)
	foo, ok := c.Method("foo", "()I")
	require.True(t, ok)
	assert.NotZero(t, foo.AccessFlags&classfile.AccFinal)
	code, err := foo.Code()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0xac}, code.Bytecode)

	_, ok = c.Method("bar", "()V")
	assert.True(t, ok)
}

func TestRunner_FailureKeepsOriginal(t *testing.T) {
	registry := strategy.Default()
	require.NoError(t, registry.Register("explode", func(map[string]string) (integration.Strategy, error) {
		return integration.StrategyFunc(func(*classfile.Method) (*classfile.Method, error) {
			return nil, errors.New("boom")
		}), nil
	}))

	runner, _, original := newTestRunner(t, WithRegistry(registry))

	f, err := Parse([]byte(`
integrations:
  - {class: com.example.Widget, method: bar, strategies: stub}
  - {class: com.example.Widget, method: foo, strategies: explode}
`))
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, report.Failed())
	require.Len(t, report.Classes, 1)
	assert.True(t, report.Classes[0].Failed)
	assert.Empty(t, report.Classes[0].Transformed)

	require.Len(t, report.Diagnostics.Errors, 1)
	assert.Equal(t, diagnostic.CodeIntegrationFailed, report.Diagnostics.Errors[0].Code)
	assert.Equal(t, "foo", report.Diagnostics.Errors[0].Method)

	written, err := os.ReadFile(report.Classes[0].Path)
	require.NoError(t, err)
	assert.Equal(t, original, written)
}

func TestRunner_ClassNotFound(t *testing.T) {
	runner, out, _ := newTestRunner(t)

	f, err := Parse([]byte("integrations: [{class: com.example.Missing, method: run, strategies: stub}]\n"))
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), f)
	require.NoError(t, err)
	assert.Empty(t, report.Classes)
	assert.True(t, report.Diagnostics.HasCode(diagnostic.CodeClassNotFound))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunner_InvalidPlan(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	f, err := Parse([]byte("integrations: [{class: com.example.Widget, method: foo, strategies: inline}]\n"))
	require.NoError(t, err)

	report, err := runner.Run(context.Background(), f)
	require.Error(t, err)
	assert.True(t, report.Diagnostics.HasCode(diagnostic.CodeUnknownStrategy))
	assert.Empty(t, report.Classes)
}

func TestRunner_Cancelled(t *testing.T) {
	runner, _, _ := newTestRunner(t)

	f, err := Parse([]byte("integrations: [{class: com.example.Widget, method: foo, strategies: stub}]\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runner.Run(ctx, f)
	assert.ErrorIs(t, err, context.Canceled)
}
