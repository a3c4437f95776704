package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"method-integrator/internal/classfile"
	"method-integrator/internal/classpath"
	"method-integrator/internal/plan"
	"method-integrator/internal/strategy"
)

func writeClass(t *testing.T, dir string) string {
	t.Helper()

	c, err := classfile.New("com/example/Widget", "java/lang/Object", classfile.Java8)
	require.NoError(t, err)
	_, err = c.DefineMethod(classfile.AccPublic, "foo", "(I)I", &classfile.Code{
		MaxStack:  1,
		MaxLocals: 2,
		Bytecode:  []byte{0x1b, 0xac}, // iload_1; ireturn
	})
	require.NoError(t, err)
	_, err = c.DefineMethod(classfile.AccPublic|classfile.AccNative, "bar", "()V", nil)
	require.NoError(t, err)

	data, err := c.Bytes()
	require.NoError(t, err)

	path := filepath.Join(dir, "Widget.class")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParseStep(t *testing.T) {
	tests := []struct {
		in      string
		want    strategy.Step
		wantErr bool
	}{
		{in: "stub", want: strategy.Step{Name: "stub"}},
		{in: " stub ", want: strategy.Step{Name: "stub"}},
		{in: "access-flags:set=final", want: strategy.Step{Name: "access-flags", Options: map[string]string{"set": "final"}}},
		{
			in:   "access-flags:set=final|static, clear=public",
			want: strategy.Step{Name: "access-flags", Options: map[string]string{"set": "final|static", "clear": "public"}},
		},
		{in: "strip-debug:", want: strategy.Step{Name: "strip-debug", Options: map[string]string{}}},
		{
			in:   "strip-debug:attributes=LineNumberTable|LocalVariableTable",
			want: strategy.Step{Name: "strip-debug", Options: map[string]string{"attributes": "LineNumberTable|LocalVariableTable"}},
		},
		{in: ":set=final", wantErr: true},
		{in: "access-flags:final", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseStep(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntegrateCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeClass(t, dir)
	out := filepath.Join(dir, "Out.class")

	stdout, _, err := run(t, "integrate", in, "-m", "FOO", "--strategy", "stub", "--strategy", "access-flags:set=final", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "com.example.Widget: 1 method(s) transformed")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	c, err := classfile.Parse(data)
	require.NoError(t, err)

	foo, ok := c.Method("foo", "(I)I")
	require.True(t, ok)
	assert.NotZero(t, foo.AccessFlags&classfile.AccFinal)
	code, err := foo.Code()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0xac}, code.Bytecode)
}

func TestIntegrateCommand_NotFound(t *testing.T) {
	dir := t.TempDir()
	in := writeClass(t, dir)
	out := filepath.Join(dir, "Out.class")

	stdout, stderr, err := run(t, "integrate", in, "-m", "baz", "-s", "()V", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "0 method(s) transformed")
	assert.Contains(t, stderr, "warning: [com.example.Widget] baz()V: [method_not_found]")
	assert.FileExists(t, out)
}

func TestIntegrateCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	in := writeClass(t, dir)
	out := filepath.Join(dir, "Out.class")

	_, _, err := run(t, "integrate", in, "-m", "bar", "--strategy", "stub", "-o", out)
	require.Error(t, err)
	assert.NoFileExists(t, out)

	_, _, err = run(t, "integrate", in, "-m", "foo", "--strategy", "inline", "-o", out)
	assert.ErrorIs(t, err, strategy.ErrUnknownStrategy)
}

// writeSubclass writes com.example.Base under cp and a com.example.Widget
// extending it, both with a public no-arg constructor.
func writeSubclass(t *testing.T, dir, cp string) string {
	t.Helper()

	write := func(name, super, path string) {
		c, err := classfile.New(name, super, classfile.Java8)
		require.NoError(t, err)
		_, err = c.DefineMethod(classfile.AccPublic, "<init>", "()V", &classfile.Code{MaxLocals: 1, Bytecode: []byte{0xb1}})
		require.NoError(t, err)
		data, err := c.Bytes()
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	write("com/example/Base", "java/lang/Object", filepath.Join(cp, "com", "example", "Base.class"))
	path := filepath.Join(dir, "Widget.class")
	write("com/example/Widget", "com/example/Base", path)
	return path
}

func TestIntegrateCommand_ConstructorClasspath(t *testing.T) {
	dir := t.TempDir()
	cp := filepath.Join(dir, "classes")
	in := writeSubclass(t, dir, cp)
	out := filepath.Join(dir, "Out.class")

	_, _, err := run(t, "integrate", in, "-m", "<init>", "--strategy", "stub", "-o", out)
	require.ErrorIs(t, err, classpath.ErrClassNotFound)
	assert.NoFileExists(t, out)

	stdout, _, err := run(t, "integrate", in, "-m", "<init>", "--strategy", "stub", "--classpath", cp, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 method(s) transformed")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	c, err := classfile.Parse(data)
	require.NoError(t, err)
	ctor, ok := c.Method("<init>", "()V")
	require.True(t, ok)
	code, err := ctor.Code()
	require.NoError(t, err)
	assert.Len(t, code.Bytecode, 5)
}

func TestIntegrateCommand_SavePlan(t *testing.T) {
	dir := t.TempDir()
	cp := filepath.Join(dir, "classes")
	require.NoError(t, os.MkdirAll(filepath.Join(cp, "com", "example"), 0o755))
	in := writeClass(t, filepath.Join(cp, "com", "example"))
	out := filepath.Join(dir, "Out.class")
	planPath := filepath.Join(dir, "plan.yaml")

	_, _, err := run(t, "integrate", in, "-m", "foo", "--strategy", "stub", "--classpath", cp, "-o", out, "--save-plan", planPath)
	require.NoError(t, err)
	_, _, err = run(t, "integrate", in, "-m", "foo", "-s", "(I)I",
		"--strategy", "strip-debug:attributes=LineNumberTable|LocalVariableTable", "--classpath", cp, "-o", out, "--save-plan", planPath)
	require.NoError(t, err)

	f, err := plan.LoadFile(planPath)
	require.NoError(t, err)
	assert.Equal(t, plan.StringOrArray{cp}, f.Classpath)
	require.Len(t, f.Integrations, 2)
	assert.Equal(t, "com.example.Widget", f.Integrations[0].Class)
	assert.Equal(t, []string{"stub"}, f.Integrations[0].Strategies.Names())
	assert.Equal(t, "(I)I", f.Integrations[1].Signature)
	assert.Equal(t, map[string]string{"attributes": "LineNumberTable|LocalVariableTable"}, f.Integrations[1].Strategies[0].Options)

	// The saved plan replays without extra flags.
	stdout, _, err := run(t, "apply", "-p", planPath, "-o", filepath.Join(dir, "replay"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "com.example.Widget: ok, 2 method(s) transformed")
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes", "com", "example")
	require.NoError(t, os.MkdirAll(classes, 0o755))
	writeClass(t, classes)

	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte(`
classpath: classes
integrations:
  - class: com.example.Widget
    method: foo
    strategies: [stub]
`), 0o644))

	out := filepath.Join(dir, "out")
	stdout, _, err := run(t, "apply", "-p", planPath, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "com.example.Widget: ok, 1 method(s) transformed")
	assert.FileExists(t, filepath.Join(out, "com", "example", "Widget.class"))
}

func TestApplyCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes", "com", "example")
	require.NoError(t, os.MkdirAll(classes, 0o755))
	writeClass(t, classes)

	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte(`
classpath: classes
integrations:
  - {class: com.example.Widget, method: bar, strategies: stub}
`), 0o644))

	stdout, stderr, err := run(t, "apply", "-p", planPath, "-o", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, stdout, "unchanged (failed)")
	assert.Contains(t, stderr, "integration_failed")
}

func TestInspectCommand(t *testing.T) {
	in := writeClass(t, t.TempDir())

	stdout, _, err := run(t, "inspect", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "class com.example.Widget (version 52.0)")
	assert.Contains(t, stdout, "extends java/lang/Object")
	assert.Contains(t, stdout, "foo(I)I")
	assert.Contains(t, stdout, "[code 2 bytes, stack 1, locals 2]")
	assert.Contains(t, stdout, "bar()V")
	assert.Contains(t, stdout, "public native")

	stdout, _, err = run(t, "inspect", "--dump", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "classfile.Class")
	assert.Contains(t, stdout, `Descriptor: (string) (len=4) "(I)I"`)
}
