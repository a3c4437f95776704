package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndQuery(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddWarning(CodeMethodNotFound, "no such method", "com.example.Widget", "foo")
	d.AddInfo(CodeMethodTransformed, "transformed", "com.example.Widget", "bar()V")
	assert.True(t, d.IsValid())
	assert.True(t, d.HasCode(CodeMethodNotFound))
	assert.True(t, d.HasCode(CodeMethodTransformed))
	assert.False(t, d.HasCode(CodeIntegrationFailed))

	d.AddError(CodeIntegrationFailed, "boom", "com.example.Widget", "foo")
	assert.True(t, d.HasErrors())
	require.Error(t, d.Error())
	assert.Equal(t, "[com.example.Widget] foo: [integration_failed] boom", d.Error().Error())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, DiagnosticWarning, all[1].Severity)
	assert.Equal(t, DiagnosticInfo, all[2].Severity)
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddWarning(CodeMethodNotFound, "x", "", "")
	b.AddError(CodeClassNotFound, "y", "", "")
	b.AddInfo(CodeMethodTransformed, "z", "", "")

	a.Merge(b)
	assert.Len(t, a.Errors, 1)
	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Infos, 1)
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{"message only", Diagnostic{Message: "plain"}, "plain"},
		{"code", Diagnostic{Code: "c", Message: "m"}, "[c] m"},
		{"class and method", Diagnostic{Class: "a.B", Method: "foo(I)V", Message: "m"}, "[a.B] foo(I)V: m"},
		{
			"suggestions",
			Diagnostic{Code: CodeMethodNotFound, Message: "no such method", Method: "fo", Suggestions: []string{"foo()V", "foo(I)V"}},
			"fo: [method_not_found] no such method (did you mean: foo()V, foo(I)V)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.String())
		})
	}
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
