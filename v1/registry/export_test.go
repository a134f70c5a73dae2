package registry

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExportWritesMetadataOnly(t *testing.T) {
	reg := New(nil)
	require.True(t, reg.Register("upper", strings.ToUpper, "Upper-case", CategoryString,
		WithTags("case", "text"),
		WithAliases("to_upper"),
		WithInputTypes(reflect.TypeOf("")),
		WithOutputType(reflect.TypeOf("")),
		WithCapabilities(capability.Clock),
		WithVersion("2.0.0")))

	var buf bytes.Buffer
	require.NoError(t, reg.Export(&buf))

	var doc ExportDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Functions, 1)

	m := doc.Functions[0]
	assert.Equal(t, ExportVersion, doc.Version)
	assert.Equal(t, "upper", m.Name)
	assert.Equal(t, []string{"case", "text"}, m.Tags)
	assert.Equal(t, []string{"to_upper"}, m.Aliases)
	assert.Equal(t, []string{"string"}, m.InputTypes)
	assert.Equal(t, "string", m.OutputType)
	assert.Equal(t, []string{"clock"}, m.Capabilities)
	assert.Equal(t, "2.0.0", m.Version)
	assert.Equal(t, "func(string) string", m.Signature)
}

func TestImportIsBestEffort(t *testing.T) {
	src := New(nil)
	require.True(t, src.Register("upper", strings.ToUpper, "Upper-case", CategoryString, WithAliases("to_upper")))
	require.True(t, src.Register("lower", strings.ToLower, "Lower-case", CategoryString))

	path := filepath.Join(t.TempDir(), "functions.yaml")
	require.NoError(t, src.ExportFile(path))

	dst := New(nil)
	report, err := dst.ImportFile(path, func(meta FunctionMetadata) (interface{}, bool) {
		if meta.Name == "upper" {
			return strings.ToUpper, true
		}
		return nil, false
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"upper"}, report.Registered)
	assert.Equal(t, []string{"lower"}, report.Skipped)

	fn, ok := dst.GetFunction("to_upper")
	require.True(t, ok)
	assert.Equal(t, "Upper-case", fn.Description)
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	_, err := New(nil).Import(strings.NewReader("functions: [oops"), func(FunctionMetadata) (interface{}, bool) {
		return nil, false
	})
	assert.Error(t, err)
}
