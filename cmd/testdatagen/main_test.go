package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/Aleph-Alpha/testdatagen/v1/schema/schematest"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestReadRecords(t *testing.T) {
	recs, err := readRecords(strings.NewReader(`[{"a":1},{"a":2}]
{"a":3}
{"a":4}`))
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, 3.0, recs[2]["a"])

	_, err = readRecords(strings.NewReader(`{"a":1} 42`))
	assert.ErrorContains(t, err, "record 1")

	_, err = readRecords(strings.NewReader(`[{"a":1}, "x"]`))
	assert.ErrorContains(t, err, "record 0[1]")

	recs, err = readRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExpandRecords(t *testing.T) {
	a := map[string]interface{}{"n": "a"}
	b := map[string]interface{}{"n": "b"}

	assert.Len(t, expandRecords(nil, 0), 1)
	assert.Len(t, expandRecords(nil, 3), 3)
	assert.Equal(t, []map[string]interface{}{a, b}, expandRecords([]map[string]interface{}{a, b}, 0))
	assert.Equal(t, []map[string]interface{}{a, b, a}, expandRecords([]map[string]interface{}{a, b}, 3))
}

func TestRecordKey(t *testing.T) {
	rec := map[string]interface{}{"id": 7.0, "email": "ada@example.com", "none": nil}
	assert.Nil(t, recordKey(rec, ""))
	assert.Nil(t, recordKey(rec, "missing"))
	assert.Nil(t, recordKey(rec, "none"))
	assert.Equal(t, []byte("ada@example.com"), recordKey(rec, "email"))
	assert.Equal(t, []byte("7"), recordKey(rec, "id"))
}

func TestSubcommand(t *testing.T) {
	sub, rest, err := subcommand("topic", []string{"list", "-internal"}, "create", "list")
	require.NoError(t, err)
	assert.Equal(t, "list", sub)
	assert.Equal(t, []string{"-internal"}, rest)

	_, _, err = subcommand("topic", nil, "create")
	assert.IsType(t, usageError{}, err)
	_, _, err = subcommand("topic", []string{"rename"}, "create")
	assert.ErrorContains(t, err, `"rename"`)
}

func TestRunUsage(t *testing.T) {
	t.Chdir(t.TempDir())

	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: testdatagen")
	assert.Contains(t, stderr, "functions")

	code, _, stderr = runCLI(t, "explode")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "explode"`)

	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "testdatagen dev")

	code, _, stderr = runCLI(t, "topic")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "needs a subcommand")
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := writeFile(t, dir, "bad.yaml", []byte("executor:\n  security_level: jail\n"))

	code, _, stderr := runCLI(t, "-config", cfg, "functions", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "executor.security_level")
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	set, err := proto.Marshal(schematest.DescriptorSet())
	require.NoError(t, err)
	descriptors := writeFile(t, dir, "user.pb", set)
	mappingFile := writeFile(t, dir, "mapping.yaml", []byte(`
field_mappings:
  full_name:
    source: name
    transform: upper
  email:
    source: contact.email
    required: true
`))
	input := writeFile(t, dir, "users.json", []byte(`[
{"name": "ada lovelace", "contact": {"email": "ada@example.com"}, "age": 36},
{"name": "nobody"}
]`))

	code, stdout, stderr := runCLI(t, "generate",
		"-descriptor-set", descriptors,
		"-target", schematest.UserName,
		"-mapping", mappingFile,
		"-input", input,
	)
	assert.Equal(t, 1, code, "the second record misses a required field")
	assert.Contains(t, stderr, "record 1")
	assert.Contains(t, stderr, "1 of 2 records failed")

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 1)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "ADA LOVELACE", got["full_name"])
	assert.Equal(t, "ada@example.com", got["email"])
	assert.Equal(t, 36.0, got["age"])
}

func TestGenerateWithFaker(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	set, err := proto.Marshal(schematest.DescriptorSet())
	require.NoError(t, err)
	descriptors := writeFile(t, dir, "user.pb", set)
	mappingFile := writeFile(t, dir, "mapping.yaml", []byte(`
field_mappings:
  email:
    function: faker.email
`))

	args := []string{"generate",
		"-descriptor-set", descriptors,
		"-target", schematest.UserName,
		"-mapping", mappingFile,
		"-count", "3",
		"-seed", "7",
	}
	code, first, stderr := runCLI(t, args...)
	require.Equal(t, 0, code, stderr)
	assert.Len(t, strings.Split(strings.TrimSpace(first), "\n"), 3)
	assert.Contains(t, first, "@")

	_, second, _ := runCLI(t, args...)
	assert.Equal(t, first, second, "a fixed seed reproduces the output")
}

func TestFunctionsList(t *testing.T) {
	t.Chdir(t.TempDir())

	code, stdout, stderr := runCLI(t, "functions", "list", "-category", "string")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "upper")
	assert.NotContains(t, stdout, "faker.email")

	code, stdout, _ = runCLI(t, "functions", "search", "email")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "faker.email")

	code, _, stderr = runCLI(t, "functions", "list", "-category", "nonsense")
	assert.Equal(t, 2, code)
	assert.NotEmpty(t, stderr)
}

func TestFunctionsValidateAndExport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	code, stdout, stderr := runCLI(t, "functions", "validate", "-level", "basic", "upper")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "upper: valid at level basic")

	code, _, stderr = runCLI(t, "functions", "validate", "missing")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr)

	out := filepath.Join(dir, "functions.yaml")
	code, _, stderr = runCLI(t, "functions", "export", "-o", out)
	require.Equal(t, 0, code, stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "upper")

	code, stdout, _ = runCLI(t, "functions", "stats")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "registry:")
}

func TestSchemaShow(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	set, err := proto.Marshal(schematest.DescriptorSet())
	require.NoError(t, err)
	descriptors := writeFile(t, dir, "user.pb", set)

	code, stdout, stderr := runCLI(t, "schema", "show", "-descriptor-set", descriptors, "-message", schematest.UserName)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "message User {")

	code, _, _ = runCLI(t, "schema", "register", "-descriptor-set", descriptors)
	assert.Equal(t, 2, code)
}

func TestProduceNeedsTopic(t *testing.T) {
	t.Chdir(t.TempDir())
	code, _, stderr := runCLI(t, "produce")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "no topic")
}
