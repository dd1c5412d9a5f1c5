package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventorySource = `package inventory

import "context"

// Item is a stocked product
type Item struct {
	SKU   string ` + "`json:\"sku\"`" + `
	Count int    ` + "`json:\"count\"`" + `
}

//axon::controller -Prefix=/inventory
type ItemController struct{}

//axon::route GET /items/{sku}
func (c *ItemController) Get(ctx context.Context, sku string, verbose bool) (*Item, error) {
	return nil, nil
}

//axon::route PUT /items/{sku}
func (c *ItemController) Put(ctx context.Context, sku string, item Item) error {
	return nil
}
`

const conflictSource = `package inventory

//axon::route POST /items/swap
func (c *ItemController) Swap(a Item, b Item) error {
	return nil
}
`

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/inventory\n\ngo 1.22\n"), 0o644))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "axonbind "+Version)
}

func TestHelp(t *testing.T) {
	code, stdout, _ := execute(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "resolve")
	assert.Contains(t, stdout, "serve")
	assert.Contains(t, stdout, "--convention-b")
}

func TestResolveWritesJSON(t *testing.T) {
	dir := writeModule(t, map[string]string{"inventory.go": inventorySource})

	code, stdout, stderr := execute(t, "resolve", "--module", dir, "--quiet")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, `"swagger": "2.0"`)
	assert.Contains(t, stdout, `"/inventory/items/{sku}"`)
	assert.Contains(t, stdout, `"operationId": "ItemController.Get"`)
	assert.Contains(t, stdout, `"x-echo-path": "/inventory/items/:sku"`)
	assert.Contains(t, stdout, `"$ref": "#/definitions/inventory.Item"`)
}

func TestResolveWritesYAMLFile(t *testing.T) {
	dir := writeModule(t, map[string]string{"inventory.go": inventorySource})
	out := filepath.Join(t.TempDir(), "swagger.yaml")

	code, stdout, stderr := execute(t, "resolve", "--module", dir, "--format", "yaml", "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "operationId: ItemController.Put")
}

func TestResolveHostFromConfigFile(t *testing.T) {
	dir := writeModule(t, map[string]string{"inventory.go": inventorySource})
	cfgFile := filepath.Join(t.TempDir(), "axonbind.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("host: gin\nmodule: "+dir+"\n"), 0o644))

	code, stdout, stderr := execute(t, "resolve", "--config", cfgFile, "--quiet")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"x-gin-path": "/inventory/items/:sku"`)
	assert.NotContains(t, stdout, "x-echo-path")
}

func TestResolveFailures(t *testing.T) {
	files := map[string]string{
		"inventory.go": inventorySource,
		"conflict.go":  conflictSource,
	}

	t.Run("stops by default", func(t *testing.T) {
		dir := writeModule(t, files)
		code, stdout, stderr := execute(t, "resolve", "--module", dir)
		assert.Equal(t, 1, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "more than one body parameter")
		assert.Contains(t, stderr, "--keep-going")
	})

	t.Run("keep going", func(t *testing.T) {
		dir := writeModule(t, files)
		code, stdout, stderr := execute(t, "resolve", "--module", dir, "--keep-going")
		assert.Equal(t, 0, code)
		assert.Contains(t, stderr, "more than one body parameter")
		assert.Contains(t, stdout, "ItemController.Get")
		assert.NotContains(t, stdout, "ItemController.Swap")
	})
}

func TestInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown host", args: []string{"resolve", "--host", "martini"}, want: "host"},
		{name: "unknown format", args: []string{"resolve", "--format", "toml"}, want: "format"},
		{name: "missing config file", args: []string{"resolve", "--config", "/nonexistent/axonbind.yaml"}, want: "/nonexistent/axonbind.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}
