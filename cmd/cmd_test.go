package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/report-designer-api/catalog"
	"github.com/linesmerrill/report-designer-api/designer"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := GetRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetErr(nil)
		root.SetArgs(nil)
	})
	err := root.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range GetRootCmd().Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["validate"])
	assert.True(t, names["catalog"])
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog")
	require.NoError(t, err)

	var got struct {
		Components  []catalog.Category       `json:"components"`
		DataSources []catalog.DataSourceNode `json:"dataSources"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, catalog.NewComponentCatalog().ListCategories(), got.Components)
	assert.Equal(t, catalog.NewDataSourceCatalog().Tree(), got.DataSources)
}

func TestValidateCommand(t *testing.T) {
	d := designer.New(catalog.NewComponentCatalog(), catalog.NewDataSourceCatalog())
	tpl := d.CreateTemplate()
	tpl, _, err := d.AddComponent(tpl, designer.ComponentTable, "summary")
	require.NoError(t, err)
	doc := designer.Serialize(tpl, designer.Metadata{Name: "Summary"}, time.Now())
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid template "+tpl.ID+" with 1 components")
}

func TestValidateCommandInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"template_1"}`), 0o600))

	_, err := run(t, "validate", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, designer.ErrSchema)
}

func TestValidateCommandMissingFile(t *testing.T) {
	_, err := run(t, "validate", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidateCommandRequiresPath(t *testing.T) {
	_, err := run(t, "validate")
	assert.Error(t, err)
}
