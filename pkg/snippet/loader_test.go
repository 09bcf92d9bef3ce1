package snippet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `rpc:
  proto_package: google.cloud.speech.v1
  service_name: Adaptation
  rpc_name: CreateCustomClass
metadata:
  config_id: Basic
signature:
  snippet_method_name: create_custom_class
  parameters:
    - name: parent
      type: str
    - name: custom_class_id
      type: str
service_endpoint:
  host: eu.speech.googleapis.com
  region: eu
`

const jsonConfig = `{
  "rpc": {
    "proto_package": "google.cloud.speech.v1",
    "service_name": "Adaptation",
    "rpc_name": "CreateCustomClass"
  },
  "metadata": {"config_id": "Basic"},
  "signature": {"snippet_method_name": "create_custom_class"}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "basic.yaml", yamlConfig)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		require.NotNil(t, cfg.Rpc)
		assert.Equal(t, "google.cloud.speech.v1", cfg.Rpc.ProtoPackage)
		assert.Equal(t, "Adaptation", cfg.Rpc.ServiceName)
		assert.Equal(t, "CreateCustomClass", cfg.Rpc.RpcName)
		require.NotNil(t, cfg.Metadata)
		assert.Equal(t, "Basic", cfg.Metadata.ConfigID)
		require.NotNil(t, cfg.Signature)
		assert.Equal(t, "create_custom_class", cfg.Signature.SnippetMethodName)
		require.Len(t, cfg.Signature.Parameters, 2)
		assert.Equal(t, "parent", cfg.Signature.Parameters[0].Name)
		assert.Equal(t, "custom_class_id", cfg.Signature.Parameters[1].Name)
		require.NotNil(t, cfg.ServiceEndpoint)
		assert.Equal(t, "eu.speech.googleapis.com", cfg.ServiceEndpoint.Host)
		assert.Equal(t, "eu", cfg.ServiceEndpoint.Region)
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "basic.json", jsonConfig)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.Rpc)
		assert.Equal(t, "Adaptation", cfg.Rpc.ServiceName)
		assert.Nil(t, cfg.ServiceEndpoint)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bad.yaml", "rpc: [unclosed")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestLoadConfigDir(t *testing.T) {
	t.Run("loads in filename order and skips other files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "b.yaml", yamlConfig)
		writeFile(t, dir, "a.json", jsonConfig)
		writeFile(t, dir, "notes.txt", "ignore me")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

		configs, err := LoadConfigDir(dir)
		require.NoError(t, err)
		require.Len(t, configs, 2)
		// a.json sorts before b.yaml and has no endpoint
		assert.Nil(t, configs[0].ServiceEndpoint)
		assert.NotNil(t, configs[1].ServiceEndpoint)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := LoadConfigDir(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
