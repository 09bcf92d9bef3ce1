package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const speechProto = `syntax = "proto3";

package google.cloud.speech.v1;

message CreateCustomClassRequest {
  string parent = 1;
  string custom_class_id = 2;
}

message CustomClass {
  string name = 1;
}

service Adaptation {
  rpc CreateCustomClass(CreateCustomClassRequest) returns (CustomClass);
}
`

func TestParseSources(t *testing.T) {
	t.Run("indexes services and rpcs", func(t *testing.T) {
		api, err := ParseSources(context.Background(), map[string]string{
			"google/cloud/speech/v1/adaptation.proto": speechProto,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"google.cloud.speech.v1"}, api.Packages())
		assert.Equal(t, []string{"Adaptation"}, api.Services())
		assert.True(t, api.HasService("Adaptation"))
		assert.False(t, api.HasService("Recognition"))
		assert.Equal(t, []string{"CreateCustomClass"}, api.RPCs("Adaptation"))
		assert.True(t, api.HasRPC("Adaptation", "CreateCustomClass"))
		assert.False(t, api.HasRPC("Adaptation", "DeleteCustomClass"))
		assert.False(t, api.HasRPC("Recognition", "CreateCustomClass"))
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseSources(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("invalid proto", func(t *testing.T) {
		_, err := ParseSources(context.Background(), map[string]string{
			"broken.proto": "syntax = banana;",
		})
		assert.Error(t, err)
	})
}

func TestParseFiles(t *testing.T) {
	writeProto := func(t *testing.T) (string, string) {
		t.Helper()
		dir := t.TempDir()
		path := filepath.Join(dir, "adaptation.proto")
		require.NoError(t, os.WriteFile(path, []byte(speechProto), 0644))
		return dir, path
	}

	t.Run("no files", func(t *testing.T) {
		_, err := ParseFiles(context.Background(), nil, nil)
		assert.Error(t, err)
	})

	t.Run("absolute path with matching import path", func(t *testing.T) {
		dir, path := writeProto(t)
		api, err := ParseFiles(context.Background(), []string{path}, []string{dir})
		require.NoError(t, err)
		assert.True(t, api.HasRPC("Adaptation", "CreateCustomClass"))
	})

	t.Run("absolute path without import paths", func(t *testing.T) {
		_, path := writeProto(t)
		api, err := ParseFiles(context.Background(), []string{path}, nil)
		require.NoError(t, err)
		assert.True(t, api.HasService("Adaptation"))
	})

	t.Run("import-path-relative name", func(t *testing.T) {
		dir, _ := writeProto(t)
		api, err := ParseFiles(context.Background(), []string{"adaptation.proto"}, []string{dir})
		require.NoError(t, err)
		assert.Equal(t, []string{"Adaptation"}, api.Services())
	})
}

func TestResolveProtoNames(t *testing.T) {
	t.Run("relativizes against the containing import path", func(t *testing.T) {
		names, paths := resolveProtoNames(
			[]string{"/protos/google/speech.proto"},
			[]string{"/protos"},
		)
		assert.Equal(t, []string{filepath.Join("google", "speech.proto")}, names)
		assert.Equal(t, []string{"/protos"}, paths)
	})

	t.Run("unmatched absolute path adds its directory", func(t *testing.T) {
		names, paths := resolveProtoNames(
			[]string{"/elsewhere/speech.proto"},
			[]string{"/protos"},
		)
		assert.Equal(t, []string{"speech.proto"}, names)
		assert.Equal(t, []string{"/protos", "/elsewhere"}, paths)
	})

	t.Run("relative names pass through", func(t *testing.T) {
		names, paths := resolveProtoNames(
			[]string{"google/speech.proto"},
			[]string{"."},
		)
		assert.Equal(t, []string{"google/speech.proto"}, names)
		assert.Equal(t, []string{"."}, paths)
	})
}
