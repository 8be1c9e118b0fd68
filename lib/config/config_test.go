package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yuri91/wasp/lib/features"
)

func TestLoadBuiltinMVP(t *testing.T) {
	set, err := Load("mvp")
	require.NoError(t, err)
	require.True(t, set.Has(features.MutableGlobals))
	require.False(t, set.Has(features.BulkMemory))
}

func TestLoadBuiltinMVPBulkMemory(t *testing.T) {
	set, err := Load("mvp+bulk-memory")
	require.NoError(t, err)
	require.True(t, set.Has(features.MutableGlobals))
	require.True(t, set.Has(features.BulkMemory))
	require.False(t, set.Has(features.SIMD))
}

func TestLoadBuiltinAll(t *testing.T) {
	set, err := Load("all")
	require.NoError(t, err)
	for _, f := range features.AllFlags() {
		require.True(t, set.Has(f), "expected %s enabled", f)
	}
}

func TestLoadFileParsesYAMLProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	contents := "name: custom\nenable:\n  - simd\n  - threads\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	set, err := Load(path)
	require.NoError(t, err)
	require.True(t, set.Has(features.SIMD))
	require.True(t, set.Has(features.Threads))
	require.False(t, set.Has(features.MutableGlobals))
}

func TestLoadFileRejectsUnknownFeature(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	contents := "name: bad\nenable:\n  - not_a_real_feature\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
