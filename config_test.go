// Copyright 2025 TimeWtr
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flogx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
level: [error, warn]
tag: -api
directory: /var/log/app
layout: "2006-01-02 15:04:05"
json: true
indent: "  "
rotate: true
rotate_hour: 3
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flogx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	opts, err := LoadConfig(path)
	require.NoError(t, err)

	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	assert.Equal(t, LevelError|LevelWarn, cfg.level)
	assert.Equal(t, "api", cfg.tag)
	assert.Equal(t, "/var/log/app", cfg.filePath)
	assert.Equal(t, "2006-01-02 15:04:05", cfg.layout)
	assert.True(t, cfg.json)
	assert.Equal(t, "  ", cfg.indent)
	assert.True(t, cfg.rotate)
	assert.Equal(t, 3, cfg.rotateHour)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_IntoLogger(t *testing.T) {
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	path := filepath.Join(dir, "flogx.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("level: [info]\ndirectory: "+logDir+"\n"), 0o644))

	opts, err := LoadConfig(path)
	require.NoError(t, err)

	opts = append(opts, WithLocation("UTC"), WithClock(fixedClock()))
	l, err := NewLogger(opts...)
	require.NoError(t, err)

	ok, err := l.Info("from yaml config")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Debug("filtered out")
	require.NoError(t, err)
	assert.False(t, ok)
}
