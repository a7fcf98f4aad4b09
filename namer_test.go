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
	"path/filepath"
	"testing"
	"time"

	"github.com/TimeWtr/flogx/errorx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var namerNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestFileNamer_ExplicitFile(t *testing.T) {
	n := newFileNamer()
	path, err := n.resolve(&Config{file: "/var/log/app/custom.log", filePath: "/ignored"}, namerNow)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/app/custom.log", path)
}

func TestFileNamer_DateNaming(t *testing.T) {
	n := newFileNamer()
	path, err := n.resolve(&Config{filePath: "/var/log/app"}, namerNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/log/app", "2024-01-02.log"), path)
}

func TestFileNamer_TagAndInfix(t *testing.T) {
	n := newFileNamer()
	path, err := n.resolve(&Config{filePath: "/var/log/app", tag: "api", serverInfix: "cli-server"}, namerNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/log/app", "2024-01-02-api-cli-server.log"), path)
}

func TestFileNamer_FileNameOverride(t *testing.T) {
	n := newFileNamer()
	path, err := n.resolve(&Config{filePath: "/var/log/app", fileName: "server"}, namerNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/log/app", "server.log"), path)
}

func TestFileNamer_NoDirectory(t *testing.T) {
	n := newFileNamer()
	_, err := n.resolve(&Config{}, namerNow)
	assert.ErrorIs(t, err, errorx.ErrNoDirectory)
}

func TestFileNamer_CacheAndInvalidate(t *testing.T) {
	n := newFileNamer()
	cfg := &Config{filePath: "/var/log/app"}

	first, err := n.resolve(cfg, namerNow)
	require.NoError(t, err)

	// 缓存命中：选项变更在失效前不生效
	cfg.filePath = "/var/log/other"
	cached, err := n.resolve(cfg, namerNow)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	n.invalidate()
	fresh, err := n.resolve(cfg, namerNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/log/other", "2024-01-02.log"), fresh)
}
