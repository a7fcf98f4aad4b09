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
	"time"

	"github.com/TimeWtr/flogx/errorx"
)

// DateLayout 默认按日期命名日志文件的格式
const DateLayout = "2006-01-02"

// fileNamer 目标文件路径的解析器，首次解析后缓存结果，
// 选项变更时由Logger的Set方法显式失效。并发保护由Logger的锁承担。
type fileNamer struct {
	cached string
}

func newFileNamer() *fileNamer {
	return &fileNamer{}
}

// resolve 解析目标文件路径：
// 1. 配置了显式完整路径时直接使用
// 2. 否则必须配置目录，文件名取显式文件名或当天日期，
//    依次追加标签和环境中缀，扩展名固定为.log
func (n *fileNamer) resolve(cfg *Config, now time.Time) (string, error) {
	if n.cached != "" {
		return n.cached, nil
	}

	if cfg.file != "" {
		n.cached = cfg.file
		return n.cached, nil
	}

	if cfg.filePath == "" {
		return "", errorx.ErrNoDirectory
	}

	name := cfg.fileName
	if name == "" {
		name = now.Format(DateLayout)
	}
	if cfg.tag != "" {
		name += "-" + cfg.tag
	}
	if cfg.serverInfix != "" {
		name += "-" + cfg.serverInfix
	}

	n.cached = filepath.Join(cfg.filePath, name+".log")
	return n.cached, nil
}

// invalidate 失效缓存，下一次写入重新按当前选项解析
func (n *fileNamer) invalidate() {
	n.cached = ""
}
