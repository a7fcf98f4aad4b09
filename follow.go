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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/TimeWtr/flogx/errorx"
	"github.com/fsnotify/fsnotify"
)

// followPollInterval 事件丢失时的兜底轮询间隔
const followPollInterval = 200 * time.Millisecond

// Follow 持续追踪一个活跃日志文件，从当前文件尾开始，新追加的完整条目
// 解析成功后发往返回的通道。文件变更通过fsnotify感知，另有定时轮询兜底。
// ctx取消后通道关闭。和Parser一样是尽力而为：坏条目被跳过。
func Follow(ctx context.Context, path string) (<-chan *LogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errorx.ErrParseFile, path, err)
	}

	if _, err = f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %v", errorx.ErrParseFile, path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err = w.Add(path); err != nil {
		_ = f.Close()
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	out := make(chan *LogRecord)
	go followLoop(ctx, f, w, out)

	return out, nil
}

func followLoop(ctx context.Context, f *os.File, w *fsnotify.Watcher, out chan<- *LogRecord) {
	defer func() {
		_ = w.Close()
		_ = f.Close()
		close(out)
	}()

	br := bufio.NewReader(f)
	ticker := time.NewTicker(followPollInterval)
	defer ticker.Stop()

	var (
		buf []string
		// 文件尾读到的半行，等待后续追加补全
		partial string
	)

	drain := func() bool {
		for {
			chunk, err := br.ReadString('\n')
			if err != nil {
				if chunk != "" {
					partial += chunk
				}
				return true
			}

			line := partial + chunk
			partial = ""
			trimmed := strings.TrimRight(line, "\r\n")
			if trimmed != "" {
				buf = append(buf, trimmed)
				continue
			}

			if len(buf) == 0 {
				continue
			}

			rec := ParseEntry(strings.Join(buf, "\n"))
			buf = nil
			if rec == nil {
				continue
			}

			select {
			case out <- rec:
			case <-ctx.Done():
				return false
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Write != 0 {
				if !drain() {
					return
				}
			}
		case <-ticker.C:
			if !drain() {
				return
			}
		case werr, ok := <-w.Errors:
			if !ok {
				return
			}
			_, _ = os.Stderr.WriteString(fmt.Sprintf("watch error: %v\n", werr))
		}
	}
}
