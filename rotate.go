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
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TimeWtr/flogx/errorx"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

type CompressLevel int

const (
	NoCompression      CompressLevel = gzip.NoCompression
	BestSpeed          CompressLevel = gzip.BestSpeed
	BestCompression    CompressLevel = gzip.BestCompression
	DefaultCompression CompressLevel = gzip.DefaultCompression
	HuffmanOnly        CompressLevel = gzip.HuffmanOnly
)

func (l CompressLevel) Int() int {
	return int(l)
}

// RotatePolicy 日志轮转的触发策略
type RotatePolicy uint8

const (
	// RotateHourWindow 仅在当前UTC小时等于配置的轮转小时时执行
	RotateHourWindow RotatePolicy = iota + 1
	// RotateUnconditional 每次成功写入后都执行
	RotateUnconditional
)

// RotateStrategy 日志轮转策略：压缩目录内除当前活跃文件外的全部.log文件，
// 压缩完成后删除原文件。不和并发的写入方或解析方做同步。
type RotateStrategy struct {
	// 触发策略
	policy RotatePolicy
	// 小时窗口策略下执行轮转的小时(UTC)
	hour int
	// 压缩的级别
	level CompressLevel
	// 后台定时任务
	cr *cron.Cron
	// 单例
	once sync.Once
}

func NewRotateStrategy(cfg *Config) *RotateStrategy {
	return &RotateStrategy{
		policy: cfg.rotatePolicy,
		hour:   cfg.rotateHour,
		level:  cfg.compressionLevel,
	}
}

// Rotate 写入后触发的轮转入口，active是本次写入的目标文件。
// 小时窗口策略下不在窗口内时直接返回。
func (r *RotateStrategy) Rotate(active string, now time.Time) error {
	if r.policy == RotateHourWindow && now.UTC().Hour() != r.hour {
		return nil
	}

	return r.rotateDir(active)
}

// rotateDir 轮转active所在目录，逐文件的压缩任务通过errgroup并发执行，
// 返回批次中遇到的第一个失败，其余任务仍执行完毕。
func (r *RotateStrategy) rotateDir(active string) error {
	absActive, err := filepath.Abs(active)
	if err != nil {
		return fmt.Errorf("%w: %v", errorx.ErrRotate, err)
	}

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(active), "*.log"))
	if err != nil {
		return fmt.Errorf("%w: %v", errorx.ErrRotate, err)
	}

	var eg errgroup.Group
	for _, m := range matches {
		abs, aerr := filepath.Abs(m)
		if aerr != nil || abs == absActive {
			continue
		}

		eg.Go(func() error {
			return r.compressOne(abs)
		})
	}

	if err = eg.Wait(); err != nil {
		return fmt.Errorf("%w: %v", errorx.ErrRotate, err)
	}

	return nil
}

// compressOne 将单个日志文件压缩为同名.log.gz并删除原文件。
// 已存在的同名压缩文件先删除再覆盖，删除失败时跳过该文件，不中断整个批次。
func (r *RotateStrategy) compressOne(path string) error {
	target := path + ".gz"
	if _, err := os.Stat(target); err == nil {
		if err = os.Remove(target); err != nil {
			return nil
		}
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", path, err)
	}

	dst, err := os.Create(target)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("failed to create %s: %v", target, err)
	}

	gz, err := gzip.NewWriterLevel(dst, r.level.Int())
	if err != nil {
		_ = src.Close()
		_ = dst.Close()
		return fmt.Errorf("invalid compression level %d: %v", r.level.Int(), err)
	}

	_, err = io.Copy(gz, src)
	if cerr := gz.Close(); err == nil {
		err = cerr
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	_ = src.Close()

	if err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("failed to compress %s: %v", path, err)
	}

	return os.Remove(path)
}

// AsyncWork 开启一个异步的定时任务，每天在配置的轮转小时执行一次全目录轮转，
// active回调返回当前活跃的日志文件路径
func (r *RotateStrategy) AsyncWork(active func() (string, error)) {
	r.once.Do(func() {
		r.cr = cron.New(
			cron.WithLocation(time.UTC),
			cron.WithSeconds())
		_, err := r.cr.AddFunc(fmt.Sprintf("0 0 %d * * *", r.hour), func() {
			path, rerr := active()
			if rerr != nil {
				_, _ = os.Stderr.WriteString(fmt.Sprintf("failed to resolve active file, err: %v\n", rerr))
				return
			}

			if rerr = r.rotateDir(path); rerr != nil {
				_, _ = os.Stderr.WriteString(fmt.Sprintf("failed to rotate, err: %v\n", rerr))
			}
		})

		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("failed to add rotate cron job, err: %v\n", err))
			return
		}

		r.cr.Start()
	})
}

// Close 停掉后台定时任务
func (r *RotateStrategy) Close() {
	if r.cr != nil {
		r.cr.Stop()
	}
}
