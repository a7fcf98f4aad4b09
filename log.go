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
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TimeWtr/flogx/errorx"
	"github.com/benbjohnson/clock"
)

const (
	// DefaultLocation 默认时区
	DefaultLocation = "Asia/Shanghai"
	// DefaultLayout 默认的时间格式
	DefaultLayout = "2006-01-02 15:04:05"
	// DefaultLevel 默认允许全部四个级别写入
	DefaultLevel = LevelError | LevelWarn | LevelInfo | LevelDebug
	// DefaultRotateHour 小时窗口策略下默认执行轮转的小时(UTC)
	DefaultRotateHour = 22
)

// IPResolver 客户端地址解析器，由宿主环境实现，无法获取时返回空串
type IPResolver interface {
	ClientIP() string
}

type nopIPResolver struct{}

func (nopIPResolver) ClientIP() string { return "" }

// Logger 文件日志写入器，持有级别掩码、去重指纹和目标文件路径缓存。
// 单实例内部用互斥锁串行化写入，跨进程安全依赖操作系统的追加写语义。
type Logger struct {
	// 并发保护
	mu sync.Mutex
	// 配置信息
	cfg *Config
	// 解析后的时区
	loc *time.Location
	// 记录格式化器
	fm *Formatter
	// 目标文件路径解析器
	namer *fileNamer
	// 轮转策略
	rs *RotateStrategy
	// 上一条成功写入记录的指纹，用于抑制连续重复
	lastFP string
}

func NewLogger(opts ...Options) (*Logger, error) {
	cfg := &Config{
		level:            DefaultLevel,
		location:         DefaultLocation,
		layout:           DefaultLayout,
		rotatePolicy:     RotateHourWindow,
		rotateHour:       DefaultRotateHour,
		compressionLevel: DefaultCompression,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.clk == nil {
		cfg.clk = clock.New()
	}
	if cfg.ipr == nil {
		cfg.ipr = nopIPResolver{}
	}

	loc, err := time.LoadLocation(cfg.location)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %s: %w", cfg.location, err)
	}

	l := &Logger{
		cfg:   cfg,
		loc:   loc,
		namer: newFileNamer(),
	}
	l.fm = newFormatter(cfg)
	l.rs = NewRotateStrategy(cfg)

	return l, nil
}

// Write 执行一次写入，流程：级别过滤、格式化、路径解析、目录创建、
// 指纹去重、追加写入、触发轮转。被级别过滤拒绝时返回false且无错误。
// 连续重复的记录跳过实际IO直接返回true。
func (l *Logger) Write(level LoggerLevel, typeOverride string, msg LogMessage) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !level.admits(l.cfg.level) {
		return false, nil
	}

	now := l.cfg.clk.Now().In(l.loc)
	line, err := l.fm.Format(level, typeOverride, msg, now.Format(l.cfg.layout), l.cfg.ipr.ClientIP())
	if err != nil {
		return false, err
	}

	path, err := l.namer.resolve(l.cfg, now)
	if err != nil {
		return false, err
	}

	dir := filepath.Dir(path)
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("%w: %s: %v", errorx.ErrCreateDirectory, dir, err)
		}
	}

	fp := fingerprint(line)
	if fp == l.lastFP {
		return true, nil
	}

	if err = appendFile(path, line); err != nil {
		return false, fmt.Errorf("%w: %s: %v", errorx.ErrWrite, path, err)
	}
	l.lastFP = fp

	if l.cfg.rotate {
		if err = l.rs.Rotate(path, now); err != nil {
			return true, err
		}
	}

	return true, nil
}

// Log 无条件写入，绕过级别过滤
func (l *Logger) Log(v ...any) (bool, error) {
	return l.Write(LevelAll, "", Plain(fmt.Sprint(v...)))
}

func (l *Logger) Error(v ...any) (bool, error) {
	return l.Write(LevelError, "", Plain(fmt.Sprint(v...)))
}

func (l *Logger) Warn(v ...any) (bool, error) {
	return l.Write(LevelWarn, "", Plain(fmt.Sprint(v...)))
}

func (l *Logger) Info(v ...any) (bool, error) {
	return l.Write(LevelInfo, "", Plain(fmt.Sprint(v...)))
}

func (l *Logger) Debug(v ...any) (bool, error) {
	return l.Write(LevelDebug, "", Plain(fmt.Sprint(v...)))
}

func (l *Logger) Logf(format string, v ...any) (bool, error) {
	return l.Write(LevelAll, "", Plain(fmt.Sprintf(format, v...)))
}

func (l *Logger) Errorf(format string, v ...any) (bool, error) {
	return l.Write(LevelError, "", Plain(fmt.Sprintf(format, v...)))
}

func (l *Logger) Warnf(format string, v ...any) (bool, error) {
	return l.Write(LevelWarn, "", Plain(fmt.Sprintf(format, v...)))
}

func (l *Logger) Infof(format string, v ...any) (bool, error) {
	return l.Write(LevelInfo, "", Plain(fmt.Sprintf(format, v...)))
}

func (l *Logger) Debugf(format string, v ...any) (bool, error) {
	return l.Write(LevelDebug, "", Plain(fmt.Sprintf(format, v...)))
}

// Catch 以错误级别写入一个Go error，Unwrap链路记录为Previous链
func (l *Logger) Catch(err error) (bool, error) {
	return l.Write(LevelError, "", Thrown(FromError(err)))
}

// SetLevel 变更级别掩码，掩码之外的位被丢弃
func (l *Logger) SetLevel(level LoggerLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level != LevelAll {
		level &= DefaultLevel
	}
	l.cfg.level = level
}

// SetTag 变更文件名标签并失效路径缓存，标签规范化和赋值在同一临界区内完成
func (l *Logger) SetTag(tag string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.tag = normalizeTag(tag)
	l.namer.invalidate()
}

// SetDirectory 变更日志目录并失效路径缓存
func (l *Logger) SetDirectory(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.filePath = dir
	l.namer.invalidate()
}

// SetFile 变更显式完整路径并失效路径缓存
func (l *Logger) SetFile(file string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.file = file
	l.namer.invalidate()
}

// SetFileName 变更显式文件名并失效路径缓存
func (l *Logger) SetFileName(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.fileName = name
	l.namer.invalidate()
}

// SetJSON 切换JSON输出模式
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.json = enable
}

// SetRotate 切换日志轮转
func (l *Logger) SetRotate(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.rotate = enable
}

// SetLocation 变更时区，加载失败时保持原时区并返回错误
func (l *Logger) SetLocation(location string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	loc, err := time.LoadLocation(location)
	if err != nil {
		return fmt.Errorf("failed to load location %s: %w", location, err)
	}

	l.cfg.location = location
	l.loc = loc
	l.namer.invalidate()
	return nil
}

// StartRotateWorker 开启后台定时轮转任务，在配置的轮转小时每天执行一次
func (l *Logger) StartRotateWorker() {
	l.rs.AsyncWork(func() (string, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.namer.resolve(l.cfg, l.cfg.clk.Now().In(l.loc))
	})
}

// Close 停止后台轮转任务，写入路径本身不持有长期资源
func (l *Logger) Close() {
	l.rs.Close()
}

// fingerprint 计算一条完整格式化记录的指纹，只用于连续重复抑制
func fingerprint(line string) string {
	sum := md5.Sum([]byte(line))
	return hex.EncodeToString(sum[:])
}

// appendFile 以追加模式写入，每次写入独立的打开和关闭，不持有文件句柄
func appendFile(path, line string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	_, err = f.WriteString(line)
	return err
}
