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

import "github.com/benbjohnson/clock"

type Options func(*Config)

// WithLevel 设置日志级别掩码，如果不设置，默认允许全部四个级别
func WithLevel(level LoggerLevel) Options {
	return func(c *Config) {
		c.level = level
	}
}

// WithTag 设置文件名后缀标签，标签会被规范化：去除首尾空白和前导连字符
func WithTag(tag string) Options {
	return func(c *Config) {
		c.tag = normalizeTag(tag)
	}
}

// WithDirectory 设置日志文件的保存目录
func WithDirectory(dir string) Options {
	return func(c *Config) {
		c.filePath = dir
	}
}

// WithFile 设置显式的完整文件路径，优先级高于目录+日期命名
func WithFile(file string) Options {
	return func(c *Config) {
		c.file = file
	}
}

// WithFileName 设置显式的文件名，覆盖默认的日期命名
func WithFileName(name string) Options {
	return func(c *Config) {
		c.fileName = name
	}
}

// WithServerInfix 设置环境探测追加的文件名中缀，用于单请求进程模式下
// 避免和常驻进程的日志文件产生权限冲突
func WithServerInfix(infix string) Options {
	return func(c *Config) {
		c.serverInfix = normalizeTag(infix)
	}
}

// WithLocation 设置时区，默认是Asia/Shanghai
func WithLocation(location string) Options {
	return func(c *Config) {
		c.location = location
	}
}

// WithLayout 设置时间格式
func WithLayout(layout string) Options {
	return func(c *Config) {
		c.layout = layout
	}
}

// WithJSON 开启JSON格式输出
func WithJSON() Options {
	return func(c *Config) {
		c.json = true
	}
}

// WithIndent 设置JSON缩进，仅在JSON模式下生效
func WithIndent(indent string) Options {
	return func(c *Config) {
		c.indent = indent
	}
}

// WithRotate 开启日志轮转
func WithRotate() Options {
	return func(c *Config) {
		c.rotate = true
	}
}

// WithRotatePolicy 设置轮转策略，默认是小时窗口策略
func WithRotatePolicy(policy RotatePolicy) Options {
	return func(c *Config) {
		c.rotatePolicy = policy
	}
}

// WithRotateHour 设置小时窗口策略下执行轮转的小时(UTC)，超出0-23时取默认值
func WithRotateHour(hour int) Options {
	return func(c *Config) {
		if hour < 0 || hour > 23 {
			hour = DefaultRotateHour
		}
		c.rotateHour = hour
	}
}

// WithCompressionLevel 设置压缩的级别，如果不设置则为DefaultCompression
func WithCompressionLevel(level CompressLevel) Options {
	return func(c *Config) {
		c.compressionLevel = level
	}
}

// WithClock 注入时钟实现，测试时传入mock时钟固定时间
func WithClock(clk clock.Clock) Options {
	return func(c *Config) {
		c.clk = clk
	}
}

// WithIPResolver 注入客户端地址解析器
func WithIPResolver(ipr IPResolver) Options {
	return func(c *Config) {
		c.ipr = ipr
	}
}
