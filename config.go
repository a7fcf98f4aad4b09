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
	"fmt"
	"os"
	"strings"

	"github.com/benbjohnson/clock"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// 日志级别掩码
	level LoggerLevel
	// 文件名后缀标签，规范化后不带前导连字符
	tag string
	// 日志文件的保存目录
	filePath string
	// 显式的完整文件路径，优先级高于目录+日期命名
	file string
	// 显式的文件名，覆盖默认的日期命名
	fileName string
	// 环境探测追加的文件名中缀，比如单请求进程模式下的"cli-server"
	serverInfix string
	// 时区设置，默认Asia/Shanghai
	location string
	// 时间格式
	layout string
	// 是否输出JSON格式
	json bool
	// JSON缩进，空串表示单行输出
	indent string
	// 是否开启日志轮转
	rotate bool
	// 轮转策略
	rotatePolicy RotatePolicy
	// 小时窗口策略下执行轮转的小时(UTC)，0-23
	rotateHour int
	// 压缩的级别
	compressionLevel CompressLevel
	// 时钟依赖，每个Logger实例独立持有，测试时可以注入mock时钟
	clk clock.Clock
	// 客户端地址解析器
	ipr IPResolver
}

// normalizeTag 规范化标签：去除首尾空白和前导连字符
func normalizeTag(tag string) string {
	return strings.TrimLeft(strings.TrimSpace(tag), "-")
}

// FileConfig YAML格式的配置文件结构
type FileConfig struct {
	// 允许写入的级别名称列表，按位或合并
	Level []string `yaml:"level"`
	// 文件名后缀标签
	Tag string `yaml:"tag"`
	// 日志目录
	Directory string `yaml:"directory"`
	// 显式的完整文件路径
	File string `yaml:"file"`
	// 显式的文件名
	FileName string `yaml:"filename"`
	// 时区
	Location string `yaml:"location"`
	// 时间格式
	Layout string `yaml:"layout"`
	// 是否输出JSON格式
	JSON bool `yaml:"json"`
	// JSON缩进
	Indent string `yaml:"indent"`
	// 是否开启轮转
	Rotate bool `yaml:"rotate"`
	// 执行轮转的小时(UTC)
	RotateHour *int `yaml:"rotate_hour"`
}

// LoadConfig 从YAML配置文件构建选项列表，返回的选项直接传入NewLogger
func LoadConfig(path string) ([]Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc FileConfig
	if err = yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var opts []Options
	if len(fc.Level) > 0 {
		level := LevelNone
		for _, name := range fc.Level {
			level |= ParseLevel(name)
		}
		opts = append(opts, WithLevel(level))
	}
	if fc.Tag != "" {
		opts = append(opts, WithTag(fc.Tag))
	}
	if fc.Directory != "" {
		opts = append(opts, WithDirectory(fc.Directory))
	}
	if fc.File != "" {
		opts = append(opts, WithFile(fc.File))
	}
	if fc.FileName != "" {
		opts = append(opts, WithFileName(fc.FileName))
	}
	if fc.Location != "" {
		opts = append(opts, WithLocation(fc.Location))
	}
	if fc.Layout != "" {
		opts = append(opts, WithLayout(fc.Layout))
	}
	if fc.JSON {
		opts = append(opts, WithJSON())
	}
	if fc.Indent != "" {
		opts = append(opts, WithIndent(fc.Indent))
	}
	if fc.Rotate {
		opts = append(opts, WithRotate())
	}
	if fc.RotateHour != nil {
		opts = append(opts, WithRotateHour(*fc.RotateHour))
	}

	return opts, nil
}
