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

import "strings"

// LoggerLevel 位掩码形式的日志级别，配置值可以是多个级别按位或的组合，
// 比如 LevelError|LevelWarn 表示只允许错误和警告级别写入。
type LoggerLevel int

const (
	// LevelNone 空级别，作为请求级别时永远拒绝写入
	LevelNone LoggerLevel = 0
	// LevelError 业务出现了明显的错误，系统仍可正常运行
	LevelError LoggerLevel = 1
	// LevelWarn 出现了危险的情况，存在风险但不影响系统的正常运行
	LevelWarn LoggerLevel = 2
	// LevelInfo 默认的日志级别
	LevelInfo LoggerLevel = 4
	// LevelDebug 用于开发环境调试的日志级别
	LevelDebug LoggerLevel = 8
	// LevelAll 全量级别，作为请求级别时绕过级别过滤无条件写入
	LevelAll LoggerLevel = -1
)

// admits 级别过滤的判定方法，l是本次写入请求的级别，configured是配置的级别掩码。
// LevelAll无条件放行，LevelNone无条件拒绝，其余按位与判定。
func (l LoggerLevel) admits(configured LoggerLevel) bool {
	if l == LevelAll {
		return true
	}

	if l == LevelNone {
		return false
	}

	return l&configured != 0
}

// Label 返回级别对应的大写标签，未知的组合级别返回通用标签LOG
func (l LoggerLevel) Label() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "LOG"
	}
}

// ParseLevel 解析级别名称，大小写不敏感，未识别的名称返回LevelNone
func ParseLevel(s string) LoggerLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	case "all":
		return LevelAll
	default:
		return LevelNone
	}
}
