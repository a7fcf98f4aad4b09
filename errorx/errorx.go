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

package errorx

import "errors"

var (
	// ErrNoDirectory 未配置日志目录也未配置完整文件路径，写入前无法确定目标文件
	ErrNoDirectory = errors.New("no directory or file configured")
	// ErrCreateDirectory 日志目录不存在且创建失败
	ErrCreateDirectory = errors.New("failed to create log directory")
	// ErrWrite 日志追加写入失败
	ErrWrite = errors.New("failed to append log entry")
)

var (
	// ErrRotate 日志轮转过程中压缩或删除原文件失败
	ErrRotate = errors.New("failed to rotate log file")
)

var (
	// ErrParseFile 目标文件不存在或不可读
	ErrParseFile = errors.New("failed to open log file for parsing")
	// ErrNotRegularFile 目标路径不是普通文件
	ErrNotRegularFile = errors.New("target is not a regular file")
)
