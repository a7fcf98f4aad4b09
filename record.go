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

// LogRecord 落盘后的结构化日志记录，Content和Thrown二者有且只有一个非空，
// JSON编码时两个键都存在，空的一方编码为null。
type LogRecord struct {
	// 级别标签，自定义级别时是调用方传入的标签
	Type string `json:"type"`
	// 按配置的时间格式和时区格式化后的时间戳
	Date string `json:"date"`
	// 客户端地址，无法获取时为"-"
	IP string `json:"ip"`
	// 纯文本消息
	Content *string `json:"content"`
	// 结构化异常
	Thrown *ThrownRecord `json:"thrown"`
}

// ThrownRecord 结构化异常的落盘格式
type ThrownRecord struct {
	// 异常的类型名称
	Type string `json:"type"`
	// 异常码
	Code int `json:"code"`
	// 抛出异常的文件
	File string `json:"file"`
	// 抛出异常的行号
	Line int `json:"line"`
	// 异常消息
	Message string `json:"message"`
	// 格式化后的主行："<Type>(<code>): <message> at <file>:<line>"
	String string `json:"string"`
	// 堆栈信息
	Trace []string `json:"trace"`
	// 被包装的根因异常
	Cause *ThrownRecord `json:"cause,omitempty"`
	// 重抛链路上的前一个异常
	Previous *ThrownRecord `json:"previous,omitempty"`
}
