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
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// MaxChainDepth 异常链遍历的最大深度，Cause/Previous是单向链表而不是图，
// 正常情况下不会成环，这里只做兜底保护。
const MaxChainDepth = 32

// ErrorValue 结构化的异常信息，Cause指向业务代码显式包装的根因异常，
// Previous指向重试/重抛链路上的前一个异常，两者都是对已有异常对象的引用。
type ErrorValue struct {
	// 异常的类型名称
	Class string
	// 异常码，可以为0
	Code int
	// 抛出异常的文件
	File string
	// 抛出异常的行号
	Line int
	// 异常消息
	Message string
	// 堆栈信息，每个元素是一条格式化后的调用帧
	Trace []string
	// 被包装的根因异常
	Cause *ErrorValue
	// 重抛链路上的前一个异常
	Previous *ErrorValue
}

// LogMessage 写入消息的两种形态：纯文本或者结构化异常
type LogMessage struct {
	text   string
	thrown *ErrorValue
}

// Plain 构造纯文本消息
func Plain(text string) LogMessage {
	return LogMessage{text: text}
}

// Thrown 构造异常消息
func Thrown(ev *ErrorValue) LogMessage {
	return LogMessage{thrown: ev}
}

// IsThrown 是否是异常消息
func (m LogMessage) IsThrown() bool {
	return m.thrown != nil
}

// FromError 将Go的error转换为ErrorValue，捕获调用点的文件和行号，
// Unwrap链路转换为Previous链，遍历深度受MaxChainDepth保护。
func FromError(err error) *ErrorValue {
	if err == nil {
		return nil
	}

	file, line := caller(2)
	ev := &ErrorValue{
		Class:   fmt.Sprintf("%T", err),
		File:    file,
		Line:    line,
		Message: err.Error(),
		Trace:   callers(3),
	}

	cur := ev
	for depth := 0; depth < MaxChainDepth; depth++ {
		prev := errors.Unwrap(err)
		if prev == nil {
			break
		}

		cur.Previous = &ErrorValue{
			Class:   fmt.Sprintf("%T", prev),
			File:    file,
			Line:    line,
			Message: prev.Error(),
		}
		cur = cur.Previous
		err = prev
	}

	return ev
}

const callerParts = 4

// caller 捕获指定层级的调用点信息，路径只保留最后四段
func caller(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "", 0
	}

	return shorten(file), line
}

// callers 捕获从skip层开始的调用帧，最多四条
func callers(skip int) []string {
	const frames = 4
	res := make([]string, 0, frames)
	for i := skip; i < skip+frames; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		res = append(res, fmt.Sprintf("%s:%d", shorten(file), line))
	}

	return res
}

func shorten(file string) string {
	sli := strings.Split(file, "/")
	if len(sli) < callerParts {
		return file
	}

	return strings.Join(sli[len(sli)-callerParts:], "/")
}
