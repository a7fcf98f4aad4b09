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
	"encoding/json"
	"fmt"
	"strings"
)

// RecordSeparator 记录分隔符，两个连续换行构成条目边界，解析器依赖这个约定
const RecordSeparator = "\n\n"

// Formatter 将写入消息格式化为单条文本或JSON记录
type Formatter struct {
	cfg *Config
}

func newFormatter(cfg *Config) *Formatter {
	return &Formatter{cfg: cfg}
}

// Format 生成最终写入文件的一条记录，date是已按配置格式化的时间戳，
// ip为空时输出"-"，结果末尾带记录分隔符。
func (f *Formatter) Format(level LoggerLevel, override string, msg LogMessage, date, ip string) (string, error) {
	label := override
	if label == "" {
		label = level.Label()
	}
	if ip == "" {
		ip = "-"
	}

	var line string
	if f.cfg.json {
		data, err := f.encode(label, date, ip, msg)
		if err != nil {
			return "", err
		}
		line = string(data)
	} else {
		var content string
		if msg.IsThrown() {
			content = flattenThrown(prepareThrown(msg.thrown, 0))
		} else {
			content = escapeNewlines(strings.TrimSpace(msg.text))
		}
		line = fmt.Sprintf("[%s] %s | %s | %s", label, date, ip, content)
	}

	return sanitize(line) + RecordSeparator, nil
}

// encode JSON模式下编码整条记录，Content和Thrown二者只有一个非空
func (f *Formatter) encode(label, date, ip string, msg LogMessage) ([]byte, error) {
	rec := LogRecord{
		Type: label,
		Date: date,
		IP:   ip,
	}
	if msg.IsThrown() {
		rec.Thrown = prepareThrown(msg.thrown, 0)
	} else {
		content := strings.TrimSpace(msg.text)
		rec.Content = &content
	}

	if f.cfg.indent != "" {
		return json.MarshalIndent(rec, "", f.cfg.indent)
	}

	return json.Marshal(rec)
}

// prepareThrown 将异常链转换为落盘格式，递归挂接Previous和Cause子记录，
// 链路深度受MaxChainDepth保护。主行中的消息做换行转义，Message字段保留原文。
func prepareThrown(ev *ErrorValue, depth int) *ThrownRecord {
	if ev == nil || depth >= MaxChainDepth {
		return nil
	}

	msg := strings.TrimSpace(ev.Message)
	tr := &ThrownRecord{
		Type:    ev.Class,
		Code:    ev.Code,
		File:    ev.File,
		Line:    ev.Line,
		Message: msg,
		Trace:   ev.Trace,
	}

	if ev.Code != 0 {
		tr.String = fmt.Sprintf("%s(%d): %s at %s:%d", ev.Class, ev.Code, escapeNewlines(msg), ev.File, ev.Line)
	} else {
		tr.String = fmt.Sprintf("%s: %s at %s:%d", ev.Class, escapeNewlines(msg), ev.File, ev.Line)
	}

	tr.Previous = prepareThrown(ev.Previous, depth+1)
	tr.Cause = prepareThrown(ev.Cause, depth+1)

	return tr
}

// flattenThrown 文本模式下将异常记录展开为多行文本块：
// 主行、堆栈帧，然后依次是Previous和Cause块
func flattenThrown(tr *ThrownRecord) string {
	if tr == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(tr.String)
	for i, frame := range tr.Trace {
		b.WriteString(fmt.Sprintf("\n#%d %s", i, frame))
	}
	if tr.Previous != nil {
		b.WriteString("\nPrevious:\n")
		b.WriteString(flattenThrown(tr.Previous))
	}
	if tr.Cause != nil {
		b.WriteString("\nCause:\n")
		b.WriteString(flattenThrown(tr.Cause))
	}

	return b.String()
}

// escapeNewlines 转义消息中的换行，多行消息不能和条目分隔符混淆
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r", `\r`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// sanitize 转义NUL字节，部分追加写入原语会在NUL处截断
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\x00", `\0`)
}
