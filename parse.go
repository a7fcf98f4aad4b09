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
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/TimeWtr/flogx/errorx"
)

// 解析器的文法是格式化器输出文法的逆运算，两者必须同步变更，
// 回归测试用格式化器的真实输出喂给这些模式。
var (
	// entryPattern 匹配文本条目："[<type>] <date> | <ip> | <content>"，content跨行
	entryPattern = regexp.MustCompile(`(?s)^\[(?P<type>[^\]]+)\] (?P<date>[^|]+?) \| (?P<ip>[^|]+?) \| (?P<content>.*)$`)
	// thrownPattern 匹配异常主行，code可选，分隔符兼容"at"和"@"两种历史写法
	thrownPattern = regexp.MustCompile(`^(?P<class>[^\s(:]+)(?:\((?P<code>-?\d+)\))?: (?P<message>.*) (?:at|@) (?P<file>.+):(?P<line>\d+)$`)
	// framePattern 匹配堆栈帧行："#<n> <frame>"
	framePattern = regexp.MustCompile(`^#\d+ (.*)$`)
)

// stageChunkSize 解压临时文件时的拷贝块大小
const stageChunkSize = 32 * 1024

// Parser 惰性的日志文件解析器，一次返回一条记录，不可重置，
// 重新解析需要重新打开文件。压缩文件先解压到临时文件，Close时删除。
type Parser struct {
	// 正在读取的文件句柄
	f *os.File
	// 行缓冲读取器
	br *bufio.Reader
	// 解压产生的临时文件路径，非压缩文件时为空
	tmp string
	// 当前条目已累积的行
	buf []string
	// 是否已读到文件尾
	eof bool
}

// ParseFile 打开一个日志文件准备解析，.gz后缀的文件透明解压。
// 目标不存在、不可读或者不是普通文件时返回错误。
func ParseFile(path string) (*Parser, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errorx.ErrParseFile, path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", errorx.ErrNotRegularFile, path)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s has mode %s", errorx.ErrNotRegularFile, path, fi.Mode())
	}

	p := &Parser{}
	if strings.HasSuffix(path, ".gz") {
		tmp, serr := stageGzip(path)
		if serr != nil {
			return nil, serr
		}
		p.tmp = tmp
		path = tmp
	}

	f, err := os.Open(path)
	if err != nil {
		if p.tmp != "" {
			_ = os.Remove(p.tmp)
		}
		return nil, fmt.Errorf("%w: %s: %v", errorx.ErrParseFile, path, err)
	}

	p.f = f
	p.br = bufio.NewReader(f)
	return p, nil
}

// stageGzip 将压缩文件分块解压到临时文件，返回临时文件路径
func stageGzip(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errorx.ErrParseFile, path, err)
	}
	defer func() {
		_ = src.Close()
	}()

	gr, err := gzip.NewReader(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errorx.ErrParseFile, path, err)
	}
	defer func() {
		_ = gr.Close()
	}()

	tmp, err := os.CreateTemp("", "flogx-stage-*.log")
	if err != nil {
		return "", fmt.Errorf("%w: %v", errorx.ErrParseFile, err)
	}

	_, err = io.CopyBuffer(tmp, gr, make([]byte, stageChunkSize))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %s: %v", errorx.ErrParseFile, path, err)
	}

	return tmp.Name(), nil
}

// Next 返回下一条解析成功的记录，文件读尽后返回io.EOF。
// 空行关闭当前条目，文法不匹配的条目被静默跳过而不是中断解析。
func (p *Parser) Next() (*LogRecord, error) {
	for !p.eof {
		line, err := p.br.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				return nil, fmt.Errorf("%w: %v", errorx.ErrParseFile, err)
			}
			p.eof = true
		}

		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			if rec := p.flushEntry(); rec != nil {
				return rec, nil
			}
			continue
		}

		p.buf = append(p.buf, trimmed)
	}

	if rec := p.flushEntry(); rec != nil {
		return rec, nil
	}

	return nil, io.EOF
}

// Records 读尽全部记录的便捷方法
func (p *Parser) Records() ([]*LogRecord, error) {
	var res []*LogRecord
	for {
		rec, err := p.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, err
		}

		res = append(res, rec)
	}
}

// Close 关闭文件并删除解压临时文件，任何提前终止路径都必须调用
func (p *Parser) Close() error {
	var err error
	if p.f != nil {
		err = p.f.Close()
		p.f = nil
	}
	if p.tmp != "" {
		if rerr := os.Remove(p.tmp); err == nil {
			err = rerr
		}
		p.tmp = ""
	}

	return err
}

// flushEntry 将累积的行作为一个条目解析并清空缓冲
func (p *Parser) flushEntry() *LogRecord {
	if len(p.buf) == 0 {
		return nil
	}

	raw := strings.Join(p.buf, "\n")
	p.buf = nil
	return ParseEntry(raw)
}

// ParseEntry 解析单个条目，'{'开头按JSON解码，'['开头按文本文法解析，
// 其余返回nil。解码失败也返回nil，坏条目不影响整体解析。
func ParseEntry(raw string) *LogRecord {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	switch raw[0] {
	case '{':
		var rec LogRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil
		}
		return &rec
	case '[':
		m := entryPattern.FindStringSubmatch(raw)
		if m == nil {
			return nil
		}

		rec := &LogRecord{
			Type: m[1],
			Date: strings.TrimSpace(m[2]),
			IP:   strings.TrimSpace(m[3]),
		}
		content := m[4]
		if tr := parseThrown(content, 0); tr != nil {
			rec.Thrown = tr
		} else {
			rec.Content = &content
		}
		return rec
	default:
		return nil
	}
}

// parseThrown 从条目内容中提取异常记录：主行、紧随的堆栈帧行，
// 遇到Previous:或Cause:标记行时把标记之后的全部内容递归解析为子记录，
// 没有更多标记时递归终止。内容不符合异常主行文法时返回nil。
func parseThrown(block string, depth int) *ThrownRecord {
	if depth >= MaxChainDepth {
		return nil
	}

	lines := strings.Split(block, "\n")
	first := strings.TrimSpace(lines[0])
	m := thrownPattern.FindStringSubmatch(first)
	if m == nil {
		return nil
	}

	code, _ := strconv.Atoi(m[2])
	lineNo, _ := strconv.Atoi(m[5])
	tr := &ThrownRecord{
		Type:    m[1],
		Code:    code,
		Message: m[3],
		File:    m[4],
		Line:    lineNo,
		String:  first,
	}

	rest := lines[1:]
	i := 0
	for ; i < len(rest); i++ {
		fm := framePattern.FindStringSubmatch(strings.TrimSpace(rest[i]))
		if fm == nil {
			break
		}
		tr.Trace = append(tr.Trace, fm[1])
	}

	for ; i < len(rest); i++ {
		ln := strings.TrimSpace(rest[i])
		if strings.HasPrefix(ln, "Previous:") {
			tr.Previous = parseThrown(strings.Join(rest[i+1:], "\n"), depth+1)
			return tr
		}
		if strings.HasPrefix(ln, "Cause:") {
			tr.Cause = parseThrown(strings.Join(rest[i+1:], "\n"), depth+1)
			return tr
		}
	}

	return tr
}
