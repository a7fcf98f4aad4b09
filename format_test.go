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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testDate = "2024-01-02 03:04:05"

func TestFormatter_Format_Text(t *testing.T) {
	f := newFormatter(&Config{})

	line, err := f.Format(LevelError, "", Plain("  boom  "), testDate, "")
	assert.NoError(t, err)
	assert.Equal(t, "[ERROR] "+testDate+" | - | boom\n\n", line)

	line, err = f.Format(LevelInfo, "", Plain("hello"), testDate, "10.0.0.8")
	assert.NoError(t, err)
	assert.Equal(t, "[INFO] "+testDate+" | 10.0.0.8 | hello\n\n", line)
}

func TestFormatter_Format_TypeOverride(t *testing.T) {
	f := newFormatter(&Config{})

	line, err := f.Format(LevelAll, "AUDIT", Plain("login"), testDate, "")
	assert.NoError(t, err)
	assert.Equal(t, "[AUDIT] "+testDate+" | - | login\n\n", line)

	// 无覆盖时非单比特级别落到通用标签
	line, err = f.Format(LevelAll, "", Plain("login"), testDate, "")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "[LOG] "))
}

func TestFormatter_Format_EscapesNewlines(t *testing.T) {
	f := newFormatter(&Config{})

	line, err := f.Format(LevelWarn, "", Plain("first\nsecond\r\nthird"), testDate, "")
	assert.NoError(t, err)
	assert.Equal(t, `[WARN] `+testDate+` | - | first\nsecond\r\nthird`+"\n\n", line)
	// 转义后条目内部不允许再出现真实换行
	assert.NotContains(t, strings.TrimSuffix(line, RecordSeparator), "\n")
}

func TestFormatter_Format_SanitizesNUL(t *testing.T) {
	f := newFormatter(&Config{})

	line, err := f.Format(LevelInfo, "", Plain("a\x00b"), testDate, "")
	assert.NoError(t, err)
	assert.NotContains(t, line, "\x00")
	assert.Contains(t, line, `a\0b`)
}

func TestFormatter_Format_Thrown(t *testing.T) {
	f := newFormatter(&Config{})
	ev := &ErrorValue{
		Class:   "AppError",
		Code:    500,
		File:    "app/main.go",
		Line:    42,
		Message: "boom",
		Trace:   []string{"app/main.go:42", "app/svc.go:10"},
		Cause: &ErrorValue{
			Class:   "DBError",
			File:    "app/db.go",
			Line:    7,
			Message: "conn refused",
		},
	}

	line, err := f.Format(LevelError, "", Thrown(ev), testDate, "")
	assert.NoError(t, err)

	want := "[ERROR] " + testDate + " | - | " +
		"AppError(500): boom at app/main.go:42\n" +
		"#0 app/main.go:42\n" +
		"#1 app/svc.go:10\n" +
		"Cause:\n" +
		"DBError: conn refused at app/db.go:7" +
		RecordSeparator
	assert.Equal(t, want, line)
}

func TestFormatter_Format_Thrown_PreviousBeforeCause(t *testing.T) {
	f := newFormatter(&Config{})
	ev := &ErrorValue{
		Class:    "RetryError",
		File:     "job.go",
		Line:     3,
		Message:  "third attempt failed",
		Previous: &ErrorValue{Class: "RetryError", File: "job.go", Line: 3, Message: "second attempt failed"},
		Cause:    &ErrorValue{Class: "NetError", File: "net.go", Line: 9, Message: "timeout"},
	}

	line, err := f.Format(LevelError, "", Thrown(ev), testDate, "")
	assert.NoError(t, err)

	prevIdx := strings.Index(line, "Previous:")
	causeIdx := strings.Index(line, "Cause:")
	assert.Positive(t, prevIdx)
	assert.Positive(t, causeIdx)
	assert.Less(t, prevIdx, causeIdx)
}

func TestFormatter_Format_Thrown_ChainDepthBounded(t *testing.T) {
	// 人为构造一个环，遍历必须在深度上限处终止
	a := &ErrorValue{Class: "A", File: "a.go", Line: 1, Message: "a"}
	b := &ErrorValue{Class: "B", File: "b.go", Line: 2, Message: "b"}
	a.Previous = b
	b.Previous = a

	tr := prepareThrown(a, 0)
	depth := 0
	for cur := tr; cur != nil; cur = cur.Previous {
		depth++
	}
	assert.LessOrEqual(t, depth, MaxChainDepth)
}

func TestFormatter_Format_JSON(t *testing.T) {
	f := newFormatter(&Config{json: true})

	line, err := f.Format(LevelInfo, "", Plain("hello"), testDate, "10.0.0.8")
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(line, RecordSeparator))

	var rec LogRecord
	assert.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(line)), &rec))
	assert.Equal(t, "INFO", rec.Type)
	assert.Equal(t, testDate, rec.Date)
	assert.Equal(t, "10.0.0.8", rec.IP)
	assert.NotNil(t, rec.Content)
	assert.Equal(t, "hello", *rec.Content)
	assert.Nil(t, rec.Thrown)

	// 两个键都必须出现在编码结果中，空的一方为null
	assert.Contains(t, line, `"thrown":null`)
}

func TestFormatter_Format_JSON_Thrown(t *testing.T) {
	f := newFormatter(&Config{json: true})
	ev := &ErrorValue{
		Class:   "AppError",
		Code:    404,
		File:    "app/main.go",
		Line:    12,
		Message: "not found",
		Cause:   &ErrorValue{Class: "FSError", File: "fs.go", Line: 4, Message: "missing file"},
	}

	line, err := f.Format(LevelError, "", Thrown(ev), testDate, "")
	assert.NoError(t, err)

	var rec LogRecord
	assert.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(line)), &rec))
	assert.Nil(t, rec.Content)
	assert.NotNil(t, rec.Thrown)
	assert.Equal(t, "AppError", rec.Thrown.Type)
	assert.Equal(t, 404, rec.Thrown.Code)
	assert.Equal(t, "AppError(404): not found at app/main.go:12", rec.Thrown.String)
	assert.NotNil(t, rec.Thrown.Cause)
	assert.Equal(t, "missing file", rec.Thrown.Cause.Message)
}

func TestFormatter_Format_JSON_Indent(t *testing.T) {
	f := newFormatter(&Config{json: true, indent: "  "})

	line, err := f.Format(LevelInfo, "", Plain("hello"), testDate, "")
	assert.NoError(t, err)
	assert.Contains(t, line, "\n  \"type\"")

	var rec LogRecord
	assert.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(line)), &rec))
	assert.Equal(t, "INFO", rec.Type)
}
