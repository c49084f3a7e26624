package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantFirst int
		wantLast  int
	}{
		{
			name:      "doc block before code",
			src:       "/** Author: 张三 中文说明 */\nusing System;\nclass A { string s = \"中文\"; }",
			wantFirst: 0,
			wantLast:  0,
		},
		{
			name:      "line comments with blank lines between",
			src:       "// 文件头\n\n// 版权所有\nusing UnityEngine;",
			wantFirst: 0,
			wantLast:  2,
		},
		{
			name:      "leading whitespace is allowed",
			src:       "\n\n  /* 头 */\nclass A {}",
			wantFirst: 1,
			wantLast:  1,
		},
		{
			name:      "code before the first comment",
			src:       "using System;\n// 不是文件头\n",
			wantFirst: -1,
			wantLast:  -1,
		},
		{
			name:      "string before any comment",
			src:       "\"中文\" // x",
			wantFirst: -1,
			wantLast:  -1,
		},
		{
			name:      "no comments",
			src:       "class A {}",
			wantFirst: -1,
			wantLast:  -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.src)
			h := DetectHeader(tt.src, res.Spans)
			assert.Equal(t, tt.wantFirst, h.First)
			assert.Equal(t, tt.wantLast, h.Last)
		})
	}
}

func TestHeader_Contains(t *testing.T) {
	src := "/* 头部 \"中文\" */\nvar s = \"正文\";"
	res := Classify(src)
	h := DetectHeader(src, res.Spans)

	assert.False(t, h.Empty())
	assert.True(t, h.Contains(0))
	assert.True(t, h.Contains(res.Spans[0].End-1))
	assert.False(t, h.Contains(res.Spans[0].End))

	none := DetectHeader("int a;", Classify("int a;").Spans)
	assert.True(t, none.Empty())
	assert.False(t, none.Contains(0))
}
