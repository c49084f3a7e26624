package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zh-extractor/internal/callctx"
)

func newTestParser() *CSharpParser {
	m := callctx.NewMatcher([]string{
		"Debug.Log",
		"Debug.LogError",
		"Debug.LogWarning",
		"new Exception",
	})
	return NewCSharpParser(callctx.NewResolver(m))
}

func values(recs []ExtractionRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.NormalizedValue
	}
	return out
}

const sampleFile = `/**
 * Author: 张三
 * 抽卡界面逻辑 "不要提取"
 */
using UnityEngine;

public class DrawPanel : MonoBehaviour
{
    [Header("Timeline资源 (从Playable Director拖入)")]
    public PlayableDirector director;

    #region 初始化
    void Start()
    {
        // 注释里的 "中文" 不提取
        Debug.LogError("初始化失败");
        tip.text = "抽卡道具不足";
        title.text = $"再结义 {leftNum} 次必得红将";
        /* label.text = "被注释"; */
        progress.text = $"累计抽取{cfg.reward_times}次（{totalCount}/{cfg.reward_times}）";
        name = "english only";
        if (x == null) throw new Exception("参数错误");
    }
    #endregion
}
`

func TestExtract_SampleFile(t *testing.T) {
	res := newTestParser().Extract("Assets/UI/DrawPanel.cs", sampleFile)

	assert.Equal(t, []string{
		"抽卡道具不足",
		"再结义 {0} 次必得红将",
		"累计抽取{0}次（{1}/{2}）",
	}, values(res.Records))
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, "cs", res.FileType)

	require.Len(t, res.Records, 3)
	assert.Equal(t, 17, res.Records[0].Line)
	assert.Equal(t, 18, res.Records[1].Line)
	assert.Equal(t, 20, res.Records[2].Line)
	assert.Equal(t, "再结义  次必得红将", res.Records[1].RawValue)
	for _, rec := range res.Records {
		assert.Equal(t, "Assets/UI/DrawPanel.cs", rec.FilePath)
		assert.Contains(t, []byte{'"', '$'}, sampleFile[rec.Offset])
	}

	assert.Equal(t, Stats{
		Literals:     7,
		Extracted:    3,
		NoChinese:    1,
		InAttribute:  1,
		ExcludedCall: 2,
	}, res.Stats)
}

func TestExtract_Exclusions(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"attribute block", "[Header(\"Timeline资源 (从Playable Director拖入)\")]\npublic X x;"},
		{"excluded log call", `Debug.LogError("初始化失败");`},
		{"attributed enum member", "enum Quality\n{\n    [Description(\"普通\")]\n    Normal,\n    [Description(\"稀有\")]\n    Rare,\n}"},
		{"attribute under #if", "class A\n{\n#if UNITY_EDITOR\n    [MenuItem(\"工具/导出表格\")]\n    static void Export() {}\n#endif\n}"},
		{"line comment", "// var s = \"中文\";\nint a;"},
		{"block comment", "/* var s = \"中文\"; */ int a;"},
		{"header comment", "/** Author: 中文 \"作者\" */\nclass A {}"},
		{"no chinese", `var s = "hello";`},
		{"chinese only inside hole", `var s = $"{(ok ? "是" : "否")}";`},
		{"unterminated", "var s = \"中文\nint a;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestParser().Extract("A.cs", tt.src)
			assert.Empty(t, res.Records)
		})
	}
}

func TestExtract_HeaderDoesNotHideBody(t *testing.T) {
	src := "/** Author: ... 中文 ... */\nclass A {\n    string s = \"正文内容\";\n}"
	res := newTestParser().Extract("A.cs", src)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "正文内容", res.Records[0].NormalizedValue)
	assert.Equal(t, 3, res.Records[0].Line)
}

func TestExtract_SourceOrder(t *testing.T) {
	src := "a = \"一\"; b = \"二\";\nc = \"三\";\r\nd = @\"四\n五\"; e = \"六\";"
	res := newTestParser().Extract("A.cs", src)

	assert.Equal(t, []string{"一", "二", "三", "四\n五", "六"}, values(res.Records))
	lines := make([]int, len(res.Records))
	for i, r := range res.Records {
		lines[i] = r.Line
		if i > 0 {
			assert.Greater(t, r.Offset, res.Records[i-1].Offset)
		}
	}
	assert.Equal(t, []int{1, 1, 2, 3, 4}, lines)
}

func TestExtract_Diagnostics(t *testing.T) {
	src := "int a;\nvar s = $\"坏的 } 插值\";\nvar t = \"未闭合\n/* 未闭合注释"
	res := newTestParser().Extract("Bad.cs", src)

	require.Len(t, res.Diagnostics, 3)
	assert.Equal(t, MalformedInterpolation, res.Diagnostics[0].Kind)
	assert.Equal(t, 2, res.Diagnostics[0].Line)
	assert.Equal(t, UnterminatedLiteral, res.Diagnostics[1].Kind)
	assert.Equal(t, 3, res.Diagnostics[1].Line)
	assert.Equal(t, UnterminatedComment, res.Diagnostics[2].Kind)
	assert.Equal(t, 4, res.Diagnostics[2].Line)
	assert.Contains(t, res.Diagnostics[0].Error(), "Bad.cs:2")

	// The malformed literal is still extracted as plain text.
	assert.Equal(t, []string{"坏的 } 插值"}, values(res.Records))
	assert.Equal(t, 1, res.Stats.Unterminated)
}

func TestCSharpParser_CanParse(t *testing.T) {
	p := newTestParser()
	assert.True(t, p.CanParse(".cs"))
	assert.True(t, p.CanParse(".CS"))
	assert.False(t, p.CanParse(".lua"))

	custom := NewCSharpParser(callctx.NewResolver(callctx.NewMatcher(nil)), ".cs", ".csx")
	assert.True(t, custom.CanParse(".csx"))
}

func TestCSharpParser_Parse(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Tip.cs")
	require.NoError(t, os.WriteFile(good, append([]byte{0xEF, 0xBB, 0xBF}, `var s = "提示";`...), 0o644))

	res, err := newTestParser().Parse(good)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "提示", res.Records[0].NormalizedValue)

	bad := filepath.Join(dir, "Gbk.cs")
	require.NoError(t, os.WriteFile(bad, []byte{0xD6, 0xD0, 0xCE, 0xC4}, 0o644))

	_, err = newTestParser().Parse(bad)
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, UnreadableFile, diag.Kind)
	assert.Equal(t, bad, diag.Path)
}
