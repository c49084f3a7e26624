package translation

import (
	"strings"
	"unicode"
)

// builtinTerms covers the vocabulary of the game's UI text. Two-character
// words win over their characters.
var builtinTerms = map[string]string{
	// draw / gacha
	"抽": "DRAW", "卡": "CARD", "道": "ITEM", "具": "PROP", "足": "SUFFICIENT",
	"不": "NOT", "再": "RE", "结": "OATH", "义": "BIND", "次": "TIME",
	"必": "MUST", "得": "GET", "红": "RED", "将": "GENERAL", "累": "TOTAL",
	"计": "COUNT", "总": "TOTAL", "源": "SOURCE",
	"道具": "ITEM", "不足": "INSUFFICIENT", "结义": "OATH", "累计": "TOTAL",

	// common UI
	"确": "CONFIRM", "认": "CONFIRM", "购": "PURCHASE", "买": "BUY", "这": "THIS",
	"个": "ONE", "吗": "QUESTION", "请": "PLEASE", "拖": "DRAG", "拽": "DROP",
	"指": "SPECIFY", "定": "FIXED", "位": "POSITION", "物": "ITEM", "品": "PRODUCT",
	"数": "NUMBER", "量": "AMOUNT", "无": "NO", "完": "COMPLETE", "成": "COMPLETE",
	"购买": "PURCHASE", "物品": "ITEM", "数量": "COUNT", "确认": "CONFIRM",
	"取消": "CANCEL", "返回": "BACK", "关闭": "CLOSE", "打开": "OPEN",
	"设置": "SETTING", "选项": "OPTION", "提示": "TIP", "警告": "WARNING",
	"可以": "CAN", "无法": "CANNOT", "指定": "SPECIFY", "位置": "POSITION",

	// exploration / stages
	"探": "EXPLORE", "索": "SEARCH", "度": "DEGREE", "战": "BATTLE", "力": "POWER",
	"等": "LEVEL", "阵": "LINEUP", "空": "EMPTY", "跳": "JUMP", "过": "PASS",
	"主": "MAIN", "线": "LINE", "关": "LEVEL", "尚": "NOT", "未": "UN",
	"解": "UNLOCK", "锁": "LOCK",
	"探索": "EXPLORE", "推荐": "RECOMMEND", "战力": "POWER", "等级": "LEVEL",
	"阵容": "LINEUP", "为空": "EMPTY", "跳过": "SKIP", "主线": "MAINLINE",
	"关卡": "LEVEL", "尚未": "NOT", "解锁": "UNLOCK",

	// map / assets
	"路": "PATH", "点": "POINT", "错": "ERROR", "需": "NEED", "地": "MAP",
	"图": "MAP", "资": "ASSET", "态": "STATE", "信": "INFO", "显": "SHOW",
	"路径": "PATH", "错误": "ERROR", "地图": "MAP", "资产": "ASSET",
	"资源": "RESOURCE", "状态": "STATE", "信息": "INFO", "显示": "SHOW",

	// rewards / tasks
	"奖": "REWARD", "励": "INCENTIVE", "务": "TASK", "败": "FAIL", "功": "SUCCESS",
	"奖励": "REWARD", "任务": "TASK", "完成": "COMPLETE", "失败": "FAIL",
	"成功": "SUCCESS", "胜利": "VICTORY", "战斗": "BATTLE", "准备": "READY",
	"开始": "START", "恭喜": "CONGRATULATIONS", "获得": "GET",

	// territory
	"任": "APPOINT", "命": "ORDER", "州": "STATE", "牧": "GOVERNOR", "获": "GET",
	"额": "EXTRA", "外": "EXTRA", "占": "OCCUPY", "领": "LEAD", "产": "OUTPUT",
	"出": "OUTPUT", "加": "BONUS", "敌": "ENEMY", "方": "SIDE", "有": "HAVE",
	"任命": "APPOINT", "州牧": "GOVERNOR", "额外": "EXTRA", "占领": "OCCUPY",
	"产出": "OUTPUT", "加成": "BONUS", "敌方": "ENEMY",
}

// Term is one glossary hit.
type Term struct {
	Chinese string
	English string
}

// Local names keys from a fixed glossary without any network access.
type Local struct {
	terms map[string]string
}

// NewLocal creates a Local namer. extra entries override the built-in
// glossary.
func NewLocal(extra map[string]string) *Local {
	terms := make(map[string]string, len(builtinTerms)+len(extra))
	for k, v := range builtinTerms {
		terms[k] = v
	}
	for k, v := range extra {
		terms[k] = v
	}
	return &Local{terms: terms}
}

// Name joins the glossary words found in text. Characters without an entry
// are dropped; the result is empty when nothing matched.
func (l *Local) Name(text string) string {
	var words []string
	for _, t := range l.match(text) {
		if len(words) > 0 && words[len(words)-1] == t.English {
			continue
		}
		words = append(words, t.English)
	}
	return strings.Join(words, "_")
}

// Terms returns the distinct glossary entries used by text, in order.
func (l *Local) Terms(text string) []Term {
	seen := make(map[string]bool)
	var out []Term
	for _, t := range l.match(text) {
		if !seen[t.Chinese] {
			seen[t.Chinese] = true
			out = append(out, t)
		}
	}
	return out
}

func (l *Local) match(text string) []Term {
	runes := []rune(text)
	var out []Term
	for i := 0; i < len(runes); {
		if !unicode.Is(unicode.Han, runes[i]) {
			i++
			continue
		}
		if i+1 < len(runes) {
			word := string(runes[i : i+2])
			if en, ok := l.terms[word]; ok {
				out = append(out, Term{Chinese: word, English: en})
				i += 2
				continue
			}
		}
		if en, ok := l.terms[string(runes[i])]; ok {
			out = append(out, Term{Chinese: string(runes[i]), English: en})
		}
		i++
	}
	return out
}
