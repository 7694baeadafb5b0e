package measure

import (
	"strings"
	"testing"

	"github.com/ByLCY/glyphline/display"
	"github.com/ByLCY/glyphline/script"
)

// testProfile 构建一份测试配置：ASCII 字母统一 10px，少量标点有精确
// 条目，CJK/Korean 单元格 20px，空格 4px，回退 12px。
func testProfile(t *testing.T) *display.Profile {
	t.Helper()
	glyphs := map[string]int{}
	for r := 'a'; r <= 'z'; r++ {
		glyphs[string(r)] = 10
	}
	for r := 'A'; r <= 'Z'; r++ {
		glyphs[string(r)] = 10
	}
	glyphs["!"] = 4
	glyphs["."] = 4
	glyphs["-"] = 5
	glyphs["é"] = 10 // é（预组合）
	p, err := display.New(display.Config{
		Name:           "measure-test",
		DisplayWidthPx: 390,
		GlyphWidthsPx:  glyphs,
		CellWidthsPx: map[script.Type]int{
			script.CJK:    20,
			script.Korean: 20,
		},
		FallbackWidthPx: 12,
		SpaceWidthPx:    4,
		HyphenWidthPx:   5,
	})
	if err != nil {
		t.Fatalf("构建测试配置失败: %v", err)
	}
	return p
}

func newMeasurer(t *testing.T) *Measurer {
	t.Helper()
	m, err := New(testProfile(t))
	if err != nil {
		t.Fatalf("构建测量器失败: %v", err)
	}
	return m
}

func TestNewNilProfile(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("nil Profile 应当构建失败")
	}
}

// TestTotalIsSumOfClusters 验证总宽度恒等于逐簇宽度之和，且逐簇结果
// 与单独调用 MeasureChar 一致。
func TestTotalIsSumOfClusters(t *testing.T) {
	m := newMeasurer(t)
	samples := []string{
		"Hello World",
		"Hello 世界!",
		"안녕하세요",
		"mixed 혼합 混合 text",
		"café",
		"  double  spaces  ",
	}
	for _, s := range samples {
		res := m.MeasureText(s)
		sum := 0
		var rebuilt strings.Builder
		for _, c := range res.Chars {
			sum += c.WidthPx
			rebuilt.WriteString(c.Cluster)
			if got := m.MeasureChar(c.Cluster); got != c {
				t.Fatalf("%q: 簇 %q 的结果不一致: %+v vs %+v", s, c.Cluster, got, c)
			}
		}
		if sum != res.WidthPx {
			t.Fatalf("%q: 总宽 %d != 逐簇之和 %d", s, res.WidthPx, sum)
		}
		if rebuilt.String() != s {
			t.Fatalf("%q: 簇拼接结果 %q 与输入不符", s, rebuilt.String())
		}
	}
}

func TestMeasureCharResolution(t *testing.T) {
	m := newMeasurer(t)
	cases := []struct {
		name     string
		cluster  string
		wantPx   int
		wantTyp  script.Type
		fallback bool
	}{
		{"宽度表条目", "a", 10, script.Latin, false},
		{"标点条目", "!", 4, script.Unsupported, false},
		{"CJK 单元格", "漢", 20, script.CJK, false},
		{"假名单元格", "か", 20, script.CJK, false},
		{"谚文单元格", "한", 20, script.Korean, false},
		{"全角空格走单元格", "　", 20, script.CJK, false},
		{"ASCII 空格", " ", 4, script.Unsupported, false},
		{"制表符按空格", "\t", 4, script.Unsupported, false},
		{"西里尔无条目回退", "Ж", 12, script.Cyrillic, true},
		{"数字无条目回退", "7", 12, script.Unsupported, true},
		{"预组合 é 命中条目", "é", 10, script.Latin, false},
		{"分解 é 无条目回退", "é", 12, script.Latin, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.MeasureChar(tc.cluster)
			if got.WidthPx != tc.wantPx || got.Script != tc.wantTyp || got.Fallback != tc.fallback {
				t.Fatalf("MeasureChar(%q) = %+v, want width=%d script=%v fallback=%v",
					tc.cluster, got, tc.wantPx, tc.wantTyp, tc.fallback)
			}
		})
	}
}

// TestGraphemeIntegrity 验证多码点字形按一个簇计宽：ZWJ 家庭表情、
// 区域旗帜、组合变音都不会被拆开。
func TestGraphemeIntegrity(t *testing.T) {
	m := newMeasurer(t)
	cases := []struct {
		name     string
		text     string
		clusters int
	}{
		{"ZWJ 家庭表情", "\U0001F468‍\U0001F469‍\U0001F467‍\U0001F466", 1},
		{"区域旗帜", "\U0001F1FA\U0001F1F8", 1},
		{"组合变音", "é", 1},
		{"肤色修饰", "\U0001F44D\U0001F3FD", 1},
		{"旗帜加字母", "\U0001F1FA\U0001F1F8ok", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := m.MeasureText(tc.text)
			if len(res.Chars) != tc.clusters {
				t.Fatalf("%q 应为 %d 个簇，实际 %d: %+v", tc.text, tc.clusters, len(res.Chars), res.Chars)
			}
		})
	}
}

func TestMeasureTextEmpty(t *testing.T) {
	m := newMeasurer(t)
	res := m.MeasureText("")
	if res.WidthPx != 0 || len(res.Chars) != 0 {
		t.Fatalf("空输入应返回零结果: %+v", res)
	}
}

// TestExactScenario 验证逐簇求和的精确性：本配置空格为 4px，
// 因此用无空格字符串检查 10px/簇，CJK 用 20px 单元格。
func TestExactScenario(t *testing.T) {
	m := newMeasurer(t)
	res := m.MeasureText("HelloWorld")
	if res.WidthPx != 100 {
		t.Fatalf("HelloWorld 应为 100px，实际 %d", res.WidthPx)
	}
	if len(res.Chars) != 10 {
		t.Fatalf("应为 10 个簇，实际 %d", len(res.Chars))
	}
	cjk := m.MeasureText("漢字測試")
	if cjk.WidthPx != 80 {
		t.Fatalf("四个 CJK 单元格应为 80px，实际 %d", cjk.WidthPx)
	}
}
