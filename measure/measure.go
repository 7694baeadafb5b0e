package measure

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/ByLCY/glyphline/display"
	"github.com/ByLCY/glyphline/script"
)

// 该文件实现像素级文本测量：按字符簇（用户感知的"一个字"）逐一
// 查表求宽，总宽度恒等于各簇宽度之和。不做字距或整形，这与目标
// 硬件按单元格渲染字形的方式一致。

// Char 是单个字符簇的测量结果。
type Char struct {
	Cluster string      `json:"cluster"`
	WidthPx int         `json:"widthPx"`
	Script  script.Type `json:"script"`
	// Fallback 为 true 表示该簇没有任何度量信息，使用了回退宽度；
	// 调用方可据此记录降级渲染，而不是让整次渲染失败。
	Fallback bool `json:"fallback,omitempty"`
}

// Result 是整段文本的测量结果，Chars 保持输入顺序。
type Result struct {
	WidthPx int    `json:"widthPx"`
	Chars   []Char `json:"chars"`
}

// Measurer 基于一份只读显示配置测量文本。同一个 Measurer 可以被
// 多个 goroutine 并发使用。
type Measurer struct {
	profile *display.Profile
}

// New 用显示配置构建测量器。
func New(p *display.Profile) (*Measurer, error) {
	if p == nil {
		return nil, fmt.Errorf("measure: 缺少显示配置 Profile")
	}
	return &Measurer{profile: p}, nil
}

// Profile 返回测量器使用的显示配置。
func (m *Measurer) Profile() *display.Profile { return m.profile }

// MeasureChar 测量单个字符簇。查找顺序：宽度表精确条目 → 统一宽度
// 脚本的单元格宽度 → 空白簇按空格宽度 → 回退宽度并标记 Fallback。
// 空簇返回零值。
func (m *Measurer) MeasureChar(cluster string) Char {
	if cluster == "" {
		return Char{}
	}
	first, _ := utf8.DecodeRuneInString(cluster)
	typ := script.Classify(first)
	if w, ok := m.profile.GlyphWidth(cluster); ok {
		return Char{Cluster: cluster, WidthPx: w, Script: typ}
	}
	if script.IsUniformWidth(typ) {
		if w, ok := m.profile.CellWidth(typ); ok {
			return Char{Cluster: cluster, WidthPx: w, Script: typ}
		}
	}
	if isWhitespaceCluster(cluster) {
		return Char{Cluster: cluster, WidthPx: m.profile.SpaceWidth(), Script: typ}
	}
	return Char{
		Cluster:  cluster,
		WidthPx:  m.profile.FallbackWidth(),
		Script:   typ,
		Fallback: true,
	}
}

// MeasureText 将文本切分为字符簇并逐簇测量。组合序列、ZWJ 拼接的
// 表情等多码点字形按一个簇计宽；按码点切分会把它们算成多个宽度。
func (m *Measurer) MeasureText(text string) Result {
	if text == "" {
		return Result{}
	}
	res := Result{Chars: make([]Char, 0, utf8.RuneCountInString(text))}
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		c := m.MeasureChar(cluster)
		res.WidthPx += c.WidthPx
		res.Chars = append(res.Chars, c)
	}
	return res
}

// isWhitespaceCluster 判断簇是否完全由空白码点构成。
func isWhitespaceCluster(cluster string) bool {
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
