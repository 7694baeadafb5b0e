package display

import (
	"fmt"

	"github.com/ByLCY/glyphline/script"
)

// 该文件定义硬件显示配置：每个字符簇的像素宽度表、统一宽度脚本的
// 单元格宽度，以及显示区域尺寸。配置一经构建即不可变，可被多个
// 测量器并发共享。

// Config 是构建 Profile 的输入，由调用方填写后交给 New 校验。
type Config struct {
	// Name 是该配置对应的硬件型号名称，仅用于诊断输出。
	Name string
	// DisplayWidthPx 是文本可用区域的像素宽度，必须大于 0。
	DisplayWidthPx int
	// DisplayHeightPx 是显示高度，0 表示未知或不参与计算。
	DisplayHeightPx int
	// GlyphWidthsPx 按字符簇给出精确像素宽度。
	GlyphWidthsPx map[string]int
	// CellWidthsPx 给出统一宽度脚本（CJK、Korean）的单元格宽度。
	CellWidthsPx map[script.Type]int
	// FallbackWidthPx 是没有任何度量信息的字符簇使用的宽度。
	FallbackWidthPx int
	// SpaceWidthPx 是空白分隔符的宽度。
	SpaceWidthPx int
	// HyphenWidthPx 是断词连字符的宽度。
	HyphenWidthPx int
}

// ConfigError 描述配置校验失败的字段与原因。
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("display: 配置项 %s 无效: %s", e.Field, e.Reason)
}

// Profile 是校验后的只读显示配置。字段不可导出，构建后不再变化，
// 因此可以在多个 goroutine 之间无锁共享。
type Profile struct {
	name          string
	displayWidth  int
	displayHeight int
	glyphWidths   map[string]int
	cellWidths    map[script.Type]int
	fallbackWidth int
	spaceWidth    int
	hyphenWidth   int
}

// New 校验配置并构建不可变 Profile。校验失败时返回 *ConfigError。
func New(cfg Config) (*Profile, error) {
	if cfg.DisplayWidthPx <= 0 {
		return nil, &ConfigError{Field: "displayWidthPx", Reason: "必须大于 0"}
	}
	if cfg.DisplayHeightPx < 0 {
		return nil, &ConfigError{Field: "displayHeightPx", Reason: "不能为负"}
	}
	if cfg.FallbackWidthPx < 0 {
		return nil, &ConfigError{Field: "fallbackWidthPx", Reason: "不能为负"}
	}
	if cfg.SpaceWidthPx < 0 {
		return nil, &ConfigError{Field: "spaceWidthPx", Reason: "不能为负"}
	}
	if cfg.HyphenWidthPx < 0 {
		return nil, &ConfigError{Field: "hyphenWidthPx", Reason: "不能为负"}
	}

	glyphs := make(map[string]int, len(cfg.GlyphWidthsPx))
	for cluster, w := range cfg.GlyphWidthsPx {
		if cluster == "" {
			return nil, &ConfigError{Field: "glyphWidthsPx", Reason: "字符键不能为空"}
		}
		if w < 0 {
			return nil, &ConfigError{
				Field:  "glyphWidthsPx",
				Reason: fmt.Sprintf("字符 %q 的宽度不能为负", cluster),
			}
		}
		glyphs[cluster] = w
	}

	cells := make(map[script.Type]int, len(cfg.CellWidthsPx))
	for typ, w := range cfg.CellWidthsPx {
		if !script.IsUniformWidth(typ) {
			return nil, &ConfigError{
				Field:  "cellWidthsPx",
				Reason: fmt.Sprintf("脚本 %v 不是统一宽度脚本", typ),
			}
		}
		if w < 0 {
			return nil, &ConfigError{
				Field:  "cellWidthsPx",
				Reason: fmt.Sprintf("脚本 %v 的单元格宽度不能为负", typ),
			}
		}
		cells[typ] = w
	}

	return &Profile{
		name:          cfg.Name,
		displayWidth:  cfg.DisplayWidthPx,
		displayHeight: cfg.DisplayHeightPx,
		glyphWidths:   glyphs,
		cellWidths:    cells,
		fallbackWidth: cfg.FallbackWidthPx,
		spaceWidth:    cfg.SpaceWidthPx,
		hyphenWidth:   cfg.HyphenWidthPx,
	}, nil
}

// Name 返回配置对应的硬件型号名称。
func (p *Profile) Name() string { return p.name }

// DisplayWidth 返回文本可用区域的像素宽度。
func (p *Profile) DisplayWidth() int { return p.displayWidth }

// DisplayHeight 返回显示高度，0 表示未知。
func (p *Profile) DisplayHeight() int { return p.displayHeight }

// GlyphWidth 查询字符簇的精确宽度，第二个返回值表示是否存在条目。
func (p *Profile) GlyphWidth(cluster string) (int, bool) {
	w, ok := p.glyphWidths[cluster]
	return w, ok
}

// CellWidth 查询统一宽度脚本的单元格宽度。
func (p *Profile) CellWidth(typ script.Type) (int, bool) {
	w, ok := p.cellWidths[typ]
	return w, ok
}

// FallbackWidth 返回无度量信息字符簇使用的宽度。
func (p *Profile) FallbackWidth() int { return p.fallbackWidth }

// SpaceWidth 返回空白分隔符宽度。
func (p *Profile) SpaceWidth() int { return p.spaceWidth }

// HyphenWidth 返回断词连字符宽度。
func (p *Profile) HyphenWidth() int { return p.hyphenWidth }
