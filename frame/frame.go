package frame

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ByLCY/glyphline/binding"
	"github.com/ByLCY/glyphline/measure"
	"github.com/ByLCY/glyphline/wrap"
)

// 该文件实现展示辅助层：省略号截断、固定页分组，以及流式字幕的
// 稳定/待定分块。所有宽度判断都经由构建时传入的同一对测量器与
// 折行器，辅助层自身从不查表，因此不同调用方永远得到相同的断点。

// Composer 基于一对 Measurer/Wrapper 提供展示辅助操作。构建后只读，
// 可并发使用。
type Composer struct {
	m *measure.Measurer
	w *wrap.Wrapper
}

// New 构建展示辅助层。两个依赖必须共享同一个测量器，否则截断与
// 折行可能对同一文本得出不同宽度。
func New(m *measure.Measurer, w *wrap.Wrapper) (*Composer, error) {
	if m == nil {
		return nil, fmt.Errorf("frame: 缺少测量器 Measurer")
	}
	if w == nil {
		return nil, fmt.Errorf("frame: 缺少折行器 Wrapper")
	}
	if w.Measurer() != m {
		return nil, fmt.Errorf("frame: Wrapper 与 Composer 必须共享同一个 Measurer")
	}
	return &Composer{m: m, w: w}, nil
}

// TruncateResult 是一次截断的输出。
type TruncateResult struct {
	Text    string `json:"text"`
	WidthPx int    `json:"widthPx"`
	// Fits 为 false 表示原文超宽，已截断并附加省略号。
	Fits bool `json:"fits"`
}

// Truncate 把 text 压进 maxWidthPx 的宽度预算：放得下则原样返回，
// 放不下则取最长的簇安全前缀并附加省略号。对同一宽度重复截断是
// 幂等的。若省略号本身就超出预算，返回空文本。
func (c *Composer) Truncate(text string, maxWidthPx int, ellipsis string) TruncateResult {
	full := c.m.MeasureText(text)
	if full.WidthPx <= maxWidthPx {
		return TruncateResult{Text: text, WidthPx: full.WidthPx, Fits: true}
	}
	ell := c.m.MeasureText(ellipsis)
	if ell.WidthPx > maxWidthPx {
		return TruncateResult{}
	}
	var buf strings.Builder
	width := 0
	for _, ch := range full.Chars {
		if width+ch.WidthPx+ell.WidthPx > maxWidthPx {
			break
		}
		buf.WriteString(ch.Cluster)
		width += ch.WidthPx
	}
	buf.WriteString(ellipsis)
	return TruncateResult{Text: buf.String(), WidthPx: width + ell.WidthPx}
}

// Compose 先展开字幕模板、再折行。占位符替换严格发生在测量之前，
// 测量与折行处理的始终是最终渲染文本。
func (c *Composer) Compose(template string, ctx binding.Context) wrap.Result {
	return c.w.Wrap(binding.Expand(template, ctx))
}

// Page 是一屏显示的行组。
type Page struct {
	Index int         `json:"index"`
	Lines []wrap.Line `json:"lines"`
}

// Paginate 把折行结果按每页行数分组。顺序保持输入顺序，最后一页
// 可以不满；linesPerPage 小于 1 时按 1 处理。
func (c *Composer) Paginate(res wrap.Result, linesPerPage int) []Page {
	if linesPerPage < 1 {
		linesPerPage = 1
	}
	if len(res.Lines) == 0 {
		return nil
	}
	pages := make([]Page, 0, (len(res.Lines)+linesPerPage-1)/linesPerPage)
	for start := 0; start < len(res.Lines); start += linesPerPage {
		end := min(start+linesPerPage, len(res.Lines))
		pages = append(pages, Page{Index: len(pages), Lines: res.Lines[start:end]})
	}
	return pages
}

// Chunk 是流式文本的一段行序列。Stable 为 true 的块已经定稿，
// 后续调用必须原样复用，不再重新折行。
type Chunk struct {
	Lines  []wrap.Line `json:"lines"`
	Stable bool        `json:"stable"`
}

// StreamResult 是一次流式分块的输出，应原样传回下一次 Chunk 调用。
type StreamResult struct {
	Chunks []Chunk `json:"chunks"`
	// StableText 是 stream 中已定稿的前缀，行内 End 偏移都以完整
	// 流为基准。
	StableText string `json:"stableText"`
}

// Chunk 对逐步增长的流式文本分块。prior 是上一次调用的返回值
// （首次调用传零值）。已定稿的行原样复用，只对 StableText 之后的
// 尾部重新折行；新折出的行中除最后一行外都晋升为稳定——贪心断点
// 只取决于前缀，文本继续增长也不会移动它们。最后一行保持待定。
// 若 prior.StableText 不再是 stream 的前缀（流被改写），则丢弃
// 先前的稳定行，整体重新折行。
func (c *Composer) Chunk(stream string, prior StreamResult) StreamResult {
	if stream == "" {
		return StreamResult{}
	}

	var stable []wrap.Line
	base := 0
	if prior.StableText != "" && strings.HasPrefix(stream, prior.StableText) {
		base = len(prior.StableText)
		for _, ch := range prior.Chunks {
			if ch.Stable {
				stable = append(stable, ch.Lines...)
			}
		}
	}

	tail := c.w.Wrap(stream[base:]).Lines
	for i := range tail {
		tail[i].End += base
	}

	var pending []wrap.Line
	if n := len(tail); n > 0 {
		stable = append(stable, tail[:n-1]...)
		pending = tail[n-1:]
	}

	out := StreamResult{Chunks: []Chunk{
		{Lines: stable, Stable: true},
		{Lines: pending},
	}}
	if len(stable) > 0 {
		out.StableText = stream[:stable[len(stable)-1].End]
	}
	return out
}

// EncodeDebug 把折行结果以缩进 JSON 写入 w，便于调试或可视化。
// 输出目标由调用方提供，库本身不做文件 I/O。
func EncodeDebug(w io.Writer, res wrap.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
