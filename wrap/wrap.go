package wrap

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ByLCY/glyphline/measure"
	"github.com/ByLCY/glyphline/script"
)

// 该文件实现贪心折行：一次遍历测量后的簇/词流，按折行模式产出
// 不超过行宽的行。所有宽度都来自同一个 Measurer，折行器自身从不
// 直接查表，这保证了不同调用方对同一文本得到相同的断点。

// Mode 指定断行策略。
type Mode int

const (
	ModeCharacter  Mode = iota // 任意簇边界都可断行
	ModeWord                   // 词优先，超宽词按连字符拆分
	ModeStrictWord             // 词永不拆分，超宽词整词独占一行
)

// String 返回模式的配置名。
func (m Mode) String() string {
	switch m {
	case ModeCharacter:
		return "character"
	case ModeWord:
		return "word"
	case ModeStrictWord:
		return "strict-word"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode 把配置中的模式名解析为 Mode，接受常见别名。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "character", "char":
		return ModeCharacter, nil
	case "word":
		return ModeWord, nil
	case "strict-word", "strictword", "strict":
		return ModeStrictWord, nil
	default:
		return ModeCharacter, fmt.Errorf("wrap: 未知的折行模式 %q", s)
	}
}

// Options 控制折行行为。零值即：字符模式、不限行数、启用连字符、
// 行宽取显示配置的宽度。
type Options struct {
	Mode Mode `json:"mode"`
	// MaxLines 限制输出行数，0 表示不限。达到上限即停止消费输入，
	// 最后一行与整体结果都会带上截断标记。
	MaxLines int `json:"maxLines,omitempty"`
	// DisableHyphenation 关闭超宽词的连字符拆分，改用字符拆分。
	DisableHyphenation bool `json:"disableHyphenation,omitempty"`
	// LineWidthPx 覆盖显示配置的行宽，0 表示使用配置宽度。
	LineWidthPx int `json:"lineWidthPx,omitempty"`
}

// Line 是一行输出及其度量。
type Line struct {
	Text     string `json:"text"`
	WidthPx  int    `json:"widthPx"`
	Clusters int    `json:"clusters"`
	// Truncated 表示该行承载了放不下的内容：独占一行的超宽单元，
	// 或 MaxLines 截断时的最后一行。
	Truncated bool `json:"truncated,omitempty"`
	// End 是该行消费的输入内容之后的字节偏移（含断点处折叠的空白）。
	// 调用方可以用 text[End:] 取得未消费的剩余输入。
	End int `json:"end"`
}

// Result 是一次折行的全部输出。行数即 len(Lines)。
type Result struct {
	Lines []Line `json:"lines"`
	// Overflowed 表示输入因 MaxLines 被截断，尚有内容未消费。
	Overflowed bool `json:"overflowed,omitempty"`
}

// Wrapper 将文本折成不超过行宽的行。构建后只读，可并发使用。
type Wrapper struct {
	m     *measure.Measurer
	opts  Options
	limit int
}

// New 校验选项并构建折行器。
func New(m *measure.Measurer, opts Options) (*Wrapper, error) {
	if m == nil {
		return nil, fmt.Errorf("wrap: 缺少测量器 Measurer")
	}
	switch opts.Mode {
	case ModeCharacter, ModeWord, ModeStrictWord:
	default:
		return nil, fmt.Errorf("wrap: 未知的折行模式 %v", opts.Mode)
	}
	if opts.MaxLines < 0 {
		return nil, fmt.Errorf("wrap: maxLines 不能为负")
	}
	if opts.LineWidthPx < 0 {
		return nil, fmt.Errorf("wrap: lineWidthPx 不能为负")
	}
	limit := opts.LineWidthPx
	if limit == 0 {
		limit = m.Profile().DisplayWidth()
	}
	return &Wrapper{m: m, opts: opts, limit: limit}, nil
}

// Options 返回构建时的选项。
func (w *Wrapper) Options() Options { return w.opts }

// LineWidth 返回生效的行宽（选项覆盖或显示配置宽度）。
func (w *Wrapper) LineWidth() int { return w.limit }

// Measurer 返回折行器使用的测量器。
func (w *Wrapper) Measurer() *measure.Measurer { return w.m }

// Wrap 把 text 折成行。空输入返回零行，不报错。
func (w *Wrapper) Wrap(text string) Result {
	if text == "" {
		return Result{}
	}
	acc := &lineAccum{maxLines: w.opts.MaxLines}
	switch w.opts.Mode {
	case ModeWord:
		w.wrapWords(text, acc, false)
	case ModeStrictWord:
		w.wrapWords(text, acc, true)
	default:
		w.wrapClusters(text, acc)
	}
	res := Result{Lines: acc.lines}
	if acc.full && len(acc.lines) > 0 {
		rest := text[acc.lines[len(acc.lines)-1].End:]
		if strings.TrimSpace(rest) != "" {
			res.Overflowed = true
			res.Lines[len(res.Lines)-1].Truncated = true
		}
	}
	return res
}

// lineAccum 聚合当前行，关闭时落入结果，并负责 MaxLines 计数。
type lineAccum struct {
	buf       strings.Builder
	width     int
	clusters  int
	truncated bool
	end       int
	lines     []Line
	maxLines  int
	full      bool
}

func (a *lineAccum) add(cluster string, widthPx int) {
	a.buf.WriteString(cluster)
	a.width += widthPx
	a.clusters++
}

func (a *lineAccum) addWord(tok token) {
	a.buf.WriteString(tok.text)
	a.width += tok.width
	a.clusters += len(tok.chars)
}

func (a *lineAccum) markTruncated() { a.truncated = true }

// emit 关闭当前行。force 为 true 时空行也会产出（显式换行保留空行），
// 收尾的 force 为 false，因此尾随换行不会多出一个空行。
func (a *lineAccum) emit(force bool) {
	if a.full {
		return
	}
	if a.buf.Len() == 0 && !force {
		return
	}
	a.lines = append(a.lines, Line{
		Text:      a.buf.String(),
		WidthPx:   a.width,
		Clusters:  a.clusters,
		Truncated: a.truncated,
		End:       a.end,
	})
	a.buf.Reset()
	a.width = 0
	a.clusters = 0
	a.truncated = false
	if a.maxLines > 0 && len(a.lines) >= a.maxLines {
		a.full = true
	}
}

// wrapClusters 实现字符模式：任意簇边界都可断行，显式换行强制断行。
// 单簇超过行宽时独占一行并标记截断，折行永远不会卡住。
func (w *Wrapper) wrapClusters(text string, acc *lineAccum) {
	measured := w.m.MeasureText(text)
	offset := 0
	for _, c := range measured.Chars {
		if acc.full {
			return
		}
		next := offset + len(c.Cluster)
		switch c.Cluster {
		case "\r":
			acc.end = next
			offset = next
			continue
		case "\n", "\r\n":
			acc.end = next
			offset = next
			acc.emit(true)
			continue
		}
		if acc.width > 0 && acc.width+c.WidthPx > w.limit {
			acc.emit(false)
			if acc.full {
				return
			}
		}
		acc.add(c.Cluster, c.WidthPx)
		acc.end = next
		offset = next
		if acc.width > w.limit {
			acc.markTruncated()
			acc.emit(false)
		}
	}
	acc.emit(false)
}

// wrapWords 实现词模式与严格词模式：词是原子 token，断点处的连续
// 空白折叠成一个空格，空白永远不会出现在行首。
func (w *Wrapper) wrapWords(text string, acc *lineAccum, strict bool) {
	tokens := w.tokenize(text)
	spaceW := w.m.Profile().SpaceWidth()
	pendingSpace := false
	for _, tok := range tokens {
		if acc.full {
			return
		}
		switch tok.kind {
		case tokenNewline:
			acc.end = tok.end
			acc.emit(true)
			pendingSpace = false
		case tokenSpace:
			// 空白总是被消费；行首空白直接丢弃
			acc.end = tok.end
			if acc.width > 0 {
				pendingSpace = true
			}
		default:
			sep := 0
			if pendingSpace {
				sep = spaceW
			}
			if acc.width > 0 && acc.width+sep+tok.width > w.limit {
				acc.emit(false)
				if acc.full {
					return
				}
				pendingSpace = false
				sep = 0
			}
			if tok.width <= w.limit {
				if sep > 0 {
					acc.add(" ", sep)
				}
				acc.addWord(tok)
				acc.end = tok.end
				pendingSpace = false
				continue
			}
			// 词独自超宽，此刻当前行为空
			if strict {
				acc.addWord(tok)
				acc.end = tok.end
				acc.markTruncated()
				acc.emit(false)
			} else {
				w.splitOversizedWord(tok, acc)
			}
			pendingSpace = false
		}
	}
	acc.emit(false)
}

// splitOversizedWord 处理单独超宽的词：脚本支持且未禁用时按连字符
// 拆分，否则对该词退化为字符拆分。拆出的余部留在当前行，后续词可
// 以继续拼接。
func (w *Wrapper) splitOversizedWord(tok token, acc *lineAccum) {
	start := tok.end - len(tok.text)
	canHyphen := !w.opts.DisableHyphenation &&
		len(tok.chars) > 0 &&
		script.NeedsHyphenForBreak(tok.chars[0].Script)
	if !canHyphen {
		w.splitClusters(tok.chars, start, acc)
		return
	}
	w.hyphenate(tok, acc)
}

// hyphenate 把超宽词拆成若干"前缀-"行：每次取宽度加连字符仍不超过
// 行宽的最长前缀。若连一个簇加连字符都放不下，剩余部分改用字符拆分。
func (w *Wrapper) hyphenate(tok token, acc *lineAccum) {
	hyphenW := w.m.Profile().HyphenWidth()
	budget := w.limit - hyphenW
	chars := tok.chars
	offset := tok.end - len(tok.text)
	restW := tok.width
	for restW > w.limit {
		if acc.full {
			return
		}
		cut, cutW, cutBytes := 0, 0, 0
		for i, c := range chars {
			if cutW+c.WidthPx > budget {
				break
			}
			cutW += c.WidthPx
			cutBytes += len(c.Cluster)
			cut = i + 1
		}
		if cut == 0 {
			w.splitClusters(chars, offset, acc)
			return
		}
		for _, c := range chars[:cut] {
			acc.add(c.Cluster, c.WidthPx)
		}
		acc.add("-", hyphenW)
		offset += cutBytes
		acc.end = offset
		acc.emit(false)
		chars = chars[cut:]
		restW -= cutW
	}
	for _, c := range chars {
		acc.add(c.Cluster, c.WidthPx)
	}
	acc.end = tok.end
}

// splitClusters 对簇序列做字符级贪心拆分，余部留在当前行不关闭。
func (w *Wrapper) splitClusters(chars []measure.Char, offset int, acc *lineAccum) {
	for _, c := range chars {
		if acc.full {
			return
		}
		offset += len(c.Cluster)
		if acc.width > 0 && acc.width+c.WidthPx > w.limit {
			acc.emit(false)
			if acc.full {
				return
			}
		}
		acc.add(c.Cluster, c.WidthPx)
		acc.end = offset
		if acc.width > w.limit {
			acc.markTruncated()
			acc.emit(false)
		}
	}
}

// token 是词模式的原子单元：词、空白串或显式换行。
type token struct {
	text  string
	kind  tokenKind
	end   int            // 输入中该 token 之后的字节偏移
	width int            // 词的总宽度
	chars []measure.Char // 词的逐簇测量
}

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenSpace
	tokenNewline
)

// tokenize 把文本切成词与空白串，显式换行单独成 token，\r 被丢弃。
// 切分沿用测量器给出的簇边界，词内的组合序列不会被拆散。
func (w *Wrapper) tokenize(text string) []token {
	measured := w.m.MeasureText(text)
	var tokens []token
	var buf strings.Builder
	var kind tokenKind
	var width int
	var chars []measure.Char
	flush := func(end int) {
		if buf.Len() == 0 {
			return
		}
		tokens = append(tokens, token{
			text:  buf.String(),
			kind:  kind,
			end:   end,
			width: width,
			chars: chars,
		})
		buf.Reset()
		width = 0
		chars = nil
	}
	offset := 0
	for _, c := range measured.Chars {
		next := offset + len(c.Cluster)
		switch c.Cluster {
		case "\r":
			flush(offset)
		case "\n", "\r\n":
			flush(offset)
			tokens = append(tokens, token{text: c.Cluster, kind: tokenNewline, end: next})
		default:
			k := tokenWord
			if isSpaceCluster(c.Cluster) {
				k = tokenSpace
			}
			if buf.Len() > 0 && kind != k {
				flush(offset)
			}
			kind = k
			buf.WriteString(c.Cluster)
			width += c.WidthPx
			chars = append(chars, c)
		}
		offset = next
	}
	flush(offset)
	return tokens
}

// isSpaceCluster 判断簇是否完全由空白码点构成。
func isSpaceCluster(cluster string) bool {
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
