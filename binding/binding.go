package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// 该包实现字幕模板的占位符展开。小程序的状态行（电量、时钟、
// 发言人名）以 ${path.to.value[0]} 形式引用上下文数据；展开严格
// 发生在测量与折行之前，引擎本身永远不会看到占位符。只做取值
// 替换，不涉及任何样式或标记。

// Context 是模板展开的数据上下文。嵌套结构用 map 与切片表达，
// 值在替换时经 fmt.Sprint 转成文本。
type Context map[string]any

var placeholder = regexp.MustCompile(`\$\{([^}]*)\}`)

// Expand 把 text 中的占位符替换为上下文中的值。路径不存在、下标
// 越界或上下文为空时保留原占位符，模板永远不会因数据缺失而出错。
func Expand(text string, ctx Context) string {
	if len(ctx) == 0 || !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		val, ok := ctx.lookup(path)
		if !ok {
			return match
		}
		return fmt.Sprint(val)
	})
}

// lookup 沿点分路径在上下文中取值，段内的 [n] 依次索引切片。
func (c Context) lookup(path string) (any, bool) {
	var cur any = map[string]any(c)
	for _, seg := range strings.Split(path, ".") {
		key, indexes, ok := splitSegment(seg)
		if !ok {
			return nil, false
		}
		if key != "" {
			m, isMap := asMap(cur)
			if !isMap {
				return nil, false
			}
			v, found := m[key]
			if !found {
				return nil, false
			}
			cur = v
		}
		for _, idx := range indexes {
			s, isSlice := cur.([]any)
			if !isSlice || idx < 0 || idx >= len(s) {
				return nil, false
			}
			cur = s[idx]
		}
	}
	return cur, true
}

// splitSegment 把 "speakers[0]" 拆成键名与下标序列，畸形的下标
// 语法视为解析失败。
func splitSegment(seg string) (string, []int, bool) {
	open := strings.IndexByte(seg, '[')
	if open == -1 {
		return seg, nil, true
	}
	key := seg[:open]
	var indexes []int
	rest := seg[open:]
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, n)
		rest = rest[end+1:]
	}
	return key, indexes, true
}

// asMap 兼容嵌套的 Context 与裸 map 两种写法。
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Context:
		return map[string]any(m), true
	default:
		return nil, false
	}
}
