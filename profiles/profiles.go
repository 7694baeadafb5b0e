package profiles

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ByLCY/glyphline/display"
	"github.com/ByLCY/glyphline/dsl"
	"github.com/ByLCY/glyphline/script"
)

// 该包内置各硬件型号的预设显示配置。配置以 profile 文档形式随包
// 编译嵌入，首次访问时解析一次，之后所有调用方共享同一批只读
// Profile 实例——这正是消除调用方之间断点分歧的关键。

//go:embed *.profile
var profileFS embed.FS

var (
	loadOnce sync.Once
	loadErr  error
	presets  map[string]*display.Profile
)

// modelKeys 把设备的市场名称映射到预设键。Simulated Glasses 是
// 手机端镜像预览，使用与 G1 相同的度量表。Mentra Live 没有显示屏，
// 因此没有预设。
var modelKeys = map[string]string{
	"even realities g1": "even-g1",
	"vuzix z100":        "vuzix-z100",
	"mentra mach1":      "mentra-mach1",
	"brilliant frame":   "brilliant-frame",
	"simulated glasses": "even-g1",
}

func ensureLoaded() error {
	loadOnce.Do(func() {
		entries, err := profileFS.ReadDir(".")
		if err != nil {
			loadErr = fmt.Errorf("profiles: 读取内置配置目录失败: %w", err)
			return
		}
		presets = make(map[string]*display.Profile, len(entries))
		for _, entry := range entries {
			name := entry.Name()
			data, err := profileFS.ReadFile(name)
			if err != nil {
				loadErr = fmt.Errorf("profiles: 读取内置配置 %s 失败: %w", name, err)
				return
			}
			doc, err := dsl.ParseString(string(data))
			if err != nil {
				loadErr = fmt.Errorf("profiles: 解析内置配置 %s 失败: %w", name, err)
				return
			}
			cfg, err := toConfig(doc)
			if err != nil {
				loadErr = fmt.Errorf("profiles: 内置配置 %s 无效: %w", name, err)
				return
			}
			p, err := display.New(cfg)
			if err != nil {
				loadErr = fmt.Errorf("profiles: 内置配置 %s 校验失败: %w", name, err)
				return
			}
			presets[strings.TrimSuffix(name, ".profile")] = p
		}
	})
	return loadErr
}

// Load 按预设键返回显示配置，键即文档文件名去掉扩展名
// （如 "even-g1"）。同一键的所有调用返回同一实例。
func Load(key string) (*display.Profile, error) {
	if err := ensureLoaded(); err != nil {
		return nil, err
	}
	p, ok := presets[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil, fmt.Errorf("profiles: 未知的预设 %q，可用预设: %s",
			key, strings.Join(Names(), ", "))
	}
	return p, nil
}

// ByModel 按设备的市场名称返回显示配置（如 "Even Realities G1"）。
func ByModel(deviceModelName string) (*display.Profile, error) {
	key, ok := modelKeys[strings.ToLower(strings.TrimSpace(deviceModelName))]
	if !ok {
		models := make([]string, 0, len(modelKeys))
		for m := range modelKeys {
			models = append(models, m)
		}
		sort.Strings(models)
		return nil, fmt.Errorf("profiles: 未知的设备型号 %q，已知型号: %s",
			deviceModelName, strings.Join(models, ", "))
	}
	return Load(key)
}

// Names 返回全部预设键，按字典序排序。
func Names() []string {
	if err := ensureLoaded(); err != nil {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// toConfig 把解析后的 profile 文档转换为显示配置，检查缺失的
// 区块、重复与未知的键。
func toConfig(doc *dsl.Document) (display.Config, error) {
	cfg := display.Config{Name: string(doc.Name)}
	seenSection := map[string]bool{}
	for _, sec := range doc.Sections {
		kind := sec.Kind()
		if seenSection[kind] {
			return cfg, fmt.Errorf("区块 %s 重复出现", kind)
		}
		seenSection[kind] = true
		switch {
		case sec.Display != nil:
			if err := applyMetricEntries(sec.Display.Entries, map[string]*int{
				"width":  &cfg.DisplayWidthPx,
				"height": &cfg.DisplayHeightPx,
			}, "display"); err != nil {
				return cfg, err
			}
		case sec.Metrics != nil:
			if err := applyMetricEntries(sec.Metrics.Entries, map[string]*int{
				"space":    &cfg.SpaceWidthPx,
				"hyphen":   &cfg.HyphenWidthPx,
				"fallback": &cfg.FallbackWidthPx,
			}, "metrics"); err != nil {
				return cfg, err
			}
		case sec.Cells != nil:
			cfg.CellWidthsPx = make(map[script.Type]int, len(sec.Cells.Entries))
			for _, e := range sec.Cells.Entries {
				var typ script.Type
				switch strings.ToLower(e.Script) {
				case "cjk":
					typ = script.CJK
				case "korean":
					typ = script.Korean
				default:
					return cfg, fmt.Errorf("cells 区块出现未知脚本 %q", e.Script)
				}
				if _, dup := cfg.CellWidthsPx[typ]; dup {
					return cfg, fmt.Errorf("cells 区块的脚本 %q 重复出现", e.Script)
				}
				cfg.CellWidthsPx[typ] = int(e.Value)
			}
		case sec.Glyphs != nil:
			cfg.GlyphWidthsPx = make(map[string]int, len(sec.Glyphs.Entries))
			for _, e := range sec.Glyphs.Entries {
				cluster := string(e.Cluster)
				if _, dup := cfg.GlyphWidthsPx[cluster]; dup {
					return cfg, fmt.Errorf("glyphs 区块的字符 %q 重复出现", cluster)
				}
				cfg.GlyphWidthsPx[cluster] = int(e.Value)
			}
		}
	}
	if !seenSection["display"] {
		return cfg, fmt.Errorf("缺少 display 区块")
	}
	return cfg, nil
}

func applyMetricEntries(entries []*dsl.MetricEntry, keys map[string]*int, section string) error {
	seen := map[string]bool{}
	for _, e := range entries {
		dst, ok := keys[e.Key]
		if !ok {
			return fmt.Errorf("%s 区块出现未知键 %q", section, e.Key)
		}
		if seen[e.Key] {
			return fmt.Errorf("%s 区块的键 %q 重复出现", section, e.Key)
		}
		seen[e.Key] = true
		*dst = int(e.Value)
	}
	return nil
}
