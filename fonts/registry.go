// Package fonts 管理可用字体族，并提供一次性的字体就绪信号。
package fonts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/sync/errgroup"
	"seehuhn.de/go/sfnt"

	"github.com/ByLCY/lipi/logging"
)

// Source 描述一个字体族的来源，可以由 Bytes 或 Path 提供。
// Name 为空时从字体 name 表读取族名。
type Source struct {
	Name  string
	Bytes []byte
	Path  string
}

// ParseSource 解析命令行形式的字体声明："Name=path/to/font.ttf" 或 "path/to/font.ttf"。
func ParseSource(spec string) (Source, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Source{}, fmt.Errorf("字体声明为空")
	}
	name, path, ok := strings.Cut(spec, "=")
	if !ok {
		return Source{Path: spec}, nil
	}
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if path == "" {
		return Source{}, fmt.Errorf("字体 %s 缺少路径", name)
	}
	return Source{Name: name, Path: path}, nil
}

// Registry 保存已加载的字体族。内置族总是排在前面。
type Registry struct {
	sources []Source

	mu       sync.RWMutex
	families map[string]*canvas.FontFamily
	names    []string
	fallback *canvas.FontFamily

	once  sync.Once
	ready chan struct{}
	err   error
}

// NewRegistry 创建包含内置字体与 extra 字体的注册表。字体在 Load 之前不可用，
// 此时 Names 只包含显式命名的字体族。
func NewRegistry(extra ...Source) *Registry {
	sources := append(Builtins(), extra...)
	r := &Registry{
		sources:  sources,
		families: map[string]*canvas.FontFamily{},
		ready:    make(chan struct{}),
	}
	for _, src := range sources {
		if src.Name != "" && !r.declared(src.Name) {
			r.names = append(r.names, src.Name)
		}
	}
	return r
}

func (r *Registry) declared(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

// Load 并行加载所有字体族，完成后关闭 Ready 通道。重复调用只加载一次。
// 单个字体加载失败只记录日志并跳过；只有 ctx 被取消时返回错误。
func (r *Registry) Load(ctx context.Context) error {
	r.once.Do(func() {
		r.err = r.load(ctx)
		close(r.ready)
	})
	return r.err
}

// Ready 返回字体就绪信号：Load 结束后关闭。
func (r *Registry) Ready() <-chan struct{} {
	return r.ready
}

func (r *Registry) load(ctx context.Context) error {
	log := logging.Logger()
	loaded := make([]namedFamily, len(r.sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range r.sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			nf, err := loadFamily(src)
			if err != nil {
				log.Warn("字体加载失败，已跳过", "font", src.Name, "path", src.Path, "err", err)
				return nil
			}
			loaded[i] = nf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("加载字体被取消: %w", err)
	}

	// 加载完成后只保留成功的字体族
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = r.names[:0]
	for _, nf := range loaded {
		if nf.family == nil {
			continue
		}
		if _, dup := r.families[nf.name]; dup {
			log.Warn("字体族重名，保留先声明的", "font", nf.name)
			continue
		}
		r.families[nf.name] = nf.family
		r.names = append(r.names, nf.name)
	}
	log.Debug("字体加载完成", "families", len(r.families))
	return nil
}

type namedFamily struct {
	name   string
	family *canvas.FontFamily
}

func loadFamily(src Source) (namedFamily, error) {
	data := src.Bytes
	if len(data) == 0 {
		if src.Path == "" {
			return namedFamily{}, fmt.Errorf("字体 %s 缺少 Bytes 与 Path", src.Name)
		}
		var err error
		data, err = os.ReadFile(src.Path)
		if err != nil {
			return namedFamily{}, fmt.Errorf("读取字体文件 %s 失败: %w", src.Path, err)
		}
	}
	name := src.Name
	if name == "" {
		name = familyName(data, src.Path)
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return namedFamily{}, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	return namedFamily{name: name, family: family}, nil
}

// familyName 读取字体 name 表中的族名，失败时退回到文件名。
func familyName(data []byte, path string) string {
	if info, err := sfnt.Read(bytes.NewReader(data)); err == nil && info.FamilyName != "" {
		return info.FamilyName
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Names 返回字体选择器可用的族名，按声明顺序。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has 报告 name 是否为可选字体族。
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.declared(name)
}

// Family 返回名为 name 的字体族；未加载或加载失败时返回回退字体族，ok 为 false。
func (r *Registry) Family(name string) (family *canvas.FontFamily, ok bool) {
	r.mu.RLock()
	family, ok = r.families[name]
	r.mu.RUnlock()
	if ok {
		return family, true
	}
	fallback, err := r.fallbackFamily()
	if err != nil {
		logging.Logger().Error("回退字体不可用", "err", err)
		return nil, false
	}
	return fallback, false
}

func (r *Registry) fallbackFamily() (*canvas.FontFamily, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fallback != nil {
		return r.fallback, nil
	}
	data, err := Load(FamilyGo)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("lipi-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	r.fallback = family
	return family, nil
}
