// Package preview 把配置状态、字体就绪信号与绘制表面连接起来：
// 配置每次变化都安排一次重绘。
package preview

import (
	"sync"

	"github.com/ByLCY/lipi/config"
	"github.com/ByLCY/lipi/logging"
	"github.com/ByLCY/lipi/renderer"
)

// Readiness 是一次性的字体就绪信号，例如 *fonts.Registry。
type Readiness interface {
	Ready() <-chan struct{}
}

// Options configures a View.
type Options struct {
	// OnRender 在每次重绘完成后调用，参数为本次使用的配置。
	// 调用时持有视图锁，回调内不能再调用 View 的方法。
	OnRender func(cfg config.RenderConfig)
}

// View 拥有一个配置对象并在其变化时重绘表面。
type View struct {
	store   *config.Store
	surface renderer.Surface
	ready   Readiness
	opts    Options

	mu      sync.Mutex
	closed  bool
	waiting bool // 已有 goroutine 在等待字体就绪
	renders int
	cancel  func()
}

// New 创建视图并订阅 store；随即安排首次绘制。
// ready 为 nil 表示宿主没有就绪信号，绘制立即进行。
func New(surface renderer.Surface, store *config.Store, ready Readiness, opts Options) *View {
	v := &View{
		store:   store,
		surface: surface,
		ready:   ready,
		opts:    opts,
	}
	v.cancel = store.Subscribe(func(config.RenderConfig) { v.schedule() })
	v.schedule()
	return v
}

// Refresh 强制安排一次重绘。
func (v *View) Refresh() {
	v.schedule()
}

// schedule 在字体就绪后重绘。就绪信号已解决时同步绘制；
// 否则只保留一个等待者，它醒来时绘制当时的最新配置。
func (v *View) schedule() {
	if v.ready == nil {
		v.draw()
		return
	}
	ch := v.ready.Ready()
	select {
	case <-ch:
		v.draw()
		return
	default:
	}

	v.mu.Lock()
	if v.closed || v.waiting {
		v.mu.Unlock()
		return
	}
	v.waiting = true
	v.mu.Unlock()

	logging.Logger().Debug("字体尚未就绪，延迟绘制")
	go func() {
		<-ch
		v.mu.Lock()
		v.waiting = false
		v.mu.Unlock()
		v.draw()
	}()
}

func (v *View) draw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	cfg := v.store.Get()
	renderer.Render(v.surface, cfg)
	v.renders++
	logging.Logger().Debug("已重绘", "text", cfg.Text, "family", cfg.FontFamily, "size", cfg.FontSizePx)
	if v.opts.OnRender != nil {
		v.opts.OnRender(cfg)
	}
}

// Renders 返回已完成的重绘次数。
func (v *View) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

// Close 取消订阅并使视图失效；之后到达的就绪信号不会再绘制。
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
	}
}
