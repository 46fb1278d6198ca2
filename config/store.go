package config

import (
	"image/color"
	"sync"
)

// Store 持有一个视图实例的当前配置。
// 每次修改都会同步通知唯一的订阅回调；字体就绪回调来自其他 goroutine，因此内部加锁。
type Store struct {
	mu       sync.Mutex
	cfg      RenderConfig
	listener func(RenderConfig)
	seq      uint64 // 订阅序号，用于让过期的 cancel 失效
}

// NewStore 以 initial 初始化配置。
func NewStore(initial RenderConfig) *Store {
	return &Store{cfg: initial}
}

// Get 返回当前配置的副本。
func (s *Store) Get() RenderConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Subscribe 注册变更回调，替换此前的订阅者。返回的 cancel 只会取消本次订阅。
func (s *Store) Subscribe(fn func(RenderConfig)) (cancel func()) {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.listener = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq == id {
			s.listener = nil
		}
	}
}

// Update 在锁内修改配置，随后在锁外通知订阅者。
func (s *Store) Update(fn func(*RenderConfig)) {
	s.mu.Lock()
	fn(&s.cfg)
	cfg := s.cfg
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(cfg)
	}
}

// Reset 恢复为 Default()。
func (s *Store) Reset() {
	s.Update(func(c *RenderConfig) { *c = Default() })
}

func (s *Store) SetText(text string) {
	s.Update(func(c *RenderConfig) { c.Text = text })
}

func (s *Store) SetFontSize(px float64) {
	s.Update(func(c *RenderConfig) { c.FontSizePx = px })
}

func (s *Store) SetFontColor(col color.RGBA) {
	s.Update(func(c *RenderConfig) { c.FontColor = col })
}

func (s *Store) SetStrokeColor(col color.RGBA) {
	s.Update(func(c *RenderConfig) { c.StrokeColor = col })
}

func (s *Store) SetStrokeWidth(px float64) {
	s.Update(func(c *RenderConfig) { c.StrokeWidthPx = px })
}

func (s *Store) SetLineHeight(factor float64) {
	s.Update(func(c *RenderConfig) { c.LineHeight = factor })
}

func (s *Store) SetFontFamily(name string) {
	s.Update(func(c *RenderConfig) { c.FontFamily = name })
}
