package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// 内置字体族名称，也是字体选择器的默认枚举值。
const (
	FamilyGo          = "Go"
	FamilyGoMono      = "Go Mono"
	FamilyGoSmallcaps = "Go Smallcaps"
)

var builtins = []Source{
	{Name: FamilyGo, Bytes: goregular.TTF},
	{Name: FamilyGoMono, Bytes: gomono.TTF},
	{Name: FamilyGoSmallcaps, Bytes: gosmallcaps.TTF},
}

// Builtins 返回内置字体源的副本，顺序即选择器中的顺序。
func Builtins() []Source {
	out := make([]Source, len(builtins))
	copy(out, builtins)
	return out
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Go Mono" 或直接 "Go Mono"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	for _, src := range builtins {
		if src.Name == name {
			return src.Bytes, nil
		}
	}
	return nil, fmt.Errorf("找不到内置字体 %s", name)
}
