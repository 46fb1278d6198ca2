package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/lipi/binding"
	"github.com/ByLCY/lipi/config"
	"github.com/ByLCY/lipi/dsl"
	"github.com/ByLCY/lipi/fonts"
	"github.com/ByLCY/lipi/layout"
	"github.com/ByLCY/lipi/logging"
	"github.com/ByLCY/lipi/preview"
	canvasrenderer "github.com/ByLCY/lipi/renderer/canvas"
)

type options struct {
	input       string
	output      string
	debug       string
	width       int
	height      int
	interactive bool
	fonts       []fonts.Source
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "", "命令脚本路径（可选）")
	flag.StringVar(&opts.output, "out", "output/preview.png", "预览输出路径（.png 或 .pdf）")
	flag.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径")
	flag.IntVar(&opts.width, "width", config.SurfaceWidth, "绘制表面宽度（像素）")
	flag.IntVar(&opts.height, "height", config.SurfaceHeight, "绘制表面高度（像素）")
	flag.BoolVar(&opts.interactive, "i", false, "从标准输入逐行读取命令")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Func("font", "追加字体族：Name=path 或 path（可重复）", func(spec string) error {
		src, err := fonts.ParseSource(spec)
		if err != nil {
			return err
		}
		opts.fonts = append(opts.fonts, src)
		return nil
	})
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(context.Background(), opts, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("预览失败: %v", err)
	}
}

// run 串联字体加载、配置状态、预览视图与命令输入。
func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("表面尺寸无效: %dx%d", opts.width, opts.height)
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	registry := fonts.NewRegistry(opts.fonts...)
	loadErr := make(chan error, 1)
	go func() { loadErr <- registry.Load(ctx) }()

	store := config.NewStore(config.Default())
	surface := canvasrenderer.NewSurface(opts.width, opts.height, registry)

	var writeErr error
	view := preview.New(surface, store, registry, preview.Options{
		OnRender: func(cfg config.RenderConfig) {
			writeErr = writeOutputs(surface, cfg, opts)
		},
	})
	defer view.Close()

	binder := &binding.Binder{Store: store, Fonts: registry}
	handle := func(action binding.Action) error {
		switch action {
		case binding.ActionRender:
			view.Refresh()
		case binding.ActionShow:
			fmt.Fprint(stdout, binding.Describe(store.Get()))
		case binding.ActionFonts:
			<-registry.Ready()
			for _, name := range registry.Names() {
				fmt.Fprintln(stdout, name)
			}
		}
		return nil
	}

	quit := false
	if opts.input != "" {
		file, err := os.Open(opts.input)
		if err != nil {
			return fmt.Errorf("无法打开命令脚本 %s: %w", opts.input, err)
		}
		script, err := dsl.Parse(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("解析命令脚本失败: %w", err)
		}
		if quit, err = binder.ApplyScript(script, handle); err != nil {
			return fmt.Errorf("执行命令脚本失败: %w", err)
		}
	}

	if opts.interactive && !quit {
		if err := repl(binder, handle, stdin, stdout); err != nil {
			return err
		}
	}

	// 退出前确保字体已就绪且最后一次绘制已写出
	if err := <-loadErr; err != nil {
		return err
	}
	view.Refresh()
	if writeErr != nil {
		return writeErr
	}
	fmt.Fprintf(stdout, "已生成预览：%s\n", opts.output)
	return nil
}

// repl 逐行执行命令；单行错误只提示，不中断会话。
func repl(binder *binding.Binder, handle func(binding.Action) error, stdin io.Reader, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		script, err := dsl.ParseString(line)
		if err != nil {
			fmt.Fprintf(stdout, "错误: %v\n", err)
			continue
		}
		quit, err := binder.ApplyScript(script, handle)
		if err != nil {
			fmt.Fprintf(stdout, "错误: %v\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("读取标准输入失败: %w", err)
	}
	return nil
}

func writeOutputs(surface *canvasrenderer.Surface, cfg config.RenderConfig, opts options) error {
	if err := surface.WriteFile(opts.output); err != nil {
		logging.Logger().Error("写出预览失败", "path", opts.output, "err", err)
		return err
	}
	if opts.debug == "" {
		return nil
	}
	width, height := surface.Size()
	block := layout.Center(cfg.Text, width, height, cfg.FontSizePx, cfg.LineHeight)
	if err := os.MkdirAll(filepath.Dir(opts.debug), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(&block, opts.debug); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
