package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resumeSync/internal/engine"
	"resumeSync/internal/page"
)

const defaultPrintTimeout = 60 * time.Second

// Option 配置 DocumentPrinter。
type Option func(*DocumentPrinter)

// WithGenerator 替换默认的无头 Chromium 生成器。
func WithGenerator(g Generator) Option {
	return func(p *DocumentPrinter) { p.generate = g }
}

// WithBaseURL 设置打印页解析主题样式表时使用的基础地址。
func WithBaseURL(u string) Option {
	return func(p *DocumentPrinter) { p.baseURL = u }
}

// WithTimeout 限制单次打印的最长耗时。
func WithTimeout(d time.Duration) Option {
	return func(p *DocumentPrinter) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger 设置日志记录器。
func WithLogger(logger *slog.Logger) Option {
	return func(p *DocumentPrinter) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// DocumentPrinter 将页面当前的预览打印为 PDF。
// Print 会阻塞到文件保存完成，与浏览器的模态打印对话框一致。
type DocumentPrinter struct {
	doc      *page.Document
	sink     Sink
	generate Generator
	baseURL  string
	timeout  time.Duration
	logger   *slog.Logger
}

var _ engine.Printer = (*DocumentPrinter)(nil)

// NewDocumentPrinter 构造直接打印出口。
func NewDocumentPrinter(doc *page.Document, sink Sink, opts ...Option) *DocumentPrinter {
	p := &DocumentPrinter{
		doc:      doc,
		sink:     sink,
		generate: GeneratePDFFromHTML,
		timeout:  defaultPrintTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *DocumentPrinter) Print(ctx context.Context) error {
	var buf bytes.Buffer
	if err := page.RenderPrint(&buf, p.doc.View(), p.baseURL); err != nil {
		return fmt.Errorf("render print page: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	data, err := p.generate(ctx, buf.String())
	if err != nil {
		return fmt.Errorf("generate pdf: %w", err)
	}

	location, err := p.sink.Save(ctx, FileName(time.Now()), data)
	if err != nil {
		return err
	}

	p.doc.SetPrinted(location)
	p.logger.Info("resume printed",
		slog.String("location", location),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// FileName 生成打印文件名。
func FileName(at time.Time) string {
	return fmt.Sprintf("resume-%s-%s.pdf", at.UTC().Format("20060102-150405"), uuid.NewString()[:8])
}
