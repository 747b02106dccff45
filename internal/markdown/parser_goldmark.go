package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-site/pkg/interfaces"
)

const readingTimePriority = 999

// GoldmarkParser implements interfaces.MarkdownParser using goldmark. It holds
// no per-document state, so one instance can serve every document of a build.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	readingTime    *ReadingTime
}

// ParserOption customises a GoldmarkParser.
type ParserOption func(*GoldmarkParser)

// WithReadingTime enables the reading time transformer for ConvertDocument.
// A non-positive wordsPerMinute falls back to DefaultWordsPerMinute.
func WithReadingTime(wordsPerMinute int) ParserOption {
	return func(p *GoldmarkParser) {
		p.readingTime = &ReadingTime{WordsPerMinute: wordsPerMinute}
	}
}

// NewGoldmarkParser constructs a parser with GFM extensions, hard wraps
// disabled and raw HTML allowed unless the defaults say otherwise.
func NewGoldmarkParser(defaults interfaces.ParseOptions, opts ...ParserOption) *GoldmarkParser {
	p := &GoldmarkParser{
		defaultOptions: defaults,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Parse satisfies interfaces.MarkdownParser using the parser defaults.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaultOptions)
}

// ParseWithOptions renders Markdown into HTML using the provided options.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	engine := newGoldmarkEngine(opts)
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

// ConvertDocument parses body, lets the AST transformers annotate
// frontMatter (reading time, when enabled) and renders the tree to HTML.
// frontMatter may be nil, in which case annotation is skipped.
func (p *GoldmarkParser) ConvertDocument(body []byte, frontMatter map[string]any, opts interfaces.ParseOptions) ([]byte, error) {
	var parserOpts []parser.Option
	if p.readingTime != nil {
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(p.readingTime, readingTimePriority),
		))
	}
	engine := newGoldmarkEngine(opts, parserOpts...)

	pc := parser.NewContext()
	if frontMatter != nil {
		WithFrontMatter(pc, frontMatter)
	}

	root := engine.Parser().Parse(text.NewReader(body), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := engine.Renderer().Render(&buf, body, root); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderLineBreaks turns every literal newline of raw into an explicit <br>
// marker before rendering, so single newlines survive as visual breaks.
// Raw HTML is always passed through; the markers depend on it.
func (p *GoldmarkParser) RenderLineBreaks(raw string) (string, error) {
	opts := p.defaultOptions
	opts.SafeMode = false
	opts.Sanitize = false

	out, err := p.ParseWithOptions([]byte(strings.ReplaceAll(raw, "\n", lineBreak)), opts)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// newGoldmarkEngine builds a goldmark.Markdown for the supplied options.
// Unknown extension names are ignored.
func newGoldmarkEngine(opts interfaces.ParseOptions, extra ...parser.Option) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}
	parserOptions = append(parserOptions, extra...)

	rendererOptions := []renderer.Option{}

	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	// SafeMode and Sanitize both suppress raw HTML output.
	if !opts.SafeMode && !opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}

	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
