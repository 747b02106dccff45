package markdown

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// DefaultWordsPerMinute is the reading speed assumed by Estimate.
const DefaultWordsPerMinute = 200

// MinutesReadKey is the front-matter key the reading time is written under.
const MinutesReadKey = "minutesRead"

var frontMatterKey = parser.NewContextKey()

// WithFrontMatter attaches a front-matter map to a goldmark parser context so
// AST transformers can annotate it.
func WithFrontMatter(pc parser.Context, frontMatter map[string]any) {
	if pc == nil {
		return
	}
	pc.Set(frontMatterKey, frontMatter)
}

// FrontMatterFrom returns the front-matter map attached to pc, if any.
func FrontMatterFrom(pc parser.Context) (map[string]any, bool) {
	if pc == nil {
		return nil, false
	}
	fm, ok := pc.Get(frontMatterKey).(map[string]any)
	if !ok || fm == nil {
		return nil, false
	}
	return fm, true
}

// ReadingStats is the outcome of a reading time estimate.
type ReadingStats struct {
	Text    string
	Minutes float64
	Time    time.Duration
	Words   int
}

// Estimate counts the words of text and derives the reading time at the given
// words per minute. The display text rounds minutes to two decimals and then
// up to the next whole minute ("2 min read" for 400 words at 200 wpm).
func Estimate(text string, wordsPerMinute int) ReadingStats {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := CountWords(text)
	minutes := float64(words) / float64(wordsPerMinute)
	displayed := math.Ceil(math.Round(minutes*100) / 100)

	return ReadingStats{
		Text:    fmt.Sprintf("%d min read", int(displayed)),
		Minutes: minutes,
		Time:    time.Duration(minutes * float64(time.Minute)),
		Words:   words,
	}
}

// CountWords splits on whitespace and counts tokens holding at least one
// letter or digit. Han, Hiragana, Katakana and Hangul characters count as one
// word each since those scripts do not separate words with spaces.
func CountWords(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		switch {
		case isCJK(r):
			count++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}

// PlainText returns the text content of a goldmark tree with all markup
// removed. Raw HTML is dropped, code is kept, and block boundaries become a
// single space so words of adjacent blocks do not run together.
func PlainText(node ast.Node, source []byte) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	space := func() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
	}

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				space()
			}
			return ast.WalkContinue, nil
		}
		switch typed := n.(type) {
		case *ast.Text:
			b.Write(typed.Segment.Value(source))
			if typed.SoftLineBreak() || typed.HardLineBreak() {
				space()
			}
		case *ast.String:
			b.Write(typed.Value)
		case *ast.AutoLink:
			b.Write(typed.URL(source))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				segment := lines.At(i)
				b.Write(segment.Value(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// ReadingTime is a goldmark AST transformer that writes the estimated
// reading time into the front-matter map carried by the parser context. When
// the context carries no front-matter the document is left alone.
type ReadingTime struct {
	WordsPerMinute int
}

var _ parser.ASTTransformer = (*ReadingTime)(nil)

// Transform implements parser.ASTTransformer.
func (r *ReadingTime) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	r.Annotate(doc, reader.Source(), pc)
}

// Annotate computes the reading time of node and stores it under
// MinutesReadKey. The tree itself is not modified.
func (r *ReadingTime) Annotate(node ast.Node, source []byte, pc parser.Context) {
	fm, ok := FrontMatterFrom(pc)
	if !ok {
		return
	}
	wpm := DefaultWordsPerMinute
	if r != nil && r.WordsPerMinute > 0 {
		wpm = r.WordsPerMinute
	}
	fm[MinutesReadKey] = Estimate(PlainText(node, source), wpm).Text
}
