package markdown

import (
	"html"
	"strings"

	"github.com/goliatone/go-site/pkg/interfaces"
)

const lineBreak = "<br>"

var lineBreakParser = NewGoldmarkParser(interfaces.ParseOptions{})

// Render converts short authored text (section copy, hero text) into HTML,
// keeping every literal newline as a <br>. Input is trusted and is not
// sanitised. Should goldmark fail, the escaped text is returned with the
// same line break markers.
func Render(raw string) string {
	out, err := lineBreakParser.RenderLineBreaks(raw)
	if err != nil {
		return strings.ReplaceAll(html.EscapeString(raw), "\n", lineBreak)
	}
	return out
}
