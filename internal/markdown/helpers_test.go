package markdown

import "github.com/yuin/goldmark/util"

func utilPrioritized(v any) util.PrioritizedValue {
	return util.Prioritized(v, readingTimePriority)
}
