package dialogue

import "strings"

const (
	windowBefore = 3
	windowAfter  = 2
)

// Window is the narrative context handed to the attributor for one line.
type Window struct {
	Before []string
	Target string
	After  []string
}

// BuildWindow collects up to three lines before and two lines after the
// 1-based lineNumber, clamped to the document and with blank lines dropped.
// target is the trimmed dialogue line itself.
func BuildWindow(lines []string, lineNumber int, target string) Window {
	w := Window{Target: strings.TrimSpace(target)}
	if lineNumber < 1 || lineNumber > len(lines) {
		return w
	}
	idx := lineNumber - 1
	w.Before = collectTrimmed(lines, max(0, idx-windowBefore), idx)
	w.After = collectTrimmed(lines, idx+1, min(len(lines), idx+1+windowAfter))
	return w
}

// Lines returns the window in reading order: preceding context, the target,
// then following context.
func (w Window) Lines() []string {
	out := make([]string, 0, len(w.Before)+len(w.After)+1)
	out = append(out, w.Before...)
	if w.Target != "" {
		out = append(out, w.Target)
	}
	return append(out, w.After...)
}

// Text joins the window lines with newlines.
func (w Window) Text() string {
	return strings.Join(w.Lines(), "\n")
}

func collectTrimmed(lines []string, start, end int) []string {
	var out []string
	for i := start; i < end; i++ {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
