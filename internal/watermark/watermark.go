// Package watermark builds the drawtext filter expression that stamps the
// moving text overlay onto each output video.
package watermark

import (
	"fmt"
	"strings"
)

// The overlay follows a fixed frame cycle: every cyclePeriod frames the text
// jumps to a random position inside the frame and stays visible for the first
// visibleFrames of the cycle.
const (
	cyclePeriod   = 2000
	visibleFrames = 1200
)

// TextOverlay describes one watermark overlay.
type TextOverlay struct {
	Text      string
	FontFile  string
	FontColor string
	FontSize  int
}

// Filter returns the drawtext filter expression for the overlay. Commas inside the
// x/y/enable sub-expressions are backslash-escaped as the filter syntax
// requires, and the position expressions reference the previous frame's x/y
// so the text holds still between jumps.
func (t TextOverlay) Filter() string {
	return fmt.Sprintf(
		"drawtext=fontcolor=%s:fontsize=%d:fontfile='%s':text='%s':"+
			"x='if(eq(mod(n\\,%d)\\,0)\\,rand(0\\,(w-text_w))\\,x)':"+
			"y='if(eq(mod(n\\,%d)\\,0)\\,rand(0\\,(h-text_h))\\,y)':"+
			"enable='lt(mod(n\\,%d)\\,%d)'",
		t.FontColor, t.FontSize, NormalizeFontPath(t.FontFile), EscapeText(t.Text),
		cyclePeriod, cyclePeriod, cyclePeriod, visibleFrames,
	)
}

// EscapeText escapes the characters that carry meaning inside a quoted
// drawtext argument, so arbitrary text cannot terminate the filter
// expression.
func EscapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`,`, `\,`,
	)
	return r.Replace(s)
}

// NormalizeFontPath rewrites Windows-style separators to forward slashes;
// drawtext treats a bare backslash in fontfile as an escape.
func NormalizeFontPath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
