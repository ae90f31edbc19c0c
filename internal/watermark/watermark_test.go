package watermark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultOverlay() TextOverlay {
	return TextOverlay{
		Text:      "PINSE.CLUB",
		FontFile:  "./fonts/SimSun.ttf",
		FontColor: "white",
		FontSize:  30,
	}
}

func TestFilter(t *testing.T) {
	want := `drawtext=fontcolor=white:fontsize=30:fontfile='./fonts/SimSun.ttf':` +
		`text='PINSE.CLUB':` +
		`x='if(eq(mod(n\,2000)\,0)\,rand(0\,(w-text_w))\,x)':` +
		`y='if(eq(mod(n\,2000)\,0)\,rand(0\,(h-text_h))\,y)':` +
		`enable='lt(mod(n\,2000)\,1200)'`

	assert.Equal(t, want, defaultOverlay().Filter())
}

func TestFilterDutyCycle(t *testing.T) {
	filter := defaultOverlay().Filter()

	// Visible for the first 1200 frames of every 2000-frame cycle, with the
	// position re-randomized at each cycle boundary.
	assert.Contains(t, filter, `enable='lt(mod(n\,2000)\,1200)'`)
	assert.Contains(t, filter, `rand(0\,(w-text_w))`)
	assert.Contains(t, filter, `rand(0\,(h-text_h))`)
}

func TestFilterNormalizesFontPath(t *testing.T) {
	overlay := defaultOverlay()
	overlay.FontFile = `C:\Windows\Fonts\SimSun.ttf`

	assert.Contains(t, overlay.Filter(), "fontfile='C:/Windows/Fonts/SimSun.ttf'")
}

func TestFilterEscapesText(t *testing.T) {
	overlay := defaultOverlay()
	overlay.Text = "it's: a,test"

	filter := overlay.Filter()
	assert.Contains(t, filter, `text='it\'s\: a\,test'`)
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "PINSE.CLUB", "PINSE.CLUB"},
		{"single quote", "it's", `it\'s`},
		{"colon", "a:b", `a\:b`},
		{"comma", "x,y", `x\,y`},
		{"backslash", `a\b`, `a\\b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeText(tt.in))
		})
	}
}

func TestNormalizeFontPath(t *testing.T) {
	assert.Equal(t, "./fonts/SimSun.ttf", NormalizeFontPath("./fonts/SimSun.ttf"))
	assert.Equal(t, "C:/fonts/SimSun.ttf", NormalizeFontPath(`C:\fonts\SimSun.ttf`))
}
