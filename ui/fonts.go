package ui

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/ttf"
)

// Font sizes in points.
const (
	LargeSize  = 28 // embedded page titles
	MediumSize = 22 // slide titles
	SmallSize  = 16 // hints
)

// FontPathEnv overrides the font search with a single file.
const FontPathEnv = "FEED_FONT_PATH"

// Fonts manages a set of TrueType fonts at different sizes
type Fonts struct {
	Large  *ttf.Font
	Medium *ttf.Font
	Small  *ttf.Font
}

// fontPaths are tried in order. Titles are often Japanese, so CJK-capable
// fonts come first.
var fontPaths = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Bold.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Bold.ttc",
	"/System/Library/Fonts/ヒラギノ角ゴシック W6.ttc",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"C:\\Windows\\Fonts\\meiryob.ttc",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
}

// LoadFonts opens the first usable font at every size.
func LoadFonts() (*Fonts, error) {
	if err := ttf.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize TTF: %v", err)
	}

	paths := fontPaths
	if override := os.Getenv(FontPathEnv); override != "" {
		paths = append([]string{override}, fontPaths...)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fonts, err := openSizes(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Debug("font unusable")
			continue
		}
		log.WithField("path", path).Debug("fonts loaded")
		return fonts, nil
	}
	return nil, fmt.Errorf("no usable font found (set %s)", FontPathEnv)
}

func openSizes(path string) (*Fonts, error) {
	fonts := &Fonts{}
	var err error
	if fonts.Large, err = ttf.OpenFont(path, LargeSize); err != nil {
		return nil, err
	}
	if fonts.Medium, err = ttf.OpenFont(path, MediumSize); err != nil {
		fonts.Close()
		return nil, err
	}
	if fonts.Small, err = ttf.OpenFont(path, SmallSize); err != nil {
		fonts.Close()
		return nil, err
	}
	return fonts, nil
}

// Close cleans up font resources
func (f *Fonts) Close() {
	for _, font := range []*ttf.Font{f.Large, f.Medium, f.Small} {
		if font != nil {
			font.Close()
		}
	}
	f.Large, f.Medium, f.Small = nil, nil, nil
}
