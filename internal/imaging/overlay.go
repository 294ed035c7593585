package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/anthonynsimon/bild/clone"
)

// DefaultSeamColor is the overlay line color when none is given.
const DefaultSeamColor = "#FF00FF"

// SeamOverlay draws a one-pixel line on every strip boundary of img and
// labels each strip near its top-left corner. labels[i] is drawn on the
// strip at position i; nil labels each strip with its position.
//
// Labelling a solved image with its solution order shows which input strip
// landed where.
func SeamOverlay(img image.Image, width int, labels []int, lineHex string) (*image.RGBA, error) {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx()%width != 0 {
		return nil, fmt.Errorf("strip width %d does not divide image width %d", width, bounds.Dx())
	}
	n := bounds.Dx() / width
	if labels != nil && len(labels) != n {
		return nil, fmt.Errorf("got %d labels for %d strips", len(labels), n)
	}

	if lineHex == "" {
		lineHex = DefaultSeamColor
	}
	lineColor, err := parseHexColor(lineHex)
	if err != nil {
		return nil, fmt.Errorf("invalid line color %q: %w", lineHex, err)
	}

	result := clone.AsRGBA(img)
	result.Rect = result.Rect.Sub(bounds.Min)

	for k := 1; k < n; k++ {
		x := k * width
		for y := 0; y < bounds.Dy(); y++ {
			result.Set(x, y, lineColor)
		}
	}

	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}
	for k := 0; k < n; k++ {
		label := k
		if labels != nil {
			label = labels[k]
		}
		drawLabel(result, k*width+2, 2, strconv.Itoa(label), fg, bg)
	}

	return result, nil
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA"; the leading # is optional.
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color length %d", len(hex))
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	if len(hex) == 6 {
		val = val<<8 | 0xFF
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

// digitGlyphs is a 3x5 pixel font.
var digitGlyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'-': {"000", "000", "111", "000", "000"},
}

// drawLabel draws text on a background box at (x, y), clipped to img.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	const charWidth, labelHeight = 4, 7
	bounds := img.Bounds()
	set := func(px, py int, c color.RGBA) {
		if image.Pt(px, py).In(bounds) {
			img.Set(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight-1; dy++ {
		for dx := -1; dx < len(text)*charWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := digitGlyphs[ch]; ok {
			for row, line := range glyph {
				for col, pixel := range line {
					if pixel == '1' {
						set(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
