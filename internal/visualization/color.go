package visualization

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// colorAliases maps CSS names missing from the tcell table.
var colorAliases = map[string]string{
	"magenta": "fuchsia",
	"cyan":    "aqua",
}

// ParseColor accepts CSS color names and #rrggbb hex strings.
func ParseColor(name string) (color.RGBA, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	c := tcell.GetColor(key)
	if c == tcell.ColorDefault {
		if alias, ok := colorAliases[key]; ok {
			c = tcell.GetColor(alias)
		}
	}
	if c == tcell.ColorDefault {
		return color.RGBA{}, fmt.Errorf("unknown color %q", name)
	}
	return fromTcell(c), nil
}

func fromTcell(c tcell.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}

func toTcell(c color.Color) tcell.Color {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
}

// BlendOver composites src over an opaque dst and returns an opaque color.
func BlendOver(dst, src color.Color) color.RGBA {
	_, _, _, a := src.RGBA()
	switch a {
	case 0:
		return opaque(dst)
	case 0xffff:
		return opaque(src)
	}

	base, _ := colorful.MakeColor(opaque(dst))
	top, ok := colorful.MakeColor(src)
	if !ok {
		return opaque(dst)
	}
	r, g, b := base.BlendRgb(top, float64(a)/0xffff).Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

func opaque(c color.Color) color.RGBA {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	rgba.A = 255
	return rgba
}
