package format

import (
	"fmt"
	"regexp"
	"strconv"
)

var hexColor = regexp.MustCompile(`^#?([a-fA-F\d]{2})([a-fA-F\d]{2})([a-fA-F\d]{2})$`)

// RGB is a colour split into channels.
type RGB struct {
	R, G, B uint8
}

// HexToRGB parses "#rrggbb" (the hash is optional).
func HexToRGB(hex string) (RGB, bool) {
	m := hexColor.FindStringSubmatch(hex)
	if m == nil {
		return RGB{}, false
	}
	channel := func(s string) uint8 {
		v, _ := strconv.ParseUint(s, 16, 8)
		return uint8(v)
	}
	return RGB{R: channel(m[1]), G: channel(m[2]), B: channel(m[3])}, true
}

func RGBToHex(c RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ContrastColor picks black or white text for the given background.
func ContrastColor(hex string) string {
	rgb, ok := HexToRGB(hex)
	if !ok {
		return "#000000"
	}
	brightness := (float64(rgb.R)*299 + float64(rgb.G)*587 + float64(rgb.B)*114) / 1000
	if brightness > 128 {
		return "#000000"
	}
	return "#ffffff"
}
