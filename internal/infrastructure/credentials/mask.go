package credentials

import "strings"

const maskRune = "•"

// Mask hides all but the last four characters of key, using at most twelve
// bullets. Keys of four characters or fewer are returned unchanged.
func Mask(key string) string {
	runes := []rune(key)
	if len(runes) <= 4 {
		return key
	}
	hidden := len(runes) - 4
	if hidden > 12 {
		hidden = 12
	}
	return strings.Repeat(maskRune, hidden) + string(runes[len(runes)-4:])
}
