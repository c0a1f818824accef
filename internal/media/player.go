package media

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const mprisPrefix = "org.mpris.MediaPlayer2."

// defaultPriority is the rank of players missing from the priority list
const defaultPriority = 100

// builtinPriorities ranks well-known players, lowest first
var builtinPriorities = []struct {
	match []string
	rank  int
}{
	{[]string{"spotify"}, 1},
	{[]string{"vlc"}, 2},
	{[]string{"firefox"}, 3},
	{[]string{"chromium", "chrome"}, 4},
	{[]string{"brave"}, 5},
	{[]string{"mpv"}, 6},
}

// playerPriority ranks a bus name; lower wins.
// A non-empty preferred list replaces the built-in ranking.
func playerPriority(busName string, preferred []string) int {
	name := strings.ToLower(busName)

	if len(preferred) > 0 {
		for i, p := range preferred {
			if strings.Contains(name, p) {
				return i + 1
			}
		}
		return defaultPriority
	}

	for _, entry := range builtinPriorities {
		for _, m := range entry.match {
			if strings.Contains(name, m) {
				return entry.rank
			}
		}
	}
	return defaultPriority
}

// displayName turns "org.mpris.MediaPlayer2.chromium.instance123" into "Chromium"
func displayName(busName string) string {
	name := strings.TrimPrefix(busName, mprisPrefix)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}

	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
