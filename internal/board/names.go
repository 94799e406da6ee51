package board

// DefaultTruncate is the display width file names are cut to in listings.
const DefaultTruncate = 20

// Truncate shortens name to at most limit runes, ending in "..." when cut.
func Truncate(name string, limit int) string {
	r := []rune(name)
	if len(r) <= limit {
		return name
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
