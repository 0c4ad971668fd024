package filesystem

import "fmt"

// ParseSize parses size string (e.g., "650K", "1M") to bytes.
// An empty or unparseable string returns 0, meaning no limit.
func ParseSize(sizeStr string) int64 {
	if len(sizeStr) == 0 {
		return 0
	}

	// Get last character (unit)
	last := sizeStr[len(sizeStr)-1]
	var multiplier int64 = 1

	switch last {
	case 'K', 'k':
		multiplier = 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'G', 'g':
		multiplier = 1024 * 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	}

	// Parse number
	var size int64
	fmt.Sscanf(sizeStr, "%d", &size)

	return size * multiplier
}
