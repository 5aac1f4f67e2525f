package color

import (
	"fmt"
	"regexp"
)

var (
	Red    = Color("\033[1;31m%s\033[0m")
	Green  = Color("\033[1;32m%s\033[0m")
	Yellow = Color("\033[1;33m%s\033[0m")
	Blue   = Color("\033[1;34m%s\033[0m")
)

var escapeSequence = regexp.MustCompile("\033\\[[0-9;]*m")

func Color(color string) func(...interface{}) string {
	return func(args ...interface{}) string {
		return fmt.Sprintf(color, fmt.Sprint(args...))
	}
}

// Strip removes ANSI colour sequences, for output that is not a terminal.
func Strip(s string) string {
	return escapeSequence.ReplaceAllString(s, "")
}
