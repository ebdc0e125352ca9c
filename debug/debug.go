// Package debug provides env-var gated trace output for the matching
// engine. Set SUBSUME_DEBUG_MATCH=1 to trace match dispatch and
// SUBSUME_DEBUG_SYMBOLS=1 to trace placeholder resolution.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Match   bool
	Symbols bool
}

var d *debug

func init() {
	d = &debug{}
	d.Match = boolEnv("SUBSUME_DEBUG_MATCH")
	d.Symbols = boolEnv("SUBSUME_DEBUG_SYMBOLS")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Match() bool {
	return d.Match
}
func Symbols() bool {
	return d.Symbols
}
