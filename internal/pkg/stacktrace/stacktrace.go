// Package stacktrace trims goroutine stack dumps down to this module's frames.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" entries for every
// frame of stack that points into an internal package, in stack order.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		idx := strings.Index(line, marker)
		if idx == -1 {
			continue
		}

		loc, _, _ := strings.Cut(line[idx+1:], " ")
		if !strings.Contains(loc, ".go:") {
			continue
		}

		paths = append(paths, loc)
	}

	return paths
}
