package app

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// maxStackLines bounds how much of a fault's stack reaches the log.
const maxStackLines = 12

// guard runs fn and turns a panic into a logged fault. The status view is
// activated so the fault is on screen; the calling task keeps going.
func (a *App) guard(task string, fn func()) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		n := a.faults.Add(1)
		if n <= 3 || n%100 == 0 {
			a.logf("%s: panic #%d: %v", task, n, v)
		}
		if n == 1 {
			a.logStack(debug.Stack())
		}
		if !a.modes.IsActive(a.status) {
			a.modes.Activate(a.status)
		}
	}()
	fn()
}

func (a *App) logStack(stack []byte) {
	if len(stack) == 0 {
		a.logf("stack: unavailable")
		return
	}
	lines := 0
	for _, line := range strings.Split(string(stack), "\n") {
		if line == "" {
			continue
		}
		if lines == maxStackLines {
			a.logf("  ...")
			return
		}
		a.log.WriteLineString(fmt.Sprintf("  %s", strings.TrimSpace(line)))
		lines++
	}
}
