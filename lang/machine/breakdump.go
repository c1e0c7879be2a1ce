package machine

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// breakSnapshot is the structured form of the state BREAK reports, per
// spec.md §4.6 ("write a snapshot of labels, data stack, and call stack to
// stderr; never fails") as supplemented by SPEC_FULL.md §4.10.
type breakSnapshot struct {
	PC        int            `yaml:"pc"`
	Labels    map[string]int `yaml:"labels"`
	DataStack []string       `yaml:"data_stack"`
	CallStack []int          `yaml:"call_stack"`
}

// dumpBreak writes the current engine state to w as YAML. It never returns
// an error to the caller's control flow — a marshal failure (which cannot
// happen for this plain data shape) is reported inline instead, so BREAK
// truly never fails.
func dumpBreak(w io.Writer, e *Engine) {
	snap := breakSnapshot{
		PC:        e.pc,
		Labels:    e.labels.Names(),
		DataStack: e.data.Snapshot(),
		CallStack: e.call.Snapshot(),
	}
	b, err := yaml.Marshal(snap)
	if err != nil {
		fmt.Fprintf(w, "# BREAK: failed to format snapshot: %s\n", err)
		return
	}
	fmt.Fprintf(w, "--- # BREAK at instruction %d\n%s", e.pc, b)
}
