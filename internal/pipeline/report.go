package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Render prints the human-readable connectivity report.
func (r *GraphResult) Render(w io.Writer) {
	sys := r.System

	fmt.Fprintln(w, "System Modules Detected:")
	names := make([]string, 0, len(sys.Modules))
	for name := range sys.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		info := sys.Modules[name]
		fmt.Fprintf(w, "  * %s (ports: %s; signals: %s)\n",
			name, listOrNone(info.Ports), listOrNone(info.Signals))
	}

	fmt.Fprintln(w, "\nDirect Connections:")
	if len(sys.Connections) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, c := range sys.Connections {
		fmt.Fprintf(w, "  * %s.%s -> %s (submodule: %s, parent: %s)\n",
			c.Instance, c.ChildPort, c.ParentSignal, c.ChildModule, c.ParentModule)
	}

	fmt.Fprintln(w, "\nFlattened Connectivity:")
	if len(sys.Flattened) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, f := range sys.Flattened {
		fmt.Fprintf(w, "  * %s.%s -> %s.%s (via %s [%s] using %q)\n",
			f.FromModule, f.FromSignalExpr, f.ToModule, f.ToSignal,
			f.ViaInstance, f.ViaModule, f.InnerExpr)
	}

	fmt.Fprintln(w, "\nConnectivity Check:")
	if len(sys.MissingPorts) == 0 {
		fmt.Fprintln(w, "  All ports connected.")
	}
	for _, issue := range sys.MissingPorts {
		fmt.Fprintf(w, "  * Instance %s (%s) is missing ports: %s\n",
			issue.Instance, issue.Submodule, strings.Join(issue.MissingPorts, ", "))
	}

	fmt.Fprintln(w, "\nWidth Mismatches:")
	if len(sys.WidthMismatches) == 0 {
		fmt.Fprintln(w, "  No mismatches found.")
	}
	for _, m := range sys.WidthMismatches {
		fmt.Fprintf(w, "  * %s expects width %d, connected to %s (width %d)\n",
			m.LHS, m.LHSWidth, m.RHS, m.RHSWidth)
	}

	if len(r.FileErrors) > 0 {
		fmt.Fprintln(w, "\nSkipped Files:")
		for _, fe := range r.FileErrors {
			fmt.Fprintf(w, "  * %s: %v\n", fe.File, fe.Err)
		}
	}

	if r.Policy != nil && len(r.Policy.Violations) > 0 {
		fmt.Fprintln(w, "\nPolicy Violations:")
		for _, v := range r.Policy.Violations {
			fmt.Fprintf(w, "  [%s] %s: %s\n", v.Severity, v.Rule, v.Message)
		}
		s := r.Policy.Summary
		fmt.Fprintf(w, "  %d total (%d errors, %d warnings, %d info)\n",
			s.TotalViolations, s.Errors, s.Warnings, s.Info)
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
