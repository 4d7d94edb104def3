// Package graph builds the hierarchy connectivity model from extracted RTL
// facts: direct port connections, transitively flattened links, and the
// structural-defect tables derived from them.
package graph

import (
	"sort"

	"github.com/waveeye/sigmap/internal/extractor"
)

// ModuleInfo is one module's boundary and internal declarations.
type ModuleInfo struct {
	Ports   []string `json:"ports"`
	Signals []string `json:"signals"`
}

// Connection is the atomic unit of connectivity: one port binding inside
// one instantiation site.
type Connection struct {
	ParentModule string `json:"parent_module"`
	ChildModule  string `json:"child_module"`
	Instance     string `json:"instance"`
	ChildPort    string `json:"child_port"`
	ParentSignal string `json:"parent_signal"`
}

// Redefinition records a module name declared in more than one file. The
// later declaration wins; the collision is surfaced rather than silent.
type Redefinition struct {
	Module       string `json:"module"`
	File         string `json:"file"`
	PreviousFile string `json:"previous_file"`
}

// UnterminatedInstance records an instantiation whose port-connection block
// never reached its closing token and was accepted partially.
type UnterminatedInstance struct {
	Module    string `json:"module"`
	Instance  string `json:"instance"`
	Submodule string `json:"submodule"`
	File      string `json:"file"`
}

// System is the full connectivity model across all analyzed files. The
// json layout is the serialized graph artifact consumed by the mapping
// stage and by downstream tools.
type System struct {
	Modules         map[string]ModuleInfo     `json:"modules"`
	Connections     []Connection              `json:"connections_direct"`
	Flattened       []FlattenedConnection     `json:"connections_flattened"`
	MissingPorts    []MissingPortIssue        `json:"missing_connectivity"`
	WidthMismatches []extractor.WidthMismatch `json:"width_mismatches"`
	Redefinitions   []Redefinition            `json:"module_redefinitions"`
	Unterminated    []UnterminatedInstance    `json:"unterminated_instances"`
}

// Build aggregates per-file facts into one System. Files are merged in the
// order given; when the same module name appears twice, the last
// declaration wins and the collision is recorded.
func Build(files []extractor.FileFacts) *System {
	sys := &System{
		Modules:         map[string]ModuleInfo{},
		Connections:     []Connection{},
		Flattened:       []FlattenedConnection{},
		MissingPorts:    []MissingPortIssue{},
		WidthMismatches: []extractor.WidthMismatch{},
		Redefinitions:   []Redefinition{},
		Unterminated:    []UnterminatedInstance{},
	}

	declaredIn := map[string]string{}
	for _, f := range files {
		if prev, ok := declaredIn[f.Module]; ok {
			sys.Redefinitions = append(sys.Redefinitions, Redefinition{
				Module:       f.Module,
				File:         f.File,
				PreviousFile: prev,
			})
		}
		declaredIn[f.Module] = f.File
		sys.Modules[f.Module] = ModuleInfo{Ports: f.Ports, Signals: f.Signals}

		for _, inst := range f.Instances {
			if inst.Unterminated {
				sys.Unterminated = append(sys.Unterminated, UnterminatedInstance{
					Module:    f.Module,
					Instance:  inst.Name,
					Submodule: inst.Submodule,
					File:      f.File,
				})
			}
			for _, b := range inst.Bindings {
				sys.Connections = append(sys.Connections, Connection{
					ParentModule: f.Module,
					ChildModule:  inst.Submodule,
					Instance:     inst.Name,
					ChildPort:    b.Port,
					ParentSignal: b.Expr,
				})
			}
		}
	}

	return sys
}

// MissingPortIssue reports the ports of an instance's submodule that no
// Connection ever binds.
type MissingPortIssue struct {
	Instance     string   `json:"instance"`
	Submodule    string   `json:"submodule"`
	MissingPorts []string `json:"missing_ports"`
}

// DetectMissingPorts diffs each instance's bound ports against its
// submodule's declared port set. Unknown submodule types have an empty
// expected set, so they can never produce a false positive.
func DetectMissingPorts(sys *System) []MissingPortIssue {
	type instInfo struct {
		submodule string
		bound     map[string]bool
	}
	instances := map[string]*instInfo{}
	var order []string
	for _, conn := range sys.Connections {
		info, ok := instances[conn.Instance]
		if !ok {
			info = &instInfo{submodule: conn.ChildModule, bound: map[string]bool{}}
			instances[conn.Instance] = info
			order = append(order, conn.Instance)
		}
		info.bound[conn.ChildPort] = true
	}

	var issues []MissingPortIssue
	for _, name := range order {
		info := instances[name]
		var missing []string
		for _, port := range sys.Modules[info.submodule].Ports {
			if !info.bound[port] {
				missing = append(missing, port)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			issues = append(issues, MissingPortIssue{
				Instance:     name,
				Submodule:    info.submodule,
				MissingPorts: missing,
			})
		}
	}
	return issues
}

// Merge folds a previously built system into the current one so a prior
// graph can contribute cross-module links without re-extraction. Current
// declarations win module-name collisions.
func Merge(prior, current *System) *System {
	if prior == nil {
		return current
	}
	merged := &System{
		Modules:         map[string]ModuleInfo{},
		Connections:     []Connection{},
		Flattened:       []FlattenedConnection{},
		MissingPorts:    []MissingPortIssue{},
		WidthMismatches: []extractor.WidthMismatch{},
		Redefinitions:   []Redefinition{},
		Unterminated:    []UnterminatedInstance{},
	}
	for name, info := range prior.Modules {
		merged.Modules[name] = info
	}
	for name, info := range current.Modules {
		merged.Modules[name] = info
	}

	seen := map[Connection]bool{}
	for _, conn := range append(append([]Connection{}, prior.Connections...), current.Connections...) {
		if seen[conn] {
			continue
		}
		seen[conn] = true
		merged.Connections = append(merged.Connections, conn)
	}

	// Flattened links and missing-port findings are re-derived over the
	// union: the prior graph may supply module declarations that resolve
	// ports the current run alone could not.
	merged.Flattened = append(merged.Flattened, Flatten(merged.Connections)...)
	merged.MissingPorts = append(merged.MissingPorts, DetectMissingPorts(merged)...)
	merged.WidthMismatches = append(merged.WidthMismatches, prior.WidthMismatches...)
	merged.WidthMismatches = append(merged.WidthMismatches, current.WidthMismatches...)
	merged.Redefinitions = append(merged.Redefinitions, current.Redefinitions...)
	merged.Unterminated = append(merged.Unterminated, prior.Unterminated...)
	merged.Unterminated = append(merged.Unterminated, current.Unterminated...)
	return merged
}
