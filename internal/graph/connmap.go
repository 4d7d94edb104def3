package graph

import (
	"sort"
	"strings"
)

// ConnMap is a symmetric index from a signal name variant to every
// alternate name variant some Connection relates it to. If A lists B then
// B lists A.
type ConnMap map[string][]string

// BuildConnMap indexes connections under every useful naming convention:
// the bare name, the module- or instance-qualified form, and the
// array-stripped form. Each (parent variant, child variant) pair is
// inserted in both directions.
func BuildConnMap(connections []Connection) ConnMap {
	sets := map[string]map[string]bool{}
	add := func(a, b string) {
		if sets[a] == nil {
			sets[a] = map[string]bool{}
		}
		sets[a][b] = true
	}

	for _, conn := range connections {
		parentNames := nameVariants(conn.ParentSignal, conn.ParentModule)
		childNames := nameVariants(conn.ChildPort, conn.Instance)
		for _, p := range parentNames {
			for _, c := range childNames {
				add(p, c)
				add(c, p)
			}
		}
	}

	cm := ConnMap{}
	for name, partners := range sets {
		list := make([]string, 0, len(partners))
		for p := range partners {
			list = append(list, p)
		}
		sort.Strings(list)
		cm[name] = list
	}
	return cm
}

// nameVariants returns the candidate forms of one side of a connection:
// plain, scope-qualified, and with any array index suffix removed.
func nameVariants(name, scope string) []string {
	variants := []string{name, scope + "." + name}
	if idx := strings.Index(name, "["); idx >= 0 {
		variants = append(variants, name[:idx])
	}
	return variants
}

// Candidates returns the alternate names recorded for a signal, or nil.
func (cm ConnMap) Candidates(name string) []string {
	return cm[name]
}
