package graph

import "github.com/waveeye/sigmap/internal/extractor"

// FlattenedConnection is a derived edge threading a connection through one
// intermediate instance: an origin module+expression linked to a terminal
// module+port two hierarchy levels down.
type FlattenedConnection struct {
	FromModule     string `json:"from_module"`
	FromSignalExpr string `json:"from_signal_expr"`
	ToModule       string `json:"to_module"`
	ToSignal       string `json:"to_signal"`
	ViaInstance    string `json:"via_instance"`
	ViaModule      string `json:"via_module"`
	InnerExpr      string `json:"inner_expr"`
}

// AsConnection re-shapes a flattened edge so it can feed another flattening
// pass; chains deeper than two levels are resolved by re-running Flatten on
// the converted output.
func (f FlattenedConnection) AsConnection() Connection {
	return Connection{
		ParentModule: f.FromModule,
		ChildModule:  f.ToModule,
		Instance:     f.ViaInstance,
		ChildPort:    f.ToSignal,
		ParentSignal: f.FromSignalExpr,
	}
}

// Flatten derives one level of transitive links: for every connection whose
// child module is itself a parent of further instances, the inner
// connections whose parent-side expressions reference the upstream child
// port become origin-to-terminal edges. Expressions are tokenized so a
// concatenation like "{a,b}" matches on each identifier.
func Flatten(connections []Connection) []FlattenedConnection {
	byParent := map[string][]Connection{}
	for _, conn := range connections {
		byParent[conn.ParentModule] = append(byParent[conn.ParentModule], conn)
	}

	var flattened []FlattenedConnection
	for _, conn := range connections {
		inner, ok := byParent[conn.ChildModule]
		if !ok {
			continue
		}
		for _, in := range inner {
			if !exprReferences(in.ParentSignal, conn.ChildPort) {
				continue
			}
			flattened = append(flattened, FlattenedConnection{
				FromModule:     conn.ParentModule,
				FromSignalExpr: conn.ParentSignal,
				ToModule:       in.ChildModule,
				ToSignal:       in.ChildPort,
				ViaInstance:    conn.Instance,
				ViaModule:      conn.ChildModule,
				InnerExpr:      in.ParentSignal,
			})
		}
	}
	return flattened
}

func exprReferences(expr, ident string) bool {
	for _, tok := range extractor.TokenizeExpr(expr) {
		if tok == ident {
			return true
		}
	}
	return false
}
