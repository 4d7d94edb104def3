package mapping

import (
	"strings"

	"github.com/waveeye/sigmap/internal/graph"
)

// IsEmptyValue reports whether a waveform value means "nothing recorded".
// "x" and "z" are valid HDL values (unknown / high-impedance) and must
// propagate across modules, so they are never treated as empty.
func IsEmptyValue(val string) bool {
	v := strings.TrimSpace(val)
	return v == "" || v == "-" || v == "?"
}

// FindConnectedSignal looks for a connected alternate of sig that exists
// among the waveform headers. Each candidate from the connection map is
// tried under four strategies, strictest first:
//
//  1. exact header match
//  2. normalized-name match
//  3. last-component match
//  4. suffix match (header ends in ".candidate" or "_candidate")
//
// Returns the matched header name, or "" when no candidate matches.
func FindConnectedSignal(sig string, headers []string, connMap graph.ConnMap) string {
	candidates := connMap.Candidates(sig)
	if len(candidates) == 0 {
		return ""
	}

	for _, candidate := range candidates {
		for _, h := range headers {
			if h == candidate {
				return h
			}
		}

		normTarget := Normalize(candidate)
		for _, h := range headers {
			if Normalize(h) == normTarget {
				return h
			}
		}

		targetBase := LastComponent(candidate)
		for _, h := range headers {
			if LastComponent(h) == targetBase {
				return h
			}
		}

		for _, h := range headers {
			if strings.HasSuffix(h, "."+candidate) || strings.HasSuffix(h, "_"+candidate) {
				return h
			}
		}
	}
	return ""
}

// MatchWaveformSignals maps each waveform column to the metadata signal it
// observes, trying full normalization, then the last name component, then
// the last two components (for one-level-nested instance signals).
func MatchWaveformSignals(headers []string, meta *Metadata) map[string]string {
	// Later metadata entries win a normalization collision, matching the
	// build order of the lookup table.
	metaNorm := map[string]string{}
	for _, metaSig := range meta.Order {
		metaNorm[Normalize(metaSig)] = metaSig
		metaNorm[LastComponent(metaSig)] = metaSig
	}

	matched := map[string]string{}
	for _, wfSig := range headers {
		cleaned := Normalize(wfSig)
		if metaSig, ok := metaNorm[cleaned]; ok {
			matched[wfSig] = metaSig
			continue
		}

		if metaSig, ok := metaNorm[LastComponent(wfSig)]; ok {
			matched[wfSig] = metaSig
			continue
		}

		if twoLevel := LastTwoComponents(cleaned); twoLevel != "" {
			if metaSig, ok := metaNorm[twoLevel]; ok {
				matched[wfSig] = metaSig
			}
		}
	}
	return matched
}
