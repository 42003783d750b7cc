package carstan

import (
	"strconv"
	"time"
)

// Trace stores the post burn-in thinned draws of one chain, keyed by
// parameter name (beta0..betaP-1, tau, rho, phi0..phiN-1), plus the joint
// log posterior of every stored draw.
type Trace struct {
	Variant string
	Names   []string
	Draws   map[string][]float64
	LogPost []float64
	Elapsed time.Duration
}

// InitTrace sets up an empty trace for a model with p covariates and n
// areal units
func InitTrace(variant string, p, n int) *Trace {
	tr := new(Trace)
	tr.Variant = variant
	tr.Draws = make(map[string][]float64)
	for k := 0; k < p; k++ {
		tr.Names = append(tr.Names, "beta"+strconv.Itoa(k))
	}
	tr.Names = append(tr.Names, "tau", "rho")
	for i := 0; i < n; i++ {
		tr.Names = append(tr.Names, "phi"+strconv.Itoa(i))
	}
	for _, name := range tr.Names {
		tr.Draws[name] = nil
	}
	return tr
}

// Add appends one draw of every parameter
func (tr *Trace) Add(st *ParamState, logPost float64) {
	idx := 0
	for range st.Beta {
		tr.Draws[tr.Names[idx]] = append(tr.Draws[tr.Names[idx]], st.Beta[idx])
		idx++
	}
	tr.Draws["tau"] = append(tr.Draws["tau"], st.Tau)
	tr.Draws["rho"] = append(tr.Draws["rho"], st.Rho)
	idx += 2
	for i := range st.Phi {
		tr.Draws[tr.Names[idx]] = append(tr.Draws[tr.Names[idx]], st.Phi[i])
		idx++
	}
	tr.LogPost = append(tr.LogPost, logPost)
}

// Len returns the number of stored draws
func (tr *Trace) Len() int {
	return len(tr.LogPost)
}

// MergeTraces pools the draws of several chains of the same model into one
func MergeTraces(traces []*Trace) *Trace {
	if len(traces) == 1 {
		return traces[0]
	}
	merged := new(Trace)
	merged.Variant = traces[0].Variant
	merged.Names = traces[0].Names
	merged.Draws = make(map[string][]float64)
	for _, tr := range traces {
		for _, name := range tr.Names {
			merged.Draws[name] = append(merged.Draws[name], tr.Draws[name]...)
		}
		merged.LogPost = append(merged.LogPost, tr.LogPost...)
		merged.Elapsed += tr.Elapsed
	}
	return merged
}
