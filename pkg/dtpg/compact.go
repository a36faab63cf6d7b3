package dtpg

import "github.com/fyerfyer/druid-atpg/pkg/tvec"

// CompactVectors greedily merges compatible test vectors, scanning the
// list in reverse generation order and folding each vector into the
// earliest compatible survivor. Ties are broken by the lowest vector
// index, which keeps the result deterministic.
func CompactVectors(vs []*tvec.TestVector) []*tvec.TestVector {
	out := make([]*tvec.TestVector, 0, len(vs))
	for i := len(vs) - 1; i >= 0; i-- {
		v := vs[i]
		merged := false
		for _, o := range out {
			if o.MergeVector(v) {
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, v.Copy())
		}
	}
	// restore generation order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
