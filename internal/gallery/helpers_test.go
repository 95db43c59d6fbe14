package gallery

import "viidemo/internal/manifest"

type manifestVariant struct {
	baseline, ours, mask string
}

func toVariants(in []manifestVariant) []manifest.Variant {
	out := make([]manifest.Variant, len(in))
	for i, v := range in {
		out[i] = manifest.Variant{Videos: manifest.Videos{Baseline: v.baseline, Ours: v.ours, OursMask: v.mask}}
	}
	return out
}
