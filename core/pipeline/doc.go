// Package pipeline carries the tunables shared by the recipe bulk pipelines:
// batch ceilings, generation group size and pacing, and the duplicate
// detection thresholds. Defaults match a rate limit of a few requests per
// second on the generation provider.
package pipeline
