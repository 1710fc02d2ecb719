// Package sentiment turns classifier output into a signed score in [-1, 1].
//
// Scoring short-circuits in a fixed order: texts below the minimum length are neutral,
// then the negative keyword list wins over the positive one, and only then is the
// classifier called. A failing classifier never fails the caller; the result is a
// neutral score marked degraded, with the cause attached for the caller to surface.
package sentiment
