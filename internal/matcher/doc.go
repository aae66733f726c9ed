// Package matcher picks the best catalog candidate for a query title.
//
// Candidates are exercise.Records. A numeric fast path compares leading
// ordinals first; otherwise every candidate allowed by the region policy is
// scored with the similarity package and the best one that clears the
// threshold wins. Ties go to the earliest candidate, which is an arbitrary
// but stable choice given a stable catalog order.
package matcher
