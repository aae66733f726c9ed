// Package similarity scores how alike two exercise titles are.
//
// Both inputs are normalized with titlenorm before comparison. The score is
// the maximum of the enabled sub-scores, each in [0,1]: exact/containment,
// keyword overlap, and Levenshtein ratio. Jaro-Winkler is available as an
// opt-in extra for deployments that want more typo tolerance on short titles.
package similarity
