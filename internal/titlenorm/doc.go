// Package titlenorm canonicalizes exercise and video titles for comparison.
//
// Normalize lowercases, folds accents, strips the trailing f/h/x annotation
// codes and leading ordinals that source titles carry, removes French
// function words, applies the ordered spelling/synonym rule table, and reduces
// the result to lowercase ASCII letters, digits, and '+'. The output is a
// comparison key, not display text: it is lossy by construction and is never
// persisted.
//
// The rule table is data. The embedded rules.yaml is the shared, versioned
// table; deployments can replace or extend it with their own YAML file. Rule
// order is significant because later patterns may rely on earlier rewrites.
package titlenorm
