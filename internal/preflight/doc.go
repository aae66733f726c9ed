// Package preflight provides readiness checks for the directories, catalog
// and rule files that exomatch depends on.
//
// These checks run in two contexts:
//   - The match and apply commands call RunAll before doing any work and
//     stop when a required check fails.
//   - The CLI "exomatch doctor" command renders every result as a table.
//
// Optional inputs are only checked when configured.
package preflight
