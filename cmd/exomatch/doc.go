// Package main hosts the exomatch CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into runs of the
// internal pipeline: parsing exercise documents, matching them against the
// video catalog, writing review reports, and applying approved updates. It
// centralizes configuration resolution and logger setup so subcommands can
// focus on output.
//
// Keep this package lean: new behavior belongs in the internal packages
// first, surfaced here through dedicated commands or flags.
package main
