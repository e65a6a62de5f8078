// Package model defines the Project and Job aggregates: the format-agnostic
// representation of everything that ends up inside a deployable archive.
//
// A Job is a flat mapping of option keys to values plus an optional list of
// dependencies on other jobs in the same project. A Project collects named
// jobs and extra files and knows how to package them into the zip layout the
// orchestration server expects (one <name>.job text entry per job, files at
// their registered archive paths).
package model
