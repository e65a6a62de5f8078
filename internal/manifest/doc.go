// Package manifest loads declarative project definitions from HCL files and
// translates them into model.Project values.
//
// A manifest file holds one or more `project` blocks. Each project block
// carries an optional `properties` map, `job` blocks (one label: the job
// name) whose attributes become job options, and `file` blocks (one label:
// the absolute source path) registering extra archive content. Project
// blocks with the same name, in the same file or across files, are merged
// into a single project.
package manifest
