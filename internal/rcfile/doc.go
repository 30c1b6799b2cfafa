// Package rcfile reads the project-level configuration file (.svrxrc.yaml,
// .svrxrc.yml or .svrxrc.json) from a working directory.
//
// The file pins the core version, overrides the home root and registry, and
// lists plugins. Any other top-level key is kept in RC.Extra and passed to
// the launched server as an option.
//
// Files are validated against an embedded JSON Schema before decoding so a
// typo in a known key surfaces as a readable issue rather than a silent
// zero value.
package rcfile
