// Package store implements the local version store: a directory per installed
// core version under the version root, and a directory per plugin holding one
// directory per plugin version. The fact that a version is installed is
// modeled by filesystem shape alone: the version directory must exist and
// contain the entry module.
package store
