// Package installer fetches core versions into the version store. The parent
// side short-circuits versions that are already present and otherwise hands
// the request to an isolated worker; the worker side resolves the version,
// stages the download in a throwaway directory, and copies the result into
// the store.
package installer
