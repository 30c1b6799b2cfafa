// Package task runs one install request in an isolated worker. The parent
// sends a single JSON request line, the worker answers with a single JSON
// response line and terminates. Errors travel in the response payload, never
// in the exit code, so a worker that exits without answering is itself a
// failure.
package task
