// Package runtime launches an installed core version. The entry module is a
// Node.js module exporting the server class, so launching means starting
// node with a small bootstrap that constructs the server with the merged
// options and starts it. DispatchRuntime picks the runtime from the entry
// module's file extension.
package runtime
