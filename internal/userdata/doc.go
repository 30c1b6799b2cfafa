// Package userdata manages the ~/.svrx/ directory structure: the version root
// holding one directory per installed core version, the plugin root, and the
// bootstrap that creates them once per process.
package userdata
