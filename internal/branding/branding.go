// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only has to edit the YAML.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	CorePackage string `yaml:"core_package"`
	CLIPackage  string `yaml:"cli_package"`
	EntryModule string `yaml:"entry_module"`
	RegistryURL string `yaml:"registry_url"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "svrx",
			DisplayName: "svrx",
			Description: "Version manager and launcher for the svrx development server",
			HomeDir:     ".svrx",
			EnvPrefix:   "SVRX",
			CorePackage: "svrx",
			CLIPackage:  "@svrx/cli",
			EntryModule: "lib/svrx.js",
			RegistryURL: "https://registry.npmjs.org",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "svrx").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".svrx").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SVRX").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// CorePackage returns the registry name of the core package (e.g., "svrx").
func CorePackage() string { load(); return defaults.CorePackage }

// CLIPackage returns the registry name of this CLI, used for update checks.
func CLIPackage() string { load(); return defaults.CLIPackage }

// EntryModule returns the slash-separated path of the entry module inside an
// installed core version (e.g., "lib/svrx.js").
func EntryModule() string { load(); return defaults.EntryModule }

// RegistryURL returns the default package registry base URL.
func RegistryURL() string { load(); return defaults.RegistryURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "SVRX_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
