package types

import "errors"

// Config holds backend selection and serving parameters for the crudkit
// CLI and the reference stores.
type Config struct {
	Backend     string   `json:"backend" yaml:"backend"`
	DataDir     string   `json:"data_dir" yaml:"data_dir"`
	Listen      string   `json:"listen" yaml:"listen"`
	APIVersions []string `json:"api_versions" yaml:"api_versions"`
	PageLimit   int      `json:"page_limit" yaml:"page_limit"`
	ListLimit   int      `json:"list_limit" yaml:"list_limit"`
	SoftDelete  bool     `json:"soft_delete" yaml:"soft_delete"`
	Verbose     bool     `json:"verbose" yaml:"verbose"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrPageLimitInvalid  = errors.New("page limit must not be negative")
	ErrListLimitInvalid  = errors.New("list limit must not be negative")
	ErrAPIVersionInvalid = errors.New("api version must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.PageLimit < 0 {
		return ErrPageLimitInvalid
	}
	if c.ListLimit < 0 {
		return ErrListLimitInvalid
	}
	for _, v := range c.APIVersions {
		if v == "" {
			return ErrAPIVersionInvalid
		}
	}
	return nil
}
