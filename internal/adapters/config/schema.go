package config

// WatchFile is the structure of a watch file.
type WatchFile struct {
	Root   string `yaml:"root"`
	Filter string `yaml:"filter"`
	// RefreshRate is the poll interval in milliseconds.
	RefreshRate    *int     `yaml:"refreshRate"`
	NotifyFilters  []string `yaml:"notifyFilters"`
	DirectoryDepth *int     `yaml:"directoryDepth"`
	Precheck       *bool    `yaml:"precheck"`
	Exclude        []string `yaml:"exclude"`
}

var knownKeys = map[string]bool{
	"root":           true,
	"filter":         true,
	"refreshRate":    true,
	"notifyFilters":  true,
	"directoryDepth": true,
	"precheck":       true,
	"exclude":        true,
}
