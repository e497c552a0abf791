package config

// ManifestVersion is the manifest schema version this build writes and
// understands.
const ManifestVersion = 1

// Manifest represents the structure of the slate.yaml manifest file.
type Manifest struct {
	Version int    `yaml:"version"`
	Project string `yaml:"project"`
}
