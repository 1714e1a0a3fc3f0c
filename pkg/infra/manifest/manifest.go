package manifest

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// ProjectName reads the executable base name from a Cargo.toml
func ProjectName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read manifest", goerr.V("path", path))
	}

	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return "", goerr.Wrap(err, "failed to parse manifest", goerr.V("path", path))
	}

	if m.Package.Name == "" {
		return "", goerr.New("manifest has no package name", goerr.V("path", path))
	}
	return m.Package.Name, nil
}
