package cli

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cfggen/pkg"
)

// baseConfig is the base name of the configuration files and the mapping
// read from config.yaml.
const baseConfig = "config"

// userDir joins pkg.Name onto the directory returned by base, falling back
// to fallback under the home directory. It returns "" when neither can be
// determined, in which case the caller has no such directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}

		dir = filepath.Join(home, fallback)
	}

	return filepath.Join(dir, pkg.Name)
}

// configDir returns the directory holding cfggen configuration files.
// It is neither created nor required to exist.
func configDir() string { return userDir(os.UserConfigDir, ".config") }

// cacheDir returns the directory holding transient files such as the browse
// history. It is created only by the commands that write there.
func cacheDir() string { return userDir(os.UserCacheDir, ".cache") }

// configPath returns the path of the configuration file with the given
// extension, or "" if there is no configuration directory.
func configPath(ext string) string {
	dir := configDir()
	if dir == "" {
		return ""
	}

	return filepath.Join(dir, baseConfig+ext)
}

// configurations returns a [kong.Configuration] option for each readable
// configuration file. A missing or unusable directory contributes nothing.
func configurations() []kong.Option {
	var opts []kong.Option

	for _, c := range []struct {
		ext    string
		loader kong.ConfigurationLoader
	}{
		{".json", kong.JSON},
		{".yaml", resolve(baseConfig)},
	} {
		path := configPath(c.ext)
		if path == "" {
			continue
		}

		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}

		opts = append(opts, kong.Configuration(presets(c.loader), path))
	}

	return opts
}
