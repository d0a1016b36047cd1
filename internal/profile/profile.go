package profile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Profile holds saveable CLI options. All fields are pointers so we can
// distinguish "not set" from zero values.
type Profile struct {
	Loader      *string `toml:"loader,omitempty"`
	Version     *string `toml:"version,omitempty"`
	OutputDir   *string `toml:"output-dir,omitempty"`
	Concurrency *int    `toml:"concurrency,omitempty"`
	SeedLocale  *string `toml:"seed-locale,omitempty"`
	Verbose     *bool   `toml:"verbose,omitempty"`
	LogFile     *string `toml:"log-file,omitempty"`
}

// Dir returns the profiles directory, using XDG_CONFIG_HOME with a fallback
// to ~/.config.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "mod-lang-updater", "profiles")
}

func path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	return filepath.Join(Dir(), name+".toml"), nil
}

// Load reads a named profile from the profiles directory.
func Load(name string) (*Profile, error) {
	p, err := path(name)
	if err != nil {
		return nil, err
	}
	var prof Profile
	if _, err := toml.DecodeFile(p, &prof); err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", name, err)
	}
	if prof.Loader != nil {
		l := strings.ToLower(strings.TrimSpace(*prof.Loader))
		prof.Loader = &l
	}
	return &prof, nil
}

// Save writes a profile to the profiles directory, creating it if needed.
func Save(name string, p *Profile) error {
	target, err := path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating profiles directory: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating profile file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return nil
}

// List returns the names of all saved profiles.
func List() ([]string, error) {
	dir := Dir()

	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == dir {
			return nil
		}
		if d.IsDir() {
			return filepath.SkipDir
		}
		if strings.HasSuffix(d.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(d.Name(), ".toml"))
		}
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		return nil, nil
	}
	return names, err
}

// Delete removes a named profile.
func Delete(name string) error {
	p, err := path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	return nil
}
