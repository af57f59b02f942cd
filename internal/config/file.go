package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// File is the command's section of an INI config file. Keys in [DEFAULT]
// apply to every section, as in configparser.
type File struct {
	path    string
	section string
	exists  bool
	doc     *ini.File
	values  *viper.Viper
}

// DefaultPath returns the config file that sits next to the running
// executable, e.g. /usr/local/bin/with_docker.conf.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), CommandName+".conf"), nil
}

// LoadFile reads section from the INI file at path. A missing file is not an
// error; every lookup on it falls through.
func LoadFile(path, section string) (*File, error) {
	f := &File{
		path:    path,
		section: section,
		doc:     ini.Empty(),
		values:  viper.New(),
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	doc, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	f.doc = doc
	f.exists = true

	if err := f.values.MergeConfigMap(sectionMap(doc, section)); err != nil {
		return nil, fmt.Errorf("failed to load section [%s]: %w", section, err)
	}
	return f, nil
}

func sectionMap(doc *ini.File, section string) map[string]any {
	m := make(map[string]any)
	for _, k := range doc.Section(ini.DefaultSection).Keys() {
		m[k.Name()] = k.String()
	}
	if doc.HasSection(section) {
		for _, k := range doc.Section(section).Keys() {
			m[k.Name()] = k.String()
		}
	}
	return m
}

// Path returns the file's location on disk
func (f *File) Path() string {
	return f.path
}

// Exists reports whether the file was present when loaded
func (f *File) Exists() bool {
	return f.exists
}

// Lookup returns the raw value of key in the section
func (f *File) Lookup(key string) (string, bool) {
	if !f.values.IsSet(key) {
		return "", false
	}
	return f.values.GetString(key), true
}

// Keys returns the keys present in the section, sorted
func (f *File) Keys() []string {
	keys := f.values.AllKeys()
	sort.Strings(keys)
	return keys
}

// Set updates key in the section. Call Save to persist it.
func (f *File) Set(key, value string) {
	f.doc.Section(f.section).Key(key).SetValue(value)
	f.values.Set(key, value)
}

// Save writes the file back to disk, creating its directory if needed
func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := f.doc.SaveTo(f.path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	f.exists = true
	return nil
}
