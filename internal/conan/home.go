// Package conan locates the host's Conan installation: the directories that
// get mounted into the container so work done there lands in the host cache.
package conan

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jakenelson/with-docker/internal/hostpath"
	"gopkg.in/ini.v1"
)

const (
	envUserHome      = "CONAN_USER_HOME"
	envStoragePath   = "CONAN_STORAGE_PATH"
	envUserHomeShort = "CONAN_USER_HOME_SHORT"

	// DefaultWindowsShortPathsHome is where Conan keeps short paths on
	// Windows when nothing else is configured.
	DefaultWindowsShortPathsHome = `C:\.conan`
)

// Home describes the host Conan installation
type Home struct {
	// Dir is the Conan home, e.g. ~/.conan
	Dir string
	// StoragePath is the package cache, e.g. ~/.conan/data
	StoragePath string
	// ShortPathsHome is the Windows long-path workaround directory; empty
	// when disabled.
	ShortPathsHome string
}

// CacheDir is the directory mounted into the container: the parent of the
// storage path.
func (h Home) CacheDir() string {
	return filepath.Dir(h.StoragePath)
}

// Options overrides the process environment for Locate
type Options struct {
	// Getenv defaults to os.LookupEnv
	Getenv func(string) (string, bool)
	// UserHome defaults to os.UserHomeDir
	UserHome string
	// HostOS defaults to runtime.GOOS
	HostOS string
}

// Locate finds the Conan home and reads its conan.conf, when present.
func Locate(opts Options) (Home, error) {
	if opts.Getenv == nil {
		opts.Getenv = os.LookupEnv
	}
	if opts.HostOS == "" {
		opts.HostOS = runtime.GOOS
	}
	if opts.UserHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Home{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		opts.UserHome = home
	}

	getenv := func(key string) string {
		v, _ := opts.Getenv(key)
		return strings.TrimSpace(v)
	}

	base := opts.UserHome
	if v := getenv(envUserHome); v != "" {
		base = hostpath.Resolve(v, opts.UserHome, opts.UserHome)
	}
	h := Home{Dir: filepath.Join(base, ".conan")}

	conf, err := readConf(filepath.Join(h.Dir, "conan.conf"))
	if err != nil {
		return Home{}, err
	}

	storage := getenv(envStoragePath)
	if storage == "" {
		storage = conf.Section("storage").Key("path").String()
	}
	if storage == "" {
		storage = "./data"
	}
	h.StoragePath = hostpath.Resolve(storage, h.Dir, opts.UserHome)

	short := getenv(envUserHomeShort)
	if short == "" {
		short = conf.Section("general").Key("user_home_short").String()
	}
	if short == "" && opts.HostOS == "windows" {
		short = DefaultWindowsShortPathsHome
	}
	if strings.EqualFold(short, "none") {
		short = ""
	}
	h.ShortPathsHome = short

	return h, nil
}

func readConf(path string) (*ini.File, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ini.Empty(), nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	conf, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return conf, nil
}
