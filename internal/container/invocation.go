package container

import (
	"runtime"
	"strings"

	"github.com/jakenelson/with-docker/internal/conan"
	"github.com/jakenelson/with-docker/internal/config"
)

// Default users baked into the conan docker images
const (
	DefaultPosixUser   = "conan"
	DefaultWindowsUser = "ContainerUser"
)

// Shell prefixes the wrapped command is handed to
const (
	PosixShell   = "/bin/bash -c"
	WindowsShell = "cmd /c"
)

// ShortPathsTarget is where the host's short-paths home lands in a Windows
// container.
const ShortPathsTarget = `C:\.conan`

// Options carries everything NewInvocation derives the command from
type Options struct {
	Config  *config.Resolved
	ImageOS string
	HostCwd string
	Home    conan.Home
	// HostOS defaults to runtime.GOOS
	HostOS string
}

// NewInvocation derives the OS specific paths, user and shell for the
// resolved configuration.
func NewInvocation(opts Options) *Invocation {
	cfg := opts.Config
	hostOS := opts.HostOS
	if hostOS == "" {
		hostOS = runtime.GOOS
	}

	inv := &Invocation{
		Image:   cfg.DockerImage,
		ImageOS: opts.ImageOS,
		Name:    cfg.ContainerName,
		Remove:  cfg.RemoveContainer,
	}
	windows := IsWindows(opts.ImageOS)

	inv.User = cfg.ContainerUser
	if inv.User == "" {
		if windows {
			inv.User = DefaultWindowsUser
		} else {
			inv.User = DefaultPosixUser
		}
	}

	if windows {
		inv.WorkDir = `c:\Users\` + inv.User + `\project`
		inv.Shell = WindowsShell
	} else {
		inv.WorkDir = "/home/" + inv.User + "/project"
		inv.Shell = PosixShell
	}

	if cfg.MountWorkingDir {
		inv.Mounts = append(inv.Mounts, Mount{Source: opts.HostCwd, Target: inv.WorkDir})
	}
	if cfg.MountConanDirs {
		inv.Mounts = append(inv.Mounts, Mount{Source: opts.Home.CacheDir(), Target: conanDir(inv.User, windows)})
		if hostOS == "windows" && opts.Home.ShortPathsHome != "" {
			inv.Mounts = append(inv.Mounts, Mount{Source: opts.Home.ShortPathsHome, Target: ShortPathsTarget})
		}
	}

	return inv
}

func conanDir(user string, windows bool) string {
	if windows {
		return `c:\Users\` + user + `\.conan`
	}
	return "/home/" + user + "/.conan"
}

// Args returns the docker run flags in their fixed order, ending with the
// image and shell prefix.
func (i *Invocation) Args() []string {
	args := []string{"docker run"}
	if i.Remove {
		args = append(args, "--rm")
	}
	args = append(args, "-w "+quoteIfSpaced(i.WorkDir))
	if i.Name != "" {
		args = append(args, "--name "+i.Name)
	}
	for _, m := range i.Mounts {
		args = append(args, m.Flag())
	}
	return append(args, i.Image, i.Shell)
}

// String renders the invocation without the wrapped command
func (i *Invocation) String() string {
	return strings.Join(i.Args(), " ")
}

// Command appends the double-quoted wrapped command to the invocation
func (i *Invocation) Command(wrapped string) string {
	return i.String() + ` "` + wrapped + `"`
}

// WrapConan turns the sub-command arguments into the conan command line run
// inside the container.
func WrapConan(args []string) string {
	return "conan " + strings.Join(args, " ")
}
