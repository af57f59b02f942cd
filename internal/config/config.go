package config

import (
	"strings"
)

// CommandName names the command. It is the config file section and the
// config file's base name.
const CommandName = "with_docker"

// Setting names
const (
	DockerImage     = "docker-image"
	DockerArgs      = "docker-args"
	RemoveContainer = "remove-container"
	MountConanDirs  = "mount-conan-dirs"
	MountWorkingDir = "mount-working-dir"
	ContainerName   = "container-name"
	ContainerUser   = "container-user"
	InspectAPI      = "inspect-api"
)

// Kind is the value type of a setting
type Kind int

const (
	KindString Kind = iota
	KindBool
)

func (k Kind) String() string {
	if k == KindBool {
		return "bool"
	}
	return "string"
}

// Setting describes one configurable value and where it can come from
type Setting struct {
	Name     string
	EnvVar   string
	Kind     Kind
	Default  any // nil, string or bool
	Required bool
	Usage    string
}

// HasDefault reports whether the setting carries a built-in default
func (s Setting) HasDefault() bool {
	return s.Default != nil
}

// Settings returns the table of settings recognized by the run command.
func Settings() []Setting {
	return []Setting{
		{Name: DockerImage, EnvVar: "WITH_DOCKER_IMAGE", Kind: KindString, Required: true,
			Usage: "Docker image to run the command in"},
		{Name: DockerArgs, EnvVar: "WITH_DOCKER_ARGS", Kind: KindString,
			Usage: "extra arguments for docker run (accepted, not yet passed through)"},
		{Name: RemoveContainer, EnvVar: "WITH_DOCKER_RUN_RM", Kind: KindBool, Default: true,
			Usage: "remove the container when it exits"},
		{Name: MountConanDirs, EnvVar: "WITH_DOCKER_MOUNT_CONAN_DIRS", Kind: KindBool, Default: true,
			Usage: "mount the conan directories into the container"},
		{Name: MountWorkingDir, EnvVar: "WITH_DOCKER_MOUNT_WORKING_DIR", Kind: KindBool, Default: true,
			Usage: "mount the current working directory into the container"},
		{Name: ContainerName, EnvVar: "WITH_DOCKER_CONTAINER_NAME", Kind: KindString,
			Usage: "name for the container"},
		{Name: ContainerUser, EnvVar: "WITH_DOCKER_CONTAINER_USER", Kind: KindString,
			Usage: "user inside the container (default: conan, or ContainerUser for Windows images)"},
		{Name: InspectAPI, EnvVar: "WITH_DOCKER_INSPECT_API", Kind: KindBool, Default: false,
			Usage: "inspect the image through the Docker Engine API instead of the docker CLI"},
	}
}

// Lookup finds a setting by name
func Lookup(settings []Setting, name string) (Setting, bool) {
	for _, s := range settings {
		if s.Name == name {
			return s, true
		}
	}
	return Setting{}, false
}

var truthStrings = map[string]bool{
	"true": true,
	"t":    true,
	"yes":  true,
	"y":    true,
	"1":    true,
}

// ParseBool is stricter than strconv.ParseBool: anything outside the truthy
// set, including the empty string, is false.
func ParseBool(value string) bool {
	return truthStrings[strings.ToLower(strings.TrimSpace(value))]
}
