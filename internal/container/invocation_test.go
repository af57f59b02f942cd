package container

import (
	"strings"
	"testing"

	"github.com/google/shlex"
	"github.com/jakenelson/with-docker/internal/conan"
	"github.com/jakenelson/with-docker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linuxHome = conan.Home{Dir: "/home/dev/.conan", StoragePath: "/home/dev/.conan/data"}

func resolved(t *testing.T, env map[string]string) *config.Resolved {
	t.Helper()
	r, err := config.Resolve(config.Settings(), config.Sources{
		Env: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	})
	require.NoError(t, err)
	return r
}

func TestEndToEndLinux(t *testing.T) {
	cfg := resolved(t, map[string]string{
		"WITH_DOCKER_IMAGE":             "ubuntu:22.04",
		"WITH_DOCKER_MOUNT_CONAN_DIRS":  "false",
		"WITH_DOCKER_MOUNT_WORKING_DIR": "true",
		"WITH_DOCKER_RUN_RM":            "true",
	})

	inv := NewInvocation(Options{Config: cfg, ImageOS: "linux", HostCwd: "/work", Home: linuxHome, HostOS: "linux"})

	want := `docker run --rm -w /home/conan/project -v /work:/home/conan/project ubuntu:22.04 /bin/bash -c "conan install ."`
	assert.Equal(t, want, inv.Command(WrapConan([]string{"install", "."})))
}

func TestEndToEndWindows(t *testing.T) {
	cfg := resolved(t, map[string]string{
		"WITH_DOCKER_IMAGE":             "conanio/msvc16",
		"WITH_DOCKER_CONTAINER_NAME":    "buildbox",
		"WITH_DOCKER_MOUNT_CONAN_DIRS":  "no",
		"WITH_DOCKER_MOUNT_WORKING_DIR": "no",
	})

	inv := NewInvocation(Options{Config: cfg, ImageOS: "windows", HostCwd: `C:\src`, HostOS: "windows"})
	got := inv.String()

	assert.Contains(t, got, "--name buildbox")
	assert.NotContains(t, got, "-v ")
	assert.Contains(t, got, `-w c:\Users\ContainerUser\project`)
	assert.True(t, strings.HasSuffix(got, "conanio/msvc16 cmd /c"), got)
	assert.Equal(t, `docker run --rm -w c:\Users\ContainerUser\project --name buildbox conanio/msvc16 cmd /c`, got)
}

func TestContainerUser(t *testing.T) {
	tests := []struct {
		name     string
		imageOS  string
		override string
		wantUser string
		wantDir  string
		shell    string
	}{
		{"posix default", "linux", "", "conan", "/home/conan/project", PosixShell},
		{"windows default", "windows", "", "ContainerUser", `c:\Users\ContainerUser\project`, WindowsShell},
		{"posix override", "linux", "builder", "builder", "/home/builder/project", PosixShell},
		{"windows override", "windows", "builder", "builder", `c:\Users\builder\project`, WindowsShell},
		{"unknown os is posix", "freebsd", "", "conan", "/home/conan/project", PosixShell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{"WITH_DOCKER_IMAGE": "img"}
			if tt.override != "" {
				env["WITH_DOCKER_CONTAINER_USER"] = tt.override
			}
			inv := NewInvocation(Options{Config: resolved(t, env), ImageOS: tt.imageOS, HostCwd: "/work", Home: linuxHome, HostOS: "linux"})

			assert.Equal(t, tt.wantUser, inv.User)
			assert.Equal(t, tt.wantDir, inv.WorkDir)
			assert.Equal(t, tt.shell, inv.Shell)
		})
	}
}

func TestMountToggles(t *testing.T) {
	base := map[string]string{"WITH_DOCKER_IMAGE": "img", "WITH_DOCKER_CONTAINER_NAME": "n"}
	bools := map[bool]string{true: "1", false: "0"}

	workMount := "-v /work:/home/conan/project"
	conanMount := "-v /home/dev/.conan:/home/conan/.conan"

	for _, workDir := range []bool{true, false} {
		for _, conanDirs := range []bool{true, false} {
			env := map[string]string{
				"WITH_DOCKER_MOUNT_WORKING_DIR": bools[workDir],
				"WITH_DOCKER_MOUNT_CONAN_DIRS":  bools[conanDirs],
			}
			for k, v := range base {
				env[k] = v
			}
			got := NewInvocation(Options{Config: resolved(t, env), ImageOS: "linux", HostCwd: "/work", Home: linuxHome, HostOS: "linux"}).String()

			assert.Equal(t, workDir, strings.Contains(got, workMount), got)
			assert.Equal(t, conanDirs, strings.Contains(got, conanMount), got)

			// Everything other than the -v flags is unaffected.
			stripped := strings.ReplaceAll(strings.ReplaceAll(got, " "+workMount, ""), " "+conanMount, "")
			assert.Equal(t, "docker run --rm -w /home/conan/project --name n img /bin/bash -c", stripped)
		}
	}
}

func TestFlagOrder(t *testing.T) {
	cfg := resolved(t, map[string]string{"WITH_DOCKER_IMAGE": "img", "WITH_DOCKER_CONTAINER_NAME": "box"})
	inv := NewInvocation(Options{Config: cfg, ImageOS: "linux", HostCwd: "/work", Home: linuxHome, HostOS: "linux"})

	tokens, err := shlex.Split(inv.Command(WrapConan([]string{"create", ".", "--build", "missing"})))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"docker", "run", "--rm",
		"-w", "/home/conan/project",
		"--name", "box",
		"-v", "/work:/home/conan/project",
		"-v", "/home/dev/.conan:/home/conan/.conan",
		"img", "/bin/bash", "-c",
		"conan create . --build missing",
	}, tokens)
}

func TestShortPathsMount(t *testing.T) {
	home := conan.Home{Dir: `C:\Users\dev\.conan`, StoragePath: `C:\Users\dev\.conan\data`, ShortPathsHome: `C:\.conan`}
	cfg := resolved(t, map[string]string{"WITH_DOCKER_IMAGE": "img", "WITH_DOCKER_MOUNT_WORKING_DIR": "0"})

	inv := NewInvocation(Options{Config: cfg, ImageOS: "windows", HostCwd: `C:\src`, Home: home, HostOS: "windows"})
	require.Len(t, inv.Mounts, 2)
	assert.Equal(t, Mount{Source: `C:\.conan`, Target: ShortPathsTarget}, inv.Mounts[1])
	assert.Equal(t, `c:\Users\ContainerUser\.conan`, inv.Mounts[0].Target)

	// Only Windows hosts get the short paths mount.
	inv = NewInvocation(Options{Config: cfg, ImageOS: "windows", HostCwd: "/src", Home: home, HostOS: "linux"})
	assert.Len(t, inv.Mounts, 1)

	// And only alongside the conan dirs.
	cfg = resolved(t, map[string]string{"WITH_DOCKER_IMAGE": "img", "WITH_DOCKER_MOUNT_WORKING_DIR": "0", "WITH_DOCKER_MOUNT_CONAN_DIRS": "0"})
	inv = NewInvocation(Options{Config: cfg, ImageOS: "windows", HostCwd: `C:\src`, Home: home, HostOS: "windows"})
	assert.Empty(t, inv.Mounts)
}

func TestRemoveContainerDisabled(t *testing.T) {
	cfg := resolved(t, map[string]string{"WITH_DOCKER_IMAGE": "img", "WITH_DOCKER_RUN_RM": "false"})
	inv := NewInvocation(Options{Config: cfg, ImageOS: "linux", HostCwd: "/work", Home: linuxHome, HostOS: "linux"})
	assert.NotContains(t, inv.String(), "--rm")
}

func TestMountWithSpaces(t *testing.T) {
	m := Mount{Source: "/Users/dev/My Project", Target: "/home/conan/project"}
	assert.Equal(t, `-v "/Users/dev/My Project:/home/conan/project"`, m.Flag())
}

func TestIsWindows(t *testing.T) {
	assert.True(t, IsWindows("windows"))
	assert.True(t, IsWindows("Windows"))
	assert.False(t, IsWindows("linux"))
	assert.False(t, IsWindows(""))
}
