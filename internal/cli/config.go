package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jakenelson/with-docker/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage with-docker configuration",
		Long: `Manage the [` + config.CommandName + `] section of the with-docker config file.

Commands:
  list    List resolved settings and where each value came from
  get     Get a value from the config file
  set     Set a value in the config file
  path    Show configuration file path
  init    Create a default configuration file
  env     List the environment variable of every setting

Examples:
  with-docker config list
  with-docker config get docker-image
  with-docker config set docker-image conanio/gcc11
  with-docker config set mount-conan-dirs false`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	configCmd.AddCommand(
		newConfigListCmd(opts),
		newConfigGetCmd(opts),
		newConfigSetCmd(opts),
		newConfigPathCmd(opts),
		newConfigInitCmd(opts),
		newConfigEnvCmd(),
	)
	return configCmd
}

type listedSetting struct {
	Name   string `yaml:"name"`
	Value  any    `yaml:"value"`
	Source string `yaml:"source"`
	Env    string `yaml:"env"`
}

func newConfigListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List resolved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := opts.configFile()
			if err != nil {
				return err
			}

			// Listing must work before an image is configured.
			settings := config.Settings()
			for i := range settings {
				settings[i].Required = false
			}

			resolved, err := config.Resolve(settings, config.Sources{File: file})
			if err != nil {
				return err
			}

			var listed []listedSetting
			for _, v := range resolved.Values() {
				listed = append(listed, listedSetting{
					Name:   v.Setting.Name,
					Value:  v.Interface(),
					Source: v.Tier.String(),
					Env:    v.Setting.EnvVar,
				})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(listed); err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			return enc.Close()
		},
	}
}

func newConfigGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := opts.configFile()
			if err != nil {
				return err
			}
			value, ok := file.Lookup(args[0])
			if !ok {
				return fmt.Errorf("key not found: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if err := validateConfigKey(key, value); err != nil {
				return err
			}

			file, err := opts.configFile()
			if err != nil {
				return err
			}
			file.Set(key, value)
			if err := file.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

func newConfigPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := opts.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), file.Path())
			return nil
		},
	}
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := opts.configFile()
			if err != nil {
				return err
			}
			if file.Exists() {
				return fmt.Errorf("config file already exists at %s", file.Path())
			}

			if err := os.MkdirAll(filepath.Dir(file.Path()), 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(file.Path(), []byte(defaultConfigFile()), 0644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", file.Path())
			return nil
		},
	}
}

func newConfigEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variable of every setting",
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range config.Settings() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", s.EnvVar, s.Name)
			}
		},
	}
}

// defaultConfigFile renders every setting, commented out unless it has a default
func defaultConfigFile() string {
	var b strings.Builder
	b.WriteString("# with-docker configuration\n")
	b.WriteString("# Command line flags and WITH_DOCKER_* environment variables take precedence.\n\n")
	b.WriteString("[" + config.CommandName + "]\n")
	for _, s := range config.Settings() {
		fmt.Fprintf(&b, "# %s (%s)\n", s.Usage, s.EnvVar)
		if s.HasDefault() {
			fmt.Fprintf(&b, "%s = %v\n", s.Name, s.Default)
		} else {
			fmt.Fprintf(&b, "# %s =\n", s.Name)
		}
	}
	return b.String()
}

// validateConfigKey rejects unknown keys and non-boolean values for boolean settings
func validateConfigKey(key, value string) error {
	s, ok := config.Lookup(config.Settings(), key)
	if !ok {
		var names []string
		for _, s := range config.Settings() {
			names = append(names, s.Name)
		}
		return fmt.Errorf("unknown key %s (allowed: %s)", key, strings.Join(names, ", "))
	}

	if s.Kind == config.KindBool {
		allowed := []string{"true", "t", "yes", "y", "1", "false", "f", "no", "n", "0"}
		for _, v := range allowed {
			if strings.EqualFold(value, v) {
				return nil
			}
		}
		return fmt.Errorf("invalid value for %s: %s (allowed: %s)", key, value, strings.Join(allowed, ", "))
	}
	return nil
}
