package config

import (
	"fmt"
	"os"
)

// Tier identifies where a resolved value came from
type Tier int

const (
	TierDefault Tier = iota
	TierFile
	TierEnv
	TierFlag
)

func (t Tier) String() string {
	switch t {
	case TierFlag:
		return "flag"
	case TierEnv:
		return "env"
	case TierFile:
		return "file"
	default:
		return "default"
	}
}

// ConfigurationError reports a value that could not be resolved from any tier
// or a command line that is missing required input.
type ConfigurationError struct {
	Setting string
	Msg     string
}

func (e *ConfigurationError) Error() string {
	if e.Setting == "" {
		return e.Msg
	}
	return fmt.Sprintf("%q: %s", e.Setting, e.Msg)
}

// FlagSource yields values given explicitly on the command line
type FlagSource interface {
	// Lookup returns the raw value and whether the flag was set
	Lookup(name string) (string, bool)
}

// EnvFunc looks up an environment variable
type EnvFunc func(key string) (string, bool)

// Sources are the tiers consulted by Resolve, highest precedence first.
// Any of them may be nil.
type Sources struct {
	Flags FlagSource
	Env   EnvFunc
	File  *File
}

// Value is a single resolved setting
type Value struct {
	Setting Setting
	String  string
	Bool    bool
	Tier    Tier
	Set     bool
}

// Interface returns the value as a string, bool or nil when unset
func (v Value) Interface() any {
	if !v.Set {
		return nil
	}
	if v.Setting.Kind == KindBool {
		return v.Bool
	}
	return v.String
}

// Resolved holds the final value of every setting for one invocation
type Resolved struct {
	DockerImage     string
	DockerArgs      string
	RemoveContainer bool
	MountConanDirs  bool
	MountWorkingDir bool
	ContainerName   string
	ContainerUser   string
	InspectAPI      bool

	values []Value
}

// Values returns every resolved setting in table order
func (r *Resolved) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Get returns the resolved value for the named setting
func (r *Resolved) Get(name string) (Value, bool) {
	for _, v := range r.values {
		if v.Setting.Name == name {
			return v, true
		}
	}
	return Value{}, false
}

// Resolve computes the final value of every setting by precedence:
// command line, environment variable, config file, built-in default.
func Resolve(settings []Setting, src Sources) (*Resolved, error) {
	if src.Env == nil {
		src.Env = os.LookupEnv
	}

	r := &Resolved{}
	for _, s := range settings {
		v := resolveOne(s, src)
		if !v.Set && s.Required {
			return nil, &ConfigurationError{
				Setting: s.Name,
				Msg: fmt.Sprintf("missing required value; provide --%s, %s or a %q entry in the [%s] section of the config file",
					s.Name, s.EnvVar, s.Name, CommandName),
			}
		}
		r.values = append(r.values, v)
		r.assign(v)
	}
	return r, nil
}

func resolveOne(s Setting, src Sources) Value {
	// An empty string never counts as a value, except that "--flag=" on a
	// boolean flag is an explicit false.
	if src.Flags != nil {
		if raw, ok := src.Flags.Lookup(s.Name); ok && (raw != "" || s.Kind == KindBool) {
			return coerce(s, raw, TierFlag)
		}
	}
	if s.EnvVar != "" {
		if raw, ok := src.Env(s.EnvVar); ok && raw != "" {
			return coerce(s, raw, TierEnv)
		}
	}
	if src.File != nil {
		if raw, ok := src.File.Lookup(s.Name); ok && raw != "" {
			return coerce(s, raw, TierFile)
		}
	}

	v := Value{Setting: s, Tier: TierDefault}
	switch d := s.Default.(type) {
	case bool:
		v.Bool, v.Set = d, true
	case string:
		v.String, v.Set = d, true
	}
	return v
}

func coerce(s Setting, raw string, tier Tier) Value {
	v := Value{Setting: s, Tier: tier, Set: true}
	if s.Kind == KindBool {
		v.Bool = ParseBool(raw)
	} else {
		v.String = raw
	}
	return v
}

func (r *Resolved) assign(v Value) {
	switch v.Setting.Name {
	case DockerImage:
		r.DockerImage = v.String
	case DockerArgs:
		r.DockerArgs = v.String
	case RemoveContainer:
		r.RemoveContainer = v.Bool
	case MountConanDirs:
		r.MountConanDirs = v.Bool
	case MountWorkingDir:
		r.MountWorkingDir = v.Bool
	case ContainerName:
		r.ContainerName = v.String
	case ContainerUser:
		r.ContainerUser = v.String
	case InspectAPI:
		r.InspectAPI = v.Bool
	}
}
