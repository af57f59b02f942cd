package cli

import (
	"fmt"

	"github.com/jakenelson/with-docker/internal/config"
	"github.com/spf13/pflag"
)

// onceValue is a flag that may be given at most once. Booleans keep their
// raw text so the resolver applies the same truthy rule everywhere.
type onceValue struct {
	value string
	set   bool
	kind  config.Kind
}

func (o *onceValue) Set(s string) error {
	if o.set {
		return fmt.Errorf("may only be given once")
	}
	o.value, o.set = s, true
	return nil
}

func (o *onceValue) String() string { return o.value }

// Type avoids "bool", which pflag would render as a value-less switch.
func (o *onceValue) Type() string {
	if o.kind == config.KindBool {
		return "boolean"
	}
	return "string"
}

// addSettingFlags registers one flag per setting
func addSettingFlags(fs *pflag.FlagSet, settings []config.Setting) {
	for _, s := range settings {
		usage := fmt.Sprintf("%s [%s]", s.Usage, s.EnvVar)
		if s.HasDefault() {
			usage = fmt.Sprintf("%s (default %v)", usage, s.Default)
		}
		fs.Var(&onceValue{kind: s.Kind}, s.Name, usage)
	}
}

// flagSource exposes explicitly given flags to the resolver
type flagSource struct {
	fs *pflag.FlagSet
}

func (f flagSource) Lookup(name string) (string, bool) {
	flag := f.fs.Lookup(name)
	if flag == nil || !flag.Changed {
		return "", false
	}
	return flag.Value.String(), true
}
