package config

import (
	"strings"

	"github.com/mitchellh/mapstructure"

	svcerrors "github.com/doylet/docsearch/internal/errors"
)

// ApplySetOverrides decodes CLI `--set key.path=value` pairs onto cfg, for
// ad hoc overrides that don't warrant a YAML file or env var. Each pair
// is turned into a nested map (dot-separated path) before being decoded
// with mapstructure; the config file itself is decoded with yaml.v3.
func ApplySetOverrides(cfg *Config, pairs []string) error {
	nested := make(map[string]any)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return svcerrors.Configuration("invalid --set override, expected key=value: "+pair, nil)
		}
		setNested(nested, strings.Split(key, "."), value)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return svcerrors.Internal("build overrides decoder", err)
	}
	if err := decoder.Decode(nested); err != nil {
		return svcerrors.Configuration("apply --set overrides", err)
	}
	return nil
}

func setNested(m map[string]any, path []string, value string) {
	if len(path) == 1 {
		m[path[0]] = value
		return
	}
	child, ok := m[path[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[path[0]] = child
	}
	setNested(child, path[1:], value)
}
