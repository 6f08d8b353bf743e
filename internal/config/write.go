package config

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	svcerrors "github.com/doylet/docsearch/internal/errors"
)

// WriteYAML persists cfg to path under an exclusive cross-process file
// lock, so concurrent `docsearch` invocations (e.g. a running server and
// a CLI `config set`) never interleave writes and corrupt the file —
// same lock discipline as the teacher's embedding-model download lock.
func WriteYAML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return svcerrors.Configuration("create config directory", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return svcerrors.Configuration("acquire config file lock", err)
	}
	defer lock.Unlock()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return svcerrors.Configuration("marshal config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return svcerrors.Configuration("write config file", err)
	}
	return nil
}
