package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// fileConfig is the on-disk shape shared by every file format. Pointer
// fields tell an absent key from a zero value, so absent keys keep the
// lower-precedence setting.
type fileConfig struct {
	Store          *fileStore    `json:"store" yaml:"store" toml:"store"`
	Source         *string       `json:"source" yaml:"source" toml:"source"`
	Target         *string       `json:"target" yaml:"target" toml:"target"`
	ConcurrentLoad *bool         `json:"concurrent_load" yaml:"concurrent_load" toml:"concurrent_load"`
	Progress       *fileProgress `json:"progress" yaml:"progress" toml:"progress"`
	Log            *fileLog      `json:"log" yaml:"log" toml:"log"`
}

type fileStore struct {
	URI            *string `json:"uri" yaml:"uri" toml:"uri"`
	Database       *string `json:"database" yaml:"database" toml:"database"`
	ConnectTimeout *string `json:"connect_timeout" yaml:"connect_timeout" toml:"connect_timeout"`
	BatchSize      *int    `json:"batch_size" yaml:"batch_size" toml:"batch_size"`
	MaxOpenConns   *int    `json:"max_open_conns" yaml:"max_open_conns" toml:"max_open_conns"`
}

type fileProgress struct {
	LoadEvery  *int `json:"load_every" yaml:"load_every" toml:"load_every"`
	CheckEvery *int `json:"check_every" yaml:"check_every" toml:"check_every"`
	FoundEvery *int `json:"found_every" yaml:"found_every" toml:"found_every"`
}

type fileLog struct {
	File  *string `json:"file" yaml:"file" toml:"file"`
	Level *string `json:"level" yaml:"level" toml:"level"`
}

// applyFile decodes the file at path, chosen by extension, over cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		err = decodeCUE(path, data, &fc)
	case ".toml":
		err = decodeTOML(data, &fc)
	case ".yaml", ".yml":
		err = decodeYAML(data, &fc)
	default:
		return fmt.Errorf("unsupported config file extension %q (want .cue, .toml, .yaml)", ext)
	}
	if err != nil {
		return err
	}

	return fc.merge(cfg)
}

// decodeCUE unifies the file with the closed #Config schema, so unknown
// keys and out-of-range values fail before decoding.
func decodeCUE(path string, data []byte, fc *fileConfig) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue")).
		LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return fmt.Errorf("parse cue: %w", err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validate cue: %w", err)
	}

	if err := unified.Decode(fc); err != nil {
		return fmt.Errorf("decode cue: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, fc *fileConfig) error {
	md, err := toml.Decode(string(data), fc)
	if err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("parse toml: unknown keys %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, fc *fileConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(fc); err != nil {
		// An empty file decodes to nothing.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func (fc fileConfig) merge(cfg *Config) error {
	setString(&cfg.Source, fc.Source)
	setString(&cfg.Target, fc.Target)
	if fc.ConcurrentLoad != nil {
		cfg.ConcurrentLoad = *fc.ConcurrentLoad
	}

	if s := fc.Store; s != nil {
		setString(&cfg.Store.URI, s.URI)
		setString(&cfg.Store.Database, s.Database)
		setInt(&cfg.Store.BatchSize, s.BatchSize)
		setInt(&cfg.Store.MaxOpenConns, s.MaxOpenConns)
		if s.ConnectTimeout != nil {
			d, err := time.ParseDuration(*s.ConnectTimeout)
			if err != nil {
				return fmt.Errorf("store.connect_timeout: %w", err)
			}
			cfg.Store.ConnectTimeout = d
		}
	}

	if p := fc.Progress; p != nil {
		setInt(&cfg.Progress.LoadEvery, p.LoadEvery)
		setInt(&cfg.Progress.CheckEvery, p.CheckEvery)
		setInt(&cfg.Progress.FoundEvery, p.FoundEvery)
	}

	if l := fc.Log; l != nil {
		setString(&cfg.Log.File, l.File)
		setString(&cfg.Log.Level, l.Level)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
