package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/kasheena/code-for-good/internal/classify"
	"github.com/kasheena/code-for-good/internal/db"
	"github.com/kasheena/code-for-good/internal/engine"
	"github.com/kasheena/code-for-good/internal/lexicon"
	"github.com/kasheena/code-for-good/internal/score"
)

//go:embed profiles/*.yaml
var builtinFS embed.FS

var ErrUnknownProfile = errors.New("unknown profile")

// Profile is a complete scoring setup: lexicon, score range and tiers.
type Profile struct {
	Name        string          `mapstructure:"name" json:"name" yaml:"name"`
	Description string          `mapstructure:"description" json:"description" yaml:"description"`
	Lexicon     lexicon.Config  `mapstructure:"lexicon" json:"lexicon" yaml:"lexicon"`
	Scoring     score.Config    `mapstructure:"scoring" json:"scoring" yaml:"scoring"`
	Tiers       classify.Config `mapstructure:"tiers" json:"tiers" yaml:"tiers"`
}

// LoadProfile reads a YAML profile from disk. A missing name defaults to the
// file's base name.
func LoadProfile(p string) (*Profile, error) {
	v := viper.New()
	v.SetConfigFile(p)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("profile: read %q: %w", p, err)
	}
	return decodeProfile(v, strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
}

// BuiltinProfile returns a fresh copy of an embedded profile.
func BuiltinProfile(name string) (*Profile, error) {
	raw, err := builtinFS.ReadFile(path.Join("profiles", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, ErrUnknownProfile)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	return decodeProfile(v, name)
}

// BuiltinProfiles lists the embedded profile names in sorted order.
func BuiltinProfiles() []string {
	entries, err := fs.ReadDir(builtinFS, "profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func decodeProfile(v *viper.Viper, fallbackName string) (*Profile, error) {
	p := &Profile{}
	if err := v.Unmarshal(p); err != nil {
		return nil, fmt.Errorf("profile %q: decode: %w", fallbackName, err)
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = fallbackName
	}
	return p, nil
}

// Resolve picks the profile named by cfg, swapping in the sqlite lexicon pack
// when one is configured.
func Resolve(cfg EngineConfig) (*Profile, error) {
	var (
		p   *Profile
		err error
	)
	if cfg.ProfilePath != "" {
		p, err = LoadProfile(cfg.ProfilePath)
	} else {
		p, err = BuiltinProfile(cfg.Profile)
	}
	if err != nil {
		return nil, err
	}
	if cfg.LexiconDB != "" {
		lex, err := db.LoadLexicon(cfg.LexiconDB)
		if err != nil {
			return nil, fmt.Errorf("profile %q: lexicon pack: %w", p.Name, err)
		}
		p.Lexicon = lex
	}
	return p, nil
}

// EngineOptions converts the profile into engine options. Provider, logger
// and metrics are left for the caller to set.
func (p *Profile) EngineOptions() engine.Options {
	return engine.Options{
		Name:    p.Name,
		Lexicon: p.Lexicon,
		Scoring: p.Scoring,
		Tiers:   p.Tiers,
	}
}
