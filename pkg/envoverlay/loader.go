// Package envoverlay loads a configuration document and overlays selected
// values with process environment variables.
//
// A document serves every deployment environment by deferring individual
// values to the environment with placeholder strings:
//
//	host = "localhost"
//	password = "<<ENV:DB_PASSWORD>>"
//	token = "<<ENV?:API_TOKEN>>"
//
// Required placeholders (<<ENV:NAME>>) fail the load when NAME is unset;
// every missing variable across the whole document is reported in one
// aggregated error. Optional placeholders (<<ENV?:NAME>>) drop their field
// when NAME is unset, so a struct field backed by one is simply left at its
// zero value. A placeholder is only recognized when it spans the entire
// string value; "prefix<<ENV:NAME>>" stays a literal.
package envoverlay

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"envoverlay/internal/codec"
	"envoverlay/internal/overlay"
	"envoverlay/internal/tree"
)

// For mocking in tests
var osGetwd = os.Getwd

// ErrNoDefaultConfig is returned by Load when no default config file exists
// in the current working directory.
var ErrNoDefaultConfig = errors.New("no default config file found")

// ErrRootNotTable is returned when the document root is not a table.
var ErrRootNotTable = overlay.ErrRootNotTable

// MissingVariableError reports a required placeholder whose environment
// variable is not set.
type MissingVariableError = overlay.MissingVariableError

// LookupError reports an environment lookup failure other than absence.
type LookupError = overlay.LookupError

// LookupFunc reads one environment variable; see WithLookup.
type LookupFunc = overlay.LookupFunc

// Codec converts between document text and the generic value tree. TOML and
// YAML codecs ship with the module; see WithFormat.
type Codec = codec.Codec

// Errors splits an aggregated load error into its individual causes. A
// plain single-cause error yields a one-element slice.
func Errors(err error) []error {
	return multierr.Errors(err)
}

// Loader loads, resolves and decodes configuration documents.
type Loader struct {
	codec  Codec
	lookup LookupFunc
	log    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithFormat selects the document format by name ("toml", "yaml"). The
// zero-config default is TOML.
func WithFormat(name string) (Option, error) {
	c, err := codec.ForName(name)
	if err != nil {
		return nil, err
	}
	return func(l *Loader) { l.codec = c }, nil
}

// WithCodec selects a document codec directly.
func WithCodec(c Codec) Option {
	return func(l *Loader) { l.codec = c }
}

// WithLookup replaces the environment capability. The default reads the
// process environment; tests substitute a deterministic fake instead of
// mutating shared process state.
func WithLookup(fn LookupFunc) Option {
	return func(l *Loader) { l.lookup = fn }
}

// WithLogger sets the logger for debug output during loads.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New returns a Loader. Defaults: TOML documents, process environment,
// the process-wide slog logger.
func New(opts ...Option) *Loader {
	l := &Loader{
		codec:  codec.TOML{},
		lookup: overlay.OSLookup,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = slog.Default()
	}
	return l
}

// Load reads the default config file from the current working directory
// (Config.toml for the TOML codec), resolves placeholders and decodes the
// result into target. Absence of the file is ErrNoDefaultConfig, not an
// empty config.
func (l *Loader) Load(target any) error {
	path, err := l.defaultPath()
	if err != nil {
		return err
	}
	return l.LoadFile(path, target)
}

// LoadFile reads the document at path, resolves placeholders and decodes
// the result into target.
func (l *Loader) LoadFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	l.log.Debug("loaded config file", "path", path, "format", l.codec.Name())
	return l.LoadBytes(data, target)
}

// LoadString resolves placeholders in an in-memory document and decodes the
// result into target.
func (l *Loader) LoadString(text string, target any) error {
	return l.LoadBytes([]byte(text), target)
}

// LoadBytes is LoadString for raw document bytes.
func (l *Loader) LoadBytes(data []byte, target any) error {
	resolved, err := l.resolve(data)
	if err != nil {
		return err
	}
	return l.codec.Decode(resolved, target)
}

// ResolveDefault resolves the default config file and returns the resolved
// document text, without typed decoding.
func (l *Loader) ResolveDefault() (string, error) {
	path, err := l.defaultPath()
	if err != nil {
		return "", err
	}
	return l.ResolveFile(path)
}

// ResolveFile resolves the document at path and returns the resolved
// document text.
func (l *Loader) ResolveFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.ResolveString(string(data))
}

// ResolveString resolves an in-memory document and returns the resolved
// document text. Resolved values appear literally in the output, so treat
// it as sensitive when placeholders name secrets.
func (l *Loader) ResolveString(text string) (string, error) {
	resolved, err := l.resolve([]byte(text))
	if err != nil {
		return "", err
	}
	out, err := l.codec.Serialize(resolved)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// resolve runs the parse -> overlay pipeline. Parse failures are single
// errors surfaced immediately; overlay failures are returned as the
// aggregate built during the walk.
func (l *Loader) resolve(data []byte) (tree.Value, error) {
	parsed, err := l.codec.Parse(data)
	if err != nil {
		return nil, err
	}
	resolved, err := overlay.New(l.lookup).Apply(parsed)
	if err != nil {
		l.log.Debug("overlay failed", "causes", len(multierr.Errors(err)))
		return nil, err
	}
	return resolved, nil
}

func (l *Loader) defaultPath() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", fmt.Errorf("determining working directory: %w", err)
	}
	path := filepath.Join(wd, l.codec.DefaultFile())
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNoDefaultConfig, path)
		}
		return "", fmt.Errorf("checking default config file %s: %w", path, err)
	}
	return path, nil
}

// Load loads the default config file with a default Loader. See
// Loader.Load.
func Load(target any) error {
	return New().Load(target)
}

// LoadFile loads a document from an explicit path with a default Loader.
func LoadFile(path string, target any) error {
	return New().LoadFile(path, target)
}

// LoadString loads an in-memory document with a default Loader.
func LoadString(text string, target any) error {
	return New().LoadString(text, target)
}
