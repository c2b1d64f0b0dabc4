// Package grammar owns the language catalog: fence-tag aliases, tree-sitter
// grammars with their highlight, injection and locals queries, and the
// chroma lexers used for languages without a bundled grammar.
package grammar

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/log"
	"github.com/go-enry/go-enry/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/alnah/go-mdrender/internal/logging"
)

//go:embed queries
var embeddedQueries embed.FS

// Sentinel errors for grammar loading.
var (
	ErrGrammarLoad     = errors.New("grammar load failed")
	ErrUnknownLanguage = errors.New("unknown language")
)

// Query file names inside each queries/<dir>/ directory.
const (
	highlightsFile = "highlights.scm"
	injectionsFile = "injections.scm"
	localsFile     = "locals.scm"
)

// Config is the compiled, read-only form of one language.
type Config struct {
	Language Language
	Backend  Backend

	// Tree-sitter backend.
	Sitter     *sitter.Language
	Highlights *Query
	Injections *Query // nil when the language has no injections
	Locals     *Query // nil when the language has no locals

	// Chroma backend.
	Lexer chroma.Lexer
}

type entry struct {
	once sync.Once
	cfg  *Config
	err  error
}

// Registry resolves fence tags to languages and lazily compiles grammars.
// It is immutable after NewRegistry returns and safe for concurrent use.
type Registry struct {
	aliases map[string]Language
	entries map[Language]*entry
	queries fs.FS
	logger  *log.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// Register adds aliases for lang. Later registrations of the same alias win.
func Register(lang Language, aliases ...string) Option {
	return func(r *Registry) {
		for _, a := range aliases {
			if a = normalizeTag(a); a != "" {
				r.aliases[a] = lang
			}
		}
	}
}

// WithLogger sets the logger used for grammar load warnings.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// withQueries replaces the embedded query tree.
func withQueries(fsys fs.FS) Option {
	return func(r *Registry) {
		r.queries = fsys
	}
}

// NewRegistry builds a registry holding the default aliases plus opts.
func NewRegistry(opts ...Option) *Registry {
	verifyTables()

	sub, err := fs.Sub(embeddedQueries, "queries")
	if err != nil {
		panic(fmt.Sprintf("grammar: embedded queries: %v", err))
	}

	r := &Registry{
		aliases: make(map[string]Language),
		entries: make(map[Language]*entry, len(languageNames)),
		queries: sub,
	}
	for _, lang := range AllLanguages() {
		r.entries[lang] = &entry{}
		for _, a := range defaultAliases[lang] {
			r.aliases[a] = lang
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Lookup resolves a fence tag. Internal languages and languages whose
// grammar failed to load are reported as absent.
func (r *Registry) Lookup(tag string) (Language, bool) {
	lang, ok := r.aliases[normalizeTag(tag)]
	if !ok || lang.Internal() {
		return Unknown, false
	}
	if _, ok := r.Load(lang); !ok {
		return Unknown, false
	}
	return lang, true
}

// Load returns the compiled configuration for lang, compiling it on first
// use. A failed compilation is logged once and remembered.
func (r *Registry) Load(lang Language) (*Config, bool) {
	cfg, err := r.LoadErr(lang)
	return cfg, err == nil
}

// LoadErr is Load with the failure cause.
func (r *Registry) LoadErr(lang Language) (*Config, error) {
	e, ok := r.entries[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLanguage, uint8(lang))
	}
	e.once.Do(func() {
		e.cfg, e.err = r.compile(lang)
		if e.err != nil {
			r.log().Warn("grammar unavailable",
				logging.FieldLanguage, lang.String(),
				logging.FieldError, e.err)
		}
	})
	return e.cfg, e.err
}

func (r *Registry) log() *log.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logging.Default()
}

func (r *Registry) compile(lang Language) (*Config, error) {
	switch lang.Backend() {
	case BackendChroma:
		lexer := lexers.Get(lang.String())
		if lexer == nil {
			return nil, fmt.Errorf("%w: no lexer for %s", ErrGrammarLoad, lang)
		}
		return &Config{Language: lang, Backend: BackendChroma, Lexer: lexer}, nil

	case BackendTreeSitter:
		get, ok := sitterLanguages[lang]
		if !ok {
			return nil, fmt.Errorf("%w: no grammar for %s", ErrGrammarLoad, lang)
		}
		cfg := &Config{Language: lang, Backend: BackendTreeSitter, Sitter: get()}

		var err error
		if cfg.Highlights, err = r.compileQuery(cfg.Sitter, lang, highlightsFile); err != nil {
			return nil, err
		}
		if cfg.Highlights == nil {
			return nil, fmt.Errorf("%w: %s has no %s", ErrGrammarLoad, lang, highlightsFile)
		}
		if cfg.Injections, err = r.compileQuery(cfg.Sitter, lang, injectionsFile); err != nil {
			return nil, err
		}
		if cfg.Locals, err = r.compileQuery(cfg.Sitter, lang, localsFile); err != nil {
			return nil, err
		}
		return cfg, nil

	default:
		return nil, fmt.Errorf("%w: %s has no backend", ErrGrammarLoad, lang)
	}
}

// compileQuery concatenates file from every query directory of lang.
// It returns nil without error when no directory provides the file.
func (r *Registry) compileQuery(sl *sitter.Language, lang Language, file string) (*Query, error) {
	var src []byte
	for _, dir := range queryDirs(lang) {
		data, err := fs.ReadFile(r.queries, path.Join(dir, file))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s/%s: %v", ErrGrammarLoad, dir, file, err)
		}
		src = append(src, data...)
		src = append(src, '\n')
	}
	if len(src) == 0 {
		return nil, nil
	}
	q, err := compileQuery(sl, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrGrammarLoad, lang, file, err)
	}
	return q, nil
}

// MarkerKind says how an injection names its language.
type MarkerKind uint8

const (
	// MarkerName comes from a #set! injection.language directive.
	MarkerName MarkerKind = iota
	// MarkerMatch comes from the text of an @injection.language capture.
	MarkerMatch
	// MarkerFilename comes from an @injection.filename capture.
	MarkerFilename
	// MarkerShebang comes from an @injection.shebang capture.
	MarkerShebang
)

// Marker identifies the language of an injected region.
type Marker struct {
	Kind  MarkerKind
	Value string
}

// ResolveInjection maps an injection marker to a loaded language. Linguist
// names such as "Shell" or "JavaScript" are normalised through go-enry.
// Filename and shebang markers are not supported and never resolve.
func (r *Registry) ResolveInjection(m Marker) (Language, bool) {
	switch m.Kind {
	case MarkerName, MarkerMatch:
	default:
		return Unknown, false
	}

	tag := normalizeTag(m.Value)
	if tag == "" {
		return Unknown, false
	}
	lang, ok := r.aliases[tag]
	if !ok {
		name, found := enry.GetLanguageByAlias(tag)
		if !found {
			return Unknown, false
		}
		if lang, ok = r.aliases[normalizeTag(name)]; !ok {
			return Unknown, false
		}
	}
	if _, ok := r.Load(lang); !ok {
		return Unknown, false
	}
	return lang, true
}

// Status describes one language for diagnostics.
type Status struct {
	Language Language
	Backend  Backend
	Aliases  []string
	Internal bool
	Loaded   bool
	Err      error
}

// Languages compiles every language and reports its status in enum order.
func (r *Registry) Languages() []Status {
	byLang := make(map[Language][]string)
	for alias, lang := range r.aliases {
		byLang[lang] = append(byLang[lang], alias)
	}

	out := make([]Status, 0, len(r.entries))
	for _, lang := range AllLanguages() {
		aliases := byLang[lang]
		sort.Strings(aliases)
		_, err := r.LoadErr(lang)
		out = append(out, Status{
			Language: lang,
			Backend:  lang.Backend(),
			Aliases:  aliases,
			Internal: lang.Internal(),
			Loaded:   err == nil,
			Err:      err,
		})
	}
	return out
}
