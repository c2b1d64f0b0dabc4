package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdrender/internal/config"
)

// Flag validation and argument errors.
var (
	errHelp           = errors.New("help requested")
	errInvalidFlag    = errors.New("invalid flag")
	errMissingArg     = errors.New("missing argument")
	errExtraArgs      = errors.New("unexpected arguments")
	errInvalidWorkers = errors.New("invalid worker count")
	errInvalidTimeout = errors.New("invalid timeout")
)

// maxWorkers caps --workers; each worker may own a Chrome page.
const maxWorkers = 32

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags override the render and browser config sections.
type renderFlags struct {
	workers  int
	timeout  string
	math     string
	diagrams string
	theme    string
}

// buildFlags holds flags for the build command.
type buildFlags struct {
	common  commonFlags
	render  renderFlags
	output  string
	baseURL string
}

// renderCmdFlags holds flags for the render command.
type renderCmdFlags struct {
	common    commonFlags
	render    renderFlags
	toc       bool
	fileLinks bool
}

// outlineFlags holds flags for the outline command.
type outlineFlags struct {
	common   commonFlags
	minLevel int
	maxLevel int
}

// cssFlags holds flags for the css command.
type cssFlags struct {
	theme string
	list  bool
	base  bool
}

// languagesFlags holds flags for the languages command.
type languagesFlags struct {
	common commonFlags
	all    bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addRenderFlags adds renderer override flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "browser timeout per math or diagram (e.g., 30s, 2m)")
	fs.StringVar(&f.math, "math", "", "math rendering: client, katex")
	fs.StringVar(&f.diagrams, "diagrams", "", "diagram rendering: client, mermaid")
	fs.StringVar(&f.theme, "theme", "", "highlight theme for hl.css")
}

// newFlagSet returns a FlagSet reporting errors and usage to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse maps pflag's help sentinel onto errHelp.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return fmt.Errorf("%w: %v", errInvalidFlag, err)
	}
	return nil
}

func buildFlagSet(f *buildFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("build", w, printBuildUsage)
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.baseURL, "base-url", "", "absolute site URL (enables sitemap and feed)")
	return fs
}

func renderFlagSet(f *renderCmdFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("render", w, printRenderUsage)
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	fs.BoolVar(&f.toc, "toc", false, "print the table of contents before the body")
	fs.BoolVar(&f.fileLinks, "file-links", false, "rewrite relative links to file:// URLs")
	return fs
}

func outlineFlagSet(f *outlineFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("outline", w, printOutlineUsage)
	addCommonFlags(fs, &f.common)
	fs.IntVar(&f.minLevel, "min-level", 2, "shallowest heading level (1-6)")
	fs.IntVar(&f.maxLevel, "max-level", 6, "deepest heading level (1-6)")
	return fs
}

func cssFlagSet(f *cssFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("css", w, printCSSUsage)
	fs.StringVar(&f.theme, "theme", "", "highlight theme (default: github)")
	fs.BoolVar(&f.list, "list", false, "list available themes")
	fs.BoolVar(&f.base, "base", false, "print the page stylesheet instead")
	return fs
}

func languagesFlagSet(f *languagesFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("languages", w, printLanguagesUsage)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.all, "all", false, "include languages only reachable through injections")
	return fs
}

func doctorFlagSet(f *doctorFlags, w io.Writer) *flag.FlagSet {
	fs := newFlagSet("doctor", w, printDoctorUsage)
	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	return fs
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, env *Environment) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := buildFlagSet(f, env.Stderr)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, env *Environment) (*renderCmdFlags, []string, error) {
	f := &renderCmdFlags{}
	fs := renderFlagSet(f, env.Stderr)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseOutlineFlags parses outline command flags and returns positional args.
func parseOutlineFlags(args []string, env *Environment) (*outlineFlags, []string, error) {
	f := &outlineFlags{}
	fs := outlineFlagSet(f, env.Stderr)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	if f.minLevel < 1 || f.maxLevel > 6 || f.minLevel > f.maxLevel {
		return nil, nil, fmt.Errorf("%w: heading levels %d-%d", config.ErrInvalidValue, f.minLevel, f.maxLevel)
	}
	return f, fs.Args(), nil
}

// parseCSSFlags parses css command flags and returns positional args.
func parseCSSFlags(args []string, env *Environment) (*cssFlags, []string, error) {
	f := &cssFlags{}
	fs := cssFlagSet(f, env.Stderr)
	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseLanguagesFlags parses languages command flags.
func parseLanguagesFlags(args []string, env *Environment) (*languagesFlags, error) {
	f := &languagesFlags{}
	fs := languagesFlagSet(f, env.Stderr)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: %s", errExtraArgs, strings.Join(fs.Args(), " "))
	}
	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, env *Environment) (*doctorFlags, error) {
	f := &doctorFlags{}
	if err := parse(doctorFlagSet(f, env.Stderr), args); err != nil {
		return nil, err
	}
	return f, nil
}

// mergeFlags applies set render flags over cfg. CLI wins.
func mergeFlags(f *renderFlags, cfg *config.Config) error {
	if err := validateWorkers(f.workers); err != nil {
		return err
	}
	if f.workers > 0 {
		cfg.Render.Workers = f.workers
	}
	if f.timeout != "" {
		d, err := parseTimeout(f.timeout)
		if err != nil {
			return err
		}
		cfg.Browser.Timeout = config.Duration{Duration: d}
	}
	if f.math != "" {
		cfg.Render.Math = f.math
	}
	if f.diagrams != "" {
		cfg.Render.Diagrams = f.diagrams
	}
	if f.theme != "" {
		cfg.Render.Theme = f.theme
	}
	return nil
}

// validateWorkers checks the worker count is within range.
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", errInvalidWorkers, n, maxWorkers)
	}
	return nil
}

// parseTimeout parses a positive duration.
func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidTimeout, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", errInvalidTimeout, s)
	}
	return d, nil
}
