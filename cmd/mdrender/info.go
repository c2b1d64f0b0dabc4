package main

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/assets"
	"github.com/alnah/go-mdrender/internal/logging"
	"github.com/alnah/go-mdrender/internal/site"
	"github.com/alnah/go-mdrender/internal/theme"
)

// errLanguagesFailed reports grammars that did not load.
var errLanguagesFailed = errors.New("languages failed to load")

// runCSS prints the highlight stylesheet, the page stylesheet, or the
// theme names.
func runCSS(args []string, env *Environment) error {
	f, positional, err := parseCSSFlags(args, env)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: %s", errExtraArgs, strings.Join(positional, " "))
	}

	switch {
	case f.list:
		for _, name := range theme.Names() {
			marker := " "
			if name == theme.DefaultTheme {
				marker = "*"
			}
			fmt.Fprintf(env.Stdout, "%s %s\n", marker, name)
		}
		return nil
	case f.base:
		css, err := assets.Embedded().Read(assets.Style, assets.BaseStyle)
		if err != nil {
			return err
		}
		fmt.Fprint(env.Stdout, css)
		return nil
	}

	css, err := theme.CSS(cmp.Or(f.theme, theme.DefaultTheme))
	if err != nil {
		return err
	}
	fmt.Fprint(env.Stdout, css)
	return nil
}

// runLanguages prints every highlight language with its backend, load
// status and fence tags. It fails when any grammar does not load.
func runLanguages(args []string, env *Environment) error {
	f, err := parseLanguagesFlags(args, env)
	if err != nil {
		return err
	}
	newLogger(&f.common, env)

	cfg, err := loadConfig(&f.common, nil, ".", env)
	if err != nil {
		return err
	}
	r, err := mdrender.NewRenderer(site.RendererOptions(cfg, env.Logger)...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	failed := printLanguages(env, r.Languages(), f.all)
	if failed > 0 {
		return fmt.Errorf("%w: %d", errLanguagesFailed, failed)
	}
	return nil
}

// printLanguages writes the language table and returns the failure count.
func printLanguages(env *Environment, langs []mdrender.LanguageStatus, all bool) int {
	table := tablewriter.NewWriter(env.Stdout)
	table.SetHeader([]string{"Language", "Backend", "Status", "Aliases"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	failed := 0
	for _, l := range langs {
		if l.Internal && !all {
			continue
		}
		status := "ok"
		if !l.Loaded {
			failed++
			status = "error"
			env.Logger.Error("grammar failed", logging.FieldLanguage, l.Name, logging.FieldError, l.Err)
		}
		aliases := strings.Join(l.Aliases, ", ")
		if l.Internal {
			aliases = cmp.Or(aliases, "(injection only)")
		}
		table.Append([]string{l.Name, l.Backend, status, aliases})
	}
	table.Render()
	return failed
}
