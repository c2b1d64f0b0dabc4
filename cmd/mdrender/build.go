package main

import (
	"context"
	"fmt"
	"time"

	mdrender "github.com/alnah/go-mdrender"
	"github.com/alnah/go-mdrender/internal/logging"
	"github.com/alnah/go-mdrender/internal/site"
)

// runBuild builds the site rooted at the optional directory argument.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseBuildFlags(args, env)
	if err != nil {
		return err
	}
	newLogger(&f.common, env)

	root, err := firstArg(positional, ".")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(&f.common, &f.render, root, env)
	if err != nil {
		return err
	}
	if f.output != "" {
		cfg.Content.OutputDir = f.output
	}
	if f.baseURL != "" {
		cfg.Site.BaseURL = f.baseURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	env.Logger.Debug("starting build",
		logging.FieldPath, root,
		logging.FieldWorkers, mdrender.ResolvePoolSize(cfg.Render.Workers),
		logging.FieldVersion, Version)

	b, err := site.New(cfg, root, site.WithLogger(env.Logger))
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	report, err := b.Build(ctx)
	if err != nil {
		return err
	}

	printReport(report, f.common.quiet, f.common.verbose, env)
	return nil
}

// printReport outputs the build summary.
func printReport(r *site.Report, quiet, verbose bool, env *Environment) {
	if quiet {
		return
	}
	if !verbose {
		fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputDir)
		return
	}

	fmt.Fprintf(env.Stdout, "Created %s (%v)\n", r.OutputDir, r.Duration.Round(time.Millisecond))
	fmt.Fprintf(env.Stdout, "  pages:    %d\n", r.Pages)
	fmt.Fprintf(env.Stdout, "  sections: %d\n", r.Sections)
	fmt.Fprintf(env.Stdout, "  static:   %d\n", r.StaticFiles)
	if r.Sitemap {
		fmt.Fprintf(env.Stdout, "  %s\n", site.SitemapFile)
	}
	if r.Feed {
		fmt.Fprintf(env.Stdout, "  %s\n", site.FeedFile)
	}
}
