package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdrender <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range getCommands() {
		fmt.Fprintf(w, "  %-11s%s\n", c.Name, c.Desc)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdrender help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Browser timeout per math or diagram (e.g., 30s)")
	fmt.Fprintln(w, "      --math <mode>         Math: client (browser-side), katex (server-side)")
	fmt.Fprintln(w, "      --diagrams <mode>     Diagrams: client (browser-side), mermaid (server-side)")
	fmt.Fprintln(w, "      --theme <name>        Highlight theme for hl.css (see 'mdrender css --list')")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdrender build [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the site rooted at dir (default: current directory).")
	fmt.Fprintln(w, "Reads dir/mdrender.yaml when present and no --config is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  dir    Site root holding content/, static/ and assets/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: public)")
	fmt.Fprintln(w, "      --base-url <url>      Absolute site URL; enables sitemap.xml and feed.xml")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDRENDER_CONFIG, MDRENDER_BASE_URL, MDRENDER_OUTPUT_DIR, MDRENDER_THEME,")
	fmt.Fprintln(w, "  MDRENDER_MATH, MDRENDER_DIAGRAMS, MDRENDER_TIMEOUT, MDRENDER_WORKERS,")
	fmt.Fprintln(w, "  MDRENDER_LOG_LEVEL (debug, info, warn, error)")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdrender render <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the HTML fragment of a markdown file. Frontmatter, when present, is")
	fmt.Fprintln(w, "validated and stripped.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fragment:")
	fmt.Fprintln(w, "      --toc                 Print the table of contents before the body")
	fmt.Fprintln(w, "      --file-links          Rewrite relative links to file:// URLs")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printOutlineUsage prints usage for the outline command.
func printOutlineUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdrender outline <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the heading tree of a markdown file with each heading's anchor id.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Levels:")
	fmt.Fprintln(w, "      --min-level <n>       Shallowest heading level (default: 2)")
	fmt.Fprintln(w, "      --max-level <n>       Deepest heading level (default: 6)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printCSSUsage prints usage for the css command.
func printCSSUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdrender css [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the hl-* highlight stylesheet for a theme.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --theme <name>        Theme name (default: github)")
	fmt.Fprintln(w, "      --list                List available themes (* marks the default)")
	fmt.Fprintln(w, "      --base                Print the page stylesheet instead")
}

// printLanguagesUsage prints usage for the languages command.
func printLanguagesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdrender languages [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List highlight languages with their backend, load status and fence tags.")
	fmt.Fprintln(w, "Exits non-zero when a grammar fails to load.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --all                 Include languages only reachable through injections")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdrender doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, grammars and the environment.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	if !isCommand(args[0]) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "outline":
		printOutlineUsage(env.Stdout)
	case "css":
		printCSSUsage(env.Stdout)
	case "languages":
		printLanguagesUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdrender version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdrender help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	}
}
