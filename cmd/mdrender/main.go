package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-mdrender/internal/config"
	"github.com/alnah/go-mdrender/internal/fileutil"
	"github.com/alnah/go-mdrender/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

// errUnknownCommand is a usage error.
var errUnknownCommand = errors.New("unknown command")

func main() {
	verbose := hasFlag(os.Args[1:], "-v", "--verbose")

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	warnUnknownEnvVars(env)

	cmd, cmdArgs := args[1], args[2:]
	var err error
	switch cmd {
	case "build":
		err = runBuild(ctx, cmdArgs, env)
	case "render":
		err = runRender(ctx, cmdArgs, env)
	case "outline":
		err = runOutline(ctx, cmdArgs, env)
	case "css":
		err = runCSS(cmdArgs, env)
	case "languages":
		err = runLanguages(cmdArgs, env)
	case "doctor":
		return runDoctorCmd(cmdArgs, env)
	case "completion":
		err = runCompletion(cmdArgs, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdrender %s\n", Version)
	case "help", "-h", "--help":
		runHelp(cmdArgs, env)
	default:
		err = fmt.Errorf("%w: %s", errUnknownCommand, cmd)
		printUsage(env.Stderr)
	}

	if err != nil {
		if errors.Is(err, errHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isCommand reports whether name is a known command.
func isCommand(name string) bool {
	for _, c := range getCommands() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// hasFlag reports whether any of names appears before a "--" terminator.
func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		for _, n := range names {
			if a == n {
				return true
			}
		}
	}
	return false
}

// newLogger sets the command logger: errors only with --quiet, debug with
// --verbose, otherwise the MDRENDER_LOG_LEVEL level.
func newLogger(f *commonFlags, env *Environment) {
	level := env.Getenv(logging.EnvLevel)
	switch {
	case f.quiet:
		level = "error"
	case f.verbose:
		level = "debug"
	}
	env.Logger = logging.New(env.Stderr, level)
}

// loadConfig resolves configuration for a site rooted at root.
// Priority: CLI flags > MDRENDER_* env > config file > defaults.
// Without --config, a mdrender.yaml or mdrender.yml in root is used when
// present.
func loadConfig(f *commonFlags, rf *renderFlags, root string, env *Environment) (*config.Config, error) {
	ec := loadEnvConfig(env)

	name := f.config
	if name == "" {
		name = ec.ConfigPath
	}
	if name == "" {
		for _, ext := range []string{".yaml", ".yml"} {
			p := filepath.Join(root, defaultConfigName+ext)
			if fileutil.FileExists(p) {
				// LoadConfig treats bare names as config names.
				if !fileutil.IsFilePath(p) {
					p = "." + string(filepath.Separator) + p
				}
				name = p
				break
			}
		}
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(ec, cfg)
	if rf != nil {
		if err := mergeFlags(rf, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// firstArg returns the only positional argument, or def when there is none.
func firstArg(args []string, def string) (string, error) {
	switch len(args) {
	case 0:
		if def == "" {
			return "", errMissingArg
		}
		return def, nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: %s", errExtraArgs, strings.Join(args[1:], " "))
	}
}
