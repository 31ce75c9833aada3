package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/dollar/cli/cmd"
	"github.com/ardnew/dollar/pkg"
)

// CLI is the top-level command-line interface for dollar.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Render  cmd.Render `cmd:"" default:"withargs" help:"Render a template against a context"`
	Check   cmd.Check  `cmd:""                    help:"Validate template syntax without rendering"`
	Tokens  cmd.Tokens `cmd:""                    help:"Print the directive tree of a template"`
	Context cmd.Dump   `cmd:""                    help:"Print the merged context"`
	Repl    cmd.Repl   `cmd:""                    help:"Render template lines interactively"`
	Serve   cmd.Serve  `cmd:""                    help:"Serve template rendering over HTTP"`
	Init    cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the dollar CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
// An interrupt or termination signal cancels the running command.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return pkg.ErrConfig.Wrap(err)
	}

	configFilePath := configPath(baseConfig + configExt)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger flags are applied before kong parses anything so that errors
	// reported during parsing already use the requested format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return pkg.ErrInvalidArgument.Wrap(err)
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
