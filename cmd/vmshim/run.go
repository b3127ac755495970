package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/leachain/vm-shim/output"
	"github.com/leachain/vm-shim/platform/process"
	"github.com/leachain/vm-shim/runtime"
	"github.com/leachain/vm-shim/shim"
)

type runOptions struct {
	funcName    string
	args        []string
	wasi        bool
	strict      bool
	interactive bool
	noColor     bool
	memoryPages uint32
}

func newRunCmd(global *globalOptions) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <file.wasm>",
		Short: "Instantiate a guest, bind its memory and call an entry point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := setupLogger(global.logLevel)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			if opts.interactive {
				return runInteractive(args[0], opts)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runGuest(ctx, args[0], opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.funcName, "func", "", "exported function to call (default: _start, then main)")
	flags.StringArrayVar(&opts.args, "arg", nil, "argument for --func, repeatable")
	flags.BoolVar(&opts.wasi, "wasi", false, "provide wasi_snapshot_preview1")
	flags.BoolVar(&opts.strict, "strict", false, "trap on log and random-bytes calls before memory is bound")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "pick functions and arguments in a TUI")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored guest output")
	flags.Uint32Var(&opts.memoryPages, "memory-limit-pages", 0, "cap guest memory in 64 KiB pages (0: no limit)")

	return cmd
}

func (o runOptions) shimConfig(sink output.Sink) shim.Config {
	return shim.Config{Strict: o.strict, Sink: sink}
}

func (o runOptions) runtimeOptions() []runtime.Option {
	opts := []runtime.Option{runtime.WithCloseOnContextDone()}
	if o.wasi {
		opts = append(opts, runtime.WithWASI(), runtime.WithStdio(os.Stdin, os.Stdout, os.Stderr))
	}
	if o.memoryPages > 0 {
		opts = append(opts, runtime.WithMemoryLimitPages(o.memoryPages))
	}
	return opts
}

func runGuest(ctx context.Context, path string, opts runOptions, stdout io.Writer) error {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var sinkOpts []output.TerminalOption
	if opts.noColor {
		sinkOpts = append(sinkOpts, output.WithColor(false))
	}
	sh, err := process.New(opts.shimConfig(output.NewTerminalSink(stdout, sinkOpts...)))
	if err != nil {
		return err
	}

	rt, err := runtime.New(ctx, sh, opts.runtimeOptions()...)
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadWASM(ctx, wasm)
	if err != nil {
		return err
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return err
	}
	defer inst.Close(ctx)

	if opts.funcName == "" {
		if len(opts.args) > 0 {
			return fmt.Errorf("--arg requires --func")
		}
		return inst.Run(ctx)
	}

	fn, ok := findFunction(mod.Exports(), opts.funcName)
	if !ok {
		return fmt.Errorf("exported function %q not found", opts.funcName)
	}
	args, err := parseArgs(opts.args, fn.Params)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.funcName, err)
	}

	results, err := inst.Call(ctx, fn.Name, args...)
	if err != nil {
		return err
	}
	if len(results) > 0 {
		fmt.Fprintln(stdout, formatResults(results, fn.Results))
	}
	return nil
}
