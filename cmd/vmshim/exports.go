package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/leachain/vm-shim/output"
	"github.com/leachain/vm-shim/platform/process"
	"github.com/leachain/vm-shim/runtime"
	"github.com/leachain/vm-shim/shim"
)

func newExportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exports <file.wasm>",
		Short: "List a guest's exported functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listExports(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}
}

func listExports(ctx context.Context, path string, w io.Writer) error {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	sh, err := process.New(shim.Config{Sink: output.Discard})
	if err != nil {
		return err
	}
	rt, err := runtime.New(ctx, sh, runtime.WithWASI())
	if err != nil {
		return err
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadWASM(ctx, wasm)
	if err != nil {
		return err
	}
	defer mod.Close(ctx)

	fmt.Fprintf(w, "Module: %s\n", path)
	if mod.HasMemory() {
		fmt.Fprintf(w, "Memory: exported as %q\n", shim.MemoryExport)
	} else {
		fmt.Fprintln(w, "Memory: not exported")
	}

	fmt.Fprintln(w, "\nExported functions:")
	for _, f := range mod.Exports() {
		fmt.Fprintf(w, "  %s\n", formatSignature(f))
	}
	return nil
}
