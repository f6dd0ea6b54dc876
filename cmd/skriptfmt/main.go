// Command skriptfmt loads and watches skript source files from the
// command line, printing the diagnostic log produced by each load.
package main

import (
	"fmt"
	"os"

	"github.com/chaossafti/skript/diag"
	"github.com/chaossafti/skript/engine"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "skriptfmt",
		Short:         "Load and watch skript source files",
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "skriptfmt: %v\n", err)
		os.Exit(1)
	}
}

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Parse a single script file and print its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := engine.New()
			result, err := e.Load(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			printLog(result.Log)
			if result.Log.HasErrors() {
				cmd.SilenceUsage = true
				return fmt.Errorf("%s failed to load", args[0])
			}
			fmt.Printf("%s: %d trigger(s) loaded\n", result.Script.Name, len(result.Script.Triggers))
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and reload scripts as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := engine.New()
			w, err := e.Watch(dir)
			if err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			defer w.Close()
			fmt.Printf("watching %s for changes (ctrl-c to stop)\n", dir)
			w.Run()
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to watch")
	return cmd
}

func printLog(log *diag.Log) {
	for _, r := range log.Records() {
		fmt.Println(r.String())
	}
}
