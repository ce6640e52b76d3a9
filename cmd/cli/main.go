package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gostat/adapters/bridge"
	"gostat/domain/core"
	"gostat/internal/config"
	"gostat/internal/container"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gostat",
		Short:         "Run statistical methods on JSON execution requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newMethodsCmd(),
		newRunCmd(),
		newBatchCmd(),
	)
	return rootCmd
}

func buildContainer(cmd *cobra.Command) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.NewWithWriter(cfg, cmd.ErrOrStderr())
}

func newMethodsCmd() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List the registered methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(cmd)
			if err != nil {
				return err
			}
			for _, m := range c.Dispatcher.Methods(locale) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-14s %s\n", m.ID, m.Family, m.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Label locale (en, ko)")
	return cmd
}

func newRunCmd() *cobra.Command {
	var file string
	var method string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one request and print its result envelope",
		Long: `Execute one execution request read from a file or stdin.

Example: gostat run --file request.json
         cat request.json | gostat run --file - --method mann-whitney`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			c, err := buildContainer(cmd)
			if err != nil {
				return err
			}

			req, err := bridge.DecodeRequest(raw, c.Config.Analysis.MaxRows)
			if err != nil {
				return err
			}
			if method != "" {
				req.Method = method
			}
			if strings.TrimSpace(req.Method) == "" {
				return &core.FieldError{Kind: core.ErrInvalidPayload, Field: "method", Detail: "set it in the request or with --method"}
			}

			env, err := c.Dispatcher.ExecuteMethod(cmd.Context(), req)
			if err != nil {
				return err
			}
			out, err := bridge.EncodeEnvelope(env)
			if err != nil {
				return err
			}
			return writeIndented(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "Request JSON file, - for stdin")
	cmd.Flags().StringVar(&method, "method", "", "Method id overriding the request's method")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Execute a {\"requests\": [...]} document concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			c, err := buildContainer(cmd)
			if err != nil {
				return err
			}

			reqs, err := bridge.DecodeBatch(raw, c.Config.Analysis.MaxRows)
			if err != nil {
				return err
			}
			outcomes, err := c.Runner.Run(cmd.Context(), reqs)
			if err != nil {
				return err
			}

			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s: error: %v\n", o.Index, o.Method, o.Err)
					continue
				}
				out, err := bridge.EncodeEnvelope(o.Envelope)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s (%s): %s\n", o.Index, o.Method, o.Duration, out)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d requests failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "Batch JSON file, - for stdin")
	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" || file == "" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return raw, nil
}

func writeIndented(w io.Writer, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
