package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/delphia/internal/engine"
	"github.com/ppiankov/delphia/internal/rules"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Answer questions interactively",
	Long: `Repl starts an interactive session: it reads one question per line and
prints the answers until the session ends with "bye" or end of input.

Example:
  delphia repl
  delphia repl --rules-file extra-rules.yaml
  delphia repl --llm --llm-provider ollama --llm-model llama3.1:8b`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
	addQueryFlags(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := queryConfig(cmd)
	if err != nil {
		return err
	}
	if err := resolveLLMKey(cfg); err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	return runSession(context.Background(), eng, cmd.InOrStdin(), cmd.OutOrStdout())
}

// runSession drives one interactive session. Every line is dispatched as a
// question; the terminal rule or end of input ends the session.
func runSession(ctx context.Context, eng *engine.Engine, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, "Welcome to the wikipedia database!\n\n")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nYour query? ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())

		result := eng.Answer(ctx, question)
		if result.Outcome == rules.Exit {
			break
		}

		for _, answer := range result.Answers {
			fmt.Fprintln(out, answer)
		}

		if note := eng.Elaborate(ctx, question, result); note != nil && note.Text != "" {
			fmt.Fprintf(out, "[%s] %s\n", note.Provider, note.Text)
		}
	}

	fmt.Fprint(out, "\nSo long!\n\n")
	return scanner.Err()
}
