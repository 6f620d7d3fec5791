package medstockctl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newChatCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask questions interactively; type 'exit' to quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, opts)
		},
	}
}

// runChat reads one question per line until "exit" or end of input. A failed
// question is reported and the loop continues.
func runChat(cmd *cobra.Command, opts *Options) error {
	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	interactive := isTerminal(in)

	_, _ = fmt.Fprintln(out, "Welcome to the medstock assistant! Type 'exit' to quit.")
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			_, _ = fmt.Fprint(out, "You: ")
		}
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") {
			break
		}

		answer, _, err := ask(cmd, opts, question)
		if err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
			continue
		}
		_, _ = fmt.Fprintf(out, "Assistant: %s\n", answer.Answer)
	}
	if err := scanner.Err(); err != nil {
		return failed("read input: %v", err)
	}
	_, _ = fmt.Fprintln(out, "Goodbye!")
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
