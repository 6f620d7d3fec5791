package medstockctl

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

type answerResponse struct {
	Answer   string `json:"answer"`
	Found    bool   `json:"found"`
	SupplyID int64  `json:"supply_id"`
	AnswerID string `json:"answer_id"`
}

func newGetCommand(opts *Options, use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := newClient(opts).do(cmd.Context(), http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			writeResponse(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

func newSnapshotRunCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot-run",
		Short: "Write a stock snapshot now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := newClient(opts).do(cmd.Context(), http.MethodPost, "/v1/snapshots/run", nil)
			if err != nil {
				return err
			}
			writeResponse(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

func newAskCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask one inventory question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			answer, raw, err := ask(cmd, opts, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				writeResponse(cmd.OutOrStdout(), raw)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), answer.Answer)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the full JSON response")
	return cmd
}

func ask(cmd *cobra.Command, opts *Options, question string) (answerResponse, []byte, error) {
	raw, err := newClient(opts).do(cmd.Context(), http.MethodPost, "/v1/assistant", map[string]string{"question": question})
	if err != nil {
		return answerResponse{}, nil, err
	}
	var answer answerResponse
	if err := json.Unmarshal(raw, &answer); err != nil {
		return answerResponse{}, nil, failed("decode answer: %v", err)
	}
	return answer, raw, nil
}
