package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll commands (require a session token from join)",
	}

	cmd.AddCommand(newPollCreateCmd())
	cmd.AddCommand(newPollListCmd())
	cmd.AddCommand(newPollResultsCmd())
	cmd.AddCommand(newPollVoteCmd())
	cmd.AddCommand(newPollDeleteCmd())

	return cmd
}

func newPollCreateCmd() *cobra.Command {
	var question string
	var options []string
	var anonymize bool
	var multiSelect bool

	cmd := &cobra.Command{
		Use:   "create <townID>",
		Short: "Create a poll in a town",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"question": question,
				"options":  options,
				"settings": map[string]bool{
					"anonymize":   anonymize,
					"multiSelect": multiSelect,
				},
			}

			var result PollCreated

			path := fmt.Sprintf("/api/v1/towns/%s/polls", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&question, "question", "", "Poll question (required)")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Poll option (repeat for each option)")
	cmd.Flags().BoolVar(&anonymize, "anonymize", false, "Hide voter identities in results")
	cmd.Flags().BoolVar(&multiSelect, "multi-select", false, "Allow voting for multiple options")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("option")

	return cmd
}

func newPollListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <townID>",
		Short: "List a town's polls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PollInfo

			path := fmt.Sprintf("/api/v1/towns/%s/polls", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPollResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <townID> <pollID>",
		Short: "Get a poll's results",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PollResults

			path := fmt.Sprintf("/api/v1/towns/%s/polls/%s", args[0], args[1])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPollVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <townID> <pollID> <optionIndex>...",
		Short: "Vote in a poll by option index",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			votes := make([]int, 0, len(args)-2)
			for _, arg := range args[2:] {
				idx, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid option index %q", arg)
				}
				votes = append(votes, idx)
			}

			req := map[string][]int{"userVotes": votes}

			path := fmt.Sprintf("/api/v1/towns/%s/polls/%s/vote", args[0], args[1])
			if err := client.Post(path, req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Vote recorded")
			return nil
		},
	}
}

func newPollDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <townID> <pollID>",
		Short: "Delete a poll you created",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/towns/%s/polls/%s", args[0], args[1])
			if err := client.Delete(path); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Deleted poll %s", args[1]))
			return nil
		},
	}
}
