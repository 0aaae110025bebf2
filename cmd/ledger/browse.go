package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/emoji-ledger/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and prune transactions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				return tui.Run(cmd.Context(), s.store)
			})
		},
	}
}
