package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filerepo/internal/index"
)

func newEmbedCmd() *cobra.Command {
	var resume bool
	cmd := &cobra.Command{
		Use:   "embed <tenantId> <fileId>",
		Short: "Generate page embeddings for a stored PDF",
		Long: `Extract the pages of a stored PDF and embed each one with the configured
provider. With --resume, pages that already have an embedding are skipped,
which continues a run that stopped part way.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			svc, err := rt.embeddings(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Generate(cmd.Context(), tenantID, args[1], index.GenerateOptions{Resume: resume})
			if err != nil {
				if res != nil {
					return fmt.Errorf("stopped after page %d (rerun with --resume): %w", res.LastPage, err)
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().BoolVar(&resume, "resume", false, "skip pages that already have an embedding")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <tenantId> <fileId> <query...>",
		Short: "Rank the pages of a file against a query",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			svc, err := rt.embeddings(cmd.Context())
			if err != nil {
				return err
			}
			hits, err := svc.Search(cmd.Context(), tenantID, args[1], strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), hits)
		},
	}
}
