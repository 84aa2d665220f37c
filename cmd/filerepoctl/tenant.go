package main

import (
	"github.com/spf13/cobra"

	"filerepo/internal/model"
)

func newTenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenant upload policies",
	}
	cmd.AddCommand(newTenantCreateCmd(), newTenantGetCmd(), newTenantListCmd())
	return cmd
}

// policyFlags binds the flags of tenant create onto a PolicyInput.
func policyFlags(cmd *cobra.Command, in *model.PolicyInput) {
	f := cmd.Flags()
	f.Int64Var(&in.MaxFileSizeKB, "max-kb", 0, "maximum file size in KB (required)")
	f.StringSliceVar(&in.AllowedExtensions, "allow-ext", nil, "allowed extensions, e.g. pdf,docx")
	f.StringSliceVar(&in.ForbiddenExtensions, "forbid-ext", nil, "forbidden extensions")
	f.StringSliceVar(&in.AllowedMIMETypes, "allow-mime", nil, "allowed media types")
	f.StringSliceVar(&in.ForbiddenMIMETypes, "forbid-mime", nil, "forbidden media types")
	_ = cmd.MarkFlagRequired("max-kb")
}

func newTenantCreateCmd() *cobra.Command {
	var in model.PolicyInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant policy",
		Long: `Create a tenant with an upload policy.

Examples:
  filerepoctl tenant create --max-kb 10240 --allow-ext pdf,docx --forbid-mime text/html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			p, err := rt.tenants().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
	policyFlags(cmd, &in)
	return cmd
}

func newTenantGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <tenantId>",
		Short: "Show a tenant policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTenantID(args[0])
			if err != nil {
				return err
			}
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			p, err := rt.tenants().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newTenantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tenant policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			items, err := rt.tenants().List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
}
