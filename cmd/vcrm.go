package cmd

import (
	"github.com/DevOps-MBSE/aac-doc-mdl/internal/domain"
	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// vcrmCmd represents the gen-doc-vcrm command.
var vcrmCmd = newVcrmCmd()

func newVcrmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-doc-vcrm TITLE ARCH_FILE",
		Short: "Generate a verification cross reference matrix",
		Long: `Generate a verification cross reference matrix (VCRM) for a document model.

Each row is a requirement and each column a document section; a cell is
marked when the section traces the requirement. The matrix is written as CSV
and as a markdown table. The command fails when a requirement is not covered
by any section.

` + documentArgsHelp,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Vcrm(cmd.Context(), domain.VcrmArgs{
				Title:            args[0],
				ArchitectureFile: m.Path(args[1]),
				Output:           m.Path(viper.GetString(outputFlagName)),
				ParentReqs:       viper.GetBool(parentReqsFlagName),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(vcrmCmd)
}
