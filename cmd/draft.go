package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var draftMarkdownOnlyFlag bool
var draftContentOnlyFlag bool

// draftCmd represents the gen-doc-draft command.
var draftCmd = newDraftCmd()

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-doc-draft TITLE ARCH_FILE",
		Short: "Generate a draft document from a document model",
		Long: `Generate a draft document with full content for each section.

The draft follows the model-component decomposition. Section content is
written from the linked requirements, behaviors and descriptions. Use
--content-only to leave out the engineering appendix. The output is a
markdown file plus HTML and DOCX renderings.

Because the content comes from a generative AI service it must be reviewed
by a human for quality and correctness.

` + documentArgsHelp,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			generator, err := newChatGenerator()
			if err != nil {
				return err
			}
			defer generator.Close()

			draftArgs := documentArgs(args, draftTemperatureKey, generator)
			draftArgs.ContentOnly = draftContentOnlyFlag
			draftArgs.MarkdownOnly = draftMarkdownOnlyFlag

			return workflow.Draft(cmd.Context(), draftArgs)
		},
	}

	configureDraftFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(draftCmd)
}

func configureDraftFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P(temperatureFlagName, "t", viper.GetFloat64(draftTemperatureKey), "temperature passed to the AI service")
	bindFlagToConfig(cmd.Flags().Lookup(temperatureFlagName), draftTemperatureKey)
	cmd.Flags().BoolVar(&draftContentOnlyFlag, contentOnlyFlagName, false, "omit requirements and behaviors from the document")
	cmd.Flags().BoolVar(&draftMarkdownOnlyFlag, markdownOnlyFlagName, false, "write only the markdown file")
}
