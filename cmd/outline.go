package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var outlineMarkdownOnlyFlag bool

// outlineCmd represents the gen-doc-outline command.
var outlineCmd = newOutlineCmd()

func newOutlineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-doc-outline TITLE ARCH_FILE",
		Short: "Generate an annotated outline of a document model",
		Long: `Generate an annotated outline with an abstract for each section.

The outline follows the model-component decomposition. Each abstract is
written from the linked requirements, behaviors and descriptions, and every
section carries an engineering appendix listing them. The output is a
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

			outlineArgs := documentArgs(args, outlineTemperatureKey, generator)
			outlineArgs.MarkdownOnly = outlineMarkdownOnlyFlag

			return workflow.Outline(cmd.Context(), outlineArgs)
		},
	}

	configureOutlineFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}

func configureOutlineFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P(temperatureFlagName, "t", viper.GetFloat64(outlineTemperatureKey), "temperature passed to the AI service")
	bindFlagToConfig(cmd.Flags().Lookup(temperatureFlagName), outlineTemperatureKey)
	cmd.Flags().BoolVar(&outlineMarkdownOnlyFlag, markdownOnlyFlagName, false, "write only the markdown file")
}
