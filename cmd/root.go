// Package cmd provides the root command and CLI setup for aac-doc.
package cmd

import (
	"fmt"
	"os"

	"github.com/DevOps-MBSE/aac-doc-mdl/internal/adapter"
	"github.com/DevOps-MBSE/aac-doc-mdl/internal/controller"
	"github.com/DevOps-MBSE/aac-doc-mdl/internal/domain"
	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var modelStore adapter.ModelStore
var artifactStore adapter.ArtifactStore
var workflow domain.Workflow
var ui controller.UI

// outputDirFlag is a root-level flag shared by every command that writes or reads artifacts.
var outputDirFlag string

// parentReqsFlag widens requirement traces with ancestor requirements.
var parentReqsFlag bool

var verboseFlag bool

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	modelStore = adapter.NewLocalModelStore()
	artifactStore = adapter.NewLocalArtifactStore()
	workflow = domain.NewWorkflow(modelStore, artifactStore, ui)
}

const documentArgsHelp = `Arguments:
  TITLE       name of the root document model
  ARCH_FILE   path to the AaC architecture file that defines the model`

const rootLongDescription = `aac-doc builds engineering documents from an AaC architecture model.

The document structure follows the model's component decomposition. Each
section is written by a generative AI service from the model's description,
requirements and behaviors, and a verification cross reference matrix (VCRM)
can be produced to show which section covers which requirement.

The AI service is configured through aac-doc.yaml or the AAC_AI_URL,
AAC_AI_MODEL, AAC_AI_KEY, AAC_AI_TYPE and AAC_AI_API_VERSION environment
variables.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "aac-doc",
		Short:        "Generate documents from AaC architecture models",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogger("", viper.GetBool(logVerboseKey))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for generated documents",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&parentReqsFlag, parentReqsFlagName, viper.GetBool(parentReqsFlagName), "include parent requirements of each traced requirement")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(parentReqsFlagName), parentReqsFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newChatGenerator builds the AI generator from the ai.* settings.
func newChatGenerator() (*adapter.ChatGenerator, error) {
	generator, err := adapter.NewChatGenerator(chatSettings())
	if err != nil {
		return nil, fmt.Errorf("configure AI service: %w", err)
	}

	return generator, nil
}

func documentArgs(args []string, temperatureKey string, generator adapter.Generator) domain.DocumentArgs {
	return domain.DocumentArgs{
		Title:            args[0],
		ArchitectureFile: m.Path(args[1]),
		Output:           m.Path(viper.GetString(outputFlagName)),
		ParentReqs:       viper.GetBool(parentReqsFlagName),
		Temperature:      viper.GetFloat64(temperatureKey),
		Generator:        generator,
	}
}
