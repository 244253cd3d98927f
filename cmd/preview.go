package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DevOps-MBSE/aac-doc-mdl/internal/preview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var previewAddrFlag string

// previewCmd represents the preview command.
var previewCmd = newPreviewCmd()

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [dir]",
		Short: "Serve generated markdown documents as HTML",
		Long: `Start a local web server that renders the markdown documents in a
directory (default: the output directory) as HTML. Stop it with Ctrl+C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := viper.GetString(outputFlagName)
			if len(args) == 1 {
				dir = args[0]
			}

			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("preview directory: %w", err)
			}

			if !info.IsDir() {
				return fmt.Errorf("preview directory: %s is not a directory", dir)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := viper.GetString(previewAddrKey)
			cmd.Printf("Serving %s on http://%s\n", dir, addr)

			return preview.NewServer(dir, slog.Default()).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&previewAddrFlag, addrFlagName, viper.GetString(previewAddrKey), "address to listen on")
	bindFlagToConfig(cmd.Flags().Lookup(addrFlagName), previewAddrKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
