// Reposync keeps local add-on repository listings in step with their
// published manifests.
//
// Configuration is read from "reposync.yaml" (or the file named with
// --config), then REPOSYNC_* environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("exiting")
		stop()
		os.Exit(1)
	}
}

type rootFlags struct {
	config string
}

func newRootCmd() *cobra.Command {
	var f rootFlags
	var a *app
	cmd := &cobra.Command{
		Use:   "reposync",
		Short: "Synchronize add-on repository listings",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f.config)
			if err != nil {
				return err
			}
			lvl, _ := zerolog.ParseLevel(cfg.Log.Level)
			l := log.Logger.Level(lvl)
			ctx := l.WithContext(cmd.Context())
			a, err = newApp(ctx, cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&f.config, "config", "c", "", "config file (default "+defaultConfigFile+" if present)")
	get := func() *app { return a }
	cmd.AddCommand(
		newSyncCmd(get),
		newOnceCmd(get),
		newListCmd(get),
		newHashCmd(get),
		newInstallCmd(get),
	)
	return cmd
}
