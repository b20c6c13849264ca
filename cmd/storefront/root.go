package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-storefront/internal/config"
)

type options struct {
	v          *viper.Viper
	configFile string
	cfg        config.Config
}

func newRootCommand() *cobra.Command {
	opts := &options{v: config.New()}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Web storefront backend: catalog, basket and orders",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.v, opts.configFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (toml, yaml or json)")
	flags.String("storage-driver", "", "repository backend: memory, postgres or sqlite")
	flags.String("storage-dsn", "", "database connection string")
	_ = opts.v.BindPFlag("storage.driver", flags.Lookup("storage-driver"))
	_ = opts.v.BindPFlag("storage.dsn", flags.Lookup("storage-dsn"))

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
	)

	return cmd
}
