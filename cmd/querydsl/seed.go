package main

import (
	"github.com/spf13/cobra"

	"github.com/dongjun6343/query/internal/command"
	"github.com/dongjun6343/query/internal/log"
	"github.com/dongjun6343/query/internal/seed"
	"github.com/dongjun6343/query/migrations"
)

type seedOptions struct {
	File    string `flag:"file" short:"f" usage:"YAML fixture, the built in two team fixture when empty"`
	Migrate bool   `flag:"migrate" default:"true" usage:"Apply pending migrations first"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert teams and members from a fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := &seedOptions{}
		if err := command.BindOptions(cmd, opts); err != nil {
			return err
		}

		fx := seed.Default()
		if opts.File != "" {
			var err error
			if fx, err = seed.LoadFile(opts.File); err != nil {
				return err
			}
		}

		f, _, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer f.Close()

		if opts.Migrate {
			if err := migrations.Up(cmd.Context(), f.DB().DB, f.Dialect()); err != nil {
				return err
			}
		}

		res, err := fx.Apply(cmd.Context(), f)
		if err != nil {
			return err
		}
		log.Infof("inserted %d teams and %d members", res.Teams, res.Members)
		return nil
	},
}

func init() {
	mustBind(seedCmd, &seedOptions{})
}
