package list

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/cmd/util"
	"github.com/mpapenbr/garage61-mcp-go/pkg/listing"
	"github.com/mpapenbr/garage61-mcp-go/pkg/resolver"
)

var showLegacy bool

func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list cars and tracks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "tracks [search]",
		Short: "list tracks grouped by venue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(r *resolver.Resolver) string {
				return listing.ListTracks(r, strings.Join(args, " "))
			})
		},
	})
	carsCmd := &cobra.Command{
		Use:   "cars [search]",
		Short: "list cars, most current first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(r *resolver.Resolver) string {
				return listing.ListCars(r, strings.Join(args, " "), showLegacy)
			})
		},
	}
	carsCmd.Flags().BoolVar(&showLegacy, "legacy", false, "include legacy cars")
	cmd.AddCommand(carsCmd)
	return cmd
}

func run(cmd *cobra.Command, render func(r *resolver.Resolver) string) error {
	if err := util.SetupLogger(); err != nil {
		return err
	}
	backend, err := util.NewBackend(cmd.Context())
	if err != nil {
		return err
	}
	if err := backend.Loader.Load(cmd.Context()); err != nil {
		log.Error("Could not load catalog", log.ErrorField(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), render(backend.Resolver))
	return nil
}
