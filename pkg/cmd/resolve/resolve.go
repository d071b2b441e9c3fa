package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/cmd/util"
	"github.com/mpapenbr/garage61-mcp-go/pkg/resolver"
)

var (
	ErrNotFound   = errors.New("not found")
	includeLegacy bool
	anyVariant    bool
)

func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "resolve car and track names to Garage61 ids",
	}
	cmd.AddCommand(newResolveCarCmd())
	cmd.AddCommand(newResolveTrackCmd())
	return cmd
}

func newResolveCarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "car name...",
		Short: "resolve a car name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, strings.Join(args, " "), carLookup)
		},
	}
	cmd.Flags().BoolVar(&includeLegacy, "legacy", false, "include legacy cars")
	return cmd
}

func newResolveTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track name...",
		Short: "resolve a track name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, strings.Join(args, " "), trackLookup)
		},
	}
	cmd.Flags().BoolVar(&anyVariant, "any-variant", false,
		"use the first layout of a venue instead of the preferred racing layout")
	return cmd
}

type lookupFunc func(r *resolver.Resolver, q string) (resolver.Result, bool, []string)

func carLookup(r *resolver.Resolver, q string) (resolver.Result, bool, []string) {
	res, ok := r.FindCar(q, includeLegacy)
	return res, ok, r.CarSuggestions(q, resolver.DefaultSuggestionSize, includeLegacy)
}

func trackLookup(r *resolver.Resolver, q string) (resolver.Result, bool, []string) {
	res, ok := r.FindTrack(q, !anyVariant)
	return res, ok, r.TrackSuggestions(q, resolver.DefaultSuggestionSize)
}

func run(cmd *cobra.Command, query string, lookup lookupFunc) error {
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
	res, ok, sugg := lookup(backend.Resolver, query)
	out := cmd.OutOrStdout()
	if ok {
		fmt.Fprintf(out, "%d\t%s\n", res.ID, res.Name)
		return nil
	}
	fmt.Fprintf(out, "'%s' not found\n", query)
	if len(sugg) > 0 {
		fmt.Fprintln(out, "Did you mean:")
		for _, s := range sugg {
			fmt.Fprintf(out, "  %s\n", s)
		}
	}
	cmd.SilenceUsage = true
	return fmt.Errorf("%w: %s", ErrNotFound, query)
}
