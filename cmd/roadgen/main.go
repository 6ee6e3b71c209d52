package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/LdDl/roadgen"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roadgen",
		Short: "Road network geometry and topology builder",
	}

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(osmCmd())
	rootCmd.AddCommand(routeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type exportOptions struct {
	out        string
	geojsonOut string
	verbose    bool
}

func (opts *exportOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&opts.out, "out", "o", "roads.csv", "Filename of 'Comma-Separated Values' (CSV) formatted file. E.g.: if file name is 'map.csv' then 4 files will be produced: 'map_roads.csv', 'map_geometries.csv', 'map_lanes.csv', 'map_connections.csv'")
	cmd.Flags().StringVar(&opts.geojsonOut, "geojson", "", "Optional filename of GeoJSON feature collection")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print progress")
}

func buildCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "build [layout.yaml]",
		Short: "Build road network from YAML layout and export it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			session, _, err := buildLayout(args[0], opts.verbose)
			if err != nil {
				return err
			}
			return export(session, &opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func osmCmd() *cobra.Command {
	opts := exportOptions{}
	cfg := roadgen.DefaultOSMConfiguration()
	var tagStr string
	cmd := &cobra.Command{
		Use:   "osm [file.osm.pbf]",
		Short: "Import roads from *.osm.pbf file and export them",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg.Tags = strings.Split(tagStr, ",")
			session := roadgen.NewSession(roadgen.WithVerbose(opts.verbose), roadgen.WithDefaultLaneWidth(cfg.LaneWidth))
			if opts.verbose {
				fmt.Println(cfg)
			}
			if err := session.ImportFromOSMFile(args[0], cfg); err != nil {
				return errors.Wrap(err, "Can't import OSM file")
			}
			if err := session.Finalize(); err != nil {
				return err
			}
			return export(session, &opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&tagStr, "tags", strings.Join(cfg.Tags, ","), "Set of needed tags (separated by commas)")
	cmd.Flags().Float64Var(&cfg.LaneWidth, "lane-width", cfg.LaneWidth, "Lane width (meters)")
	cmd.Flags().Float64Var(&cfg.FilletRadius, "fillet-radius", cfg.FilletRadius, "Radius of arcs replacing polyline corners (meters)")
	cmd.Flags().Float64Var(&cfg.JunctionOffset, "junction-offset", cfg.JunctionOffset, "Distance roads are cut back from junction nodes (meters)")
	return cmd
}

func routeCmd() *cobra.Command {
	var from, to string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "route [layout.yaml]",
		Short: "Find shortest sequence of roads between two roads of YAML layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			session, names, err := buildLayout(args[0], verbose)
			if err != nil {
				return err
			}
			fromID, ok := names[from]
			if !ok {
				return errors.Wrapf(roadgen.ErrUnresolvedReference, "road '%s' not found", from)
			}
			toID, ok := names[to]
			if !ok {
				return errors.Wrapf(roadgen.ErrUnresolvedReference, "road '%s' not found", to)
			}
			cost, path, err := session.Route(fromID, toID)
			if err != nil {
				return err
			}
			roads := make([]string, len(path))
			for i, id := range path {
				road, _ := session.Road(id)
				roads[i] = fmt.Sprintf("%d", id)
				if road.Name != "" {
					roads[i] = fmt.Sprintf("%d (%s)", id, road.Name)
				}
			}
			fmt.Printf("Cost: %f\nPath: %s\n", cost, strings.Join(roads, " -> "))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Name of source road")
	cmd.Flags().StringVar(&to, "to", "", "Name of target road")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress")
	return cmd
}

func buildLayout(path string, verbose bool) (*roadgen.Session, map[string]roadgen.RoadID, error) {
	layout, err := roadgen.LoadLayoutFile(path)
	if err != nil {
		return nil, nil, err
	}
	session := roadgen.NewSession(roadgen.WithVerbose(verbose))
	if verbose {
		fmt.Println(session)
	}
	names, err := layout.Build(session)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't build layout")
	}
	if err := session.Finalize(); err != nil {
		return nil, nil, err
	}
	return session, names, nil
}

func export(session *roadgen.Session, opts *exportOptions) error {
	if err := session.ExportToCSV(opts.out); err != nil {
		return err
	}
	if opts.geojsonOut == "" {
		return nil
	}
	b, err := session.ExportToGeoJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.geojsonOut, b, 0644); err != nil {
		return errors.Wrap(err, "Can't write GeoJSON file")
	}
	return nil
}
