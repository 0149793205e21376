package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphdraw/graphdraw/pkg/cache"
	"github.com/graphdraw/graphdraw/pkg/config"
	"github.com/graphdraw/graphdraw/pkg/pipeline"
)

// layoutCommand creates the layout command for computing vertex positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output       string
		noCache      bool
		refresh      bool
		profile      string
		profilesPath string
		sets         []string
	)

	cmd := &cobra.Command{
		Use:   "layout [document.toml|document.json]",
		Short: "Compute a layout for a graph document",
		Long: `Compute a layout for a graph document.

The layout command reads a TOML or JSON graph document, runs the configured
layout algorithm over its sublayout tree, and writes the resulting vertex
positions and edge routes as JSON. The output can be rendered with the
'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], layoutParams{
				output:       output,
				noCache:      noCache,
				refresh:      refresh,
				profile:      profile,
				profilesPath: profilesPath,
				overrides:    overrides,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVar(&profile, "profile", "", "layout profile to apply")
	cmd.Flags().StringVar(&profilesPath, "profiles", "", "TOML file with layout profiles")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a layout option, e.g. --set 'node distance=2.5' (repeatable)")

	return cmd
}

type layoutParams struct {
	output       string
	noCache      bool
	refresh      bool
	profile      string
	profilesPath string
	overrides    map[string]any
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, params layoutParams) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read document %s: %w", input, err)
	}

	opts := pipeline.Options{
		Source:     source,
		SourceName: filepath.Base(input),
		Profile:    params.profile,
		Overrides:  params.overrides,
		Refresh:    params.refresh,
		Logger:     logger,
	}
	if params.profilesPath != "" {
		profiles, err := config.LoadProfiles(params.profilesPath)
		if err != nil {
			return err
		}
		opts.Profiles = profiles
	}

	runner, err := c.newRunner(params.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	root, err := runner.Parse(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Algorithm(root.Options)))
	spinner.Start()

	graphHash := cache.Hash(source)
	_, snapshot, cacheHit, err := runner.LayoutWithCacheInfo(ctx, root, graphHash, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := params.output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	data, err := snapshot.Marshal()
	if err != nil {
		return fmt.Errorf("serialize layout: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done("layout written")

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(snapshot.Positions), len(snapshot.Arcs), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
