package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphdraw/graphdraw/pkg/config"
	"github.com/graphdraw/graphdraw/pkg/pipeline"
)

// renderCommand creates the render command for the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output       string
		formats      string
		noCache      bool
		refresh      bool
		detailed     bool
		interactive  bool
		profile      string
		profilesPath string
		sets         []string
	)

	cmd := &cobra.Command{
		Use:   "render [document.toml|document.json]",
		Short: "Lay out a graph document and render it",
		Long: `Lay out a graph document and render it.

The render command runs the complete parse, layout, and render pipeline and
writes one output file per requested format. Formats: dot, svg, png, json.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], renderParams{
				output:       output,
				formats:      parseFormats(formats),
				noCache:      noCache,
				refresh:      refresh,
				detailed:     detailed,
				interactive:  interactive,
				profile:      profile,
				profilesPath: profilesPath,
				overrides:    overrides,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats: dot, svg, png, json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include vertex options in labels")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "show interactive progress for long runs")
	cmd.Flags().StringVar(&profile, "profile", "", "layout profile to apply")
	cmd.Flags().StringVar(&profilesPath, "profiles", "", "TOML file with layout profiles")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a layout option, e.g. --set 'iterations=1000' (repeatable)")

	return cmd
}

type renderParams struct {
	output       string
	formats      []string
	noCache      bool
	refresh      bool
	detailed     bool
	interactive  bool
	profile      string
	profilesPath string
	overrides    map[string]any
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, params renderParams) error {
	logger := loggerFromContext(ctx)

	source, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read document %s: %w", input, err)
	}

	opts := pipeline.Options{
		Source:     source,
		SourceName: filepath.Base(input),
		Profile:    params.profile,
		Overrides:  params.overrides,
		Formats:    params.formats,
		Detailed:   params.detailed,
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

	var result *pipeline.Result
	if params.interactive {
		result, err = runWithTUI(ctx, runner, opts, filepath.Base(input))
	} else {
		spinner := newSpinnerWithContext(ctx, "Rendering...")
		spinner.Start()
		result, err = runner.Execute(ctx, opts)
		spinner.Stop()
	}
	if err != nil {
		printError("Render failed")
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := params.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Render complete")
	for _, format := range params.formats {
		data, ok := result.Artifacts[format]
		if !ok {
			printWarning("no %s artifact produced", format)
			continue
		}
		path := base + "." + format
		if format == pipeline.FormatJSON {
			path = base + ".layout.json"
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.VertexCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)

	return nil
}
