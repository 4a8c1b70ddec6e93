package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/mamertofabian/maidrunner/internal/cache"
	"github.com/mamertofabian/maidrunner/internal/chain"
	"github.com/mamertofabian/maidrunner/internal/config"
	"github.com/mamertofabian/maidrunner/internal/diagnostic"
	"github.com/mamertofabian/maidrunner/internal/graphexport"
	"github.com/mamertofabian/maidrunner/internal/merge"
	"github.com/mamertofabian/maidrunner/internal/runner"
	"github.com/mamertofabian/maidrunner/internal/store"
	"github.com/mamertofabian/maidrunner/internal/types"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	cfg, err := config.LoadKDL(absRoot)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Project.Root = absRoot

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func manifestDir(c *cli.Context, cfg *config.Config) string {
	if d := c.String("manifests"); d != "" {
		return d
	}
	return cfg.Project.Root
}

func openDiskCache(cfg *config.Config) *cache.DiskCache {
	dir := filepath.Join(cfg.Project.Root, cfg.Cache.Dir)
	dc, err := cache.Open(dir, cfg.Cache.Version)
	if err != nil {
		return nil
	}
	return dc
}

func validateCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	adapters := runner.DefaultRegistry()
	fs := runner.FS{Root: cfg.Project.Root}
	dc := openDiskCache(cfg)

	report, err := runner.Run(c.Context, cfg, manifestDir(c, cfg), adapters, fs, dc)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		data, err := diagnostic.EmitJSON(report.Diagnostics)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
	} else {
		fmt.Fprint(c.App.Writer, diagnostic.EmitHuman(report.Diagnostics))
	}

	os.Exit(report.ExitCode)
	return nil
}

func graphCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	dir := manifestDir(c, cfg)
	st, diags, err := store.Load(dir)
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Fprintln(c.App.ErrWriter, d.Message)
	}

	resolver := chain.New(st)
	files := make(map[string]types.ExpectedSet)
	for _, f := range st.Files() {
		active, _ := resolver.ActiveChain(f)
		if len(active) == 0 {
			continue
		}
		files[f] = merge.Merge(active, f)
	}

	g := graphexport.Build(st.All(), files, nil)

	switch c.String("format") {
	case "dot":
		fmt.Fprint(c.App.Writer, string(graphexport.EmitDOT(g)))
	case "flowchart":
		fmt.Fprint(c.App.Writer, graphexport.EmitFlowchart(g))
	case "toml":
		data, err := graphexport.EmitTOML(g)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
	default:
		data, err := graphexport.EmitJSON(g)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
	}
	return nil
}

func cacheCleanCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dir := filepath.Join(cfg.Project.Root, cfg.Cache.Dir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clean cache dir %q: %w", dir, err)
	}
	fmt.Fprintf(c.App.Writer, "removed %s\n", dir)
	return nil
}

func main() {
	app := &cli.App{
		Name:  "maid",
		Usage: "validate a codebase against its chronological manifest chain",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "project root"},
			&cli.StringFlag{Name: "manifests", Aliases: []string{"m"}, Usage: "manifest directory (defaults to root)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "run the validation kernel over the manifest chain",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "emit diagnostics as JSON instead of the human table"},
				},
				Action: validateCommand,
			},
			{
				Name:  "graph",
				Usage: "export the manifest/artifact knowledge graph",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "json, dot, flowchart, or toml"},
				},
				Action: graphCommand,
			},
			{
				Name:  "cache",
				Usage: "manage the on-disk cache",
				Subcommands: []*cli.Command{
					{
						Name:   "clean",
						Usage:  "remove the cache directory",
						Action: cacheCleanCommand,
					},
				},
			},
		},
	}

	ctx := context.Background()
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
