package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-autofill/internal/config"
	"github.com/goliatone/go-autofill/internal/logging"
	"github.com/goliatone/go-autofill/pkg/dategroup"
	"github.com/goliatone/go-autofill/pkg/detect"
	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/formsource"
	"github.com/goliatone/go-autofill/pkg/profile"
	"github.com/goliatone/go-autofill/pkg/refine"
	"github.com/goliatone/go-autofill/pkg/report"
	"github.com/goliatone/go-autofill/pkg/review"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "autofill-cli",
		Short:        "Match form fields against a profile and plan fills",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default autofill.yaml in . or $HOME/.config/autofill)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console, json")

	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(dateCmd())
	rootCmd.AddCommand(openapiCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func loadForm(ctx context.Context, path string) (formsource.Document, error) {
	src, err := formsource.ResolveSource(path)
	if err != nil {
		return formsource.Document{}, err
	}
	loader := formsource.NewLoader(formsource.WithHTTPFallback(10 * time.Second))
	return loader.Load(ctx, src)
}

func loadProfile(path string) (profile.Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return profile.Flatten(tree), nil
}

// buildPipeline wires the document's classifier and, when the config enables
// it, the AI refiner. Passing an explicit nil refiner keeps the pipeline from
// constructing its own.
func buildPipeline(cfg *config.Config, doc formsource.Document, logger *zap.Logger) *detect.Pipeline {
	opts := []detect.Option{
		detect.WithClassifier(doc.Categories()),
		detect.WithLogger(logger),
	}
	if cfg.AI.Enabled {
		opts = append(opts, detect.WithRefiner(newRefiner(cfg, logger)))
	} else {
		opts = append(opts, detect.WithRefiner(nil))
	}
	return detect.New(opts...)
}

func newRefiner(cfg *config.Config, logger *zap.Logger) *refine.Refiner {
	opts := []refine.Option{
		refine.WithCredential(cfg.AI.Key),
		refine.WithHTTPClient(&http.Client{Timeout: cfg.AI.Timeout}),
		refine.WithLogger(logger),
	}
	if cfg.AI.Endpoint != "" {
		opts = append(opts, refine.WithEndpoint(cfg.AI.Endpoint))
	}
	if cfg.AI.Model != "" {
		opts = append(opts, refine.WithModel(cfg.AI.Model))
	}
	return refine.New(opts...)
}

func loadTheme(path string) (*theme.RendererConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme manifest: %w", err)
	}
	var manifest theme.Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse theme manifest: %w", err)
	}
	return report.ThemeConfig(&theme.Selection{
		Theme:    manifest.Name,
		Manifest: &manifest,
	}), nil
}

func renderPlan(ctx context.Context, cfg *config.Config, plan report.Plan, outPath string) error {
	registry, err := report.DefaultRegistry()
	if err != nil {
		return err
	}
	renderer, err := registry.Get(cfg.Report.Format)
	if err != nil {
		return err
	}

	opts := report.Options{Threshold: cfg.Report.Threshold}
	if cfg.Report.Theme != "" {
		opts.Theme, err = loadTheme(cfg.Report.Theme)
		if err != nil {
			return err
		}
	}

	out, err := renderer.Render(ctx, plan, opts)
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Print(string(out))
		if len(out) > 0 && out[len(out)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Wrote %s report to %s\n", renderer.Name(), outPath)
	return nil
}

func detectCmd() *cobra.Command {
	var (
		formPath    string
		profilePath string
		useRefine   bool
		format      string
		threshold   int
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect matches and print the fill plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if format != "" {
				cfg.Report.Format = format
			}
			if threshold > 0 {
				cfg.Report.Threshold = threshold
			}

			ctx := cmd.Context()
			doc, err := loadForm(ctx, formPath)
			if err != nil {
				return err
			}
			data, err := loadProfile(profilePath)
			if err != nil {
				return err
			}

			pipeline := buildPipeline(cfg, doc, logger)
			pass, err := pipeline.Detect(ctx, doc.Descriptors(), data)
			if err != nil {
				return err
			}

			if useRefine {
				if !cfg.AI.Enabled {
					logger.Warn("refinement requested but ai.enabled is false")
				} else {
					improved, err := pipeline.Refine(ctx, pass, data)
					if err != nil {
						return err
					}
					logger.Info("refinement complete", zap.Int("improved", improved))
				}
			}

			plan := report.BuildPlan(pass, data)
			plan.Title = doc.Title

			return renderPlan(ctx, cfg, plan, outPath)
		},
	}

	cmd.Flags().StringVar(&formPath, "form", "", "form document, file path or URL")
	cmd.Flags().StringVar(&profilePath, "profile", "", "profile values, YAML")
	cmd.Flags().BoolVar(&useRefine, "refine", false, "refine uncertain matches with the AI service")
	cmd.Flags().StringVar(&format, "format", "", "output format: json, text, html")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "confidence needed to mark a row fillable")
	cmd.Flags().StringVar(&outPath, "out", "", "write output to a file instead of stdout")
	_ = cmd.MarkFlagRequired("form")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func reviewCmd() *cobra.Command {
	var (
		formPath    string
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Walk the fill plan interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			doc, err := loadForm(ctx, formPath)
			if err != nil {
				return err
			}
			data, err := loadProfile(profilePath)
			if err != nil {
				return err
			}

			pipeline := buildPipeline(cfg, doc, logger)
			pass, err := pipeline.Detect(ctx, doc.Descriptors(), data)
			if err != nil {
				return err
			}

			plan := report.BuildPlan(pass, data)
			plan.Title = doc.Title

			reviewer, err := review.New()
			if err != nil {
				return err
			}

			accepted, err := reviewer.Run(ctx, plan, data)
			if errors.Is(err, review.ErrAborted) {
				fmt.Println("Review aborted.")
				return nil
			}
			if err != nil {
				return err
			}
			if len(accepted) == 0 {
				fmt.Println("No values accepted.")
				return nil
			}

			fmt.Printf("Accepted %d values:\n", len(accepted))
			for _, row := range plan.Rows {
				value, ok := accepted[row.Index]
				if !ok {
					continue
				}
				fmt.Printf("  %s = %s\n", row.Label, value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formPath, "form", "", "form document, file path or URL")
	cmd.Flags().StringVar(&profilePath, "profile", "", "profile values, YAML")
	_ = cmd.MarkFlagRequired("form")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func dateCmd() *cobra.Command {
	var (
		formPath string
		groupIdx int
	)

	cmd := &cobra.Command{
		Use:   "date [value]",
		Short: "Parse a date and optionally demo-fill a form's date group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := dategroup.Parse(args[0])
			if !ok {
				return fmt.Errorf("unrecognised date: %s", args[0])
			}

			fmt.Printf("ISO:   %s\n", parsed.ISO())
			fmt.Printf("Year:  %s\n", parsed.Year)
			fmt.Printf("Month: %s (%s)\n", parsed.Month, parsed.MonthNumber)
			fmt.Printf("Day:   %s\n", parsed.Day)

			if formPath == "" {
				return nil
			}

			ctx := cmd.Context()
			doc, err := loadForm(ctx, formPath)
			if err != nil {
				return err
			}

			// Group pointers index into this slice; keep it alive.
			descs := doc.Descriptors()
			groups := dategroup.New().Detect(descs)
			if len(groups) == 0 {
				return errors.New("no date groups detected in form")
			}
			if groupIdx < 0 || groupIdx >= len(groups) {
				return fmt.Errorf("group %d out of range, form has %d", groupIdx, len(groups))
			}
			group := groups[groupIdx]

			fmt.Printf("\nFilling group %d:\n", groupIdx)
			result := dategroup.NewFiller().FillGroup(ctx, group, parsed)

			components := []struct {
				role   string
				d      *field.Descriptor
				filled bool
			}{
				{"year", group.Year, result.Year},
				{"month", group.Month, result.Month},
				{"day", group.Day, result.Day},
			}
			for _, c := range components {
				if c.d == nil {
					continue
				}
				fmt.Printf("  %-6s %-24s %s\n", c.role+":", labelOf(c.d), fillStatus(c.d, c.filled))
			}
			if group.FullDate != nil {
				fmt.Printf("  %-6s %-24s takes %s\n", "full:", labelOf(group.FullDate), parsed.ISO())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formPath, "fill", "", "form document whose date group to demo-fill")
	cmd.Flags().IntVar(&groupIdx, "group", 0, "index of the date group to fill")
	return cmd
}

func labelOf(d *field.Descriptor) string {
	if d.Label != "" {
		return d.Label
	}
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

func fillStatus(d *field.Descriptor, filled bool) string {
	if !filled {
		return "not filled"
	}
	if control, ok := d.Handle.(*formsource.MemorySelect); ok {
		if opt, ok := control.Selected(); ok {
			return fmt.Sprintf("filled with %q", opt.Text)
		}
	}
	return "filled"
}

func openapiCmd() *cobra.Command {
	var (
		sourcePath  string
		operationID string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Derive a form document from an OpenAPI operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(sourcePath)
			if err != nil {
				return fmt.Errorf("read openapi source: %w", err)
			}

			doc, err := formsource.FromOpenAPI(cmd.Context(), raw, operationID)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode form document: %w", err)
			}

			if outPath == "" {
				fmt.Println(string(out))
				return nil
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("write form document: %w", err)
			}
			fmt.Printf("Wrote form document with %d fields to %s\n", len(doc.Fields), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "OpenAPI document, JSON or YAML file")
	cmd.Flags().StringVar(&operationID, "operation", "", "operation id whose request schema to flatten")
	cmd.Flags().StringVar(&outPath, "out", "", "write the form document to a file instead of stdout")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("operation")
	return cmd
}
