package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/pkg/classify"
	cfgPkg "github.com/docalyze/docalyze/pkg/config"
	"github.com/docalyze/docalyze/pkg/extract"
	"github.com/docalyze/docalyze/pkg/ingest"
	"github.com/docalyze/docalyze/pkg/llm"
	"github.com/docalyze/docalyze/pkg/pipeline"
	"github.com/docalyze/docalyze/pkg/report"
	"github.com/docalyze/docalyze/pkg/segment"
	"github.com/docalyze/docalyze/pkg/synthesize"
	"github.com/docalyze/docalyze/pkg/verify"
	"github.com/docalyze/docalyze/pkg/visualize"
	"github.com/docalyze/docalyze/server"
)

type cliFlags struct {
	configPath string
	useLLM     bool
	model      string
	forceType  string
	randomType bool
	outDir     string
	fontFile   string
	noVisuals  bool
	serve      bool
	evalCSV    string
}

func main() {
	flags := parseFlags()

	if err := run(flags); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() cliFlags {
	var flags cliFlags
	flag.StringVar(&flags.configPath, "config", "", "Path to config file")
	flag.BoolVar(&flags.useLLM, "use-llm", false, "Enable the LLM-assisted path (falls back to heuristics on failure)")
	flag.StringVar(&flags.model, "model", "", "LLM model to use")
	flag.StringVar(&flags.forceType, "type", "", "Force the document type (article, contract, resume, course, other)")
	flag.BoolVar(&flags.randomType, "random-type", false, "Pick the document type at random (calibration runs)")
	flag.StringVar(&flags.outDir, "out", "", "Report output directory")
	flag.StringVar(&flags.fontFile, "font", "", "TTF font file for the word cloud")
	flag.BoolVar(&flags.noVisuals, "no-visuals", false, "Disable visualization artifacts")
	flag.BoolVar(&flags.serve, "serve", false, "Run the HTTP server instead of analyzing files")
	flag.StringVar(&flags.evalCSV, "eval", "", "Evaluate type detection against a labels CSV (filename,type)")
	flag.Parse()
	return flags
}

func run(flags cliFlags) error {
	cfg, err := cfgPkg.LoadConfig(flags.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlagOverrides(cfg, flags)

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %s", e.Error())
		}
		return fmt.Errorf("invalid configuration")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var client *llm.Client
	if cfg.LLM.Enabled {
		client, err = llm.NewWithConfig(llm.ClientConfig{
			Provider:    cfg.LLM.Provider,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
			RateLimit:   cfg.LLM.RateLimit,
		})
		if err != nil {
			color.Yellow("LLM unavailable, continuing with heuristics only: %v", err)
			client = nil
		}
	}

	if flags.evalCSV != "" {
		return runEval(flags.evalCSV, client, logger)
	}

	p, err := buildPipeline(cfg, client, logger, !flags.serve)
	if err != nil {
		return err
	}

	if flags.serve {
		port, err := strconv.Atoi(cfg.Server.Port)
		if err != nil {
			return fmt.Errorf("invalid server port %q: %w", cfg.Server.Port, err)
		}
		srv, err := server.NewWithConfig(server.Config{Port: port, Logger: logger}, p)
		if err != nil {
			return err
		}
		color.Green("Serving on port %d", port)
		return srv.Run()
	}

	paths := flag.Args()
	if len(paths) == 0 {
		return fmt.Errorf("no input files (usage: docalyze [flags] file.pdf ...)")
	}

	opts := pipeline.Options{RandomType: flags.randomType}
	if flags.forceType != "" {
		forced := models.DocumentType(flags.forceType)
		if !forced.Valid() {
			return fmt.Errorf("unknown document type %q", flags.forceType)
		}
		opts.ForceType = forced
	}

	bar := getProgressBar(len(paths)*stagesPerDocument(cfg), "Analyzing documents")
	opts.OnProgress = func(doc string, stage models.StageStatus) {
		bar.Describe(color.BlueString("%s: %s", doc, stage.Name))
		bar.Add(1)
	}

	results := p.Run(context.Background(), paths, opts)
	fmt.Println()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			color.Red("✗ %s: %v", res.Path, res.Err)
			continue
		}
		printSummary(res.Analysis)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func applyFlagOverrides(cfg *cfgPkg.Config, flags cliFlags) {
	if flags.useLLM {
		cfg.LLM.Enabled = true
	}
	if flags.model != "" {
		cfg.LLM.Model = flags.model
	}
	if flags.outDir != "" {
		cfg.Report.OutDir = flags.outDir
	}
	if flags.fontFile != "" {
		cfg.Visuals.FontFile = flags.fontFile
	}
	if flags.noVisuals {
		cfg.Visuals.Enabled = false
	} else if flags.fontFile != "" {
		cfg.Visuals.Enabled = true
	}
}

func buildPipeline(cfg *cfgPkg.Config, client *llm.Client, logger *slog.Logger, withReport bool) (*pipeline.Pipeline, error) {
	pc := pipeline.Config{
		Ingestor:    ingest.NewWithConfig(ingest.Config{Logger: logger}),
		Classifier:  classify.NewWithConfig(classify.Config{LLM: client, Logger: logger}),
		Segmenter:   segment.NewWithConfig(segment.Config{LLM: client, Logger: logger}),
		Extractor:   extract.NewWithConfig(extract.Config{LLM: client, Logger: logger}),
		Synthesizer: synthesize.NewWithConfig(synthesize.Config{LLM: client, Logger: logger}),
		Verifier:    verify.NewWithConfig(verify.Config{Logger: logger}),
		Logger:      logger,
	}
	if cfg.Visuals.Enabled {
		pc.Visualizer = visualize.NewWithConfig(visualize.Config{
			OutDir:   cfg.Visuals.OutDir,
			FontFile: cfg.Visuals.FontFile,
			Logger:   logger,
		})
	}
	if withReport {
		pc.Reporter = report.NewWithConfig(report.Config{OutDir: cfg.Report.OutDir, Logger: logger})
	}
	return pipeline.NewWithConfig(pc)
}

// runEval scores type detection against a CSV of filename,type rows. Paths
// are resolved relative to the CSV.
func runEval(csvPath string, client *llm.Client, logger *slog.Logger) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("opening labels: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading labels: %w", err)
	}
	if len(records) < 2 {
		return fmt.Errorf("labels CSV needs a header and at least one row")
	}

	header := records[0]
	fileCol, typeCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "filename":
			fileCol = i
		case "type":
			typeCol = i
		}
	}
	if fileCol < 0 || typeCol < 0 {
		return fmt.Errorf("labels CSV needs 'filename' and 'type' columns")
	}

	ing := ingest.NewWithConfig(ingest.Config{Logger: logger})
	cls := classify.NewWithConfig(classify.Config{LLM: client, Logger: logger})
	baseDir := filepath.Dir(csvPath)

	ctx := context.Background()
	correct, total := 0, 0
	for _, row := range records[1:] {
		filename := strings.TrimSpace(row[fileCol])
		gold := strings.TrimSpace(row[typeCol])

		doc, err := ing.Ingest(ctx, filepath.Join(baseDir, filename))
		if err != nil {
			color.Red("✗ %s: %v", filename, err)
			continue
		}
		pred, conf := cls.Classify(ctx, doc)
		fmt.Printf("%s: pred=%s (conf=%.2f)\n", filename, pred, conf)
		total++
		if string(pred) == gold {
			correct++
		}
	}

	acc := 0.0
	if total > 0 {
		acc = float64(correct) / float64(total)
	}
	color.Green("Accuracy: %.2f%% (%d/%d)", acc*100, correct, total)
	return nil
}

func printSummary(a *models.Analysis) {
	color.Green("✓ %s", a.Document.Filename)
	fmt.Printf("  Type: %s (conf: %.2f), %d pages, %d sections\n",
		a.Type, a.TypeConfidence, a.Document.NumPages, len(a.Sections))
	if a.ReportPath != "" {
		fmt.Printf("  Report: %s\n", a.ReportPath)
	}
	if a.Visuals != nil && a.Visuals.Status == "generated" {
		fmt.Printf("  Visuals: %s\n", a.Visuals.Status)
	}
	for _, alert := range a.Verification.Alerts {
		color.Yellow("  ! %s", alert)
	}
}

// stagesPerDocument sizes the progress bar.
func stagesPerDocument(cfg *cfgPkg.Config) int {
	n := 7 // ingest through verify plus report
	if cfg.Visuals.Enabled {
		n++
	}
	return n
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
