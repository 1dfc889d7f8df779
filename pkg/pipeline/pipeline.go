// Package pipeline chains the analysis stages over a batch of documents:
// ingest, classify, segment, extract, synthesize, verify, visualize, report.
// Stages run sequentially per document; a failed document never stops the
// batch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/docalyze/docalyze/internal/models"
	"github.com/docalyze/docalyze/internal/types"
)

// Stage names as they appear in stage tracking and progress callbacks.
const (
	StageIngest     = "ingestion"
	StageClassify   = "detection"
	StageSegment    = "structuration"
	StageExtract    = "extraction"
	StageSynthesize = "synthese"
	StageVerify     = "verification"
	StageVisualize  = "visualisation"
	StageReport     = "rapport"
)

// Stage completion statuses.
const (
	StatusOK   = "ok"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// Options adjust one pipeline run.
type Options struct {
	// ForceType skips classification and stamps every document with the
	// given type at confidence 1.0. Must be a valid type when set.
	ForceType models.DocumentType
	// RandomType picks a uniformly random type at confidence 0.5. Used for
	// calibration runs. Ignored when ForceType is set.
	RandomType bool
	// SkipReport leaves Analysis.ReportPath empty. The server uses this to
	// return JSON without touching the report directory.
	SkipReport bool
	// OnProgress, when set, is called after each stage of each document.
	OnProgress func(doc string, stage models.StageStatus)
}

// Config wires the pipeline's stages.
type Config struct {
	Ingestor    types.Ingestor
	Classifier  types.Classifier
	Segmenter   types.Segmenter
	Extractor   types.Extractor
	Synthesizer types.Synthesizer
	Verifier    types.Verifier
	Visualizer  types.Visualizer
	Reporter    types.Reporter
	Logger      *slog.Logger
	// rng is swapped in tests of the random-type mode.
	Rand *rand.Rand
}

// Pipeline runs documents through the full analysis chain.
type Pipeline struct {
	config Config
}

// Result pairs one input path with its analysis or its failure.
type Result struct {
	Path     string           `json:"path"`
	Analysis *models.Analysis `json:"analysis,omitempty"`
	Err      error            `json:"-"`
}

// NewWithConfig creates a Pipeline. Every stage except Visualizer and
// Reporter is required; those two are optional and skipped when nil.
func NewWithConfig(config Config) (*Pipeline, error) {
	if config.Ingestor == nil || config.Classifier == nil || config.Segmenter == nil ||
		config.Extractor == nil || config.Synthesizer == nil || config.Verifier == nil {
		return nil, fmt.Errorf("pipeline: ingestor, classifier, segmenter, extractor, synthesizer and verifier are required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Pipeline{config: config}, nil
}

// Run analyzes each path in order and returns one result per path, in input
// order. Per-document failures are recorded in the result, not returned.
func (p *Pipeline) Run(ctx context.Context, paths []string, opts Options) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		analysis, err := p.runOne(ctx, path, opts)
		if err != nil {
			p.config.Logger.Error("document analysis failed", "path", path, "error", err)
		}
		results = append(results, Result{Path: path, Analysis: analysis, Err: err})
	}
	return results
}

func (p *Pipeline) runOne(ctx context.Context, path string, opts Options) (*models.Analysis, error) {
	log := p.config.Logger.With("path", path)

	doc, err := p.config.Ingestor.Ingest(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}
	analysis := &models.Analysis{Document: *doc}
	p.track(analysis, opts, StageIngest, StatusOK, fmt.Sprintf("%d pages extraites", doc.NumPages))

	log.Info("detecting document type")
	switch {
	case opts.ForceType != "":
		analysis.Type = opts.ForceType
		analysis.TypeConfidence = 1.0
		p.track(analysis, opts, StageClassify, StatusOK, fmt.Sprintf("Type forcé: %s", opts.ForceType))
	case opts.RandomType:
		all := models.AllTypes()
		analysis.Type = all[p.intn(len(all))]
		analysis.TypeConfidence = 0.5
		p.track(analysis, opts, StageClassify, StatusOK, fmt.Sprintf("Type: %s (aléatoire)", analysis.Type))
	default:
		analysis.Type, analysis.TypeConfidence = p.config.Classifier.Classify(ctx, doc)
		p.track(analysis, opts, StageClassify, StatusOK,
			fmt.Sprintf("Type: %s (conf: %.2f)", analysis.Type, analysis.TypeConfidence))
	}

	log.Info("segmenting", "type", analysis.Type)
	analysis.Sections = p.config.Segmenter.Segment(ctx, doc)
	p.track(analysis, opts, StageSegment, StatusOK, fmt.Sprintf("%d sections identifiées", len(analysis.Sections)))

	log.Info("extracting fields")
	analysis.Extracted = p.config.Extractor.Extract(ctx, analysis.Type, analysis.Sections, doc)
	p.track(analysis, opts, StageExtract, StatusOK, "Champs extraits")

	log.Info("synthesizing")
	analysis.Synthesis = p.config.Synthesizer.Synthesize(ctx, analysis.Extracted, doc)
	p.track(analysis, opts, StageSynthesize, StatusOK,
		fmt.Sprintf("Résumé généré (%d points clés)", len(analysis.Synthesis.KeyPoints)))

	log.Info("verifying")
	analysis.Verification = p.config.Verifier.Verify(analysis.Synthesis, doc)
	p.track(analysis, opts, StageVerify, StatusOK,
		fmt.Sprintf("%d alertes détectées", len(analysis.Verification.Alerts)))

	if p.config.Visualizer != nil {
		log.Info("generating visuals")
		analysis.Visuals = p.config.Visualizer.Generate(analysis)
		status := StatusOK
		if analysis.Visuals == nil || analysis.Visuals.Status != "generated" {
			status = StatusWarn
		}
		p.track(analysis, opts, StageVisualize, status, "Visualisations: "+visualsStatus(analysis.Visuals))
	}

	if p.config.Reporter != nil && !opts.SkipReport {
		log.Info("building report")
		reportPath, err := p.config.Reporter.Build(analysis)
		if err != nil {
			// The analysis itself is complete; surface the report failure
			// without discarding it.
			p.track(analysis, opts, StageReport, StatusFail, err.Error())
			return analysis, fmt.Errorf("building report for %s: %w", path, err)
		}
		analysis.ReportPath = reportPath
		p.track(analysis, opts, StageReport, StatusOK, reportPath)
	}

	return analysis, nil
}

func (p *Pipeline) track(analysis *models.Analysis, opts Options, name, status, desc string) {
	stage := models.StageStatus{Name: name, Status: status, Description: desc}
	analysis.Stages = append(analysis.Stages, stage)
	if opts.OnProgress != nil {
		opts.OnProgress(analysis.Document.Filename, stage)
	}
}

func (p *Pipeline) intn(n int) int {
	if p.config.Rand != nil {
		return p.config.Rand.Intn(n)
	}
	return rand.Intn(n)
}

func visualsStatus(v *models.Visuals) string {
	if v == nil {
		return "unavailable"
	}
	return v.Status
}
