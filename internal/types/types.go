package types

import (
	"context"

	"github.com/docalyze/docalyze/internal/models"
)

// Core interfaces wired together by the pipeline. Implementations live in
// pkg/; the pipeline only depends on these so stages can be swapped in tests.

type Ingestor interface {
	Ingest(ctx context.Context, path string) (*models.Document, error)
}

type Classifier interface {
	Classify(ctx context.Context, doc *models.Document) (models.DocumentType, float64)
}

type Segmenter interface {
	Segment(ctx context.Context, doc *models.Document) []models.Section
}

type Extractor interface {
	Extract(ctx context.Context, docType models.DocumentType, sections []models.Section, doc *models.Document) models.ExtractedInfo
}

type Synthesizer interface {
	Synthesize(ctx context.Context, extracted models.ExtractedInfo, doc *models.Document) models.Synthesis
}

type Verifier interface {
	Verify(synthesis models.Synthesis, doc *models.Document) models.VerificationResult
}

type Reporter interface {
	Build(analysis *models.Analysis) (string, error)
}

type Visualizer interface {
	Generate(analysis *models.Analysis) *models.Visuals
}
