package models

// Synthesis is the narrative output built from extracted fields.
type Synthesis struct {
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	RisksOrRemarks []string `json:"risks_or_remarks"`
}

// SupportLevel is the confidence tier that a key point is backed by page text.
type SupportLevel string

const (
	SupportStrong    SupportLevel = "strong"
	SupportMedium    SupportLevel = "medium"
	SupportUncertain SupportLevel = "uncertain"
)

// AnnotatedKeyPoint is a key point with its best supporting pages attached.
type AnnotatedKeyPoint struct {
	Text     string       `json:"text"`
	PageRefs []int        `json:"page_refs"`
	Support  SupportLevel `json:"support"`
}

// VerificationResult cross-checks a synthesis against the source pages.
type VerificationResult struct {
	AnnotatedSummary string              `json:"annotated_summary"`
	KeyPoints        []AnnotatedKeyPoint `json:"annotated_key_points"`
	Alerts           []string            `json:"alerts"`
}

// Visuals holds file paths of generated artifacts; empty means not generated.
type Visuals struct {
	Wordcloud  string `json:"wordcloud,omitempty"`
	Statistics string `json:"statistics,omitempty"`
	Mindmap    string `json:"mindmap,omitempty"`
	Status     string `json:"status"`
}

// StageStatus records how one pipeline stage went for a document.
type StageStatus struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// Analysis accumulates the outputs of the pipeline for one document. It is a
// builder owned by the orchestrator; each stage writes its own field once and
// never touches earlier ones.
type Analysis struct {
	Document       Document           `json:"document"`
	Type           DocumentType       `json:"document_type"`
	TypeConfidence float64            `json:"type_confidence"`
	Sections       []Section          `json:"sections"`
	Extracted      ExtractedInfo      `json:"extracted_info"`
	Synthesis      Synthesis          `json:"synthesis"`
	Verification   VerificationResult `json:"verification"`
	Visuals        *Visuals           `json:"visualizations,omitempty"`
	ReportPath     string             `json:"report_path,omitempty"`
	Stages         []StageStatus      `json:"stages,omitempty"`
}
