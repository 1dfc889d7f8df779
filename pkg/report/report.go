// Package report renders the final analysis as an A4 PDF: cover block,
// executive summary, key points, alerts, a per-type extraction table, and an
// annex of page references.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/docalyze/docalyze/internal/models"
)

// Config configures the report writer.
type Config struct {
	OutDir    string // default "reports/generated"
	CellChars int    // table cell cut (default 300)
	AnnexSize int    // annotated key points shown in the annex (default 8)
	Logger    *slog.Logger
	now       func() time.Time
}

func (c *Config) defaults() {
	if c.OutDir == "" {
		c.OutDir = filepath.Join("reports", "generated")
	}
	if c.CellChars <= 0 {
		c.CellChars = 300
	}
	if c.AnnexSize <= 0 {
		c.AnnexSize = 8
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
}

// Reporter writes analysis reports to disk.
type Reporter struct {
	config Config
}

// NewWithConfig creates a Reporter with the given configuration.
func NewWithConfig(config Config) *Reporter {
	config.defaults()
	return &Reporter{config: config}
}

// New creates a Reporter writing under reports/generated.
func New() *Reporter {
	return NewWithConfig(Config{})
}

// Build renders the analysis to a timestamped PDF under the output directory
// and returns its path.
func (r *Reporter) Build(analysis *models.Analysis) (string, error) {
	if err := os.MkdirAll(r.config.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(analysis.Document.Filename), filepath.Ext(analysis.Document.Filename))
	if base == "" {
		base = "rapport"
	}
	now := r.config.now()
	outPath := filepath.Join(r.config.OutDir, fmt.Sprintf("rapport_%s_%s.pdf", base, now.Format("20060102_150405")))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(13, 13, 13)
	pdf.SetAutoPageBreak(true, 13)
	pdf.AddPage()

	// Core fonts are latin-1; the translator maps the French accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr("Rapport d'analyse de document PDF"), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr("Fichier: "+analysis.Document.Filename), "", "L", false)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("Type détecté: %s", analysis.Type)), "", "L", false)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("Pages: %d", analysis.Document.NumPages)), "", "L", false)
	pdf.MultiCell(0, 6, tr("Date d'analyse: "+now.Format("2006-01-02 15:04")), "", "L", false)
	pdf.Ln(6)

	r.heading(pdf, tr, "Résumé exécutif")
	pdf.MultiCell(0, 6, tr(analysis.Synthesis.Summary), "", "L", false)
	pdf.Ln(4)

	if len(analysis.Synthesis.KeyPoints) > 0 {
		r.heading(pdf, tr, "Points clés")
		for _, p := range analysis.Synthesis.KeyPoints {
			pdf.MultiCell(0, 6, tr("- "+p), "", "L", false)
		}
		pdf.Ln(4)
	}

	if len(analysis.Verification.Alerts) > 0 {
		r.heading(pdf, tr, "Alertes / Incertitudes")
		for _, a := range analysis.Verification.Alerts {
			pdf.MultiCell(0, 6, tr("- "+a), "", "L", false)
		}
		pdf.Ln(4)
	}

	r.heading(pdf, tr, "Informations extraites")
	r.table(pdf, tr, extractionRows(analysis.Extracted, r.config.CellChars))

	if akp := analysis.Verification.KeyPoints; len(akp) > 0 {
		if len(akp) > r.config.AnnexSize {
			akp = akp[:r.config.AnnexSize]
		}
		pdf.Ln(6)
		r.heading(pdf, tr, "Annexe: Références de pages (approx.)")
		for _, it := range akp {
			refs := "-"
			if len(it.PageRefs) > 0 {
				parts := make([]string, len(it.PageRefs))
				for i, n := range it.PageRefs {
					parts[i] = fmt.Sprint(n)
				}
				refs = strings.Join(parts, ", ")
			}
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("- %s (pages: %s, support: %s)", it.Text, refs, it.Support)), "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	r.config.Logger.Info("report written", "path", outPath)
	return outPath, nil
}

func (r *Reporter) heading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, tr(text), "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(1)
}

type row struct {
	label string
	value string
}

func (r *Reporter) table(pdf *fpdf.Fpdf, tr func(string) string, rows []row) {
	const labelW, valueW, lineH = 50.0, 127.0, 5.5
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetDrawColor(128, 128, 128)
	for _, rw := range rows {
		value := rw.value
		if value == "" {
			value = "-"
		}
		value = tr(value)
		cellH := lineH * float64(len(pdf.SplitText(value, valueW)))
		if cellH < lineH {
			cellH = lineH
		}
		x, y := pdf.GetX(), pdf.GetY()
		pdf.CellFormat(labelW, cellH, tr(rw.label), "1", 0, "L", false, 0, "")
		pdf.SetXY(x+labelW, y)
		pdf.MultiCell(valueW, lineH, value, "1", "L", false)
		pdf.SetY(y + cellH)
	}
}

func extractionRows(info models.ExtractedInfo, cut int) []row {
	switch info.Type {
	case models.TypeArticle:
		a := info.Article
		if a == nil {
			a = &models.ArticleInfo{}
		}
		return []row{
			{"Problème", clip(a.Problem, cut)},
			{"Objectifs", clip(a.Objectives, cut)},
			{"Méthodes", clip(a.Methods, cut)},
			{"Résultats", clip(a.MainResults, cut)},
			{"Conclusion", clip(a.Conclusion, cut)},
			{"Mots-clés", strings.Join(a.Keywords, ", ")},
		}
	case models.TypeContract:
		c := info.Contract
		if c == nil {
			c = &models.ContractInfo{}
		}
		return []row{
			{"Parties", clip(strings.Join(c.Parties, " | "), cut)},
			{"Dates (sig/début/fin)", fmt.Sprintf("%s / %s / %s", c.Dates.Signature, c.Dates.Start, c.Dates.End)},
			{"Durée", c.Duration},
			{"Montants", clip(strings.Join(c.Amounts, ", "), cut)},
			{"Obligations (extraits)", clip(strings.Join(c.Obligations, " | "), cut)},
			{"Résiliation (extraits)", clip(strings.Join(c.TerminationClauses, " | "), cut)},
			{"Pénalités (extraits)", clip(strings.Join(c.Penalties, " | "), cut)},
		}
	default:
		g := info.Generic
		if g == nil {
			g = &models.GenericInfo{}
		}
		return []row{
			{"Sections principales", clip(strings.Join(g.MainSections, ", "), cut)},
			{"Points clés (mots)", clip(strings.Join(g.KeyPoints, ", "), cut)},
			{"Mots-clés", clip(strings.Join(g.Keywords, ", "), cut)},
		}
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
