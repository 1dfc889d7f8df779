// Package visualize produces optional artifacts for an analysis: a word
// cloud PNG, a statistics bar chart PNG, and a mind map in DOT format.
// Failures here never fail an analysis; missing artifacts stay empty.
package visualize

import (
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/psykhi/wordclouds"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/docalyze/docalyze/internal/models"
)

// Config configures artifact generation.
type Config struct {
	OutDir    string // default "reports/visuals"
	FontFile  string // TTF used by the word cloud; empty disables it
	MaxWords  int    // word cloud size (default 80)
	TextChars int    // full-text cut fed to the word cloud (default 10000)
	Logger    *slog.Logger
}

func (c *Config) defaults() {
	if c.OutDir == "" {
		c.OutDir = filepath.Join("reports", "visuals")
	}
	if c.MaxWords <= 0 {
		c.MaxWords = 80
	}
	if c.TextChars <= 0 {
		c.TextChars = 10000
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Visualizer writes analysis artifacts to disk.
type Visualizer struct {
	config Config
}

// NewWithConfig creates a Visualizer with the given configuration.
func NewWithConfig(config Config) *Visualizer {
	config.defaults()
	return &Visualizer{config: config}
}

// New creates a Visualizer writing under reports/visuals.
func New() *Visualizer {
	return NewWithConfig(Config{})
}

// Generate builds all artifacts it can and reports per-artifact paths. Status
// is "generated" when at least one artifact exists, "unavailable" otherwise.
func (v *Visualizer) Generate(analysis *models.Analysis) *models.Visuals {
	visuals := &models.Visuals{Status: "unavailable"}

	if err := os.MkdirAll(v.config.OutDir, 0o755); err != nil {
		v.config.Logger.Warn("visuals directory not writable", "dir", v.config.OutDir, "error", err)
		return visuals
	}

	base := strings.TrimSuffix(filepath.Base(analysis.Document.Filename), filepath.Ext(analysis.Document.Filename))
	if base == "" {
		base = "document"
	}

	if path, err := v.wordcloud(analysis, base); err != nil {
		v.config.Logger.Warn("wordcloud generation failed", "error", err)
	} else if path != "" {
		visuals.Wordcloud = path
	}

	if path, err := v.statistics(analysis, base); err != nil {
		v.config.Logger.Warn("statistics chart generation failed", "error", err)
	} else if path != "" {
		visuals.Statistics = path
	}

	if path, err := v.mindmap(analysis, base); err != nil {
		v.config.Logger.Warn("mindmap generation failed", "error", err)
	} else if path != "" {
		visuals.Mindmap = path
	}

	if visuals.Wordcloud != "" || visuals.Statistics != "" || visuals.Mindmap != "" {
		visuals.Status = "generated"
	}
	return visuals
}

func (v *Visualizer) wordcloud(analysis *models.Analysis, base string) (string, error) {
	if v.config.FontFile == "" {
		return "", nil
	}

	text := analysis.Document.FullText()
	if r := []rune(text); len(r) > v.config.TextChars {
		text = string(r[:v.config.TextChars])
	}
	counts := wordCounts(text, v.config.MaxWords)
	if len(counts) == 0 {
		return "", nil
	}

	cloud := wordclouds.NewWordcloud(counts,
		wordclouds.FontFile(v.config.FontFile),
		wordclouds.Width(800),
		wordclouds.Height(400),
		wordclouds.FontMaxSize(64),
		wordclouds.FontMinSize(10),
		wordclouds.BackgroundColor(color.White),
		wordclouds.Colors([]color.Color{
			color.RGBA{R: 0x44, G: 0x01, B: 0x54, A: 0xff},
			color.RGBA{R: 0x31, G: 0x68, B: 0x8e, A: 0xff},
			color.RGBA{R: 0x35, G: 0xb7, B: 0x79, A: 0xff},
			color.RGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff},
		}),
	)
	img := cloud.Draw()

	path := filepath.Join(v.config.OutDir, base+"_wordcloud.png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return path, nil
}

func (v *Visualizer) statistics(analysis *models.Analysis, base string) (string, error) {
	bars, title := statisticsBars(analysis.Extracted)
	if len(bars) == 0 {
		return "", nil
	}

	bc := chart.BarChart{
		Title:    title,
		Width:    700,
		Height:   400,
		BarWidth: 60,
		Bars:     bars,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue(bars) + 1},
		},
	}

	path := filepath.Join(v.config.OutDir, base+"_stats.png")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := bc.Render(chart.PNG, f); err != nil {
		return "", err
	}
	return path, nil
}

func statisticsBars(info models.ExtractedInfo) ([]chart.Value, string) {
	switch info.Type {
	case models.TypeArticle:
		a := info.Article
		if a == nil {
			return nil, ""
		}
		return []chart.Value{
			{Label: "Problème", Value: presence(a.Problem)},
			{Label: "Objectifs", Value: presence(a.Objectives)},
			{Label: "Méthodes", Value: presence(a.Methods)},
			{Label: "Résultats", Value: presence(a.MainResults)},
			{Label: "Conclusion", Value: presence(a.Conclusion)},
		}, "Sections identifiées"
	case models.TypeContract:
		c := info.Contract
		if c == nil {
			return nil, ""
		}
		return []chart.Value{
			{Label: "Parties", Value: float64(len(c.Parties))},
			{Label: "Montants", Value: float64(len(c.Amounts))},
			{Label: "Obligations", Value: float64(len(c.Obligations))},
			{Label: "Clauses", Value: float64(len(c.TerminationClauses))},
		}, "Éléments extraits du contrat"
	default:
		g := info.Generic
		if g == nil {
			return nil, ""
		}
		return []chart.Value{
			{Label: "Sections", Value: float64(len(g.MainSections))},
			{Label: "Points clés", Value: float64(len(g.KeyPoints))},
		}, "Contenu du document"
	}
}

func (v *Visualizer) mindmap(analysis *models.Analysis, base string) (string, error) {
	g := graph.New(graph.StringHash, graph.Directed())

	title := analysis.Document.Filename
	if r := []rune(title); len(r) > 30 {
		title = string(r[:30])
	}
	if err := g.AddVertex("Document", graph.VertexAttribute("label", title)); err != nil {
		return "", err
	}

	for _, branch := range mindmapBranches(analysis.Extracted) {
		if err := g.AddVertex(branch.id, graph.VertexAttribute("label", branch.label)); err != nil {
			return "", err
		}
		if err := g.AddEdge("Document", branch.id); err != nil {
			return "", err
		}
	}

	path := filepath.Join(v.config.OutDir, base+"_mindmap.dot")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := draw.DOT(g, f); err != nil {
		return "", err
	}
	return path, nil
}

type branch struct {
	id    string
	label string
}

func mindmapBranches(info models.ExtractedInfo) []branch {
	var out []branch
	switch info.Type {
	case models.TypeArticle:
		a := info.Article
		if a == nil {
			return nil
		}
		for _, b := range []struct {
			name    string
			content string
		}{
			{"Problème", a.Problem},
			{"Méthodes", a.Methods},
			{"Résultats", a.MainResults},
			{"Conclusion", a.Conclusion},
		} {
			if b.content != "" {
				out = append(out, branch{id: b.name, label: b.name})
			}
		}
	case models.TypeContract:
		c := info.Contract
		if c == nil {
			return nil
		}
		if len(c.Parties) > 0 {
			out = append(out, branch{id: "Parties", label: "Parties"})
		}
		if len(c.Amounts) > 0 {
			out = append(out, branch{id: "Montants", label: "Montants"})
		}
		if len(c.Obligations) > 0 {
			out = append(out, branch{id: "Obligations", label: "Obligations"})
		}
	default:
		g := info.Generic
		if g == nil {
			return nil
		}
		sections := g.MainSections
		if len(sections) > 5 {
			sections = sections[:5]
		}
		for i, sec := range sections {
			label := sec
			if r := []rune(label); len(r) > 30 {
				label = string(r[:30])
			}
			out = append(out, branch{id: fmt.Sprintf("Section%d", i+1), label: label})
		}
	}
	return out
}

// wordCounts is a plain frequency map over whitespace-split tokens; stop word
// filtering already happened upstream when keywords were extracted, and the
// cloud tolerates noise.
func wordCounts(text string, max int) map[string]int {
	counts := make(map[string]int)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,:;()[]{}\"'!?%")
		if len([]rune(tok)) <= 2 {
			continue
		}
		counts[tok]++
	}
	if len(counts) <= max {
		return counts
	}

	type wc struct {
		word  string
		count int
	}
	ranked := make([]wc, 0, len(counts))
	for w, c := range counts {
		ranked = append(ranked, wc{w, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	top := make(map[string]int, max)
	for _, r := range ranked[:max] {
		top[r.word] = r.count
	}
	return top
}

func presence(s string) float64 {
	if s != "" {
		return 1
	}
	return 0
}

func maxValue(bars []chart.Value) float64 {
	m := 0.0
	for _, b := range bars {
		if b.Value > m {
			m = b.Value
		}
	}
	return m
}
