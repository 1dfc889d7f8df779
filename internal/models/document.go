package models

// DocumentType is the category assigned to a document by the classifier.
type DocumentType string

const (
	TypeArticle  DocumentType = "article"
	TypeContract DocumentType = "contract"
	TypeResume   DocumentType = "resume"
	TypeCourse   DocumentType = "course"
	TypeOther    DocumentType = "other"
)

// AllTypes lists every document type in classifier priority order.
func AllTypes() []DocumentType {
	return []DocumentType{TypeArticle, TypeContract, TypeResume, TypeCourse, TypeOther}
}

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeArticle, TypeContract, TypeResume, TypeCourse, TypeOther:
		return true
	}
	return false
}

// Page is one page of extracted text. Numbers start at 1.
type Page struct {
	Number int    `json:"page_number"`
	Text   string `json:"text"`
}

// ExtractionQuality captures metrics about how well text extraction went.
type ExtractionQuality struct {
	PageCount       int     `json:"page_count"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
}

// NeedsOCR returns true if the source likely needs OCR to yield usable text.
func (q *ExtractionQuality) NeedsOCR() bool {
	return (q.CharsPerPage < 50 && q.HasImageStreams) || q.PrintableRatio < 0.85
}

// Document is an ingested file, immutable once built.
type Document struct {
	Filename string             `json:"filename"`
	Path     string             `json:"path"`
	NumPages int                `json:"num_pages"`
	Pages    []Page             `json:"pages"`
	Quality  *ExtractionQuality `json:"quality,omitempty"`
}

// FullText concatenates all page texts in order, newline separated.
func (d *Document) FullText() string {
	var sb []byte
	for i, p := range d.Pages {
		if i > 0 {
			sb = append(sb, '\n')
		}
		sb = append(sb, p.Text...)
	}
	return string(sb)
}

// Section is a contiguous span of document text under one detected heading.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Pages   []int  `json:"pages"`
}
