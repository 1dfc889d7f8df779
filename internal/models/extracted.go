package models

// ArticleInfo is the extraction variant for scientific articles.
// Field names on the wire stay French for compatibility with the report
// layout and the structured LLM prompts.
type ArticleInfo struct {
	Problem     string   `json:"probleme"`
	Objectives  string   `json:"objectifs"`
	Methods     string   `json:"methodes"`
	MainResults string   `json:"resultats_principaux"`
	Conclusion  string   `json:"conclusion"`
	Keywords    []string `json:"mots_cles"`
}

// ContractDates holds the first three date-like tokens found in a contract,
// assigned positionally in document order.
type ContractDates struct {
	Signature string `json:"signature"`
	Start     string `json:"debut"`
	End       string `json:"fin"`
}

// ContractInfo is the extraction variant for contracts.
type ContractInfo struct {
	Parties            []string      `json:"parties"`
	Dates              ContractDates `json:"dates"`
	Duration           string        `json:"duree"`
	Amounts            []string      `json:"montants"`
	Obligations        []string      `json:"obligations_principales"`
	TerminationClauses []string      `json:"clauses_resiliation"`
	Penalties          []string      `json:"penalites"`
}

// GenericInfo is the extraction variant for everything without a dedicated
// schema: resumes, courses and unclassified documents.
type GenericInfo struct {
	MainSections []string `json:"sections_principales"`
	KeyPoints    []string `json:"points_cles"`
	Keywords     []string `json:"mots_cles"`
}

// ExtractedInfo is a tagged union over the per-type variants. Exactly one of
// the variant pointers is non-nil, selected by Type.
type ExtractedInfo struct {
	Type     DocumentType  `json:"type"`
	Article  *ArticleInfo  `json:"article,omitempty"`
	Contract *ContractInfo `json:"contract,omitempty"`
	Generic  *GenericInfo  `json:"generic,omitempty"`
}

// NewArticleInfo wraps an article variant, filling nil slices.
func NewArticleInfo(a *ArticleInfo) ExtractedInfo {
	if a.Keywords == nil {
		a.Keywords = []string{}
	}
	return ExtractedInfo{Type: TypeArticle, Article: a}
}

// NewContractInfo wraps a contract variant, filling nil slices.
func NewContractInfo(c *ContractInfo) ExtractedInfo {
	if c.Parties == nil {
		c.Parties = []string{}
	}
	if c.Amounts == nil {
		c.Amounts = []string{}
	}
	if c.Obligations == nil {
		c.Obligations = []string{}
	}
	if c.TerminationClauses == nil {
		c.TerminationClauses = []string{}
	}
	if c.Penalties == nil {
		c.Penalties = []string{}
	}
	return ExtractedInfo{Type: TypeContract, Contract: c}
}

// NewGenericInfo wraps a generic variant for the given type, filling nil slices.
func NewGenericInfo(t DocumentType, g *GenericInfo) ExtractedInfo {
	if g.MainSections == nil {
		g.MainSections = []string{}
	}
	if g.KeyPoints == nil {
		g.KeyPoints = []string{}
	}
	if g.Keywords == nil {
		g.Keywords = []string{}
	}
	return ExtractedInfo{Type: t, Generic: g}
}
