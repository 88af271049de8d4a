package domain

// Chunk is a bounded slice of one source document's text. Chunks are
// created during a build and never mutated afterwards.
type Chunk struct {
	Text     string `json:"text"`
	SourceID string `json:"source_id"`
	Position int    `json:"position"`
}

// Hit is a raw index match: a row number and its cosine score.
type Hit struct {
	Row   int
	Score float64
}

type QueryResult struct {
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Source   string         `json:"source"`
	Metadata ResultMetadata `json:"metadata"`
}

type ResultMetadata struct {
	Position int `json:"position"`
	Row      int `json:"row"`
}

// Summary is a coarse, display-only description of an indexed corpus.
type Summary struct {
	Corpus      string         `json:"corpus"`
	TotalChunks int            `json:"total_chunks"`
	TotalWords  int            `json:"total_words"`
	Sections    map[string]int `json:"sections"`
	SampleText  string         `json:"sample_text"`
}

type JobRecord struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	SalaryRange     string   `json:"salary_range"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	Skills          []string `json:"skills"`
	Industry        string   `json:"industry"`
	ExperienceLevel string   `json:"experience_level"`
	GrowthPotential string   `json:"growth_potential"`
	IndustryTrend   string   `json:"industry_trend"`
}

// Recommendation is derived per query and never persisted.
type Recommendation struct {
	Job             JobRecord `json:"job"`
	SemanticScore   float64   `json:"semantic_score"`
	SkillMatchScore float64   `json:"skill_match_score"`
	MatchedSkills   []string  `json:"matched_skills"`
	CompositeScore  float64   `json:"composite_score"`
	Reasoning       string    `json:"reasoning"`
	// ATSCompatibility is "High" when the semantic score exceeds 0.7.
	ATSCompatibility string `json:"ats_compatibility"`
}

type MarketInsights struct {
	AverageSalary       float64  `json:"average_salary"`
	SalaryRange         string   `json:"salary_range"`
	TopLocations        []string `json:"top_locations"`
	MarketDemand        string   `json:"market_demand"`
	GrowthOpportunities int      `json:"growth_opportunities"`
}

// IndexManifest records which embedding model produced a persisted index.
type IndexManifest struct {
	SchemaVersion int    `json:"schema_version"`
	Corpus        string `json:"corpus"`
	Model         string `json:"model"`
	Dimension     int    `json:"dimension"`
	Count         int    `json:"count"`
	// Fingerprint identifies the inputs the index was built from.
	Fingerprint string `json:"fingerprint,omitempty"`
}
