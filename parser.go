package timetable

import (
	"log"
	"time"
)

// ParseMetrics contains timing and statistics for a single parse.
type ParseMetrics struct {
	TotalTime     time.Duration
	Fragments     int
	Rows          int
	Anchors       int
	InvalidRanges int // Anchors dropped because end <= start
	Duplicates    int
	Items         int
}

// Config controls schedule extraction behavior.
type Config struct {
	// RowTolerance is the maximum vertical center distance, in normalized
	// height, for a fragment to join an existing row (default: 0.02)
	RowTolerance float64

	// SameRowEpsilon is the horizontal slack, in normalized width, when
	// deciding whether a fragment lies right of an anchor (default: 0.002)
	SameRowEpsilon float64

	// MaxLookback is the number of rows above an anchor searched for
	// context (default: 2)
	MaxLookback int

	// MaxLookahead is the number of rows below an anchor searched for
	// context (default: 6)
	MaxLookahead int

	// FlatWindow is the number of lines after a time line that the flat
	// parser reads as context (default: 8)
	FlatWindow int

	// Locale supplies the keyword dictionaries (default: DefaultLocale())
	Locale *Locale

	// EnableMetricsLogging logs timing and statistics for every parse (default: false)
	EnableMetricsLogging bool
}

// DefaultConfig returns the default parser configuration.
func DefaultConfig() Config {
	return Config{
		RowTolerance:   0.02,
		SameRowEpsilon: 0.002,
		MaxLookback:    2,
		MaxLookahead:   6,
		FlatWindow:     8,
		Locale:         DefaultLocale(),
	}
}

// Parser reconstructs schedule items from OCR fragments.
// A Parser holds no per-parse state and may be reused.
type Parser struct {
	config    Config
	extractor *FieldExtractor
	anchors   *AnchorDetector
}

// NewParser creates a parser with default configuration.
func NewParser() *Parser {
	return NewParserWithConfig(DefaultConfig())
}

// NewParserWithConfig creates a parser with custom configuration.
// A nil Locale falls back to DefaultLocale().
func NewParserWithConfig(config Config) *Parser {
	if config.Locale == nil {
		config.Locale = DefaultLocale()
	}
	return &Parser{
		config:    config,
		extractor: NewFieldExtractor(config.Locale),
		anchors:   NewAnchorDetector(config.Locale),
	}
}

// Extractor returns the field extractor shared by both parsing modes.
func (p *Parser) Extractor() *FieldExtractor {
	return p.extractor
}

// Parse extracts schedule items from an unordered set of fragments.
// It returns an empty slice when no time range is found.
func (p *Parser) Parse(fragments []Fragment) []ScheduleItem {
	items, metrics := p.ParseWithMetrics(fragments)
	if p.config.EnableMetricsLogging {
		logParseMetrics("Positional", metrics)
	}
	return items
}

// ParseWithMetrics extracts schedule items and returns parse statistics.
func (p *Parser) ParseWithMetrics(fragments []Fragment) ([]ScheduleItem, ParseMetrics) {
	startTime := time.Now()
	metrics := ParseMetrics{Fragments: len(fragments)}

	rows := ClusterRows(normalizeFragments(fragments), p.config.RowTolerance)
	metrics.Rows = len(rows)

	anchors := p.anchors.Detect(rows)
	metrics.Anchors = len(anchors)
	if len(anchors) == 0 {
		metrics.TotalTime = time.Since(startTime)
		return []ScheduleItem{}, metrics
	}

	anchorRows := make(map[int]bool, len(anchors))
	for _, a := range anchors {
		anchorRows[a.Row] = true
	}

	rowDays := propagateWeekdays(rows, anchorRows, p.config.Locale)
	titles := titleResolver{extractor: p.extractor, anchors: p.anchors}
	window := contextWindow{
		sameRowEpsilon: p.config.SameRowEpsilon,
		maxLookback:    p.config.MaxLookback,
		maxLookahead:   p.config.MaxLookahead,
	}

	items := make([]ScheduleItem, 0, len(anchors))
	for i, a := range anchors {
		ctx := collectContext(rows, anchors, i, anchorRows, window)
		fields := p.extractor.Classify(fragmentTexts(ctx.All()))
		item, ok := assembleItem(a, titles.resolve(a, ctx), fields, rowDays[a.Row])
		if !ok {
			metrics.InvalidRanges++
			continue
		}
		items = append(items, item)
	}

	items, metrics.Duplicates = deduplicateItems(items)
	metrics.Items = len(items)
	metrics.TotalTime = time.Since(startTime)

	return items, metrics
}

func fragmentTexts(fragments []Fragment) []string {
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}
	return texts
}

// logParseMetrics logs the parse metrics in a readable format
func logParseMetrics(mode string, metrics ParseMetrics) {
	log.Println("┌─────────────────────────────────────────────┐")
	log.Printf("│ %-43s │\n", mode+" Schedule Parse")
	log.Println("├─────────────────────────────────────────────┤")
	log.Printf("│ Total Time: %-31v │\n", metrics.TotalTime.Round(time.Microsecond))
	log.Println("├─────────────────────────────────────────────┤")
	log.Printf("│   Fragments:      %-25d │\n", metrics.Fragments)
	log.Printf("│   Rows:           %-25d │\n", metrics.Rows)
	log.Printf("│   Anchors:        %-25d │\n", metrics.Anchors)
	log.Printf("│   Invalid ranges: %-25d │\n", metrics.InvalidRanges)
	log.Printf("│   Duplicates:     %-25d │\n", metrics.Duplicates)
	log.Printf("│   Items:          %-25d │\n", metrics.Items)
	log.Println("└─────────────────────────────────────────────┘")
}
