package scoring

import (
	"regexp"
	"strings"
	"sync"
)

// Thresholds for reporting a dimension as a strength or weakness.
const (
	strengthThreshold = 0.8
	weaknessThreshold = 0.4

	// Short prompts are not penalized for missing examples.
	examplesWeaknessMinLen = 200
)

// Report is the result of scoring one prompt.
type Report struct {
	// DimensionScores maps dimension ID to a score in [0, 1].
	DimensionScores map[string]float64 `json:"dimension_scores"`

	// Strengths and Weaknesses are human-readable findings derived from
	// dimensions that cross the thresholds.
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Overall returns the aggregate quality score on a 0-5 scale: the mean of
// the dimension scores scaled by five.
func (r *Report) Overall() float64 {
	if len(r.DimensionScores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range r.DimensionScores {
		sum += s
	}
	return sum / float64(len(r.DimensionScores)) * 5
}

// Scorer evaluates prompts against the quality dimensions using lexical
// heuristics. No network calls are made; scoring is deterministic.
//
// Scorer is safe for concurrent use. Dimension weights may be replaced at
// runtime by a scoring profile (see Profile).
type Scorer struct {
	patterns *patternSet

	mu         sync.RWMutex
	dimensions []Dimension
}

// NewScorer creates a scorer with the built-in dimensions and weights.
func NewScorer() *Scorer {
	return &Scorer{
		patterns:   compilePatterns(),
		dimensions: DefaultDimensions(),
	}
}

// Dimensions returns the current dimension set, including any weight
// overrides applied by a profile.
func (s *Scorer) Dimensions() []Dimension {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Dimension, len(s.dimensions))
	copy(out, s.dimensions)
	return out
}

// SetWeights replaces dimension weights. Unknown IDs are ignored.
func (s *Scorer) SetWeights(weights map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.dimensions {
		if w, ok := weights[s.dimensions[i].ID]; ok && w > 0 {
			s.dimensions[i].Weight = w
		}
	}
}

// Score evaluates a prompt and returns the per-dimension report.
func (s *Scorer) Score(promptText string) *Report {
	lower := strings.ToLower(promptText)

	report := &Report{
		DimensionScores: make(map[string]float64, len(defaultDimensions)),
		Strengths:       []string{},
		Weaknesses:      []string{},
	}

	type finding struct {
		id       string
		score    float64
		strength string
		weakness string
	}

	findings := []finding{
		{DimClarity, s.scoreClarity(promptText, lower),
			"Clear and specific instructions",
			"Instructions lack clarity and specificity"},
		{DimContext, s.scoreContext(promptText, lower),
			"Good background context provided",
			"Insufficient context or background information"},
		{DimTaskDefinition, s.scoreTaskDefinition(lower),
			"Well-defined task or request",
			"Task or request is poorly defined"},
		{DimStructure, s.scoreStructure(promptText),
			"Well-structured prompt with good organization",
			"Poor structure or organization"},
		{DimExamples, s.scoreExamples(promptText, lower),
			"Effective use of examples",
			"Missing or ineffective examples"},
		{DimConciseness, s.scoreConciseness(promptText, lower),
			"Concise and efficient language",
			"Unnecessarily verbose or repetitive"},
		{DimSpecificity, s.scoreOutputSpecificity(lower),
			"Clear output format or style specifications",
			"Unclear expectations for output format or style"},
		// The last three report strengths only: their absence is normal
		// for simple prompts and is handled by the suggestion engine.
		{DimRoleAssignment, s.scoreRoleAssignment(lower),
			"Effective use of role prompting", ""},
		{DimReasoningGuidance, s.scoreReasoningGuidance(lower),
			"Good guidance for reasoning process", ""},
		{DimConstraints, s.scoreConstraints(lower),
			"Clear constraints and limitations", ""},
	}

	for _, f := range findings {
		report.DimensionScores[f.id] = f.score

		switch {
		case f.score >= strengthThreshold:
			report.Strengths = append(report.Strengths, f.strength)
		case f.score <= weaknessThreshold && f.weakness != "":
			if f.id == DimExamples && len(promptText) <= examplesWeaknessMinLen {
				continue
			}
			report.Weaknesses = append(report.Weaknesses, f.weakness)
		}
	}

	return report
}

// ============================================================================
// Dimension heuristics
// ============================================================================

func (s *Scorer) scoreClarity(text, lower string) float64 {
	score := 0.5

	if containsAny(lower, actionVerbs) {
		score += 0.1
	}

	// Question words must appear as whole words
	padded := " " + lower + " "
	for _, word := range questionWords {
		if strings.Contains(padded, " "+word+" ") {
			score += 0.1
			break
		}
	}

	if containsAny(lower, ambiguousTerms) {
		score -= 0.1
	}

	if s.patterns.number.MatchString(text) || s.patterns.quantity.MatchString(lower) {
		score += 0.1
	}

	if containsAny(lower, timeframes) {
		score += 0.05
	}

	return clamp(score)
}

func (s *Scorer) scoreContext(text, lower string) float64 {
	score := 0.5

	count := countContains(lower, contextIndicators)
	score += min(0.2, float64(count)*0.05)

	// Longer context-bearing sentences earn a bonus
	sentences := s.patterns.sentenceSplit.Split(text, -1)
	var contextLen, contextCount int
	for _, sentence := range sentences {
		if containsAny(strings.ToLower(sentence), contextIndicators) {
			contextLen += len(sentence)
			contextCount++
		}
	}
	if contextCount > 0 {
		avg := float64(contextLen) / float64(contextCount)
		if avg > 100 {
			score += 0.1
		} else if avg > 50 {
			score += 0.05
		}
	}

	// Short prompts with no context at all are penalized
	if len(text) < 100 && count == 0 {
		score -= 0.2
	}

	return clamp(score)
}

func (s *Scorer) scoreTaskDefinition(lower string) float64 {
	score := 0.5

	if containsAny(lower, taskIndicators) {
		score += 0.1
	}
	if containsAny(lower, deliverableIndicators) {
		score += 0.1
	}
	if strings.Contains(lower, "step by step") || strings.Contains(lower, "steps:") {
		score += 0.1
	}
	if containsAny(lower, purposeIndicators) {
		score += 0.1
	}
	if containsAny(lower, vagueRequests) {
		score -= 0.2
	}

	return clamp(score)
}

func (s *Scorer) scoreStructure(text string) float64 {
	score := 0.5

	if s.patterns.numberedList.MatchString(text) {
		score += 0.15
	}
	if s.patterns.bulletList.MatchString(text) {
		score += 0.15
	}
	if s.patterns.sectionHeader.MatchString(text) {
		score += 0.1
	}
	if len(strings.Split(text, "\n\n")) > 1 {
		score += 0.05
	}
	if s.patterns.emphasis.MatchString(text) {
		score += 0.05
	}

	return clamp(score)
}

func (s *Scorer) scoreExamples(text, lower string) float64 {
	score := 0.5

	count := countContains(lower, exampleIndicators)
	if count > 0 {
		score += min(0.3, float64(count)*0.1)
	}

	if s.patterns.codeBlock.MatchString(text) || s.patterns.inlineCode.MatchString(text) {
		score += 0.1
	}
	if s.patterns.doubleQuoted.MatchString(text) || s.patterns.singleQuoted.MatchString(text) {
		score += 0.05
	}

	beforeAfter := strings.Contains(lower, "before") && strings.Contains(lower, "after")
	inputOutput := strings.Contains(lower, "input") && strings.Contains(lower, "output")
	if beforeAfter || inputOutput {
		score += 0.1
	}

	return clamp(score)
}

func (s *Scorer) scoreConciseness(text, lower string) float64 {
	score := 0.7

	if len(text) > 1000 {
		score -= 0.2
	} else if len(text) > 500 {
		score -= 0.1
	}

	words := strings.Fields(lower)
	if len(words) > 0 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		ratio := float64(len(unique)) / float64(len(words))
		if ratio < 0.4 {
			score -= 0.2
		} else if ratio < 0.5 {
			score -= 0.1
		}

		var fillers int
		for _, w := range words {
			if _, ok := fillerWords[w]; ok {
				fillers++
			}
		}
		if float64(fillers)/float64(len(words)) > 0.05 {
			score -= 0.1
		}
	}

	return clamp(score)
}

func (s *Scorer) scoreOutputSpecificity(lower string) float64 {
	score := 0.5

	if containsAny(lower, formatIndicators) {
		score += 0.15
	}
	if s.patterns.lengthSpec.MatchString(lower) {
		score += 0.15
	}
	if containsAny(lower, toneIndicators) {
		score += 0.1
	}
	if containsAny(lower, audienceIndicators) {
		score += 0.1
	}

	return clamp(score)
}

func (s *Scorer) scoreRoleAssignment(lower string) float64 {
	score := 0.5

	for _, p := range s.patterns.rolePatterns {
		if p.MatchString(lower) {
			score += 0.3
			break
		}
	}

	if containsAny(lower, expertiseIndicators) {
		score += 0.1
	}

	for _, p := range s.patterns.knowledgePatterns {
		if p.MatchString(lower) {
			score += 0.1
			break
		}
	}

	return clamp(score)
}

func (s *Scorer) scoreReasoningGuidance(lower string) float64 {
	score := 0.5

	if containsAny(lower, reasoningIndicators) {
		score += 0.2
	}

	for _, p := range s.patterns.thinkingPatterns {
		if p.MatchString(lower) {
			score += 0.1
			break
		}
	}

	if containsAny(lower, reasoningFrameworks) {
		score += 0.2
	}

	return clamp(score)
}

func (s *Scorer) scoreConstraints(lower string) float64 {
	score := 0.5

	count := countContains(lower, constraintIndicators)
	if count > 0 {
		score += min(0.3, float64(count)*0.05)
	}

	for _, p := range s.patterns.specificConstraints {
		if p.MatchString(lower) {
			score += 0.1
			break
		}
	}

	for _, p := range s.patterns.timeConstraints {
		if p.MatchString(lower) {
			score += 0.1
			break
		}
	}

	return clamp(score)
}

// ============================================================================
// Keyword lists and compiled patterns
// ============================================================================

var (
	actionVerbs   = []string{"explain", "describe", "analyze", "compare", "summarize", "list", "create", "generate"}
	questionWords = []string{"what", "how", "why", "when", "where", "who", "which"}
	ambiguousTerms = []string{
		"maybe", "perhaps", "somewhat", "kind of", "sort of", "etc", "and so on",
	}
	timeframes = []string{"minutes", "hours", "days", "weeks", "months", "years"}

	contextIndicators = []string{
		"background", "context", "previously", "currently", "situation",
		"scenario", "setting", "environment", "given that", "assuming",
	}

	taskIndicators        = []string{"task is", "goal is", "objective is", "please", "i need", "i want", "create", "generate"}
	deliverableIndicators = []string{"output", "result", "produce", "create", "generate", "write", "design"}
	purposeIndicators     = []string{"in order to", "so that", "purpose", "goal", "aim"}
	vagueRequests         = []string{"do something", "help me", "i'm not sure", "whatever you think"}

	exampleIndicators = []string{"example", "instance", "case", "illustration", "e.g.", "for instance", "such as"}

	fillerWords = map[string]struct{}{
		"basically": {}, "actually": {}, "literally": {}, "very": {},
		"really": {}, "just": {}, "so": {}, "quite": {},
	}

	formatIndicators = []string{
		"format", "style", "layout", "structure", "template",
		"json", "markdown", "html", "csv", "table", "list",
	}
	toneIndicators     = []string{"tone", "style", "voice", "formal", "informal", "technical", "simple", "academic"}
	audienceIndicators = []string{"audience", "reader", "user", "customer", "client", "stakeholder"}

	expertiseIndicators = []string{"expert", "specialist", "professional", "experienced", "knowledgeable"}

	reasoningIndicators = []string{
		"step by step", "think through", "reasoning", "explain your thinking",
		"show your work", "walk through", "break down", "analyze",
	}
	reasoningFrameworks = []string{"pros and cons", "advantages and disadvantages", "costs and benefits", "swot"}

	constraintIndicators = []string{
		"constraint", "limitation", "restriction", "boundary", "limit",
		"must", "should", "need to", "have to", "required", "necessary",
		"don't", "do not", "avoid", "exclude",
	}
)

type patternSet struct {
	number        *regexp.Regexp
	quantity      *regexp.Regexp
	sentenceSplit *regexp.Regexp
	numberedList  *regexp.Regexp
	bulletList    *regexp.Regexp
	sectionHeader *regexp.Regexp
	emphasis      *regexp.Regexp
	codeBlock     *regexp.Regexp
	inlineCode    *regexp.Regexp
	doubleQuoted  *regexp.Regexp
	singleQuoted  *regexp.Regexp
	lengthSpec    *regexp.Regexp

	rolePatterns        []*regexp.Regexp
	knowledgePatterns   []*regexp.Regexp
	thinkingPatterns    []*regexp.Regexp
	specificConstraints []*regexp.Regexp
	timeConstraints     []*regexp.Regexp
}

func compilePatterns() *patternSet {
	return &patternSet{
		number:        regexp.MustCompile(`\b\d+\b`),
		quantity:      regexp.MustCompile(`\b(few|several|many|most)\b`),
		sentenceSplit: regexp.MustCompile(`[.!?]`),
		numberedList:  regexp.MustCompile(`\b\d+\.\s`),
		bulletList:    regexp.MustCompile(`[•\-*]\s`),
		sectionHeader: regexp.MustCompile(`[A-Z][a-z]+:|[A-Z][A-Z\s]+:`),
		emphasis:      regexp.MustCompile(`[*_]{1,2}[^*_]+[*_]{1,2}`),
		codeBlock:     regexp.MustCompile("```[^`]+```"),
		inlineCode:    regexp.MustCompile("`[^`]+`"),
		doubleQuoted:  regexp.MustCompile(`"[^"]+"`),
		singleQuoted:  regexp.MustCompile(`'[^']+'`),
		lengthSpec:    regexp.MustCompile(`\b\d+\s+(words|characters|sentences|paragraphs|pages|length)\b`),

		rolePatterns: compileAll(
			`(act|serve|behave|respond|think|write)\s+as\s+(an?|the)\s+[a-z\s]+`,
			`you\s+are\s+(an?|the)\s+[a-z\s]+`,
			`(assume|take|adopt)\s+the\s+role\s+of\s+(an?|the)\s+[a-z\s]+`,
			`(pretend|imagine)\s+(you\s+are|yourself\s+as)\s+(an?|the)\s+[a-z\s]+`,
		),
		knowledgePatterns: compileAll(
			`with\s+(expertise|specialization|knowledge|background|experience)\s+in`,
			`who\s+(specializes|focuses|works)\s+in`,
			`trained\s+in`,
		),
		thinkingPatterns: compileAll(
			`think\s+(carefully|critically|thoroughly|deeply|step\s+by\s+step)`,
			`(before|first)\s+(answering|responding)`,
			`consider\s+(all|different|various)\s+(aspects|factors|perspectives)`,
		),
		specificConstraints: compileAll(
			`(no|without)\s+(more|less)\s+than\s+\d+`,
			`(minimum|maximum|at\s+least|at\s+most)\s+\d+`,
			`(only|exclusively)\s+use`,
			`(do\s+not|don't|avoid)\s+(use|include|mention)`,
		),
		timeConstraints: compileAll(
			`(within|in|under)\s+\d+\s+(minute|hour|day|week)`,
			`(by|before|until)\s+(tomorrow|today|monday|tuesday|wednesday|thursday|friday|saturday|sunday)`,
			`deadline`,
			`time\s+(limit|constraint|restriction)`,
		),
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func countContains(haystack string, needles []string) int {
	var count int
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			count++
		}
	}
	return count
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
