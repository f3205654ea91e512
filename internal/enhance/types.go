package enhance

// Provider identifies one of the three text-completion backends.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderGrok   Provider = "grok"
	ProviderOpenAI Provider = "openai"
)

// DisplayName is the human-facing provider name used in error messages.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderClaude:
		return "Claude"
	case ProviderGrok:
		return "Grok"
	case ProviderOpenAI:
		return "OpenAI"
	}
	return string(p)
}

// EnhancementType selects which transformation the prompt asks for. The
// set is closed; prompt construction switches over it exhaustively.
type EnhancementType string

const (
	TypeSummarize                EnhancementType = "summarize"
	TypeExpand                   EnhancementType = "expand"
	TypeImprove                  EnhancementType = "improve"
	TypeImproveCreative          EnhancementType = "improve_creative"
	TypeImproveCreative1MinNovel EnhancementType = "improve_creative_1min_novel"
	TypeImproveCreative1MinFact  EnhancementType = "improve_creative_1min_fact"
	TypeTranslate                EnhancementType = "translate"
	TypeImproveExpand            EnhancementType = "improve_expand"
	TypeImproveExpandTranslate   EnhancementType = "improve_expand_translate"
	TypeAnalyzeStructure         EnhancementType = "analyze_structure"
	TypeGenerateIdeas            EnhancementType = "generate_ideas"
	TypeImproveHooks             EnhancementType = "improve_hooks"
	TypeCompetitiveScript        EnhancementType = "competitive_script"
)

// Request describes one enhancement job. Language only matters for the
// translate family; VideoTitle and VideoCategory only for the analysis
// family. UserPrompt, when present, is appended to the instruction
// verbatim.
type Request struct {
	OriginalText  string          `json:"original_text"`
	Provider      Provider        `json:"provider"`
	Type          EnhancementType `json:"enhancement_type"`
	Language      string          `json:"language,omitempty"`
	UserPrompt    string          `json:"user_prompt,omitempty"`
	VideoTitle    string          `json:"video_title,omitempty"`
	VideoCategory string          `json:"video_category,omitempty"`
}

// Response is the dispatcher's terminal result. All failure modes land in
// Error; Enhance never returns a Go error to the caller.
type Response struct {
	Success          bool   `json:"success"`
	EnhancedText     string `json:"enhanced_text,omitempty"`
	Error            string `json:"error,omitempty"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
}
