package dto

import "KolBD/internal/pkg/llm"

type RewriteDTO struct {
	Text              string `json:"text" validate:"required,min=1,max=5000"`
	Tone              string `json:"tone" validate:"omitempty,oneof=professional casual friendly formal"`
	Language          string `json:"language" validate:"omitempty,oneof=en zh ja ko es pt fr de ru"`
	PreserveVariables *bool  `json:"preserve_variables"`
	MaxLength         *int   `json:"max_length" validate:"omitempty,min=1,max=10000"`
}

// BatchRewriteDTO 同一批文本共享语气与语言
type BatchRewriteDTO struct {
	Texts             []string `json:"texts" validate:"required,min=1,max=10,dive,required,max=5000"`
	Tone              string   `json:"tone" validate:"omitempty,oneof=professional casual friendly formal"`
	Language          string   `json:"language" validate:"omitempty,oneof=en zh ja ko es pt fr de ru"`
	PreserveVariables *bool    `json:"preserve_variables"`
	MaxLength         *int     `json:"max_length" validate:"omitempty,min=1,max=10000"`
}

type KOLContextDTO struct {
	Username    string  `json:"username" validate:"required,max=50"`
	DisplayName string  `json:"display_name" validate:"required,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	Language    *string `json:"language" validate:"omitempty,max=10"`
}

// RewriteTemplateDTO KOLID 与 KOLContext 二选一，KOLID 优先
type RewriteTemplateDTO struct {
	Template   string         `json:"template" validate:"required,min=1,max=5000"`
	KOLID      *uint64        `json:"kol_id"`
	KOLContext *KOLContextDTO `json:"kol_context"`
	Tone       string         `json:"tone" validate:"omitempty,oneof=professional casual friendly formal"`
}

type RewriteResultDTO struct {
	Original   string    `json:"original"`
	Rewritten  string    `json:"rewritten"`
	Tone       string    `json:"tone"`
	Language   string    `json:"language"`
	Model      string    `json:"model"`
	TokensUsed llm.Usage `json:"tokens_used"`
}

type BatchRewriteResultDTO struct {
	Results    []*RewriteResultDTO `json:"results"`
	TokensUsed llm.Usage           `json:"tokens_used"`
}

type AIHealthDTO struct {
	Healthy   bool   `json:"healthy"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type TranslateDTO struct {
	Text           string  `json:"text" validate:"required,max=10000"`
	TargetLanguage string  `json:"target_language" validate:"required,min=2,max=10"`
	SourceLanguage *string `json:"source_language" validate:"omitempty,min=2,max=10"`
}

type BatchTranslateDTO struct {
	Texts          []string `json:"texts" validate:"required,min=1,max=100,dive,max=10000"`
	TargetLanguage string   `json:"target_language" validate:"required,min=2,max=10"`
	SourceLanguage *string  `json:"source_language" validate:"omitempty,min=2,max=10"`
}

type TranslateResultDTO struct {
	Text           string `json:"text"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type BatchTranslateResultDTO struct {
	Translations   []string `json:"translations"`
	SourceLanguage string   `json:"source_language"`
	TargetLanguage string   `json:"target_language"`
}

type TranslationStatusDTO struct {
	Available bool   `json:"available"`
	Provider  string `json:"provider"`
}

type DetectLanguageDTO struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type DetectLanguageResultDTO struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}
