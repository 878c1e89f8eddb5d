package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/consts"
	"KolBD/internal/pkg/llm"
	"KolBD/internal/pkg/redis"
	"KolBD/internal/pkg/util"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	log "log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const translationCacheTTL = 24 * time.Hour

var translationLanguages = map[string]string{
	"en":    "English",
	"zh":    "Simplified Chinese",
	"zh-cn": "Simplified Chinese",
	"ja":    "Japanese",
	"ko":    "Korean",
	"es":    "Spanish",
	"pt":    "Portuguese",
	"fr":    "French",
	"de":    "German",
	"ru":    "Russian",
}

var languageCodeRegex = regexp.MustCompile(`(?i)\b([a-z]{2})(?:-[a-z]{2,4})?\b`)

type TranslationService interface {
	Translate(ctx context.Context, dto *dto.TranslateDTO) (*dto.TranslateResultDTO, error)
	BatchTranslate(ctx context.Context, dto *dto.BatchTranslateDTO) (*dto.BatchTranslateResultDTO, error)
	DetectLanguage(ctx context.Context, dto *dto.DetectLanguageDTO) (*dto.DetectLanguageResultDTO, error)
	Status() *dto.TranslationStatusDTO
}

type TranslationServiceImpl struct {
	client llm.Client
}

func NewTranslationService(client llm.Client) TranslationService {
	return &TranslationServiceImpl{
		client: client,
	}
}

// Status 只看是否配置了供应商，不发起请求
func (s *TranslationServiceImpl) Status() *dto.TranslationStatusDTO {
	if s.client == nil {
		return &dto.TranslationStatusDTO{Provider: "none"}
	}
	return &dto.TranslationStatusDTO{
		Available: true,
		Provider:  s.client.Provider(),
	}
}

func (s *TranslationServiceImpl) Translate(ctx context.Context, translateDTO *dto.TranslateDTO) (*dto.TranslateResultDTO, error) {
	if s.client == nil {
		return nil, ErrLLMDisabled
	}
	source := sourceOf(translateDTO.SourceLanguage)
	translated, err := s.translate(ctx, translateDTO.Text, translateDTO.TargetLanguage, source)
	if err != nil {
		return nil, err
	}
	return &dto.TranslateResultDTO{
		Text:           translateDTO.Text,
		TranslatedText: translated,
		SourceLanguage: orDefault(source, "auto"),
		TargetLanguage: translateDTO.TargetLanguage,
	}, nil
}

// BatchTranslate 并发翻译，结果与输入顺序一致，任意一条失败则整体失败
func (s *TranslationServiceImpl) BatchTranslate(ctx context.Context, batchDTO *dto.BatchTranslateDTO) (*dto.BatchTranslateResultDTO, error) {
	if s.client == nil {
		return nil, ErrLLMDisabled
	}
	source := sourceOf(batchDTO.SourceLanguage)
	out := make([]string, len(batchDTO.Texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(llm.TextWeight))
	for i, text := range batchDTO.Texts {
		g.Go(func() error {
			translated, err := s.translate(gctx, text, batchDTO.TargetLanguage, source)
			if err != nil {
				return err
			}
			out[i] = translated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.BatchTranslateResultDTO{
		Translations:   out,
		SourceLanguage: orDefault(source, "auto"),
		TargetLanguage: batchDTO.TargetLanguage,
	}, nil
}

func (s *TranslationServiceImpl) DetectLanguage(ctx context.Context, detectDTO *dto.DetectLanguageDTO) (*dto.DetectLanguageResultDTO, error) {
	if s.client == nil {
		return nil, ErrLLMDisabled
	}
	if strings.TrimSpace(detectDTO.Text) == "" {
		return nil, ErrParamInvalid
	}
	result, err := s.client.Chat(ctx,
		"Identify the language of the user's text. Reply with ONLY its ISO 639-1 code, for example en, zh, ja.",
		detectDTO.Text,
		&llm.ChatOptions{Temperature: 0.01, TopP: 0.7, MaxTokens: 8})
	if err != nil {
		return nil, errors.Wrap(ErrLLMFailed, err.Error())
	}
	m := languageCodeRegex.FindStringSubmatch(result.Content)
	if m == nil {
		return nil, errors.Wrap(ErrLLMFailed, "语言检测失败")
	}
	return &dto.DetectLanguageResultDTO{
		Language: strings.ToLower(m[1]),
		Score:    1.0,
	}, nil
}

// translate 繁体目标先译为简体中文再用 s2t 转换，结果按 (source, target, text) 缓存
func (s *TranslationServiceImpl) translate(ctx context.Context, text, target, source string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	key := translationCacheKey(text, target, source)
	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		return cached, nil
	}

	traditional := util.IsTraditionalChinese(target)
	targetName := languageName(target)
	if traditional {
		targetName = translationLanguages["zh"]
	}
	systemPrompt := fmt.Sprintf("You are a professional translator. Translate the user's text into %s.", targetName)
	if source != "" {
		systemPrompt += fmt.Sprintf(" The source language is %s.", languageName(source))
	}
	systemPrompt += " Preserve template variables like {{username}} exactly. Return ONLY the translation."

	result, err := s.client.Chat(ctx, systemPrompt, text, &llm.ChatOptions{Temperature: 0.3, TopP: 0.9})
	if err != nil {
		log.ErrorContext(ctx, "翻译失败", "target", target, "err", err)
		return "", errors.Wrap(ErrLLMFailed, err.Error())
	}
	translated := result.Content
	if translated == "" {
		return "", errors.Wrap(ErrLLMFailed, "翻译返回空内容")
	}
	if traditional {
		translated = util.ToTraditional(translated)
	}

	if err = redis.SetWithExpiration(ctx, key, translated, translationCacheTTL); err != nil && !errors.Is(err, redis.ErrDisabled) {
		log.WarnContext(ctx, "translation cache write failed", "err", err)
	}
	return translated, nil
}

func languageName(code string) string {
	if name, ok := translationLanguages[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

func sourceOf(source *string) string {
	if source == nil {
		return ""
	}
	return strings.TrimSpace(*source)
}

func translationCacheKey(text, target, source string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(source) + "|" + strings.ToLower(target) + "|" + text))
	return consts.TranslationCacheKey + hex.EncodeToString(sum[:])
}
