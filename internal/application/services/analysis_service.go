package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"ai-analysis-gateway/internal/domain/entities"
	"ai-analysis-gateway/internal/domain/repositories"
	domainServices "ai-analysis-gateway/internal/domain/services"
	"ai-analysis-gateway/internal/infrastructure/gateway"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// DefaultPromptTemplate 默认分析提示词。要求提供商严格返回JSON，
// 解析按类型化结构进行，缺字段即判为解析失败。
const DefaultPromptTemplate = `You are a social media intelligence analyst. ` +
	`Analyze the following post and respond ONLY with a JSON object containing: ` +
	`"is_relevant" (boolean), "analytical_briefing" (string), ` +
	`"summary" (string, optional), "translation" (string, English translation if the post is not in English, optional). ` +
	`Do not wrap the JSON in markdown fences.`

// AnalysisService 内容分析服务接口
type AnalysisService interface {
	// AnalyzeContent 分析一段内容，返回类型化结果
	AnalyzeContent(ctx context.Context, content string, mediaType entities.MediaType, mediaURL, promptTemplate string) (*entities.AnalysisResult, *gateway.AnalyzeOutcome, error)

	// AnalyzePost 分析一条帖子并更新其状态与结果字段
	AnalyzePost(ctx context.Context, post *entities.Post) error
}

// analysisServiceImpl 内容分析服务实现
type analysisServiceImpl struct {
	dispatcher *gateway.Dispatcher
	postRepo   repositories.PostRepository
	notifier   domainServices.NotifierAdapter
	converter  *md.Converter
	logger     logger.Logger
}

// NewAnalysisService 创建内容分析服务。notifier可为nil（推送未启用）。
func NewAnalysisService(
	dispatcher *gateway.Dispatcher,
	postRepo repositories.PostRepository,
	notifier domainServices.NotifierAdapter,
	log logger.Logger,
) AnalysisService {
	return &analysisServiceImpl{
		dispatcher: dispatcher,
		postRepo:   postRepo,
		notifier:   notifier,
		converter:  md.NewConverter("", true, nil),
		logger:     log,
	}
}

// AnalyzeContent 分析一段内容
func (s *analysisServiceImpl) AnalyzeContent(ctx context.Context, content string, mediaType entities.MediaType, mediaURL, promptTemplate string) (*entities.AnalysisResult, *gateway.AnalyzeOutcome, error) {
	if promptTemplate == "" {
		promptTemplate = DefaultPromptTemplate
	}

	// 抓取来源的内容可能带HTML，先转成markdown再分析，
	// 同一帖子不同来源的格式差异不会打散缓存指纹
	normalized := s.normalizeContent(content)

	outcome, err := s.dispatcher.Analyze(ctx, &gateway.AnalyzeRequest{
		Content:        normalized,
		MediaType:      mediaType,
		MediaURL:       mediaURL,
		PromptTemplate: promptTemplate,
	})
	if err != nil {
		return nil, nil, err
	}

	result, err := entities.ParseAnalysisResult(outcome.Result)
	if err != nil {
		return nil, outcome, fmt.Errorf("analysis returned unusable result: %w", err)
	}

	return result, outcome, nil
}

// AnalyzePost 分析一条帖子并更新其状态与结果字段。
// 终态调度错误时帖子标记为skipped，由上游决定是否重新入队。
func (s *analysisServiceImpl) AnalyzePost(ctx context.Context, post *entities.Post) error {
	mediaURL := ""
	if post.MediaURL != nil {
		mediaURL = *post.MediaURL
	}

	result, outcome, err := s.AnalyzeContent(ctx, post.Content, post.MediaType, mediaURL, "")
	if err != nil {
		reason := truncateReason(err.Error(), 500)
		post.Status = entities.PostStatusSkipped
		post.FailureReason = &reason

		if updateErr := s.postRepo.Update(ctx, post); updateErr != nil {
			s.logger.WithFields(map[string]interface{}{
				"post_id": post.ID,
				"error":   updateErr.Error(),
			}).Error("Failed to mark post as skipped")
		}
		return err
	}

	now := time.Now()
	relevant := result.Relevant()
	post.Status = entities.PostStatusAnalyzed
	post.IsRelevant = &relevant
	post.AnalyticalBriefing = &result.AnalyticalBriefing
	post.AnalyzedAt = &now
	post.FailureReason = nil
	if result.Summary != "" {
		post.Summary = &result.Summary
	}
	if result.Translation != "" {
		post.Translation = &result.Translation
	}
	if outcome.ProviderID != 0 {
		post.AnalyzedByProviderID = &outcome.ProviderID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"post_id":     post.ID,
		"is_relevant": relevant,
		"from_cache":  outcome.FromCache,
		"provider_id": outcome.ProviderID,
	}).Info("Post analyzed")

	if relevant {
		s.notifyRelevant(ctx, post, result)
	}

	return nil
}

// notifyRelevant 对判定为相关的帖子推送通知，失败只告警
func (s *analysisServiceImpl) notifyRelevant(ctx context.Context, post *entities.Post, result *entities.AnalysisResult) {
	if s.notifier == nil {
		return
	}

	servers, err := s.notifier.ListServers(ctx)
	if err != nil {
		s.logger.WithField("error", err.Error()).Warn("Failed to list notify servers")
		return
	}

	title := fmt.Sprintf("Relevant post from %s", post.Author)
	for _, server := range servers {
		if err := s.notifier.Push(ctx, server.ID, title, result.AnalyticalBriefing); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"server_id": server.ID,
				"post_id":   post.ID,
				"error":     err.Error(),
			}).Warn("Failed to push notification")
		}
	}
}

// normalizeContent HTML内容转markdown，纯文本原样返回
func (s *analysisServiceImpl) normalizeContent(content string) string {
	if !strings.Contains(content, "<") || !strings.Contains(content, ">") {
		return content
	}

	converted, err := s.converter.ConvertString(content)
	if err != nil {
		s.logger.WithField("error", err.Error()).Debug("HTML to markdown conversion failed, using raw content")
		return content
	}
	return converted
}

// truncateReason 按字节上限截断失败原因，回退到rune边界，
// 保证落库的字符串是合法UTF-8
func truncateReason(reason string, max int) string {
	if len(reason) <= max {
		return reason
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(reason[cut]) {
		cut--
	}
	return reason[:cut]
}
