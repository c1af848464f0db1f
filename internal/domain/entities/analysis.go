package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnalysisResult LLM分析的结构化结果。
// 提供商返回的JSON先解析到该类型再使用，缺少必填字段视为解析失败，
// 不做动态map取值。
type AnalysisResult struct {
	IsRelevant         *bool  `json:"is_relevant"`           // 必填：内容是否相关
	AnalyticalBriefing string `json:"analytical_briefing"`   // 必填：分析简报
	Summary            string `json:"summary,omitempty"`     // 可选：摘要
	Translation        string `json:"translation,omitempty"` // 可选：译文
}

// Relevant 返回相关性判定结果
func (r *AnalysisResult) Relevant() bool {
	return r.IsRelevant != nil && *r.IsRelevant
}

// ParseAnalysisResult 从LLM回复文本解析结构化结果。
// 提供商偶尔会把JSON包在markdown代码块里，解析前先剥掉围栏。
func ParseAnalysisResult(raw string) (*AnalysisResult, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var result AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis result: %w", err)
	}

	// 校验必填字段
	if result.IsRelevant == nil {
		return nil, fmt.Errorf("analysis result missing required field: is_relevant")
	}
	if result.AnalyticalBriefing == "" {
		return nil, fmt.Errorf("analysis result missing required field: analytical_briefing")
	}

	return &result, nil
}
