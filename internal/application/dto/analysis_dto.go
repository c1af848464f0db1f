package dto

// AnalyzeRequest 内容分析请求
type AnalyzeRequest struct {
	Content        string `json:"content" binding:"required" example:"Breaking: major outage reported..."`
	MediaType      string `json:"media_type" binding:"required" example:"text" enums:"text,image,video,gif"`
	MediaURL       string `json:"media_url,omitempty" example:"https://example.com/photo.jpg"`
	PromptTemplate string `json:"prompt_template,omitempty"` // 留空使用默认分析提示词
}

// AnalyzeResponse 内容分析响应
type AnalyzeResponse struct {
	IsRelevant         bool   `json:"is_relevant"`
	AnalyticalBriefing string `json:"analytical_briefing"`
	Summary            string `json:"summary,omitempty"`
	Translation        string `json:"translation,omitempty"`
	ProviderID         int64  `json:"provider_id,omitempty"` // 缓存命中时为0
	FromCache          bool   `json:"from_cache"`
	ElapsedMs          int64  `json:"elapsed_ms"`
}

// CacheStatsResponse 缓存统计响应
type CacheStatsResponse struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int64 `json:"entries"`
}

// ClearCacheResponse 清空缓存响应
type ClearCacheResponse struct {
	Removed int `json:"removed"`
}
