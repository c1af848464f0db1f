package services

import (
	"context"

	"ai-analysis-gateway/internal/domain/entities"
)

// ContentSource 内容来源契约。抓取客户端是外部协作方，
// 本服务只依赖该接口，由轮询管道消费。
type ContentSource interface {
	// FetchLatest 拉取最新帖子，sinceID为上次处理到的源平台ID（可为空）
	FetchLatest(ctx context.Context, sinceID string, limit int) ([]entities.Post, error)
}
