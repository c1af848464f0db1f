package notify

import (
	"context"
	"fmt"
	"strings"

	"ai-analysis-gateway/internal/domain/services"
	"ai-analysis-gateway/internal/infrastructure/clients"
	"ai-analysis-gateway/internal/infrastructure/config"
	"ai-analysis-gateway/internal/infrastructure/logger"
)

// httpNotifier 基于HTTP推送网关的通知适配器实现。
// 上游推送服务的接口差异（servers在不同版本是方法还是属性）
// 只在这里适配一次，核心代码只看NotifierAdapter。
type httpNotifier struct {
	httpClient clients.HTTPClient
	baseURL    string
	token      string
	logger     logger.Logger
}

// NewHTTPNotifier 创建HTTP推送适配器
func NewHTTPNotifier(httpClient clients.HTTPClient, cfg *config.NotifyConfig, log logger.Logger) services.NotifierAdapter {
	return &httpNotifier{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		logger:     log,
	}
}

// serverListResponse 推送通道列表响应。不同版本的网关把通道列表
// 放在servers或data字段下，两种形状都接受。
type serverListResponse struct {
	Servers []services.NotifyServer `json:"servers"`
	Data    []services.NotifyServer `json:"data"`
}

// ListServers 列出可用的推送通道
func (n *httpNotifier) ListServers(ctx context.Context) ([]services.NotifyServer, error) {
	resp, err := n.httpClient.Get(ctx, n.baseURL+"/api/servers", n.headers())
	if err != nil {
		return nil, fmt.Errorf("failed to list notify servers: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("failed to list notify servers: status %d", resp.StatusCode)
	}

	var list serverListResponse
	if err := resp.UnmarshalJSON(&list); err != nil {
		return nil, fmt.Errorf("failed to parse notify server list: %w", err)
	}

	if len(list.Servers) > 0 {
		return list.Servers, nil
	}
	return list.Data, nil
}

// Push 向指定通道推送一条通知
func (n *httpNotifier) Push(ctx context.Context, serverID, title, body string) error {
	payload := map[string]interface{}{
		"server_id": serverID,
		"title":     title,
		"body":      body,
	}

	resp, err := n.httpClient.Post(ctx, n.baseURL+"/api/push", payload, n.headers())
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("failed to push notification: status %d", resp.StatusCode)
	}

	n.logger.WithFields(map[string]interface{}{
		"server_id": serverID,
		"title":     title,
	}).Debug("Notification pushed")

	return nil
}

func (n *httpNotifier) headers() map[string]string {
	headers := map[string]string{}
	if n.token != "" {
		headers["Authorization"] = "Bearer " + n.token
	}
	return headers
}
