package services

import "context"

// NotifyServer 推送通道信息
type NotifyServer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NotifierAdapter 推送库适配器。第三方推送库的服务端列表在不同版本间
// 时而是方法时而是属性，核心代码只依赖这个窄接口，适配差异在实现里处理一次。
type NotifierAdapter interface {
	// ListServers 列出可用的推送通道
	ListServers(ctx context.Context) ([]NotifyServer, error)

	// Push 向指定通道推送一条通知
	Push(ctx context.Context, serverID, title, body string) error
}
