package clients

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-analysis-gateway/internal/domain/entities"
)

// fakeHTTPClient 记录每次请求体并按队列返回预设响应
type fakeHTTPClient struct {
	responses []*HTTPResponse
	bodies    []interface{}
}

func (f *fakeHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*HTTPResponse, error) {
	return f.next()
}

func (f *fakeHTTPClient) Post(ctx context.Context, url string, body interface{}, headers map[string]string) (*HTTPResponse, error) {
	// 序列化后再存，复现真实发送时刻的请求内容
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var captured map[string]interface{}
	if err := json.Unmarshal(data, &captured); err != nil {
		return nil, err
	}
	f.bodies = append(f.bodies, captured)
	return f.next()
}

func (f *fakeHTTPClient) next() (*HTTPResponse, error) {
	if len(f.responses) == 0 {
		return &HTTPResponse{StatusCode: 200, Body: []byte(`{}`)}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeHTTPClient) sentModels() []string {
	models := make([]string, 0, len(f.bodies))
	for _, body := range f.bodies {
		m := body.(map[string]interface{})
		model, _ := m["model"].(string)
		models = append(models, model)
	}
	return models
}

func completionResponse(content string) *HTTPResponse {
	body, _ := json.Marshal(map[string]interface{}{
		"model": "whatever",
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return &HTTPResponse{StatusCode: 200, Body: body}
}

func noDecrypt(encrypted string) (string, error) {
	return encrypted, nil
}

func TestLLMClient_Complete(t *testing.T) {
	t.Run("未指定模型时应该发送提供商配置的模型", func(t *testing.T) {
		fake := &fakeHTTPClient{responses: []*HTTPResponse{completionResponse("ok")}}
		client := NewLLMClient(fake, noDecrypt)

		provider := &entities.Provider{ID: 1, Name: "primary", APIBase: "https://api.one.example", Model: "model-one"}
		request := &CompletionRequest{
			Messages: BuildAnalysisMessages("post", entities.MediaTypeText, "", "analyze"),
		}

		result, err := client.Complete(context.Background(), provider, request)
		assert.NoError(t, err)
		assert.Equal(t, "ok", result.Content)
		assert.Equal(t, []string{"model-one"}, fake.sentModels())
	})

	t.Run("故障转移复用请求时每个提供商应该收到自己的模型", func(t *testing.T) {
		fake := &fakeHTTPClient{responses: []*HTTPResponse{
			{StatusCode: 500, Body: []byte(`{"error":{"message":"boom"}}`)},
			completionResponse("recovered"),
		}}
		client := NewLLMClient(fake, noDecrypt)

		primary := &entities.Provider{ID: 1, Name: "primary", APIBase: "https://api.one.example", Model: "model-one"}
		backup := &entities.Provider{ID: 2, Name: "backup", APIBase: "https://api.two.example", Model: "model-two"}

		// 调度器为整个请求构造一次CompletionRequest，候选间共享
		request := &CompletionRequest{
			Messages: BuildAnalysisMessages("post", entities.MediaTypeText, "", "analyze"),
		}

		_, err := client.Complete(context.Background(), primary, request)
		assert.Error(t, err)

		result, err := client.Complete(context.Background(), backup, request)
		assert.NoError(t, err)
		assert.Equal(t, "recovered", result.Content)

		assert.Equal(t, []string{"model-one", "model-two"}, fake.sentModels())
		assert.Empty(t, request.Model, "共享请求不应该被写入任何提供商的模型")
	})

	t.Run("显式指定的模型应该原样发送", func(t *testing.T) {
		fake := &fakeHTTPClient{responses: []*HTTPResponse{completionResponse("ok")}}
		client := NewLLMClient(fake, noDecrypt)

		provider := &entities.Provider{ID: 1, Name: "primary", APIBase: "https://api.one.example", Model: "model-one"}
		request := &CompletionRequest{
			Model:    "pinned-model",
			Messages: BuildAnalysisMessages("post", entities.MediaTypeText, "", "analyze"),
		}

		_, err := client.Complete(context.Background(), provider, request)
		assert.NoError(t, err)
		assert.Equal(t, []string{"pinned-model"}, fake.sentModels())
	})
}
