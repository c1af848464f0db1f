package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAnalysisResult(t *testing.T) {
	t.Run("应该解析合法的JSON结果", func(t *testing.T) {
		raw := `{"is_relevant": true, "analytical_briefing": "major outage", "summary": "short", "translation": "译文"}`

		result, err := ParseAnalysisResult(raw)

		assert.NoError(t, err)
		assert.True(t, result.Relevant())
		assert.Equal(t, "major outage", result.AnalyticalBriefing)
		assert.Equal(t, "short", result.Summary)
		assert.Equal(t, "译文", result.Translation)
	})

	t.Run("应该剥掉markdown代码块围栏", func(t *testing.T) {
		raw := "```json\n{\"is_relevant\": false, \"analytical_briefing\": \"nothing notable\"}\n```"

		result, err := ParseAnalysisResult(raw)

		assert.NoError(t, err)
		assert.False(t, result.Relevant())
		assert.Equal(t, "nothing notable", result.AnalyticalBriefing)
	})

	t.Run("非JSON文本应该返回解析错误", func(t *testing.T) {
		_, err := ParseAnalysisResult("I think this post is relevant because...")
		assert.Error(t, err)
	})

	t.Run("缺少is_relevant应该判为解析失败", func(t *testing.T) {
		_, err := ParseAnalysisResult(`{"analytical_briefing": "text"}`)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "is_relevant")
	})

	t.Run("缺少analytical_briefing应该判为解析失败", func(t *testing.T) {
		_, err := ParseAnalysisResult(`{"is_relevant": true}`)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "analytical_briefing")
	})

	t.Run("is_relevant为false是合法结果而不是缺字段", func(t *testing.T) {
		result, err := ParseAnalysisResult(`{"is_relevant": false, "analytical_briefing": "irrelevant"}`)
		assert.NoError(t, err)
		assert.False(t, result.Relevant())
	})
}
