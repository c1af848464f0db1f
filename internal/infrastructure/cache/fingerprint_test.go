package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-analysis-gateway/internal/domain/entities"
)

func TestFingerprint(t *testing.T) {
	t.Run("相同输入应该产生相同指纹", func(t *testing.T) {
		a := Fingerprint("hello world", entities.MediaTypeText, "prompt")
		b := Fingerprint("hello world", entities.MediaTypeText, "prompt")
		assert.Equal(t, a, b)
	})

	t.Run("内容不同指纹应该不同", func(t *testing.T) {
		a := Fingerprint("hello", entities.MediaTypeText, "prompt")
		b := Fingerprint("world", entities.MediaTypeText, "prompt")
		assert.NotEqual(t, a, b)
	})

	t.Run("媒体类型不同指纹应该不同", func(t *testing.T) {
		a := Fingerprint("hello", entities.MediaTypeText, "prompt")
		b := Fingerprint("hello", entities.MediaTypeImage, "prompt")
		assert.NotEqual(t, a, b)
	})

	t.Run("提示词模板不同指纹应该不同", func(t *testing.T) {
		a := Fingerprint("hello", entities.MediaTypeText, "prompt-a")
		b := Fingerprint("hello", entities.MediaTypeText, "prompt-b")
		assert.NotEqual(t, a, b)
	})

	t.Run("换行风格与首尾空白不应该影响指纹", func(t *testing.T) {
		a := Fingerprint("line1\nline2", entities.MediaTypeText, "prompt")
		b := Fingerprint("line1\r\nline2", entities.MediaTypeText, "prompt")
		c := Fingerprint("  line1\nline2\n\n", entities.MediaTypeText, "prompt")

		assert.Equal(t, a, b)
		assert.Equal(t, a, c)
	})

	t.Run("字段边界不应该产生拼接歧义", func(t *testing.T) {
		a := Fingerprint("ab", entities.MediaType("c"), "d")
		b := Fingerprint("a", entities.MediaType("bc"), "d")
		assert.NotEqual(t, a, b)
	})
}
