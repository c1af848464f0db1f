package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"ai-analysis-gateway/internal/domain/entities"
)

// Fingerprint 计算一个可缓存工作单元的确定性指纹：
// 规范化内容 + 媒体类型 + 提示词模板的SHA-256。
// 相同输入在TTL内命中同一条目，避免对同样的内容重复付费调用。
func Fingerprint(content string, mediaType entities.MediaType, promptTemplate string) string {
	h := sha256.New()
	h.Write([]byte(normalize(content)))
	h.Write([]byte{0})
	h.Write([]byte(mediaType))
	h.Write([]byte{0})
	h.Write([]byte(promptTemplate))
	return hex.EncodeToString(h.Sum(nil))
}

// normalize 规范化内容：统一换行并去除首尾空白，
// 抓取来源的细微格式差异不应产生不同指纹。
func normalize(content string) string {
	s := strings.ReplaceAll(content, "\r\n", "\n")
	return strings.TrimSpace(s)
}
