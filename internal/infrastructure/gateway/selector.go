package gateway

import (
	"sort"

	"ai-analysis-gateway/internal/domain/entities"
)

// Select 从候选提供商中筛选并排序出调用顺序。纯函数，结果确定：
//  1. 过滤：只保留启用且支持请求媒体类型的提供商；
//  2. 分区：available > unknown > unavailable，unavailable不剔除而是垫底，
//     避免探测数据过期时造成整体不可用；
//  3. 分区内按priority升序，再按avg_response_time_ms升序，最后按id升序定序。
//
// 返回空切片表示无可用提供商，由上游返回终态错误。
func Select(candidates []entities.Provider, mediaType entities.MediaType) []entities.Provider {
	eligible := make([]entities.Provider, 0, len(candidates))
	for _, p := range candidates {
		if !p.IsActive {
			continue
		}
		if !p.SupportsMedia(mediaType) {
			continue
		}
		eligible = append(eligible, p)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := &eligible[i], &eligible[j]
		if a.HealthRank() != b.HealthRank() {
			return a.HealthRank() < b.HealthRank()
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.AvgResponseTimeMs != b.AvgResponseTimeMs {
			return a.AvgResponseTimeMs < b.AvgResponseTimeMs
		}
		return a.ID < b.ID
	})

	return eligible
}
