// Package affinity 从会话反馈日志计算带时间衰减的类别/品牌偏好分布。
//
// 纯函数语义：同样的 (likes, now) 输入永远得到同样的输出，没有任何隐藏状态；
// "now" 由调用方显式传入，本包自己绝不取当前时间。
package affinity

import (
	"time"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
)

const (
	// decayWindow 是线性衰减的时间窗（秒）：一天前的 Like 降到下限。
	decayWindow = 86400.0

	// decayFloor 是衰减下限：Like 永远不会完全消失。
	decayFloor = 0.1
)

// Distributions 是归一化后的偏好分布：类别名/品牌名 → [0,1] 权重。
// 每个分布内的权重之和为 1；没有任何 Like 时两个 map 都为空。
// 调用方对缺失 key 取 0，不视为错误。
type Distributions struct {
	Category map[string]float64
	Brand    map[string]float64
}

// Decay 返回一条 Like 事件在 now 时刻的权重：
// max(0.1, 1 - elapsed/86400)，24 小时线性衰减、下限 0.1。
// 未来时间戳（elapsed < 0）按权重 1 处理。
func Decay(timestamp int64, now time.Time) float64 {
	elapsed := float64(now.Unix() - timestamp)
	if elapsed <= 0 {
		return 1.0
	}
	w := 1.0 - elapsed/decayWindow
	if w < decayFloor {
		return decayFloor
	}
	return w
}

// Affinities 把 Like 事件按衰减权重累积到类别桶与品牌桶，并各自归一化。
// 重复 Like 同一商品会叠加权重；指向不存在商品的事件被静默跳过。
func Affinities(likes []core.LikeEvent, catalog *core.Catalog, now time.Time) Distributions {
	catTotals := make(map[string]float64)
	brandTotals := make(map[string]float64)

	for _, ev := range likes {
		p, ok := catalog.Product(ev.Index)
		if !ok {
			continue
		}
		w := Decay(ev.Timestamp, now)
		catTotals[p.Category] += w
		brandTotals[p.Brand] += w
	}

	return Distributions{
		Category: normalize(catTotals),
		Brand:    normalize(brandTotals),
	}
}

// normalize 按桶内总权重归一化；总权重为 0 时返回空 map。
func normalize(totals map[string]float64) map[string]float64 {
	var sum float64
	for _, w := range totals {
		sum += w
	}
	out := make(map[string]float64, len(totals))
	if sum == 0 {
		return out
	}
	for k, w := range totals {
		out[k] = w / sum
	}
	return out
}
