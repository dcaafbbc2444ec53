package core

import (
	"time"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/utils"
)

// RecommendContext 承载一次交互的全部输入：会话反馈、搜索词、打分基准时间。
// 贯穿整个 Pipeline 透传；核心节点只读它，不读任何全局状态。
type RecommendContext struct {
	// Session 是当前用户会话的反馈日志；nil 视为空会话（无 Like/Dislike）。
	Session *Session

	// Query 是当前搜索词；为空表示本次交互没有搜索意图。
	Query string

	// Now 是衰减计算的基准时间。零值时由消费方取 time.Now()；
	// 固定 Now 可以让同样输入得到逐字节一致的输出（可测性要求）。
	Now time.Time

	// Params 请求级上下文参数（浏览筛选条件、实验开关等）。
	Params map[string]any

	// Labels 是请求级标签，用于解释与策略驱动。
	Labels map[string]utils.Label
}

// At 返回打分基准时间；Now 为零值时回退到 time.Now()。
func (rctx *RecommendContext) At() time.Time {
	if rctx == nil || rctx.Now.IsZero() {
		return time.Now()
	}
	return rctx.Now
}

// SessionOrEmpty 返回会话；nil 时返回一个空会话，调用方无需判空。
func (rctx *RecommendContext) SessionOrEmpty(catalogSize int) *Session {
	if rctx == nil || rctx.Session == nil {
		return NewSession(catalogSize)
	}
	return rctx.Session
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
