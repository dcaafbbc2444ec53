package recall

import (
	"context"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
)

// Source 是召回源的抽象接口：根据上下文生成候选商品集。
// 与 pipeline.Node 的区别：Source 不接收上游 items，只负责"产生"候选。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
