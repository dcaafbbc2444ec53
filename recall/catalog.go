package recall

import (
	"context"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/utils"
)

// CatalogSource 是全量目录召回源：把目录中的每个商品都作为候选。
// 目录足够小（稠密线性扫描的前提假设），全量召回 + 打分是默认链路。
// CatalogSource 同时实现 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CatalogSource struct {
	Catalog *core.Catalog
}

func (r *CatalogSource) Name() string        { return "recall.catalog" }
func (r *CatalogSource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *CatalogSource) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。空目录返回空候选集，不报错。
func (r *CatalogSource) Recall(
	_ context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}
	out := make([]*core.Item, 0, r.Catalog.Len())
	for i, p := range r.Catalog.Products() {
		it := core.NewItem(i, p)
		it.PutLabel("recall_source", utils.Label{Value: "catalog", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
