package recall

import (
	"context"
	"sort"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/utils"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/vectorize"
)

// SearchSource 是搜索相似度召回源：把搜索词嵌入冻结的 TF-IDF 空间，
// 对内容矩阵做一次余弦扫描，取 TopK 近邻。
// 这是独立于个性化打分的"纯搜索"路径；搜索词为空时不产生候选。
type SearchSource struct {
	Catalog *core.Catalog
	Matrix  *vectorize.Matrix

	// TopK 返回 TopK 个商品，默认 5。
	TopK int
}

func (r *SearchSource) Name() string        { return "recall.search" }
func (r *SearchSource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *SearchSource) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
// 全停用词/词表外的搜索词嵌入为零向量，相似度全 0，结果为空——不报错。
func (r *SearchSource) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || r.Matrix == nil || rctx == nil || rctx.Query == "" {
		return nil, nil
	}

	query := r.Matrix.Space().Embed(rctx.Query)
	sims := r.Matrix.Similarities(query)

	indices := make([]int, len(sims))
	for i := range sims {
		indices[i] = i
	}
	// 相似度降序；同分保持目录原序，输出确定
	sort.SliceStable(indices, func(a, b int) bool {
		return sims[indices[a]] > sims[indices[b]]
	})

	topK := r.TopK
	if topK <= 0 {
		topK = 5
	}

	out := make([]*core.Item, 0, topK)
	for _, i := range indices {
		if len(out) >= topK {
			break
		}
		if sims[i] <= 0 {
			break // 剩余的都与查询无关
		}
		p, ok := r.Catalog.Product(i)
		if !ok {
			continue
		}
		it := core.NewItem(i, p)
		it.Score = sims[i]
		it.PutLabel("recall_source", utils.Label{Value: "search", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
