package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/utils"
)

// DefaultTrendingKey 是 Like 计数有序集合的默认存储 key。
const DefaultTrendingKey = "trending:likes"

// TrendingSource 是热度召回源：从 Store 的有序集合读取 Like 计数最高的商品。
// 引擎在每次 Like 时对计数做 ZIncrBy，这里用 ZRange 取 TopN。
// Store 为空或读取失败时，回退为按评分降序的目录 TopN。
type TrendingSource struct {
	Catalog *core.Catalog
	Store   core.KeyValueStore
	Key     string // 默认 DefaultTrendingKey
	TopK    int    // 默认 10
}

func (r *TrendingSource) Name() string        { return "recall.trending" }
func (r *TrendingSource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *TrendingSource) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *TrendingSource) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}

	var indices []int
	if r.Store != nil {
		key := r.Key
		if key == "" {
			key = DefaultTrendingKey
		}
		members, err := r.Store.ZRange(ctx, key, 0, int64(topK)-1)
		if err == nil {
			for _, m := range members {
				if i, err := strconv.Atoi(m); err == nil {
					indices = append(indices, i)
				}
			}
		}
	}

	// Fallback：还没有任何 Like 计数时，用评分降序的目录 TopN
	if len(indices) == 0 {
		indices = r.topRated(topK)
	}

	out := make([]*core.Item, 0, len(indices))
	for _, i := range indices {
		p, ok := r.Catalog.Product(i)
		if !ok {
			continue
		}
		it := core.NewItem(i, p)
		it.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

func (r *TrendingSource) topRated(topK int) []int {
	indices := make([]int, r.Catalog.Len())
	for i := range indices {
		indices[i] = i
	}
	products := r.Catalog.Products()
	sort.SliceStable(indices, func(a, b int) bool {
		return products[indices[a]].Rating > products[indices[b]].Rating
	})
	if len(indices) > topK {
		indices = indices[:topK]
	}
	return indices
}
