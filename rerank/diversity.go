package rerank

import (
	"context"
	"math"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/utils"
)

// DiversityNode 在排好序的候选上做类别多样性约束的 TopK 截取：
// 顺序扫描，前 MinBeforeDiversity 个名额不看类别，此后只接纳未出现过的类别，
// 凑满 K 个或扫完为止。避免单一类别霸榜。
//
// 被压制的候选（综合分为 -Inf，即被 Dislike 的商品）永远不会出现在输出里，
// 哪怕非压制候选不足 K 个——宁可返回更短的列表。
type DiversityNode struct {
	// K 是最终返回的商品数上限，默认 5。
	K int

	// MinBeforeDiversity 是启用类别约束前保底接纳的名额数，默认 2。
	MinBeforeDiversity int
}

func (n *DiversityNode) Name() string        { return "rerank.diversity" }
func (n *DiversityNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *DiversityNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	k := n.K
	if k <= 0 {
		k = 5
	}
	floor := n.MinBeforeDiversity
	if floor <= 0 {
		floor = 2
	}

	seen := make(map[string]bool, k)
	out := make([]*core.Item, 0, k)

	for _, it := range items {
		if it == nil || math.IsInf(it.Score, -1) {
			continue
		}
		if len(out) >= k {
			break
		}

		cate := ""
		if it.Product != nil {
			cate = it.Product.Category
		}

		if len(out) >= floor && seen[cate] {
			continue
		}
		seen[cate] = true
		if len(out) >= floor {
			it.PutLabel("diversity", utils.Label{Value: "new_category", Source: "rerank"})
		}
		out = append(out, it)
	}

	return out, nil
}
