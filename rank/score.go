// Package rank 实现综合打分：内容相似度、偏好、评分先验的加权融合，
// 以及 Dislike 压制与近邻传播降权。
package rank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/affinity"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/utils"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/vectorize"
)

// IntentSource 标记用户意图向量的来源，同时用作展示层的解释文案。
type IntentSource string

const (
	IntentLikes  IntentSource = "based on products you expressed interest in"
	IntentSearch IntentSource = "based on your search"
	IntentGlobal IntentSource = "top picks for you"
)

// Scores 对目录中的每个商品计算综合分（纯函数，不修改任何输入）。
//
// 步骤与顺序：
//  1. 用户意图向量：有 Like 取被 Like 行的均值；否则有搜索词取其嵌入；
//     否则取全局质心作为中性默认
//  2. 意图向量对每一行的余弦相似度
//  3. 类别/品牌偏好查表（缺失 key 取 0）
//  4. 评分先验 min-max 归一化（ε 防除零）
//  5. α/β/γ/δ 加权求和
//  6. Dislike 压制：被 Dislike 商品强制 -Inf，并对全体商品按
//     与其的行相似度 × NeighborPenalty 降分
//
// 空目录返回空切片。偏好分布由调用方按同一个 now 预先算好传入，
// 因此同样输入永远得到同样输出。
func (w Weights) Scores(
	catalog *core.Catalog,
	matrix *vectorize.Matrix,
	likes []core.LikeEvent,
	dislikes []int,
	query string,
	aff affinity.Distributions,
) ([]float64, IntentSource) {
	n := catalog.Len()
	if n == 0 {
		return []float64{}, IntentGlobal
	}

	intent, source := intentVector(matrix, likes, query)
	sims := matrix.Similarities(intent)
	normRating := normalizedRatings(catalog, w.Epsilon)

	alpha := w.Alpha(len(likes), len(dislikes))
	delta := w.Delta(alpha)

	composite := make([]float64, n)
	for i, p := range catalog.Products() {
		composite[i] = alpha*sims[i] +
			w.Beta*aff.Category[p.Category] +
			w.Gamma*aff.Brand[p.Brand] +
			delta*normRating[i]
	}

	for _, d := range dislikes {
		if d < 0 || d >= n {
			continue // 越界反馈按无害处理
		}
		neighborSims := matrix.RowSimilarities(d)
		for i := range composite {
			composite[i] -= w.NeighborPenalty * neighborSims[i]
		}
		composite[d] = math.Inf(-1)
	}

	return composite, source
}

// intentVector 按 Like 均值 → 搜索词嵌入 → 全局质心的优先级构造意图向量。
func intentVector(matrix *vectorize.Matrix, likes []core.LikeEvent, query string) ([]float64, IntentSource) {
	if len(likes) > 0 {
		indices := make([]int, 0, len(likes))
		for _, ev := range likes {
			indices = append(indices, ev.Index)
		}
		return matrix.MeanOf(indices), IntentLikes
	}
	if query != "" {
		return matrix.Space().Embed(query), IntentSearch
	}
	return matrix.Centroid(), IntentGlobal
}

// normalizedRatings 对评分做 min-max 归一化：(r - min) / (max - min + ε)。
func normalizedRatings(catalog *core.Catalog, epsilon float64) []float64 {
	products := catalog.Products()
	minR, maxR := math.Inf(1), math.Inf(-1)
	for _, p := range products {
		if p.Rating < minR {
			minR = p.Rating
		}
		if p.Rating > maxR {
			maxR = p.Rating
		}
	}
	out := make([]float64, len(products))
	span := maxR - minR + epsilon
	for i, p := range products {
		out[i] = (p.Rating - minR) / span
	}
	return out
}

// CompositeNode 是综合打分的排序 Node。
// - 从 rctx 的会话与 Now 算出衰减偏好，再调用纯函数 Scores
// - 更新 item.Score 并按分数降序稳定排序（同分保持目录原序）
// - 写入解释 labels：intent / category_affinity / brand_affinity / suppressed
type CompositeNode struct {
	Catalog *core.Catalog
	Matrix  *vectorize.Matrix
	Weights Weights
}

func (n *CompositeNode) Name() string        { return "rank.composite" }
func (n *CompositeNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *CompositeNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Catalog == nil || n.Matrix == nil || len(items) == 0 {
		return items, nil
	}

	session := rctx.SessionOrEmpty(n.Catalog.Len())
	likes := session.Likes()
	dislikes := session.Dislikes()
	query := ""
	if rctx != nil {
		query = rctx.Query
	}

	aff := affinity.Affinities(likes, n.Catalog, rctx.At())
	composite, source := n.Weights.Scores(n.Catalog, n.Matrix, likes, dislikes, query, aff)

	for _, it := range items {
		if it == nil || it.Index < 0 || it.Index >= len(composite) {
			continue
		}
		it.Score = composite[it.Index]
		it.PutLabel("intent", utils.Label{Value: string(source), Source: "rank"})
		if it.Product != nil {
			if v, ok := aff.Category[it.Product.Category]; ok && v > 0 {
				it.PutLabel("category_affinity", utils.Label{
					Value:  fmt.Sprintf("%s:%.3f", it.Product.Category, v),
					Source: "rank",
				})
			}
			if v, ok := aff.Brand[it.Product.Brand]; ok && v > 0 {
				it.PutLabel("brand_affinity", utils.Label{
					Value:  fmt.Sprintf("%s:%.3f", it.Product.Brand, v),
					Source: "rank",
				})
			}
		}
		if math.IsInf(it.Score, -1) {
			it.PutLabel("suppressed", utils.Label{Value: "disliked", Source: "rank"})
		}
	}

	// 降序排序；同分按目录下标升序，保证输出确定
	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Index < items[j].Index
	})
	return items, nil
}
