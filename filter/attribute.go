package filter

import (
	"context"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
)

// AttributeFilter 按商品属性做等值/范围过滤，对应浏览控件的筛选条件。
// 空字符串（或 "All"）表示该维度不限制；MaxPrice <= 0 表示不限价。
type AttributeFilter struct {
	Category string
	Brand    string
	Color    string
	MaxPrice float64
}

func (f *AttributeFilter) Name() string { return "filter.attribute" }

func (f *AttributeFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	p := item.Product
	if p == nil {
		return true, nil
	}
	if !match(f.Category, p.Category) || !match(f.Brand, p.Brand) || !match(f.Color, p.Color) {
		return true, nil
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return true, nil
	}
	return false, nil
}

func match(want, got string) bool {
	return want == "" || want == "All" || want == got
}

// InteractedFilter 按会话反馈过滤已交互过的商品。
// 原始产品行为：已 Like 的商品不再出现在推荐位（它们已经被用户认领）。
// 注意：打分路径的规格要求 Like 过的商品照常参与排序，
// 因此该过滤器不在默认链路中，由引擎按需挂载。
type InteractedFilter struct {
	ExcludeLiked    bool
	ExcludeDisliked bool
}

func (f *InteractedFilter) Name() string { return "filter.interacted" }

func (f *InteractedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if rctx == nil || rctx.Session == nil {
		return false, nil
	}
	if f.ExcludeLiked && rctx.Session.IsLiked(item.Index) {
		return true, nil
	}
	if f.ExcludeDisliked && rctx.Session.IsDisliked(item.Index) {
		return true, nil
	}
	return false, nil
}
