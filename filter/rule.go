package filter

import (
	"context"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/dsl"
)

// RuleFilter 用 CEL 表达式做配置化过滤：表达式求值为 false 的商品被过滤。
// 表达式编译一次后对所有候选复用。
//
// 示例：NewRuleFilter(`product.price <= 200.0 && product.rating >= 4.0`)
type RuleFilter struct {
	rule *dsl.Rule
}

// NewRuleFilter 编译表达式并返回过滤器；表达式非法时返回错误。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	rule, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{rule: rule}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.rule.Eval(item, rctx)
	if err != nil {
		// 求值错误（如表达式访问缺失 key）按"不过滤"处理，错误上报给 FilterNode
		return false, err
	}
	return !keep, nil
}
