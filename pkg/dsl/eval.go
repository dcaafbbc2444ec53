// Package dsl 基于 CEL (Common Expression Language) 实现商品规则表达式求值，
// 用于临时性/配置化的候选过滤（如 `product.price <= 100 && product.category == "Books"`）。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("product", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是编译好的规则表达式，可对多个候选复用求值。
//
// 表达式语法（CEL 标准语法），可用变量：
//   - product: 商品字段（name / brand / category / color / price / rating / stock）
//   - item:    候选信息（index / score）
//   - label:   解释标签的 value 快捷访问，如 label.recall_source == "search"
//   - rctx:    请求上下文（query / params）
//
// 示例：
//   - `product.price <= 100.0 && product.category == "Books"`
//   - `product.rating >= 4.5`
//   - `label.recall_source != null && label.recall_source.contains("trending")`
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 编译规则表达式。空表达式得到恒真规则。
func Compile(expr string) (*Rule, error) {
	if expr == "" {
		return &Rule{}, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// Expr 返回规则的原始表达式。
func (r *Rule) Expr() string { return r.expr }

// Eval 对一个候选求值，返回表达式的布尔结果。
// 表达式必须返回 bool；访问不存在的 key 会报错，
// 应使用 `label.key != null` 做存在性检查。
func (r *Rule) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if r.prg == nil {
		return true, nil
	}

	out, _, err := r.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, rctx *core.RecommendContext) map[string]interface{} {
	labels := make(map[string]interface{})
	labelAccessor := make(map[string]interface{})
	for k, v := range item.Labels {
		labels[k] = map[string]interface{}{
			"value":  v.Value,
			"source": v.Source,
		}
		labelAccessor[k] = v.Value
	}

	product := map[string]interface{}{}
	if p := item.Product; p != nil {
		product = map[string]interface{}{
			"name":     p.Name,
			"brand":    p.Brand,
			"category": p.Category,
			"color":    p.Color,
			"price":    p.Price,
			"rating":   p.Rating,
			"stock":    p.Stock,
		}
	}

	itemMap := map[string]interface{}{
		"index":  item.Index,
		"score":  item.Score,
		"labels": labels,
	}

	rctxMap := map[string]interface{}{}
	if rctx != nil {
		rctxMap = map[string]interface{}{
			"query":  rctx.Query,
			"params": rctx.Params,
		}
	}

	return map[string]interface{}{
		"item":    itemMap,
		"product": product,
		"label":   labelAccessor,
		"rctx":    rctxMap,
	}
}
