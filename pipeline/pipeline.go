package pipeline

import (
	"context"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
)

// Pipeline 是推荐引擎的核心抽象：把一次交互的同步重算拆成可组合的 Node 链
// （Recall → Filter → Rank → ReRank）。每次用户交互跑一遍完整的链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
