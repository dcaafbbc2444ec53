package config

import (
	"context"
	"testing"
	"time"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/rank"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/vectorize"
)

func testRuntime() *Runtime {
	catalog := core.NewCatalog([]*core.Product{
		{Name: "Laptop", Brand: "TechBrand", Category: "Electronics", Rating: 4.5, Price: 999,
			Desc: "powerful laptop computer", Keywords: "laptop computer"},
		{Name: "Novel", Brand: "BookWorld", Category: "Books", Rating: 4.2, Price: 12,
			Desc: "bestselling adventure novel", Keywords: "book novel"},
		{Name: "Mug", Brand: "HomeGoods", Category: "Home", Rating: 3.9, Price: 8,
			Desc: "ceramic coffee mug", Keywords: "mug coffee"},
	})
	space := vectorize.Fit(catalog.Documents())
	return &Runtime{
		Catalog: catalog,
		Matrix:  vectorize.Build(space, catalog.Documents()),
	}
}

const pipelineYAML = `
pipeline:
  name: recommend
  nodes:
    - type: recall.catalog
    - type: filter
      config:
        filters:
          - type: attribute
            max_price: 100
    - type: rank.composite
      config:
        beta: 0.3
    - type: rerank.diversity
      config:
        k: 2
`

func TestDefaultFactory_BuildsPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(pipelineYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Name != "recommend" || len(cfg.Pipeline.Nodes) != 4 {
		t.Fatalf("parsed config: name=%q nodes=%d", cfg.Pipeline.Name, len(cfg.Pipeline.Nodes))
	}

	rt := testRuntime()
	p, err := cfg.BuildPipeline(DefaultFactory(rt))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Nodes) != 4 {
		t.Fatalf("pipeline has %d nodes, want 4", len(p.Nodes))
	}

	rctx := &core.RecommendContext{Now: time.Unix(1_700_000_000, 0)}
	items, err := p.Run(context.Background(), rctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	// max_price 100 把 Laptop 过滤掉，剩下 Novel 和 Mug
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for _, it := range items {
		if it.Product.Price > 100 {
			t.Errorf("item %q exceeds price cap", it.Product.Name)
		}
	}
}

func TestDefaultFactory_FanoutFromConfig(t *testing.T) {
	rt := testRuntime()
	factory := DefaultFactory(rt)

	node, err := factory.Build("recall.fanout", map[string]interface{}{
		"sources": []interface{}{
			map[string]interface{}{"type": "catalog"},
			map[string]interface{}{"type": "trending", "top_k": 2},
		},
		"dedup": true,
	})
	if err != nil {
		t.Fatal(err)
	}

	items, err := node.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// catalog 全量 3 个；trending 兜底的商品与其重叠，去重后仍是 3 个
	if len(items) != 3 {
		t.Errorf("got %d items, want 3", len(items))
	}
}

func TestDefaultFactory_UnknownTypesRejected(t *testing.T) {
	factory := DefaultFactory(testRuntime())

	if _, err := factory.Build("recall.nope", nil); err == nil {
		t.Error("unknown node type must fail")
	}
	if _, err := factory.Build("filter", map[string]interface{}{
		"filters": []interface{}{map[string]interface{}{"type": "nope"}},
	}); err == nil {
		t.Error("unknown filter type must fail")
	}
	if _, err := factory.Build("recall.fanout", map[string]interface{}{
		"sources": []interface{}{map[string]interface{}{"type": "nope"}},
	}); err == nil {
		t.Error("unknown fanout source type must fail")
	}
}

func TestDefaultFactory_WeightOverrides(t *testing.T) {
	factory := DefaultFactory(testRuntime())

	node, err := factory.Build("rank.composite", map[string]interface{}{
		"alpha_base":  0.4,
		"beta":        0.3,
		"clamp_delta": true,
	})
	if err != nil {
		t.Fatal(err)
	}
	cn, ok := node.(*rank.CompositeNode)
	if !ok {
		t.Fatalf("node type = %T", node)
	}
	if cn.Weights.AlphaBase != 0.4 || cn.Weights.Beta != 0.3 || !cn.Weights.ClampDelta {
		t.Errorf("weights not applied: %+v", cn.Weights)
	}
	// 未覆盖的权重保持默认值
	if cn.Weights.Gamma != 0.1 {
		t.Errorf("gamma = %v, want default 0.1", cn.Weights.Gamma)
	}
}
