// Package config 提供默认的 NodeFactory，把 YAML/JSON 配置映射为内置 Node。
// 目录、内容矩阵、存储属于运行时资源，通过 Runtime 注入，配置里只描述参数。
package config

import (
	"fmt"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/filter"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/conv"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/rank"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/recall"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/rerank"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/vectorize"
)

// Runtime 是 Node 构建需要的运行时资源。
type Runtime struct {
	Catalog *core.Catalog
	Matrix  *vectorize.Matrix
	Store   core.KeyValueStore // 可为 nil，trending 召回会走目录评分兜底
}

// DefaultFactory 返回一个包含所有内置 Node 的工厂。
func DefaultFactory(rt *Runtime) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// 注册 Recall Nodes
	factory.Register("recall.catalog", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.CatalogSource{Catalog: rt.Catalog}, nil
	})
	factory.Register("recall.search", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.SearchSource{
			Catalog: rt.Catalog,
			Matrix:  rt.Matrix,
			TopK:    conv.ConfigGetInt(cfg, "top_k", 5),
		}, nil
	})
	factory.Register("recall.trending", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &recall.TrendingSource{
			Catalog: rt.Catalog,
			Store:   rt.Store,
			Key:     conv.ConfigGet[string](cfg, "key", recall.DefaultTrendingKey),
			TopK:    conv.ConfigGetInt(cfg, "top_k", 10),
		}, nil
	})
	factory.Register("recall.fanout", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFanoutNode(rt, cfg)
	})

	// 注册 Filter Node
	factory.Register("filter", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFilterNode(cfg)
	})

	// 注册 Rank Node
	factory.Register("rank.composite", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rank.CompositeNode{
			Catalog: rt.Catalog,
			Matrix:  rt.Matrix,
			Weights: weightsFromConfig(cfg),
		}, nil
	})

	// 注册 ReRank Nodes
	factory.Register("rerank.diversity", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.DiversityNode{
			K:                  conv.ConfigGetInt(cfg, "k", 5),
			MinBeforeDiversity: conv.ConfigGetInt(cfg, "min_before_diversity", 2),
		}, nil
	})
	factory.Register("rerank.topn", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})

	return factory
}

func buildFanoutNode(rt *Runtime, cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet[string](sourceMap, "type", ""); sourceType {
		case "catalog":
			sources = append(sources, &recall.CatalogSource{Catalog: rt.Catalog})
		case "search":
			sources = append(sources, &recall.SearchSource{
				Catalog: rt.Catalog,
				Matrix:  rt.Matrix,
				TopK:    conv.ConfigGetInt(sourceMap, "top_k", 5),
			})
		case "trending":
			sources = append(sources, &recall.TrendingSource{
				Catalog: rt.Catalog,
				Store:   rt.Store,
				Key:     conv.ConfigGet[string](sourceMap, "key", recall.DefaultTrendingKey),
				TopK:    conv.ConfigGetInt(sourceMap, "top_k", 10),
			})
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	return &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet[bool](cfg, "dedup", true),
		MaxConcurrent: conv.ConfigGetInt(cfg, "max_concurrent", 0),
		MergeStrategy: conv.ConfigGet[string](cfg, "merge_strategy", "first"),
	}, nil
}

func buildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet[string](filterMap, "type", ""); filterType {
		case "attribute":
			filters = append(filters, &filter.AttributeFilter{
				Category: conv.ConfigGet[string](filterMap, "category", ""),
				Brand:    conv.ConfigGet[string](filterMap, "brand", ""),
				Color:    conv.ConfigGet[string](filterMap, "color", ""),
				MaxPrice: conv.ConfigGetFloat64(filterMap, "max_price", 0),
			})
		case "rule":
			expr := conv.ConfigGet[string](filterMap, "expr", "")
			rf, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("rule filter: %w", err)
			}
			filters = append(filters, rf)
		case "interacted":
			filters = append(filters, &filter.InteractedFilter{
				ExcludeLiked:    conv.ConfigGet[bool](filterMap, "exclude_liked", false),
				ExcludeDisliked: conv.ConfigGet[bool](filterMap, "exclude_disliked", false),
			})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func weightsFromConfig(cfg map[string]interface{}) rank.Weights {
	w := rank.DefaultWeights()
	w.AlphaBase = conv.ConfigGetFloat64(cfg, "alpha_base", w.AlphaBase)
	w.AlphaStep = conv.ConfigGetFloat64(cfg, "alpha_step", w.AlphaStep)
	w.AlphaMin = conv.ConfigGetFloat64(cfg, "alpha_min", w.AlphaMin)
	w.AlphaMax = conv.ConfigGetFloat64(cfg, "alpha_max", w.AlphaMax)
	w.Beta = conv.ConfigGetFloat64(cfg, "beta", w.Beta)
	w.Gamma = conv.ConfigGetFloat64(cfg, "gamma", w.Gamma)
	w.NeighborPenalty = conv.ConfigGetFloat64(cfg, "neighbor_penalty", w.NeighborPenalty)
	w.ClampDelta = conv.ConfigGet[bool](cfg, "clamp_delta", w.ClampDelta)
	return w
}
