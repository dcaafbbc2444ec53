// Package engine 是面向展示层的引擎门面：持有目录、内容矩阵、会话与热度存储，
// 把一次用户交互（Like / Dislike / 搜索 / 浏览 / 重置）映射为一次同步的
// Pipeline 重算（Recall → Rank → ReRank）。
package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/pipeline"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/rank"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/recall"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/rerank"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/store"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/vectorize"
)

// Engine 是单会话的推荐引擎。
// 目录与内容矩阵构建一次后只读；会话反馈是唯一的可变状态。
type Engine struct {
	catalog *core.Catalog
	matrix  *vectorize.Matrix
	session *core.Session

	kv          core.KeyValueStore
	trendingKey string

	weights            rank.Weights
	topK               int
	minBeforeDiversity int

	pipe *pipeline.Pipeline
}

// Option 配置 Engine。
type Option func(*Engine)

// WithStore 指定热度计数的存储后端（默认进程内 MemoryStore）。
func WithStore(kv core.KeyValueStore) Option {
	return func(e *Engine) { e.kv = kv }
}

// WithWeights 覆盖打分加权配置。
func WithWeights(w rank.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithTopK 设置推荐条数上限（默认 5）。
func WithTopK(k int) Option {
	return func(e *Engine) { e.topK = k }
}

// WithMinBeforeDiversity 设置多样性约束前的保底名额（默认 2）。
func WithMinBeforeDiversity(n int) Option {
	return func(e *Engine) { e.minBeforeDiversity = n }
}

// WithTrendingKey 覆盖热度计数的存储 key。
func WithTrendingKey(key string) Option {
	return func(e *Engine) { e.trendingKey = key }
}

// New 用目录构建引擎：拟合 TF-IDF 空间、构建内容矩阵、装配默认 Pipeline。
func New(catalog *core.Catalog, opts ...Option) *Engine {
	space := vectorize.Fit(catalog.Documents())
	e := &Engine{
		catalog:            catalog,
		matrix:             vectorize.Build(space, catalog.Documents()),
		session:            core.NewSession(catalog.Len()),
		trendingKey:        recall.DefaultTrendingKey,
		weights:            rank.DefaultWeights(),
		topK:               5,
		minBeforeDiversity: 2,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.kv == nil {
		e.kv = store.NewMemoryStore()
	}

	e.pipe = &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.CatalogSource{Catalog: e.catalog},
			&rank.CompositeNode{Catalog: e.catalog, Matrix: e.matrix, Weights: e.weights},
			&rerank.DiversityNode{K: e.topK, MinBeforeDiversity: e.minBeforeDiversity},
		},
	}
	return e
}

// NewFromRecords 从松散记录（表格解析结果）构建引擎，字段矫正见 core.CatalogFromRecords。
func NewFromRecords(records []map[string]any, opts ...Option) *Engine {
	return New(core.CatalogFromRecords(records), opts...)
}

// Catalog 返回只读目录。
func (e *Engine) Catalog() *core.Catalog { return e.catalog }

// Matrix 返回只读内容矩阵。
func (e *Engine) Matrix() *vectorize.Matrix { return e.matrix }

// Session 返回当前会话的反馈日志。
func (e *Engine) Session() *core.Session { return e.session }

// Like 记录一条感兴趣反馈，并累积热度计数。
// 下标越界返回 INVALID_INPUT；热度计数失败不影响反馈本身（降级可接受）。
func (e *Engine) Like(ctx context.Context, index int, ts time.Time) error {
	if err := e.session.Like(index, ts); err != nil {
		return err
	}
	if e.kv != nil {
		if _, err := e.kv.ZIncrBy(ctx, e.trendingKey, 1, strconv.Itoa(index)); err != nil {
			return fmt.Errorf("trending counter: %w", err)
		}
	}
	return nil
}

// Dislike 将商品标记为不感兴趣。
func (e *Engine) Dislike(index int) error {
	return e.session.Dislike(index)
}

// Reset 清空会话反馈。热度计数是跨会话信号，不随会话重置。
func (e *Engine) Reset() {
	e.session.Reset()
}

// Recommend 用当前时间跑一遍完整 Pipeline，返回个性化推荐。
// query 可为空；非空时在没有任何 Like 的情况下作为意图来源。
func (e *Engine) Recommend(ctx context.Context, query string) ([]*core.Item, error) {
	return e.RecommendAt(ctx, query, time.Now())
}

// RecommendAt 与 Recommend 相同，但使用显式的打分基准时间。
// 固定 now 时同样输入得到同样输出（可测性/幂等性要求）。
func (e *Engine) RecommendAt(ctx context.Context, query string, now time.Time) ([]*core.Item, error) {
	rctx := &core.RecommendContext{
		Session: e.session,
		Query:   query,
		Now:     now,
	}
	return e.pipe.Run(ctx, rctx, nil)
}

// Search 是独立于个性化打分的纯搜索路径：查询嵌入冻结空间后取 Top5 近邻。
// 全停用词/词表外查询返回空列表，不报错。
func (e *Engine) Search(ctx context.Context, text string) ([]*core.Item, error) {
	src := &recall.SearchSource{Catalog: e.catalog, Matrix: e.matrix, TopK: 5}
	return src.Recall(ctx, &core.RecommendContext{Query: text})
}

// Browse 是目录浏览路径：纯谓词过滤 + 排序，不经过推荐 Pipeline。
func (e *Engine) Browse(q core.BrowseQuery) []*core.Product {
	return e.catalog.Browse(q)
}

// Close 释放存储资源。
func (e *Engine) Close() error {
	if e.kv != nil {
		return e.kv.Close()
	}
	return nil
}
