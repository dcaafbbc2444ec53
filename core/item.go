package core

import (
	"strings"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/utils"
)

// Product 是一条商品记录，字段为固定 schema、载入时矫正。
// 目录构建完成后只读；目录变更意味着整体重建（包括内容矩阵）。
type Product struct {
	ID       int // 目录内的位置下标，稳定且从 0 开始
	Name     string
	Brand    string
	Category string
	Color    string
	Price    float64 // 非负
	Rating   float64 // 0–5
	Stock    int     // 非负
	Desc     string
	Keywords string
}

// Document 返回商品的内容文本：desc + keywords + category + brand + color 拼接。
// 这是 TF-IDF 向量化的输入，一个商品对应一个 Document。
func (p *Product) Document() string {
	return strings.Join([]string{p.Desc, p.Keywords, p.Category, p.Brand, p.Color}, " ")
}

// Item 是推荐链路中的候选承载结构：商品引用、分数、解释标签。
// Labels 用于解释与观测；Score 用于排序决策，每次打分请求重算、不落存储。
type Item struct {
	Index   int // 对应内容矩阵的行号，恒等于 Product.ID
	Product *Product
	Score   float64
	Labels  map[string]utils.Label
}

func NewItem(index int, p *Product) *Item {
	return &Item{
		Index:   index,
		Product: p,
		Score:   0,
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
