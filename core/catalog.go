package core

import (
	"sort"
	"strings"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/pkg/conv"
)

// TextFieldDefault 是文本字段缺失时的兜底值（与目录数据源的约定一致）。
const TextFieldDefault = "N/A"

// Catalog 是有序、只读的商品目录。
// 生命周期：载入时构建一次，之后对核心链路只读；目录变化只能整体重建。
type Catalog struct {
	products []*Product
}

// NewCatalog 用已经矫正过的商品列表构建目录，并按位置写入 ID。
func NewCatalog(products []*Product) *Catalog {
	for i, p := range products {
		p.ID = i
	}
	return &Catalog{products: products}
}

// CatalogFromRecords 从松散的记录（如表格解析结果）构建目录。
// 字段矫正规则：
//   - 文本字段缺失或非字符串 → "N/A"
//   - 数值字段解析失败 → 0；负数价格/库存归零；评分限制在 [0, 5]
//
// 脏数据永远在这里就地兜底，不会作为错误向上传播。
func CatalogFromRecords(records []map[string]any) *Catalog {
	products := make([]*Product, 0, len(records))
	for _, rec := range records {
		p := &Product{
			Name:     textField(rec, "name"),
			Brand:    textField(rec, "brand"),
			Category: textField(rec, "category"),
			Color:    textField(rec, "color"),
			Desc:     textField(rec, "desc"),
			Keywords: textField(rec, "keywords"),
		}
		if price, ok := conv.ToFloat64(rec["price"]); ok && price > 0 {
			p.Price = price
		}
		if rating, ok := conv.ToFloat64(rec["rating"]); ok {
			switch {
			case rating < 0:
				p.Rating = 0
			case rating > 5:
				p.Rating = 5
			default:
				p.Rating = rating
			}
		}
		if stock, ok := conv.ToInt(rec["stock"]); ok && stock > 0 {
			p.Stock = stock
		}
		products = append(products, p)
	}
	return NewCatalog(products)
}

func textField(rec map[string]any, key string) string {
	if s, ok := conv.ToString(rec[key]); ok && s != "" {
		return s
	}
	return TextFieldDefault
}

// Len 返回商品数量。
func (c *Catalog) Len() int {
	return len(c.products)
}

// Product 按下标取商品；越界返回 (nil, false)。
func (c *Catalog) Product(i int) (*Product, bool) {
	if i < 0 || i >= len(c.products) {
		return nil, false
	}
	return c.products[i], true
}

// Products 返回目录顺序的商品切片（调用方不得修改）。
func (c *Catalog) Products() []*Product {
	return c.products
}

// Documents 按目录顺序返回每个商品的内容文本，作为向量化的语料。
func (c *Catalog) Documents() []string {
	docs := make([]string, len(c.products))
	for i, p := range c.products {
		docs[i] = p.Document()
	}
	return docs
}

// Categories 返回去重并按字典序排序的类别列表（供筛选控件使用）。
func (c *Catalog) Categories() []string {
	return c.distinct(func(p *Product) string { return p.Category })
}

// Brands 返回去重并按字典序排序的品牌列表。
func (c *Catalog) Brands() []string {
	return c.distinct(func(p *Product) string { return p.Brand })
}

// Colors 返回去重并按字典序排序的颜色列表，跳过 "N/A"。
func (c *Catalog) Colors() []string {
	out := make([]string, 0)
	seen := make(map[string]bool)
	for _, p := range c.products {
		if p.Color == TextFieldDefault || seen[p.Color] {
			continue
		}
		seen[p.Color] = true
		out = append(out, p.Color)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) distinct(key func(*Product) string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range c.products {
		k := key(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SortKey 是浏览路径支持的排序方式。
type SortKey string

const (
	SortByRating    SortKey = "rating"          // 评分降序（默认）
	SortByPriceAsc  SortKey = "price_asc"       // 价格升序
	SortByPriceDesc SortKey = "price_desc"      // 价格降序
	SortByStock     SortKey = "stock"           // 库存降序
)

// BrowseQuery 描述一次目录浏览：等值/范围过滤 + 子串搜索 + 排序。
// 空字符串（或 "All"）表示该维度不过滤；MaxPrice <= 0 表示不限价。
type BrowseQuery struct {
	Category string
	Brand    string
	Color    string
	MaxPrice float64
	Search   string // 对 name/desc/keywords 做大小写不敏感的子串匹配
	SortBy   SortKey
}

// Browse 是与推荐核心并行的简单浏览路径：纯谓词过滤 + 稳定排序。
// 返回新切片，不会改动目录本身的顺序。
func (c *Catalog) Browse(q BrowseQuery) []*Product {
	out := make([]*Product, 0, len(c.products))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range c.products {
		if !matchField(q.Category, p.Category) ||
			!matchField(q.Brand, p.Brand) ||
			!matchField(q.Color, p.Color) {
			continue
		}
		if q.MaxPrice > 0 && p.Price > q.MaxPrice {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Desc), search) &&
			!strings.Contains(strings.ToLower(p.Keywords), search) {
			continue
		}
		out = append(out, p)
	}

	switch q.SortBy {
	case SortByPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortByPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortByStock:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stock > out[j].Stock })
	case SortByRating, "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

func matchField(want, got string) bool {
	return want == "" || want == "All" || want == got
}
