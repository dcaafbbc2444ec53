// Package vectorize 实现商品内容的 TF-IDF 向量化与内容矩阵。
//
// 核心约束：
//   - 词表与 IDF 权重由全量语料一次性拟合（Fit），之后冻结
//   - 任意查询文本通过 Embed 进入同一冻结空间，词表外的 token 贡献为 0
//   - 同一语料重复 Fit 的结果逐字节一致（维度按 token 字典序分配）
package vectorize

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern 匹配长度 >= 2 的词（与原始数据管线的分词口径一致）。
var tokenPattern = regexp.MustCompile(`[0-9A-Za-z_]{2,}`)

// Space 是冻结后的 TF-IDF 向量空间。
// Terms 按字典序排列，下标即向量维度；IDF 与 Terms 一一对应。
type Space struct {
	vocab map[string]int
	terms []string
	idf   []float64
}

// Tokenize 对文本做小写化分词并剔除停用词。
// 空文本或全停用词文本返回空切片。
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if IsStopWord(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Fit 从全量语料构建冻结的向量空间。
// IDF 采用平滑口径：ln((1+N)/(1+df)) + 1，保证语料中每个词权重有限且为正。
func Fit(docs []string) *Space {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(doc) {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	s := &Space{
		vocab: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		s.vocab[term] = i
		s.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return s
}

// Dim 返回向量空间的维度（词表大小）。
func (s *Space) Dim() int {
	return len(s.terms)
}

// Terms 返回按维度顺序排列的词表（调用方不得修改）。
func (s *Space) Terms() []string {
	return s.terms
}

// IDF 返回 term 的 IDF 权重；词表外的 term 返回 0。
func (s *Space) IDF(term string) float64 {
	i, ok := s.vocab[term]
	if !ok {
		return 0
	}
	return s.idf[i]
}

// Embed 将任意文本嵌入冻结空间：词频 × IDF，再做 l2 归一化。
// 词表外的 token 被静默丢弃；空文本/全停用词文本得到零向量（不报错）。
func (s *Space) Embed(text string) []float64 {
	vec := make([]float64, len(s.terms))
	for _, tok := range Tokenize(text) {
		if i, ok := s.vocab[tok]; ok {
			vec[i] += s.idf[i]
		}
	}
	return l2Normalize(vec)
}

// l2Normalize 原地做 l2 归一化；零向量保持为零向量。
func l2Normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Cosine 计算两个向量的余弦相似度。
// 任一侧为零向量时定义为 0（绝不产生 NaN）。
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		na += v * v
	}
	for _, v := range b {
		nb += v * v
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
