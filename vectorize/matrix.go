package vectorize

// Matrix 是内容矩阵：每个商品一行，行号恒等于商品在目录中的下标。
// 构建后不可变；目录变化时整体重建是唯一的更新方式。
// 不可变意味着并发读安全，未来的多会话扩展可以直接共享同一个 Matrix。
type Matrix struct {
	space *Space
	rows  [][]float64
}

// Build 按目录顺序将每个文档嵌入 space，得到 行数=商品数、列数=词表大小 的矩阵。
func Build(space *Space, docs []string) *Matrix {
	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		rows[i] = space.Embed(doc)
	}
	return &Matrix{space: space, rows: rows}
}

// Space 返回矩阵所属的冻结向量空间。
func (m *Matrix) Space() *Space {
	return m.space
}

// Rows 返回行数（商品数）。
func (m *Matrix) Rows() int {
	return len(m.rows)
}

// Row 返回第 i 行向量；越界返回 nil。调用方不得修改返回的切片。
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	return m.rows[i]
}

// Similarities 计算查询向量对每一行的余弦相似度。
// 查询为零向量时每个分量都是 0。
func (m *Matrix) Similarities(query []float64) []float64 {
	sims := make([]float64, len(m.rows))
	for i, row := range m.rows {
		sims[i] = Cosine(query, row)
	}
	return sims
}

// RowSimilarities 计算第 i 行对每一行的余弦相似度（用于近邻传播降权）。
// i 越界时返回全 0。
func (m *Matrix) RowSimilarities(i int) []float64 {
	if i < 0 || i >= len(m.rows) {
		return make([]float64, len(m.rows))
	}
	return m.Similarities(m.rows[i])
}

// Centroid 返回全部行的均值向量（全局质心，无反馈也无搜索词时的中性意图）。
// 空矩阵返回零维向量。
func (m *Matrix) Centroid() []float64 {
	indices := make([]int, len(m.rows))
	for i := range m.rows {
		indices[i] = i
	}
	return m.MeanOf(indices)
}

// MeanOf 返回指定行集合的均值向量，越界下标被跳过。
// 集合为空（或全部越界）时返回零向量。
func (m *Matrix) MeanOf(indices []int) []float64 {
	mean := make([]float64, m.space.Dim())
	count := 0
	for _, i := range indices {
		if i < 0 || i >= len(m.rows) {
			continue
		}
		for j, v := range m.rows[i] {
			mean[j] += v
		}
		count++
	}
	if count == 0 {
		return mean
	}
	for j := range mean {
		mean[j] /= float64(count)
	}
	return mean
}
