package rank

// Weights 是综合分的加权配置。
//
// 综合分 = α·内容相似度 + β·类别偏好 + γ·品牌偏好 + δ·评分先验，
// 其中 α 随反馈倾斜度自适应：α = clamp(AlphaBase + AlphaStep·(|likes|-|dislikes|), AlphaMin, AlphaMax)，
// δ = 1 - (α+β+γ)。
//
// 已知边界行为：α 增大时 δ 会变成负数，评分先验反向惩罚被过度偏好的商品。
// 这是有意保留的原始算法语义；需要非负 δ 时打开 ClampDelta。
type Weights struct {
	AlphaBase float64 // 默认 0.5
	AlphaStep float64 // 默认 0.1，每一条反馈差值对 α 的增量
	AlphaMin  float64 // 默认 0.2
	AlphaMax  float64 // 默认 0.9
	Beta      float64 // 类别偏好权重，默认 0.2
	Gamma     float64 // 品牌偏好权重，默认 0.1

	// NeighborPenalty 是 Dislike 近邻传播的惩罚系数，默认 0.3：
	// 与被 Dislike 商品相似的商品按相似度比例降分。
	NeighborPenalty float64

	// Epsilon 防止全体评分相同时归一化除零，默认 1e-9。
	Epsilon float64

	// ClampDelta 为 true 时把 δ 钳制到 >= 0。
	ClampDelta bool
}

// DefaultWeights 返回默认加权配置。
func DefaultWeights() Weights {
	return Weights{
		AlphaBase:       0.5,
		AlphaStep:       0.1,
		AlphaMin:        0.2,
		AlphaMax:        0.9,
		Beta:            0.2,
		Gamma:           0.1,
		NeighborPenalty: 0.3,
		Epsilon:         1e-9,
	}
}

// Alpha 根据 Like 事件数与 Dislike 商品数计算内容相似度权重。
func (w Weights) Alpha(likeCount, dislikeCount int) float64 {
	a := w.AlphaBase + w.AlphaStep*float64(likeCount-dislikeCount)
	if a < w.AlphaMin {
		return w.AlphaMin
	}
	if a > w.AlphaMax {
		return w.AlphaMax
	}
	return a
}

// Delta 返回评分先验的权重 δ = 1 - (α+β+γ)；仅在 ClampDelta 时钳制为非负。
func (w Weights) Delta(alpha float64) float64 {
	d := 1 - (alpha + w.Beta + w.Gamma)
	if w.ClampDelta && d < 0 {
		return 0
	}
	return d
}
