package rank

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/affinity"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/recall"
	"github.com/SepehrRezaee/ecommerce-ai-catalog/vectorize"
)

// 三件商品：A/B 同类别且文本相近，B/C 通过 "travel" 弱相关，A/C 无关。
func scoringFixture() (*core.Catalog, *vectorize.Matrix) {
	catalog := core.NewCatalog([]*core.Product{
		{Name: "Novel", Brand: "BookWorld", Category: "Books", Color: "N/A",
			Rating: 5, Desc: "award winning adventure story", Keywords: "book novel story"},
		{Name: "Cookbook", Brand: "BookWorld", Category: "Books", Color: "N/A",
			Rating: 4, Desc: "thrilling adventure story collection", Keywords: "book travel"},
		{Name: "Headphones", Brand: "TechBrand", Category: "Electronics", Color: "White",
			Rating: 3, Desc: "wireless travel headphones", Keywords: "headphones music"},
	})
	space := vectorize.Fit(catalog.Documents())
	return catalog, vectorize.Build(space, catalog.Documents())
}

func TestWeights_Alpha(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		name     string
		likes    int
		dislikes int
		want     float64
	}{
		{"neutral", 0, 0, 0.5},
		{"one like", 1, 0, 0.6},
		{"heavy likes clamp at max", 10, 0, 0.9},
		{"heavy dislikes clamp at min", 0, 10, 0.2},
		{"balanced", 3, 3, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Alpha(tt.likes, tt.dislikes); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Alpha(%d, %d) = %v, want %v", tt.likes, tt.dislikes, got, tt.want)
			}
		})
	}
}

func TestWeights_DeltaCanGoNegativeUnlessClamped(t *testing.T) {
	w := DefaultWeights()

	// α=0.9 时 δ = 1 - (0.9+0.2+0.1) = -0.2：有意保留的边界行为
	if got := w.Delta(0.9); math.Abs(got-(-0.2)) > 1e-12 {
		t.Errorf("Delta(0.9) = %v, want -0.2", got)
	}

	w.ClampDelta = true
	if got := w.Delta(0.9); got != 0 {
		t.Errorf("Delta(0.9) with ClampDelta = %v, want 0", got)
	}
}

func TestScores_EmptyCatalog(t *testing.T) {
	catalog := core.NewCatalog(nil)
	space := vectorize.Fit(nil)
	matrix := vectorize.Build(space, nil)

	scores, _ := DefaultWeights().Scores(catalog, matrix, nil, nil, "", affinity.Distributions{})
	if len(scores) != 0 {
		t.Errorf("empty catalog must yield empty scores, got %v", scores)
	}
}

func TestScores_LikedItemRanksHighest(t *testing.T) {
	catalog, matrix := scoringFixture()
	now := time.Unix(1_700_000_000, 0)
	likes := []core.LikeEvent{{Index: 0, Timestamp: now.Unix()}}
	aff := affinity.Affinities(likes, catalog, now)

	scores, source := DefaultWeights().Scores(catalog, matrix, likes, nil, "", aff)

	if source != IntentLikes {
		t.Errorf("intent source = %q, want IntentLikes", source)
	}
	if !(scores[0] > scores[1] && scores[0] > scores[2]) {
		t.Errorf("liked item must rank highest: %v", scores)
	}
	// A/B 同类别同品牌且文本相近，B 应高于无关的 C
	if !(scores[1] > scores[2]) {
		t.Errorf("same-category item must outrank unrelated item: %v", scores)
	}
}

func TestScores_SearchIntentWithoutLikes(t *testing.T) {
	catalog, matrix := scoringFixture()

	scores, source := DefaultWeights().Scores(catalog, matrix, nil, nil, "wireless headphones", affinity.Distributions{})
	if source != IntentSearch {
		t.Errorf("intent source = %q, want IntentSearch", source)
	}

	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	if best != 2 {
		t.Errorf("search for headphones must favor item 2, scores %v", scores)
	}
}

func TestScores_GlobalCentroidFallback(t *testing.T) {
	catalog, matrix := scoringFixture()

	_, source := DefaultWeights().Scores(catalog, matrix, nil, nil, "", affinity.Distributions{})
	if source != IntentGlobal {
		t.Errorf("intent source = %q, want IntentGlobal", source)
	}
}

func TestScores_DislikeSuppressionAndNeighborPropagation(t *testing.T) {
	catalog, matrix := scoringFixture()

	baseline, _ := DefaultWeights().Scores(catalog, matrix, nil, nil, "", affinity.Distributions{})
	withDislike, _ := DefaultWeights().Scores(catalog, matrix, nil, []int{1}, "", affinity.Distributions{})

	if !math.IsInf(withDislike[1], -1) {
		t.Errorf("disliked item score = %v, want -Inf", withDislike[1])
	}
	// C 与 B 共享 "travel"：近邻传播必须严格降低 C 的分数
	if !(withDislike[2] < baseline[2]) {
		t.Errorf("neighbor of disliked item must lose score: %v -> %v", baseline[2], withDislike[2])
	}

	// 全部 Dislike：每个分数都是 -Inf，不 panic
	allDisliked, _ := DefaultWeights().Scores(catalog, matrix, nil, []int{0, 1, 2}, "", affinity.Distributions{})
	for i, s := range allDisliked {
		if !math.IsInf(s, -1) {
			t.Errorf("score[%d] = %v, want -Inf", i, s)
		}
	}
}

func TestScores_OutOfRangeDislikeIgnored(t *testing.T) {
	catalog, matrix := scoringFixture()

	baseline, _ := DefaultWeights().Scores(catalog, matrix, nil, nil, "", affinity.Distributions{})
	got, _ := DefaultWeights().Scores(catalog, matrix, nil, []int{99, -1}, "", affinity.Distributions{})

	for i := range baseline {
		// α 因 dislike 数改变，所以分数不同，但必须有限
		if math.IsInf(got[i], 0) || math.IsNaN(got[i]) {
			t.Errorf("score[%d] = %v, want finite", i, got[i])
		}
	}
}

func TestScores_Deterministic(t *testing.T) {
	catalog, matrix := scoringFixture()
	now := time.Unix(1_700_000_000, 0)
	likes := []core.LikeEvent{
		{Index: 0, Timestamp: now.Unix() - 100},
		{Index: 2, Timestamp: now.Unix() - 200},
	}
	aff := affinity.Affinities(likes, catalog, now)

	s1, _ := DefaultWeights().Scores(catalog, matrix, likes, []int{1}, "travel", aff)
	s2, _ := DefaultWeights().Scores(catalog, matrix, likes, []int{1}, "travel", aff)

	if len(s1) != len(s2) {
		t.Fatal("length mismatch")
	}
	for i := range s1 {
		if s1[i] != s2[i] && !(math.IsInf(s1[i], -1) && math.IsInf(s2[i], -1)) {
			t.Errorf("score[%d] differs: %v vs %v", i, s1[i], s2[i])
		}
	}
}

func TestCompositeNode_SortsAndLabels(t *testing.T) {
	catalog, matrix := scoringFixture()
	now := time.Unix(1_700_000_000, 0)

	session := core.NewSession(catalog.Len())
	if err := session.Like(0, now); err != nil {
		t.Fatal(err)
	}
	rctx := &core.RecommendContext{Session: session, Now: now}

	src := &recall.CatalogSource{Catalog: catalog}
	items, err := src.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatal(err)
	}

	node := &CompositeNode{Catalog: catalog, Matrix: matrix, Weights: DefaultWeights()}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}

	if out[0].Index != 0 {
		t.Errorf("liked item must sort first, got index %d", out[0].Index)
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].Score < out[i].Score {
			t.Errorf("not sorted descending at %d: %v < %v", i, out[i-1].Score, out[i].Score)
		}
	}

	lbl, ok := out[0].GetLabel("intent")
	if !ok || lbl.Value != string(IntentLikes) {
		t.Errorf("intent label = %+v, want %q", lbl, IntentLikes)
	}
	if _, ok := out[0].GetLabel("category_affinity"); !ok {
		t.Error("liked item's category must carry an affinity label")
	}
}

func TestCompositeNode_EqualScoresKeepCatalogOrder(t *testing.T) {
	// 两件完全相同的商品分数必然相等，输出必须保持目录原序
	catalog := core.NewCatalog([]*core.Product{
		{Name: "First", Brand: "Same", Category: "Same", Rating: 4, Desc: "identical text", Keywords: "same"},
		{Name: "Second", Brand: "Same", Category: "Same", Rating: 4, Desc: "identical text", Keywords: "same"},
	})
	space := vectorize.Fit(catalog.Documents())
	matrix := vectorize.Build(space, catalog.Documents())

	src := &recall.CatalogSource{Catalog: catalog}
	rctx := &core.RecommendContext{Now: time.Unix(1_700_000_000, 0)}
	items, _ := src.Recall(context.Background(), rctx)
	// 故意打乱输入顺序
	items[0], items[1] = items[1], items[0]

	node := &CompositeNode{Catalog: catalog, Matrix: matrix, Weights: DefaultWeights()}
	out, err := node.Process(context.Background(), rctx, items)
	if err != nil {
		t.Fatal(err)
	}

	if out[0].Index != 0 || out[1].Index != 1 {
		t.Errorf("tie-break must restore catalog order, got %d, %d", out[0].Index, out[1].Index)
	}
}
