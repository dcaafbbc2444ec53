package filter

import (
	"context"
	"testing"
	"time"

	"github.com/SepehrRezaee/ecommerce-ai-catalog/core"
)

func sampleItem(index int, p *core.Product) *core.Item {
	return core.NewItem(index, p)
}

func TestAttributeFilter_ShouldFilter(t *testing.T) {
	laptop := &core.Product{
		Name: "Laptop", Brand: "TechBrand", Category: "Electronics",
		Color: "Silver", Price: 999,
	}

	tests := []struct {
		name   string
		filter *AttributeFilter
		want   bool
	}{
		{"no constraints keeps", &AttributeFilter{}, false},
		{"All keeps", &AttributeFilter{Category: "All", Brand: "All", Color: "All"}, false},
		{"matching category keeps", &AttributeFilter{Category: "Electronics"}, false},
		{"other category filters", &AttributeFilter{Category: "Books"}, true},
		{"other brand filters", &AttributeFilter{Brand: "BookWorld"}, true},
		{"other color filters", &AttributeFilter{Color: "Red"}, true},
		{"price cap filters", &AttributeFilter{MaxPrice: 500}, true},
		{"price cap keeps under limit", &AttributeFilter{MaxPrice: 1000}, false},
		{"zero price cap means unlimited", &AttributeFilter{MaxPrice: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.ShouldFilter(context.Background(), nil, sampleItem(0, laptop))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttributeFilter_NilProductFiltered(t *testing.T) {
	got, err := (&AttributeFilter{}).ShouldFilter(context.Background(), nil, sampleItem(0, nil))
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("item without product must be filtered")
	}
}

func TestInteractedFilter_ShouldFilter(t *testing.T) {
	session := core.NewSession(3)
	now := time.Unix(1_700_000_000, 0)
	if err := session.Like(0, now); err != nil {
		t.Fatal(err)
	}
	if err := session.Dislike(1); err != nil {
		t.Fatal(err)
	}
	rctx := &core.RecommendContext{Session: session}
	p := &core.Product{Name: "p"}

	tests := []struct {
		name   string
		filter *InteractedFilter
		index  int
		want   bool
	}{
		{"liked excluded", &InteractedFilter{ExcludeLiked: true}, 0, true},
		{"liked kept when not excluding", &InteractedFilter{}, 0, false},
		{"disliked excluded", &InteractedFilter{ExcludeDisliked: true}, 1, true},
		{"untouched kept", &InteractedFilter{ExcludeLiked: true, ExcludeDisliked: true}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.ShouldFilter(context.Background(), rctx, sampleItem(tt.index, p))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleFilter_CELExpression(t *testing.T) {
	cheap := sampleItem(0, &core.Product{Name: "Cable", Category: "Electronics", Price: 15, Rating: 4.1})
	pricey := sampleItem(1, &core.Product{Name: "Laptop", Category: "Electronics", Price: 999, Rating: 4.5})

	f, err := NewRuleFilter(`product.price <= 100.0 && product.rating >= 4.0`)
	if err != nil {
		t.Fatal(err)
	}

	if got, _ := f.ShouldFilter(context.Background(), nil, cheap); got {
		t.Error("cheap item must pass the rule")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, pricey); !got {
		t.Error("pricey item must be filtered")
	}
}

func TestRuleFilter_EmptyExpressionKeepsAll(t *testing.T) {
	f, err := NewRuleFilter("")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.ShouldFilter(context.Background(), nil, sampleItem(0, &core.Product{Name: "p"}))
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("empty expression must keep everything")
	}
}

func TestRuleFilter_InvalidExpression(t *testing.T) {
	if _, err := NewRuleFilter(`product.price <=`); err == nil {
		t.Error("invalid expression must fail to compile")
	}
}

func TestFilterNode_Process(t *testing.T) {
	items := []*core.Item{
		sampleItem(0, &core.Product{Name: "Laptop", Category: "Electronics", Price: 999}),
		sampleItem(1, &core.Product{Name: "Novel", Category: "Books", Price: 12}),
		nil,
		sampleItem(2, &core.Product{Name: "Cable", Category: "Electronics", Price: 9}),
	}

	node := &FilterNode{Filters: []Filter{&AttributeFilter{Category: "Electronics"}}}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 2 || out[0].Index != 0 || out[1].Index != 2 {
		t.Fatalf("got %d items", len(out))
	}
	// 被过滤的商品带上 filtered 标签
	if lbl, ok := items[1].GetLabel("filtered"); !ok || lbl.Source != "filter.attribute" {
		t.Errorf("filtered label = %+v", lbl)
	}
}

func TestFilterNode_NoFiltersPassthrough(t *testing.T) {
	items := []*core.Item{sampleItem(0, &core.Product{Name: "p"})}
	out, err := (&FilterNode{}).Process(context.Background(), nil, items)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("got %d items, want 1", len(out))
	}
}
