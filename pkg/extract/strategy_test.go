package extract

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/coolbeans/contentplan/pkg/types"
)

const educatorStrategies = `# CONTENT STRATEGIES

## Strategy 1: The Educator
**Name:** The Educator
**Tagline:** "Teach first"
**Core Approach:** Publish tutorials every week
that explain the product.
**Content Pillars:**
- Tutorials: Step by step guides
- Myths: Debunking common mistakes
**Posting Frequency:** 3x per week
**Content Mix:** 60% video, 40% carousel
**Top 5 Content Ideas:**
1. Getting started guide
2. Five common mistakes
3. Expert interview
**Estimated Effort:** 6 hours per week
**Expected Results:** Steady organic growth
**Pros:**
- Builds trust
- Evergreen content
**Cons:**
- Slow to show results
- Effort is front-loaded

---

## Strategy 2: The Storyteller
Tagline: Stories sell
Content Pillars: Customers | Team, Origins
Pros:
* Emotional reach
Cons:
* Hard to measure

## RECOMMENDATION
**Best Strategy:** Strategy 1
**Why:** It balances effort and reach.
**Week 1 Action Plan:**
1. Set up the content calendar
2. Draft the first three posts

Strategy 2 could follow in month two.
`

func TestParseStrategies(t *testing.T) {
	strategies := ParseStrategies(educatorStrategies)
	if len(strategies) != 2 {
		t.Fatalf("ParseStrategies() returned %d strategies, want 2", len(strategies))
	}

	want := types.ContentStrategy{
		StrategyNumber: 1,
		Name:           "The Educator",
		Tagline:        "Teach first",
		CoreApproach:   "Publish tutorials every week\nthat explain the product.",
		ContentPillars: []types.ContentPillar{
			{Name: "Tutorials", Description: "Step by step guides"},
			{Name: "Myths", Description: "Debunking common mistakes"},
		},
		PostingFrequency: "3x per week",
		ContentMix:       "60% video, 40% carousel",
		Top5Ideas:        []string{"Getting started guide", "Five common mistakes", "Expert interview"},
		Effort:           "6 hours per week",
		ExpectedResults:  "Steady organic growth",
		Pros:             []string{"Builds trust", "Evergreen content"},
		Cons:             []string{"Slow to show results", "Effort is front-loaded"},
	}
	if !reflect.DeepEqual(strategies[0], want) {
		t.Errorf("strategy 1 = %+v\nwant         %+v", strategies[0], want)
	}

	second := strategies[1]
	if second.StrategyNumber != 2 || second.Name != "The Storyteller" {
		t.Errorf("strategy 2 = %d %q, want 2 %q", second.StrategyNumber, second.Name, "The Storyteller")
	}
	if second.Tagline != "Stories sell" {
		t.Errorf("strategy 2 Tagline = %q", second.Tagline)
	}
	wantPillars := []types.ContentPillar{{Name: "Customers"}, {Name: "Team"}, {Name: "Origins"}}
	if !reflect.DeepEqual(second.ContentPillars, wantPillars) {
		t.Errorf("strategy 2 ContentPillars = %+v, want %+v", second.ContentPillars, wantPillars)
	}
	if !reflect.DeepEqual(second.Pros, []string{"Emotional reach"}) {
		t.Errorf("strategy 2 Pros = %q", second.Pros)
	}
	if !reflect.DeepEqual(second.Cons, []string{"Hard to measure"}) {
		t.Errorf("strategy 2 Cons = %q", second.Cons)
	}
}

func TestParseStrategies_FiveWithProsAndCons(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "Strategy %d: Approach %d\n", i, i)
		fmt.Fprintf(&b, "Tagline: Tagline %d\n", i)
		b.WriteString("Pros:\n")
		for j := 1; j <= i; j++ {
			fmt.Fprintf(&b, "- Pro %d.%d\n", i, j)
		}
		b.WriteString("Cons:\n")
		fmt.Fprintf(&b, "• Con %d\n\n", i)
	}

	strategies := ParseStrategies(b.String())
	if len(strategies) != 5 {
		t.Fatalf("got %d strategies, want 5", len(strategies))
	}
	for i, strategy := range strategies {
		n := i + 1
		if strategy.StrategyNumber != n {
			t.Errorf("strategy %d number = %d", n, strategy.StrategyNumber)
		}
		if want := fmt.Sprintf("Approach %d", n); strategy.Name != want {
			t.Errorf("strategy %d Name = %q, want %q", n, strategy.Name, want)
		}
		var wantPros []string
		for j := 1; j <= n; j++ {
			wantPros = append(wantPros, fmt.Sprintf("Pro %d.%d", n, j))
		}
		if !reflect.DeepEqual(strategy.Pros, wantPros) {
			t.Errorf("strategy %d Pros = %q, want %q", n, strategy.Pros, wantPros)
		}
		if want := []string{fmt.Sprintf("Con %d", n)}; !reflect.DeepEqual(strategy.Cons, want) {
			t.Errorf("strategy %d Cons = %q, want %q", n, strategy.Cons, want)
		}
	}
}

func TestParseStrategies_Defaults(t *testing.T) {
	strategies := ParseStrategies("Strategy 3\n\nStrategy 3\nName: Repeat")
	if len(strategies) != 2 {
		t.Fatalf("got %d strategies, want 2", len(strategies))
	}

	empty := strategies[0]
	want := types.NewContentStrategy(3)
	if !reflect.DeepEqual(empty, want) {
		t.Errorf("empty strategy = %+v, want %+v", empty, want)
	}
	if strategies[1].StrategyNumber != 3 || strategies[1].Name != "Repeat" {
		t.Errorf("repeated strategy = %d %q, want 3 %q", strategies[1].StrategyNumber, strategies[1].Name, "Repeat")
	}
}

func TestParseStrategies_ValueOnNextLine(t *testing.T) {
	text := "Strategy 1: Alpha\nCore Approach:\nBuild trust slowly\nover time\nPosting Frequency:\n3x per week\nTagline:\n- Pros: none\n"

	strategies := ParseStrategies(text)
	if len(strategies) != 1 {
		t.Fatalf("got %d strategies, want 1", len(strategies))
	}
	got := strategies[0]
	if want := "Build trust slowly\nover time"; got.CoreApproach != want {
		t.Errorf("CoreApproach = %q, want %q", got.CoreApproach, want)
	}
	if want := "3x per week"; got.PostingFrequency != want {
		t.Errorf("PostingFrequency = %q, want %q", got.PostingFrequency, want)
	}
	if want := types.NewContentStrategy(1).Tagline; got.Tagline != want {
		t.Errorf("Tagline = %q, want %q", got.Tagline, want)
	}
}

func TestParseStrategies_Empty(t *testing.T) {
	for _, text := range []string{"", "No strategies today."} {
		strategies := ParseStrategies(text)
		if strategies == nil || len(strategies) != 0 {
			t.Errorf("ParseStrategies(%q) = %v, want empty non-nil", text, strategies)
		}
	}
}

func TestParseStrategies_MalformedNumberSkipped(t *testing.T) {
	text := "Strategy 99999999999999999999: Broken\nName: Broken\n\nStrategy 2: Fine"

	strategies := ParseStrategies(text)
	if len(strategies) != 1 || strategies[0].StrategyNumber != 2 {
		t.Errorf("ParseStrategies() = %+v, want only strategy 2", strategies)
	}
}

func TestParseStrategies_StopsAtRecommendation(t *testing.T) {
	strategies := ParseStrategies(educatorStrategies)
	for _, strategy := range strategies {
		for _, con := range strategy.Cons {
			if strings.Contains(con, "Week 1") || strings.Contains(con, "calendar") {
				t.Errorf("strategy %d absorbed recommendation text: %q", strategy.StrategyNumber, con)
			}
		}
	}
}

func TestParseRecommendation(t *testing.T) {
	rec, ok := ParseRecommendation(educatorStrategies)
	if !ok {
		t.Fatal("ParseRecommendation() found no recommendation")
	}

	want := types.Recommendation{
		RecommendedStrategy: 1,
		Reasoning:           "It balances effort and reach.",
		Week1Actions:        []string{"Set up the content calendar", "Draft the first three posts"},
	}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("ParseRecommendation() = %+v, want %+v", rec, want)
	}
}

func TestParseRecommendation_NumberInHeading(t *testing.T) {
	rec, ok := ParseRecommendation("Strategy 1: A\n\n## FINAL RECOMMENDATION: Strategy #4\nReasoning: Best fit")
	if !ok {
		t.Fatal("ParseRecommendation() found no recommendation")
	}
	if rec.RecommendedStrategy != 4 {
		t.Errorf("RecommendedStrategy = %d, want 4", rec.RecommendedStrategy)
	}
	if rec.Reasoning != "Best fit" {
		t.Errorf("Reasoning = %q, want %q", rec.Reasoning, "Best fit")
	}
}

func TestParseRecommendation_Absent(t *testing.T) {
	rec, ok := ParseRecommendation("Strategy 1: A")
	if ok {
		t.Error("ParseRecommendation() reported a recommendation")
	}
	if rec.RecommendedStrategy != 0 || rec.Week1Actions == nil {
		t.Errorf("ParseRecommendation() = %+v, want zero value with empty actions", rec)
	}
}
