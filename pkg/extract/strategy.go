package extract

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/coolbeans/contentplan/pkg/pattern"
	"github.com/coolbeans/contentplan/pkg/types"
)

var pillarListSeparator = regexp.MustCompile(`[|,]`)

// ParseStrategies parses every "Strategy N" block up to the recommendation
// section. Strategy numbers are kept as written; a block whose number does
// not parse is skipped.
func (p *Parser) ParseStrategies(text string) []types.ContentStrategy {
	text = normalizeNewlines(text)
	strategies := []types.ContentStrategy{}

	for _, b := range splitBlocks(text, p.strategyHeader, p.recommendation) {
		number, err := strconv.Atoi(b.Number)
		if err != nil {
			p.logger.Debug("skipping strategy block",
				zap.Int("line", b.Line),
				zap.String("header", b.Header),
				zap.Error(err))
			continue
		}
		strategies = append(strategies, p.parseStrategy(number, b))
	}
	return strategies
}

func (p *Parser) parseStrategy(number int, b block) types.ContentStrategy {
	strategy := types.NewContentStrategy(number)
	fields := stripEmphasis(b.Body)

	if name, ok := p.extract(pattern.FieldStrategyName, fields); ok {
		strategy.Name = name
	} else {
		strategy.Name = cleanTitle(b.Suffix)
	}

	textFields := []struct {
		id  string
		dst *string
	}{
		{pattern.FieldTagline, &strategy.Tagline},
		{pattern.FieldCoreApproach, &strategy.CoreApproach},
		{pattern.FieldPostingFrequency, &strategy.PostingFrequency},
		{pattern.FieldContentMix, &strategy.ContentMix},
		{pattern.FieldStrategyEffort, &strategy.Effort},
		{pattern.FieldExpectedResults, &strategy.ExpectedResults},
	}
	for _, f := range textFields {
		if value, ok := p.extract(f.id, fields); ok {
			*f.dst = value
		}
	}

	if body, ok := p.section(pattern.SectionStrategyPillars, b.Body); ok {
		strategy.ContentPillars = p.strategyPillars(body)
	}
	if body, ok := p.section(pattern.SectionIdeas, b.Body); ok {
		strategy.Top5Ideas = p.listItems(body)
	}
	if body, ok := p.section(pattern.SectionPros, b.Body); ok {
		strategy.Pros = body.Items(p.listItem)
	}
	if body, ok := p.section(pattern.SectionCons, b.Body); ok {
		strategy.Cons = body.Items(p.listItem)
	}

	return strategy
}

// strategyPillars reads "- name: description" bullets. Bullets without a
// description give a name only. With no bullets at all, the heading
// remainder is read as a "|" or "," separated list of names.
func (p *Parser) strategyPillars(body sectionBody) []types.ContentPillar {
	pillars := []types.ContentPillar{}
	for _, line := range body.Lines {
		text := stripEmphasis(line.text)
		if m := p.bulletPair.FindStringSubmatch(text); m != nil {
			if name := cleanValue(m[1]); name != "" {
				pillars = append(pillars, types.ContentPillar{Name: name, Description: cleanValue(m[2])})
			}
			continue
		}
		if m := p.listItem.FindStringSubmatch(text); m != nil {
			if name := cleanValue(m[1]); name != "" {
				pillars = append(pillars, types.ContentPillar{Name: name})
			}
		}
	}
	if len(pillars) > 0 {
		return pillars
	}

	for _, name := range pillarListSeparator.Split(stripEmphasis(body.Inline), -1) {
		if name = cleanValue(name); name != "" {
			pillars = append(pillars, types.ContentPillar{Name: name})
		}
	}
	return pillars
}

// listItems returns the numbered or bulleted lines of a section. Other lines
// are ignored.
func (p *Parser) listItems(body sectionBody) []string {
	items := []string{}
	for _, line := range body.Lines {
		m := p.listItem.FindStringSubmatch(line.text)
		if m == nil {
			continue
		}
		if item := cleanValue(stripEmphasis(m[1])); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ParseRecommendation reads the recommendation section of a strategies
// document. It reports false when the document has no such section.
func (p *Parser) ParseRecommendation(text string) (types.Recommendation, bool) {
	text = normalizeNewlines(text)
	rec := types.Recommendation{Week1Actions: []string{}}

	loc := p.recommendation.FindStringIndex(text)
	if loc == nil {
		return rec, false
	}
	raw := text[loc[0]:]
	fields := stripEmphasis(raw)

	if best, ok := p.extract(pattern.FieldBestStrategy, fields); ok {
		rec.RecommendedStrategy = p.strategyNumberIn(best)
	}
	if rec.RecommendedStrategy == 0 {
		// "## RECOMMENDATION: Strategy 3"
		headingLine, _, _ := strings.Cut(raw[loc[1]-loc[0]:], "\n")
		rec.RecommendedStrategy = p.strategyNumberIn(stripEmphasis(headingLine))
	}

	if reasoning, ok := p.extract(pattern.FieldReasoning, fields); ok {
		rec.Reasoning = reasoning
	}
	if body, ok := p.section(pattern.SectionWeek1Actions, raw); ok {
		rec.Week1Actions = p.listItems(body)
	}
	return rec, true
}

func (p *Parser) strategyNumberIn(text string) int {
	m := p.strategyNumber.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
