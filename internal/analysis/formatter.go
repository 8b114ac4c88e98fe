package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/Veraticus/deckstat/internal/cooccur"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"
)

const barWidth = 30

// CLIFormatter renders reports for terminal display.
type CLIFormatter struct {
	styles *Styles
}

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{styles: NewStyles()}
}

// NewPlainFormatter creates a formatter that emits no color codes.
func NewPlainFormatter() *CLIFormatter {
	return &CLIFormatter{styles: Plain()}
}

func (f *CLIFormatter) header(title, scope string, decks int) string {
	line := f.styles.Title.Render(title)
	sub := fmt.Sprintf("%s (%d decks)", scope, decks)
	return line + "\n" + f.styles.Subtitle.Render(sub)
}

// FormatStaples renders a staples report.
func (f *CLIFormatter) FormatStaples(r *StaplesReport, scope string) string {
	var b strings.Builder
	b.WriteString(f.header("Staples", scope, r.DeckCount))
	for _, g := range r.Groups {
		b.WriteString("\n" + f.styles.Heading.Render(strings.ToUpper(string(g.Category))) + "\n")
		t := cli.NewTable("Card", "Decks", "%", "MV").AlignRight(1, 2, 3)
		for _, c := range g.Cards {
			t.Row(c.Name, strconv.Itoa(c.Appearances), fmt.Sprintf("%.1f", c.Percentage), formatMV(c.ManaValue))
		}
		b.WriteString(t.String())
	}
	if len(r.Groups) == 0 {
		b.WriteString("\n" + f.styles.Subtle.Render("No card reaches the appearance threshold."))
	}
	return b.String()
}

// FormatCurve renders a curve report with a bar per bucket.
func (f *CLIFormatter) FormatCurve(r *CurveReport, scope string) string {
	var b strings.Builder
	b.WriteString(f.header("Mana curve", scope, r.DeckCount))
	b.WriteString("\n" + f.styles.Info.Render(fmt.Sprintf("Average mana value: %.2f", r.AvgManaValue)) + "\n\n")

	peak := 0.0
	for _, bucket := range r.Buckets {
		peak = max(peak, bucket.Avg)
	}
	for i, bucket := range r.Buckets {
		fmt.Fprintf(&b, "%-3s %s %5.1f  %s\n",
			BucketLabel(i),
			f.styles.RenderBar(bucket.Avg, peak, barWidth),
			bucket.Avg,
			f.styles.Subtle.Render(fmt.Sprintf("(%d-%d)", bucket.Min, bucket.Max)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCategories renders a category distribution.
func (f *CLIFormatter) FormatCategories(r *CategoryReport, scope string) string {
	t := cli.NewTable("Category", "Avg", "Min", "Max", "Decks").AlignRight(1, 2, 3, 4)
	for _, s := range r.Stats {
		t.Row(string(s.Category), fmt.Sprintf("%.1f", s.Slots.Avg),
			strconv.Itoa(s.Slots.Min), strconv.Itoa(s.Slots.Max),
			fmt.Sprintf("%d/%d", s.DecksWith, r.DeckCount))
	}
	return f.header("Categories", scope, r.DeckCount) + "\n" + t.String()
}

// FormatCompare renders a bracket comparison.
func (f *CLIFormatter) FormatCompare(r *CompareReport, scope string) string {
	var b strings.Builder
	title := fmt.Sprintf("Bracket %d vs %d", r.BracketA, r.BracketB)
	b.WriteString(f.styles.Title.Render(title) + "\n")
	b.WriteString(f.styles.Subtitle.Render(fmt.Sprintf("%s (%d vs %d decks)", scope, r.DecksA, r.DecksB)))

	side := func(label string, shifts []CardShift, style func(...string) string) {
		b.WriteString("\n" + f.styles.Heading.Render(label) + "\n")
		if len(shifts) == 0 {
			b.WriteString(f.styles.Subtle.Render("none") + "\n")
			return
		}
		t := cli.NewTable("Card", fmt.Sprintf("B%d %%", r.BracketA), fmt.Sprintf("B%d %%", r.BracketB), "Diff").AlignRight(1, 2, 3)
		for _, s := range shifts {
			t.Row(s.Name, fmt.Sprintf("%.1f", s.RateA*100), fmt.Sprintf("%.1f", s.RateB*100),
				style(fmt.Sprintf("%+.1f", s.Diff()*100)))
		}
		b.WriteString(t.String() + "\n")
	}
	side(fmt.Sprintf("More common in bracket %d", r.BracketB), r.MoreInB, f.styles.Up.Render)
	side(fmt.Sprintf("More common in bracket %d", r.BracketA), r.MoreInA, f.styles.Down.Render)
	return strings.TrimRight(b.String(), "\n")
}

// FormatRamp renders a ramp report.
func (f *CLIFormatter) FormatRamp(r *RampReport, scope string) string {
	var b strings.Builder
	b.WriteString(f.header("Ramp", scope, r.DeckCount) + "\n")
	fmt.Fprintf(&b, "Average ramp: %.1f (range %d-%d)\n", r.Ramp.Avg, r.Ramp.Min, r.Ramp.Max)
	fmt.Fprintf(&b, "Average lands: %.1f\n", r.AvgLands)
	t := cli.NewTable("Ramp card", "Decks", "%").AlignRight(1, 2)
	for _, c := range r.TopCards {
		t.Row(c.Name, strconv.Itoa(c.Decks), fmt.Sprintf("%.1f", c.Percentage))
	}
	b.WriteString(t.String())
	return b.String()
}

// FormatCommanderCurve renders commander mana value groups. With spells set
// the most played spells per bucket are listed too.
func (f *CLIFormatter) FormatCommanderCurve(r *CommanderCurveReport, scope string, spells bool) string {
	var b strings.Builder
	b.WriteString(f.header("Commander mana value vs curve", scope, r.DeckCount))

	headers := []string{"Cmdr MV", "Decks", "Avg MV", "Ramp", "Draw", "Lands"}
	for i := range model.MaxCurveBucket + 1 {
		headers = append(headers, BucketLabel(i))
	}
	t := cli.NewTable(headers...)
	for i := range headers {
		t.AlignRight(i)
	}
	for _, g := range r.Groups {
		row := []string{
			strconv.Itoa(g.ManaValue), strconv.Itoa(g.DeckCount), fmt.Sprintf("%.2f", g.AvgManaValue),
			fmt.Sprintf("%.1f", g.AvgRamp), fmt.Sprintf("%.1f", g.AvgDraw), fmt.Sprintf("%.1f", g.AvgLands),
		}
		for _, v := range g.AvgCurve {
			row = append(row, fmt.Sprintf("%.1f", v))
		}
		t.Row(row...)
	}
	b.WriteString("\n" + t.String())

	if !spells {
		return b.String()
	}
	for _, g := range r.Groups {
		b.WriteString("\n" + f.styles.Heading.Render(fmt.Sprintf("Commander MV %d", g.ManaValue)) + "\n")
		b.WriteString(f.styles.Subtle.Render(strings.Join(g.Commanders, ", ")) + "\n")
		for i, top := range g.TopSpells {
			if len(top) == 0 {
				continue
			}
			names := make([]string, 0, len(top))
			for _, c := range top {
				names = append(names, fmt.Sprintf("%s (%.0f%%)", c.Name, c.Percentage))
			}
			fmt.Fprintf(&b, "  %-3s %s\n", BucketLabel(i), strings.Join(names, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatPackages renders detected packages.
func (f *CLIFormatter) FormatPackages(r cooccur.Result, scope string) string {
	var b strings.Builder
	b.WriteString(f.header("Packages", scope, r.Decks))
	if len(r.Universal) > 0 {
		b.WriteString("\n" + f.styles.Warning.Render("In every deck: "+strings.Join(r.Universal, ", ")))
	}
	if len(r.Packages) == 0 {
		return b.String() + "\n" + f.styles.Subtle.Render("No packages meet the threshold.")
	}

	t := cli.NewTable("Cards", "Support", "Union", "Confidence").AlignRight(1, 2, 3)
	for _, p := range r.Packages {
		members := make([]string, len(p.Members))
		for i, m := range p.Members {
			members[i] = fmt.Sprintf("%s (%d)", m, p.MemberCounts[i])
		}
		t.Row(strings.Join(members, "\n"), strconv.Itoa(p.Support), strconv.Itoa(p.Union),
			fmt.Sprintf("%.0f%%", p.Confidence*100))
	}
	return b.String() + "\n" + t.String()
}

// FormatSummary renders the database summary.
func (f *CLIFormatter) FormatSummary(s *service.DeckSummary) string {
	var b strings.Builder
	b.WriteString(f.styles.Title.Render("Database summary") + "\n")
	fmt.Fprintf(&b, "Decks: %d\nUnique cards: %d\nDeck entries: %d\n", s.TotalDecks, s.UniqueCards, s.TotalEntries)
	if s.UnresolvedCards > 0 {
		b.WriteString(f.styles.Warning.Render(fmt.Sprintf("Unresolved entries: %d", s.UnresolvedCards)) + "\n")
	}
	fmt.Fprintf(&b, "Cached LLM answers: %d\n", s.CachedLLM)

	colors := cli.NewTable("Colors", "Key", "Decks").AlignRight(2)
	for _, c := range s.ByColor {
		key := c.Key
		if key == "" {
			key = "C"
		}
		colors.Row(c.Name, key, strconv.Itoa(c.Count))
	}
	b.WriteString(colors.String() + "\n")

	brackets := cli.NewTable("Bracket", "Decks").AlignRight(0, 1)
	for bracket := range 5 {
		if n, ok := s.ByBracket[bracket]; ok {
			label := strconv.Itoa(bracket)
			if bracket == 0 {
				label = "unknown"
			}
			brackets.Row(label, strconv.Itoa(n))
		}
	}
	b.WriteString(brackets.String())
	return b.String()
}

// FormatDecks renders a deck listing.
func (f *CLIFormatter) FormatDecks(decks []model.Deck) string {
	t := cli.NewTable("ID", "Name", "Commander", "Colors", "Bracket", "Tag").AlignRight(0, 4)
	for _, d := range decks {
		bracket := "-"
		if d.Bracket > 0 {
			bracket = strconv.Itoa(d.Bracket)
		}
		t.Row(strconv.FormatInt(d.ID, 10), d.Name, d.CommanderLabel(),
			cli.ManaPips(d.ColorIdentity.String())+" "+d.ColorIdentity.Name(), bracket, d.Tag)
	}
	return t.String()
}

// BucketLabel names a curve bucket: "0" through "5", then "6+".
func BucketLabel(i int) string {
	if i >= model.MaxCurveBucket {
		return strconv.Itoa(model.MaxCurveBucket) + "+"
	}
	return strconv.Itoa(i)
}

func formatMV(mv float64) string {
	if mv == float64(int(mv)) {
		return strconv.Itoa(int(mv))
	}
	return strconv.FormatFloat(mv, 'f', 1, 64)
}
