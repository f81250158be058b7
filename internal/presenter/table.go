package presenter

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	doubleRule = "═══════════════════════════════════════════════════════════"
	singleRule = "───────────────────────────────────────────────────────────"
)

// RenderTable writes the console report: snapshot header, pick cards, ranked table
func RenderTable(w io.Writer, v View) error {
	p := &printer{w: w}

	p.line("")
	p.line(doubleRule)
	p.linef("  Covered Calls: %s", v.Symbol)
	p.line(singleRule)
	p.linef("  Spot      : %s", v.Spot)
	p.linef("  RSI (14)  : %s", v.RSI)
	p.linef("  S / R     : %s", v.Levels)
	p.linef("  Earnings  : %s", v.NextEarnings)
	p.linef("  Window    : next %d weeks | Delta ≤ %s (%s) | as of %s", v.Weeks, v.MaxDelta, v.DeltaMode, v.AsOf)
	p.line(singleRule)

	if v.Empty {
		p.line("")
		p.linef("⚠️  No options found meeting criteria (Delta ≤ %s) for the next %d weeks.", v.MaxDelta, v.Weeks)
		p.line("")
		return p.err
	}

	for _, pick := range []*Pick{v.Best, v.Second} {
		if pick == nil {
			continue
		}
		c := pick.Candidate
		p.linef("★ %s", pick.Title)
		p.linef("   %s", pick.Headline(v.Symbol))
		p.linef("   Strike Distance: %s | Premium Yield: %s", Percent(pick.StrikeDistancePct), Percent(pick.PremiumYieldPct))
		p.linef("   Stability Score: %.4f | ARIF: %s | Delta: %.3f", c.StabilityScore, Percent(c.ARIF), c.Contract.Delta)
		p.line("")
	}

	p.line("All Candidates (Ranked by Stability Score)")
	p.table(Columns, cellsOf(v.Rows))
	p.line("")
	p.linef("windowed=%d filtered=%d excluded=%d ranked=%d",
		v.Stats.Windowed, v.Stats.Filtered, v.Stats.Excluded, v.Stats.Ranked)

	return p.err
}

func cellsOf(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Cells())
	}
	return out
}

// printer keeps the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) linef(format string, args ...interface{}) {
	p.line(fmt.Sprintf(format, args...))
}

func (p *printer) table(columns []string, rows [][]string) {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	p.line(joinPadded(columns, widths))

	total := 0
	for _, width := range widths {
		total += width
	}
	total += 2 * (len(widths) - 1)
	p.line(strings.Repeat("─", total))

	for _, row := range rows {
		p.line(joinPadded(row, widths))
	}
}

func joinPadded(values []string, widths []int) string {
	var b strings.Builder
	for i, val := range values {
		b.WriteString(val)
		if i < len(values)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(val)+2))
		}
	}
	return b.String()
}
