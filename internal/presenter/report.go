package presenter

import (
	"fmt"
	"html/template"
	"io"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Symbol}} Covered Calls</title>
<style>
body { font-family: -apple-system, sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #ddd; padding: 4px 8px; text-align: right; }
.pick { border: 1px solid #2a7; border-radius: 6px; padding: 8px 12px; margin-bottom: 12px; }
.empty { color: #a60; }
</style>
</head>
<body>
<h1 id="symbol">{{.Symbol}}</h1>
<dl id="snapshot">
  <dt>Spot</dt><dd class="spot">{{.Spot}}</dd>
  <dt>RSI (14)</dt><dd class="rsi">{{.RSI}}</dd>
  <dt>Support / Resistance</dt><dd class="levels">{{.Levels}}</dd>
  <dt>Next Earnings</dt><dd class="earnings">{{.NextEarnings}}</dd>
  <dt>Window</dt><dd class="window">{{.Weeks}} weeks, delta &le; {{.MaxDelta}} ({{.DeltaMode}}), as of {{.AsOf}}</dd>
</dl>
{{if .Empty}}
<p class="empty">No options found meeting criteria (Delta &le; {{.MaxDelta}}) for the next {{.Weeks}} weeks.</p>
{{else}}
{{range .Picks}}
<div class="pick">
  <h2>{{.Title}}</h2>
  <p class="headline">{{.Headline}}</p>
  <p>Strike distance {{.Distance}} &middot; Premium yield {{.Yield}} &middot; Stability {{.Stability}} &middot; ARIF {{.ARIF}}</p>
</div>
{{end}}
<table id="candidates">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{end}}
</body>
</html>
`))

type pickCard struct {
	Title     string
	Headline  string
	Distance  string
	Yield     string
	Stability string
	ARIF      string
}

type reportData struct {
	View
	Columns []string
	Picks   []pickCard
}

// RenderHTML writes a standalone HTML report
func RenderHTML(w io.Writer, v View) error {
	data := reportData{View: v, Columns: Columns}
	for _, pick := range []*Pick{v.Best, v.Second} {
		if pick == nil {
			continue
		}
		data.Picks = append(data.Picks, pickCard{
			Title:     pick.Title,
			Headline:  pick.Headline(v.Symbol),
			Distance:  Percent(pick.StrikeDistancePct),
			Yield:     Percent(pick.PremiumYieldPct),
			Stability: fmt.Sprintf("%.4f", pick.Candidate.StabilityScore),
			ARIF:      Percent(pick.Candidate.ARIF),
		})
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
