package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
)

type TableConfig struct {
	SpecialtyWidth int
	CountWidth     int
	RateWidth      int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		SpecialtyWidth: 32,
		CountWidth:     8,
		RateWidth:      16,
	}
}

// Reporter prints the indicator table of a report to a terminal.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(specialty string, count any, validated, j0, diffused string) string {
			return fmt.Sprintf("| %-*s | %-*v | %-*s | %-*s | %-*s |",
				c.config.SpecialtyWidth, specialty,
				c.config.CountWidth, count,
				c.config.RateWidth, validated,
				c.config.RateWidth, j0,
				c.config.RateWidth, diffused)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.SpecialtyWidth+2),
				strings.Repeat("-", c.config.CountWidth+2),
				strings.Repeat("-", c.config.RateWidth+2),
				strings.Repeat("-", c.config.RateWidth+2),
				strings.Repeat("-", c.config.RateWidth+2))
		},
		"rate": formatRate,
	}

	tmpl := `
Lettres de liaison - {{.Period.Start.Format "2006-01-02"}} to {{.Period.End.Format "2006-01-02"}} (run {{.RunID}})

Stays: {{len .Stays}} kept, {{.Stats.StaysDropped}} rows dropped, {{.Stats.StaysExcluded}} excluded
Documents: {{.Stats.DocsParsed}} parsed, {{.Stats.DocsDropped}} dropped

{{separator}}
{{formatRow "Specialty" "Stays" "Validation" "J0" "Diffusion"}}
{{separator}}
{{range .Rows}}{{formatRow .Specialty .StayCount (rate .ValidatedRate) (rate .J0Rate) (rate .DiffusedRate)}}
{{end}}{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *rate)
}
