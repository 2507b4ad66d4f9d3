package service

import (
	"fmt"

	"github.com/cleberrangel/gantt-timeline-api/internal/model"
)

// StatusColors mapeia cada status para a cor da barra (hex RGB)
var StatusColors = map[model.Status]string{
	model.StatusCompleted: "#059669",
	model.StatusOnTrack:   "#1E3A8A",
	model.StatusAtRisk:    "#F59E0B",
	model.StatusDelayed:   "#DC2626",
}

// DefaultColor é usada para status fora do mapa
const DefaultColor = "#9CA3AF"

const (
	dayLabelLayout   = "Jan 2"
	monthLabelLayout = "Jan 2006"
)

// Presenter converte barras calculadas em barras prontas para exibição
type Presenter struct{}

// NewPresenter cria um novo presenter
func NewPresenter() *Presenter {
	return &Presenter{}
}

// StatusColor retorna a cor associada ao status
func (p *Presenter) StatusColor(status model.Status) string {
	if color, ok := StatusColors[status]; ok {
		return color
	}
	return DefaultColor
}

// FormatDate formata uma data como "Jan 2"
func (p *Presenter) FormatDate(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dayLabelLayout)
}

// FormatDateRange formata o rótulo de uma barra ("Jan 2 - Mar 5")
func (p *Presenter) FormatDateRange(start, end model.Date) string {
	return fmt.Sprintf("%s - %s", p.FormatDate(start), p.FormatDate(end))
}

// FormatSpan formata o cabeçalho da linha do tempo ("Jan 2024 - Mar 2024")
func (p *Presenter) FormatSpan(span model.Span) string {
	return fmt.Sprintf("%s - %s", span.Start.Format(monthLabelLayout), span.End.Format(monthLabelLayout))
}

// Present monta a linha do tempo final a partir das barras e do intervalo global
func (p *Presenter) Present(bars []model.Bar, span model.Span, totalTasks int) model.Timeline {
	out := make([]model.TimelineBar, len(bars))
	for i, b := range bars {
		out[i] = model.TimelineBar{
			Bar:       b,
			Color:     p.StatusColor(b.Status),
			DateLabel: p.FormatDateRange(b.StartDate, b.EndDate),
		}
	}

	return model.Timeline{
		Range:      span,
		RangeLabel: p.FormatSpan(span),
		Bars:       out,
		TotalTasks: totalTasks,
	}
}
