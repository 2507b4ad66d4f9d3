package timeline

import (
	"github.com/cleberrangel/gantt-timeline-api/internal/model"
)

const fullWidthPercent = 100.0

// scale converte deslocamentos em dias para percentuais da faixa global
type scale struct {
	minOffset int
	totalDays int
}

func newScale(starts, ends []model.Date) scale {
	minOffset := DayOffset(starts[0])
	for _, d := range starts[1:] {
		if off := DayOffset(d); off < minOffset {
			minOffset = off
		}
	}
	maxOffset := DayOffset(ends[0])
	for _, d := range ends[1:] {
		if off := DayOffset(d); off > maxOffset {
			maxOffset = off
		}
	}
	return scale{minOffset: minOffset, totalDays: maxOffset - minOffset}
}

// degenerate informa se todas as barras compartilham o mesmo dia único
func (s scale) degenerate() bool {
	return s.totalDays == 0
}

// place retorna left e width para uma barra que começa em start e dura duration dias.
// Com intervalo global nulo a barra ocupa a faixa inteira.
func (s scale) place(start model.Date, duration int) (left, width float64) {
	if s.degenerate() {
		return 0, fullWidthPercent
	}
	startOffset := DayOffset(start) - s.minOffset
	total := float64(s.totalDays)
	return fullWidthPercent * float64(startOffset) / total, fullWidthPercent * float64(duration) / total
}

func (s scale) span() model.Span {
	start := Epoch.AddDate(0, 0, s.minOffset)
	end := Epoch.AddDate(0, 0, s.minOffset+s.totalDays)
	return model.Span{
		Start:     model.Date{Time: start},
		End:       model.Date{Time: end},
		TotalDays: s.totalDays,
	}
}

// Layout posiciona cada resumo na faixa horizontal que representa o intervalo global
func Layout(summaries []model.ProjectSummary) ([]model.Bar, error) {
	bars, _, err := layout(summaries)
	return bars, err
}

func layout(summaries []model.ProjectSummary) ([]model.Bar, model.Span, error) {
	if len(summaries) == 0 {
		return nil, model.Span{}, model.ErrEmptyInput
	}

	starts := make([]model.Date, len(summaries))
	ends := make([]model.Date, len(summaries))
	for i, s := range summaries {
		starts[i] = s.StartDate
		ends[i] = s.EndDate
	}
	sc := newScale(starts, ends)

	bars := make([]model.Bar, len(summaries))
	for i, s := range summaries {
		left, width := sc.place(s.StartDate, s.Duration)
		bars[i] = model.Bar{
			ProjectSummary: s,
			LeftPercent:    left,
			WidthPercent:   width,
		}
	}
	return bars, sc.span(), nil
}

// LayoutTasks posiciona cada tarefa individualmente, usando a duração informada pela tarefa
func LayoutTasks(tasks []model.Task) ([]model.TaskBar, error) {
	if len(tasks) == 0 {
		return nil, model.ErrEmptyInput
	}

	starts := make([]model.Date, len(tasks))
	ends := make([]model.Date, len(tasks))
	for i, t := range tasks {
		starts[i] = t.StartDate
		ends[i] = t.EndDate
	}
	sc := newScale(starts, ends)

	bars := make([]model.TaskBar, len(tasks))
	for i, t := range tasks {
		left, width := sc.place(t.StartDate, t.Duration)
		bars[i] = model.TaskBar{Task: t, LeftPercent: left, WidthPercent: width}
	}
	return bars, nil
}

// Build agrega as tarefas por projeto e posiciona as barras resultantes
func Build(tasks []model.Task) ([]model.Bar, model.Span, error) {
	summaries, err := Aggregate(tasks)
	if err != nil {
		return nil, model.Span{}, err
	}
	return layout(summaries)
}
