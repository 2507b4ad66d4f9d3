package timeline

import (
	"fmt"

	"github.com/cleberrangel/gantt-timeline-api/internal/model"
)

// accumulator guarda o estado parcial de um projeto durante a redução
type accumulator struct {
	name               string
	startDate          model.Date
	endDate            model.Date
	completionWeighted int
	totalDuration      int
	statuses           []model.Status
}

// projectIndex é um mapa ordenado projeto -> acumulador, preservando a ordem de primeira aparição
type projectIndex struct {
	order []string
	byKey map[string]*accumulator
}

func newProjectIndex() *projectIndex {
	return &projectIndex{byKey: make(map[string]*accumulator)}
}

// add incorpora uma tarefa ao acumulador do seu projeto
func (idx *projectIndex) add(task model.Task) {
	acc, exists := idx.byKey[task.Project]
	if !exists {
		idx.order = append(idx.order, task.Project)
		idx.byKey[task.Project] = &accumulator{
			name:               task.Project,
			startDate:          task.StartDate,
			endDate:            task.EndDate,
			completionWeighted: task.Completion * task.Duration,
			totalDuration:      task.Duration,
			statuses:           []model.Status{task.Status},
		}
		return
	}

	if task.StartDate.Before(acc.startDate) {
		acc.startDate = task.StartDate
	}
	if task.EndDate.After(acc.endDate) {
		acc.endDate = task.EndDate
	}
	acc.completionWeighted += task.Completion * task.Duration
	acc.totalDuration += task.Duration
	acc.statuses = append(acc.statuses, task.Status)
}

// finalize converte o acumulador no resumo do projeto
func (acc *accumulator) finalize() (model.ProjectSummary, error) {
	if acc.totalDuration == 0 {
		return model.ProjectSummary{}, fmt.Errorf("projeto '%s': %w", acc.name, model.ErrZeroDuration)
	}

	return model.ProjectSummary{
		Name:       acc.name,
		StartDate:  acc.startDate,
		EndDate:    acc.endDate,
		Completion: roundDiv(acc.completionWeighted, acc.totalDuration),
		Status:     model.ResolveStatus(acc.statuses),
		Duration:   spanDays(acc.startDate, acc.endDate),
		TaskCount:  len(acc.statuses),
	}, nil
}

// Aggregate reduz as tarefas a um resumo por projeto, na ordem em que os projetos aparecem.
// A redução e a finalização são fases separadas: nenhum arredondamento acontece
// antes de todas as tarefas serem somadas.
func Aggregate(tasks []model.Task) ([]model.ProjectSummary, error) {
	if len(tasks) == 0 {
		return nil, model.ErrEmptyInput
	}

	idx := newProjectIndex()
	for _, task := range tasks {
		idx.add(task)
	}

	summaries := make([]model.ProjectSummary, 0, len(idx.order))
	for _, name := range idx.order {
		summary, err := idx.byKey[name].finalize()
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// roundDiv retorna round(num/den) com arredondamento half-up, em aritmética inteira.
// Assume num >= 0 e den > 0.
func roundDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}

// spanDays retorna a duração derivada de um intervalo, com mínimo de 1 dia
func spanDays(start, end model.Date) int {
	days := DaysBetween(start, end)
	if days < 1 {
		return 1
	}
	return days
}
