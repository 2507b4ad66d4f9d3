package model

import "fmt"

// Task representa uma tarefa com intervalo de datas, projeto, progresso e status
type Task struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Project    string `json:"project"`
	StartDate  Date   `json:"start_date"`
	EndDate    Date   `json:"end_date"`
	Duration   int    `json:"duration"`   // dias, informado pela origem (não é recalculado)
	Completion int    `json:"completion"` // 0-100
	Status     Status `json:"status"`
}

// Validate aplica as validações de entrada que o núcleo de cálculo assume como garantidas
func (t Task) Validate() error {
	if t.Project == "" {
		return fmt.Errorf("%w: tarefa '%s' sem projeto", ErrInvalidTask, t.ID)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: tarefa '%s' sem data de início ou fim", ErrInvalidTask, t.ID)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: tarefa '%s' termina antes de começar", ErrInvalidTask, t.ID)
	}
	if t.Duration < 0 {
		return fmt.Errorf("%w: tarefa '%s' com duração negativa", ErrInvalidTask, t.ID)
	}
	if t.Completion < 0 || t.Completion > 100 {
		return fmt.Errorf("%w: tarefa '%s' com conclusão fora de 0-100", ErrInvalidTask, t.ID)
	}
	if t.Status == StatusUnknown {
		return fmt.Errorf("%w: tarefa '%s' sem status: %v", ErrInvalidTask, t.ID, ErrUnknownStatus)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: tarefa '%s': %v", ErrInvalidTask, t.ID, ErrUnknownStatus)
	}
	return nil
}

// ValidateTasks valida uma lista de tarefas, parando no primeiro erro
func ValidateTasks(tasks []Task) error {
	if len(tasks) == 0 {
		return ErrEmptyInput
	}
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tarefa %d: %w", i, err)
		}
	}
	return nil
}
