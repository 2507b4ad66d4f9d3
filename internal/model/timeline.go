package model

// ProjectSummary é o resumo de um projeto derivado das suas tarefas.
// É recalculado a cada chamada e não possui identidade persistente.
type ProjectSummary struct {
	Name       string `json:"name"`
	StartDate  Date   `json:"start_date"`
	EndDate    Date   `json:"end_date"`
	Completion int    `json:"completion"`
	Status     Status `json:"status"`
	Duration   int    `json:"duration"`
	TaskCount  int    `json:"task_count"`
}

// Bar é um resumo posicionado na faixa horizontal da linha do tempo (0-100%)
type Bar struct {
	ProjectSummary
	LeftPercent  float64 `json:"left_percent"`
	WidthPercent float64 `json:"width_percent"`
}

// TaskBar é a barra de uma tarefa individual, usando a duração informada pela origem
type TaskBar struct {
	Task
	LeftPercent  float64 `json:"left_percent"`
	WidthPercent float64 `json:"width_percent"`
}

// Span é o intervalo global coberto pela linha do tempo
type Span struct {
	Start     Date `json:"start"`
	End       Date `json:"end"`
	TotalDays int  `json:"total_days"`
}

// TimelineBar é a barra pronta para exibição (cor e rótulo de datas)
type TimelineBar struct {
	Bar
	Color     string `json:"color"`
	DateLabel string `json:"date_label"`
}

// Timeline é a resposta completa da linha do tempo por projeto
type Timeline struct {
	Range      Span          `json:"range"`
	RangeLabel string        `json:"range_label"`
	Bars       []TimelineBar `json:"bars"`
	TotalTasks int           `json:"total_tasks"`
}
