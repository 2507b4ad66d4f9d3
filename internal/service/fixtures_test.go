package service

import "github.com/cleberrangel/gantt-timeline-api/internal/model"

func newTask(id, project, start, end string, duration, completion int, status model.Status) model.Task {
	return model.Task{
		ID:         id,
		Name:       "Tarefa " + id,
		Project:    project,
		StartDate:  model.MustParseDate(start),
		EndDate:    model.MustParseDate(end),
		Duration:   duration,
		Completion: completion,
		Status:     status,
	}
}

// sampleTasks: Alpha cobre 01/01-21/01 (80%, On Track), Beta cobre 11/01-31/01 (0%, At Risk)
func sampleTasks() []model.Task {
	return []model.Task{
		newTask("1", "Alpha", "2024-01-01", "2024-01-11", 10, 100, model.StatusCompleted),
		newTask("2", "Alpha", "2024-01-11", "2024-01-21", 10, 60, model.StatusOnTrack),
		newTask("3", "Beta", "2024-01-11", "2024-01-31", 20, 0, model.StatusAtRisk),
	}
}
