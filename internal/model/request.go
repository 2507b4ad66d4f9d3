package model

// TimelineRequest representa o payload de entrada para montagem da linha do tempo
type TimelineRequest struct {
	Tasks []Task `json:"tasks" binding:"required"`
}

// Response representa a resposta padrão da API
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// Meta contém metadados da resposta
type Meta struct {
	TotalTasks    int  `json:"total_tasks,omitempty"`
	TotalProjects int  `json:"total_projects,omitempty"`
	Cached        bool `json:"cached,omitempty"`
}

// ErrorResponse representa uma resposta de erro
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
