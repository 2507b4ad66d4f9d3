package service

import (
	"strings"
	"testing"

	"github.com/cleberrangel/gantt-timeline-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `id,name,project,start_date,end_date,duration,completion,status
1,Levantamento,Alpha,2024-01-01,2024-01-11,10,100,Completed
2,Desenvolvimento,Alpha,2024-01-11,2024-01-21,10,60%,on track

3,Homologação,Beta,2024-01-11,2024-01-31,20,0,At Risk
`

func TestImportService_CSV(t *testing.T) {
	svc := NewImportService(0)

	tasks, err := svc.Import("tarefas.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "Levantamento", tasks[0].Name)
	assert.Equal(t, "Alpha", tasks[0].Project)
	assert.Equal(t, "2024-01-01", tasks[0].StartDate.String())
	assert.Equal(t, "2024-01-11", tasks[0].EndDate.String())
	assert.Equal(t, 10, tasks[0].Duration)
	assert.Equal(t, model.StatusCompleted, tasks[0].Status)

	assert.Equal(t, 60, tasks[1].Completion)
	assert.Equal(t, model.StatusOnTrack, tasks[1].Status)
	assert.Equal(t, model.StatusAtRisk, tasks[2].Status)
}

func TestImportService_HeaderAliases(t *testing.T) {
	content := "Projeto;Início;Fim;Duração;Conclusão;Status\n"
	content = strings.ReplaceAll(content, ";", ",")
	content += "Gamma,2024-02-01,2024-02-05,4,50,Delayed\n"

	tasks, err := NewImportService(0).Import("dados.CSV", strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Sem id e nome, usa o número do registro
	assert.Equal(t, "1", tasks[0].ID)
	assert.Equal(t, "1", tasks[0].Name)
	assert.Equal(t, "Gamma", tasks[0].Project)
	assert.Equal(t, model.StatusDelayed, tasks[0].Status)
}

func TestImportService_MissingColumn(t *testing.T) {
	content := "id,project,start_date,end_date,status\n1,A,2024-01-01,2024-01-02,Completed\n"

	_, err := NewImportService(0).Import("tarefas.csv", strings.NewReader(content))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "duration")
	assert.Contains(t, err.Error(), "completion")
}

func TestImportService_RowErrors(t *testing.T) {
	header := "project,start_date,end_date,duration,completion,status\n"

	tests := []struct {
		name string
		row  string
		want error
	}{
		{"invalid date", "A,2024-13-01,2024-01-02,1,0,Completed", model.ErrInvalidDate},
		{"invalid duration", "A,2024-01-01,2024-01-02,um,0,Completed", model.ErrInvalidTask},
		{"invalid completion", "A,2024-01-01,2024-01-02,1,muito,Completed", model.ErrInvalidTask},
		{"unknown status", "A,2024-01-01,2024-01-02,1,0,Blocked", model.ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := header + "A,2024-01-01,2024-01-02,1,0,Completed\n" + tt.row + "\n"
			_, err := NewImportService(0).Import("tarefas.csv", strings.NewReader(content))
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "linha 3")
		})
	}
}

func TestImportService_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"ID", "Name", "Project", "Start Date", "End Date", "Duration", "Completion", "Status"},
		{"T-1", "Planejamento", "Alpha", "2024-03-01", "2024-03-04", 3, 100, "Completed"},
		{"T-2", "Execução", "Beta", "2024-03-02", "2024-03-10", 8, 25, "Delayed"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tasks, err := NewImportService(0).Import("plano.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "T-1", tasks[0].ID)
	assert.Equal(t, 3, tasks[0].Duration)
	assert.Equal(t, 100, tasks[0].Completion)
	assert.Equal(t, "Beta", tasks[1].Project)
	assert.Equal(t, "2024-03-10", tasks[1].EndDate.String())
	assert.Equal(t, model.StatusDelayed, tasks[1].Status)
}

func TestImportService_JSONL(t *testing.T) {
	content := `{"id":"1","name":"A","project":"Alpha","start_date":"2024-01-01","end_date":"2024-01-03","duration":2,"completion":50,"status":"On Track"}

{"id":"2","name":"B","project":"Beta","start_date":"2024-01-02","end_date":"2024-01-04","duration":2,"completion":0,"status":"At Risk"}
`
	tasks, err := NewImportService(0).Import("tarefas.jsonl", strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Alpha", tasks[0].Project)
	assert.Equal(t, model.StatusAtRisk, tasks[1].Status)

	_, err = NewImportService(0).Import("tarefas.ndjson", strings.NewReader("{\"id\":\"1\"}\nnão é json\n"))
	require.ErrorIs(t, err, ErrInvalidFile)
	assert.Contains(t, err.Error(), "linha 2")
}

func TestImportService_JSON(t *testing.T) {
	task := `{"id":"1","name":"A","project":"Alpha","start_date":"2024-01-01","end_date":"2024-01-03","duration":2,"completion":50,"status":"Completed"}`

	tasks, err := NewImportService(0).Import("a.json", strings.NewReader("["+task+"]"))
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	tasks, err = NewImportService(0).Import("b.json", strings.NewReader(`{"tasks":[`+task+`]}`))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.StatusCompleted, tasks[0].Status)
}

func TestImportService_FileErrors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := NewImportService(0).Import("tarefas.pdf", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewImportService(0).Import("tarefas.csv", strings.NewReader("  \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("header only", func(t *testing.T) {
		content := "project,start_date,end_date,duration,completion,status\n"
		_, err := NewImportService(0).Import("tarefas.csv", strings.NewReader(content))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := NewImportService(16).Import("tarefas.csv", strings.NewReader(sampleCSV))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("corrupt xlsx", func(t *testing.T) {
		_, err := NewImportService(0).Import("tarefas.xlsx", strings.NewReader("not a zip"))
		assert.ErrorIs(t, err, ErrInvalidFile)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := NewImportService(0).Import("tarefas.json", strings.NewReader(`{"tasks":[{`))
		assert.ErrorIs(t, err, ErrInvalidFile)
	})

	t.Run("malformed json array", func(t *testing.T) {
		_, err := NewImportService(0).Import("tarefas.json", strings.NewReader(`[{"id":`))
		assert.ErrorIs(t, err, ErrInvalidFile)
	})

	t.Run("invalid status inside json keeps both causes", func(t *testing.T) {
		_, err := NewImportService(0).Import("tarefas.json", strings.NewReader(`[{"id":"1","status":"Blocked"}]`))
		assert.ErrorIs(t, err, ErrInvalidFile)
		assert.ErrorIs(t, err, model.ErrUnknownStatus)
	})
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Início":        "inicio",
		" DURAÇÃO ":     "duracao",
		"Start Date":    "start_date",
		"end-date":      "end_date",
		"\ufeffproject": "project",
		"Conclusão (%)": "conclusao_(%)",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeHeader(in), in)
	}
}
