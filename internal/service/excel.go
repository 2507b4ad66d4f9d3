package service

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/cleberrangel/gantt-timeline-api/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	timelineSheet = "Cronograma"
	tasksSheet    = "Tarefas"

	// DefaultTrackColumns é a largura padrão da faixa da linha do tempo, em colunas
	DefaultTrackColumns = 60
)

var summaryHeaders = []string{"PROJETO", "INÍCIO", "FIM", "DURAÇÃO (DIAS)", "CONCLUSÃO (%)", "STATUS", "TAREFAS"}

var taskHeaders = []string{"ID", "TAREFA", "PROJETO", "INÍCIO", "FIM", "DURAÇÃO (DIAS)", "CONCLUSÃO (%)", "STATUS"}

// ExcelGenerator gera a planilha Gantt a partir da linha do tempo
type ExcelGenerator struct {
	presenter    *Presenter
	trackColumns int
}

// NewExcelGenerator cria um novo gerador de Excel com a faixa de trackColumns colunas
func NewExcelGenerator(trackColumns int) *ExcelGenerator {
	if trackColumns <= 0 {
		trackColumns = DefaultTrackColumns
	}
	return &ExcelGenerator{
		presenter:    NewPresenter(),
		trackColumns: trackColumns,
	}
}

// Generate gera um arquivo Excel com uma aba por projeto e, se houver, uma aba por tarefa
func (g *ExcelGenerator) Generate(tl model.Timeline, taskBars []model.TaskBar) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Renomeia a sheet padrão
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, timelineSheet); err != nil {
		return nil, fmt.Errorf("renomear sheet: %w", err)
	}

	styles, err := newSheetStyles(f, g.presenter)
	if err != nil {
		return nil, fmt.Errorf("criar estilos: %w", err)
	}

	if err := g.writeTimeline(f, styles, tl); err != nil {
		return nil, fmt.Errorf("escrever cronograma: %w", err)
	}

	if len(taskBars) > 0 {
		if _, err := f.NewSheet(tasksSheet); err != nil {
			return nil, fmt.Errorf("criar sheet de tarefas: %w", err)
		}
		if err := g.writeTasks(f, styles, taskBars); err != nil {
			return nil, fmt.Errorf("escrever tarefas: %w", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escrever buffer: %w", err)
	}

	return buf, nil
}

// sheetStyles agrupa os IDs de estilo usados nas abas
type sheetStyles struct {
	header int
	odd    int
	even   int
	track  int
	status map[model.Status]int
}

func newSheetStyles(f *excelize.File, p *Presenter) (*sheetStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: cellBorder("000000"),
	})
	if err != nil {
		return nil, err
	}

	odd, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: cellBorder("D9D9D9"),
	})
	if err != nil {
		return nil, err
	}

	even, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFFFFF"}, Pattern: 1},
		Border: cellBorder("D9D9D9"),
	})
	if err != nil {
		return nil, err
	}

	track, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F3F4F6"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	styles := &sheetStyles{
		header: header,
		odd:    odd,
		even:   even,
		track:  track,
		status: make(map[model.Status]int),
	}

	for _, st := range model.AllStatuses {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 9, Color: "FFFFFF"},
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{strings.TrimPrefix(p.StatusColor(st), "#")},
				Pattern: 1,
			},
		})
		if err != nil {
			return nil, err
		}
		styles.status[st] = id
	}

	return styles, nil
}

func cellBorder(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
	}
}

// writeTimeline escreve uma linha por projeto com a barra desenhada na faixa
func (g *ExcelGenerator) writeTimeline(f *excelize.File, styles *sheetStyles, tl model.Timeline) error {
	if err := writeHeaderRow(f, timelineSheet, styles.header, summaryHeaders); err != nil {
		return err
	}

	// Cabeçalho da faixa: intervalo global mesclado sobre todas as colunas
	trackStart := len(summaryHeaders) + 1
	trackEnd := trackStart + g.trackColumns - 1
	first, _ := excelize.CoordinatesToCellName(trackStart, 1)
	last, _ := excelize.CoordinatesToCellName(trackEnd, 1)
	if err := f.MergeCell(timelineSheet, first, last); err != nil {
		return err
	}
	if err := f.SetCellValue(timelineSheet, first, tl.RangeLabel); err != nil {
		return err
	}
	if err := f.SetCellStyle(timelineSheet, first, last, styles.header); err != nil {
		return err
	}

	for i, bar := range tl.Bars {
		row := i + 2
		style := styles.even
		if i%2 == 1 {
			style = styles.odd
		}

		values := []interface{}{
			bar.Name,
			bar.StartDate.String(),
			bar.EndDate.String(),
			bar.Duration,
			bar.Completion,
			bar.Status.String(),
			bar.TaskCount,
		}
		if err := writeRow(f, timelineSheet, row, style, values); err != nil {
			return err
		}

		if err := g.drawBar(f, timelineSheet, styles, row, trackStart, bar.LeftPercent, bar.WidthPercent, bar.Status, fmt.Sprintf("%d%%", bar.Completion)); err != nil {
			return err
		}
	}

	if err := setColumnWidths(f, timelineSheet, len(summaryHeaders), 16); err != nil {
		return err
	}
	firstTrackCol, _ := excelize.ColumnNumberToName(trackStart)
	lastTrackCol, _ := excelize.ColumnNumberToName(trackEnd)
	return f.SetColWidth(timelineSheet, firstTrackCol, lastTrackCol, 2.5)
}

// writeTasks escreve a aba com uma barra por tarefa, usando a duração informada
func (g *ExcelGenerator) writeTasks(f *excelize.File, styles *sheetStyles, bars []model.TaskBar) error {
	if err := writeHeaderRow(f, tasksSheet, styles.header, taskHeaders); err != nil {
		return err
	}

	trackStart := len(taskHeaders) + 1
	for i, bar := range bars {
		row := i + 2
		style := styles.even
		if i%2 == 1 {
			style = styles.odd
		}

		values := []interface{}{
			bar.ID,
			bar.Name,
			bar.Project,
			bar.StartDate.String(),
			bar.EndDate.String(),
			bar.Duration,
			bar.Completion,
			bar.Status.String(),
		}
		if err := writeRow(f, tasksSheet, row, style, values); err != nil {
			return err
		}

		if err := g.drawBar(f, tasksSheet, styles, row, trackStart, bar.LeftPercent, bar.WidthPercent, bar.Status, bar.Project); err != nil {
			return err
		}
	}

	if err := setColumnWidths(f, tasksSheet, len(taskHeaders), 16); err != nil {
		return err
	}
	firstTrackCol, _ := excelize.ColumnNumberToName(trackStart)
	lastTrackCol, _ := excelize.ColumnNumberToName(trackStart + g.trackColumns - 1)
	return f.SetColWidth(tasksSheet, firstTrackCol, lastTrackCol, 2.5)
}

// drawBar pinta as células da faixa cobertas pela barra
func (g *ExcelGenerator) drawBar(f *excelize.File, sheet string, styles *sheetStyles, row, trackStart int, left, width float64, status model.Status, label string) error {
	trackFirst, _ := excelize.CoordinatesToCellName(trackStart, row)
	trackLast, _ := excelize.CoordinatesToCellName(trackStart+g.trackColumns-1, row)
	if err := f.SetCellStyle(sheet, trackFirst, trackLast, styles.track); err != nil {
		return err
	}

	from, to := TrackCells(left, width, g.trackColumns)
	barFirst, _ := excelize.CoordinatesToCellName(trackStart+from, row)
	barLast, _ := excelize.CoordinatesToCellName(trackStart+to-1, row)

	style, ok := styles.status[status]
	if !ok {
		style = styles.track
	}
	if err := f.SetCellStyle(sheet, barFirst, barLast, style); err != nil {
		return err
	}
	return f.SetCellValue(sheet, barFirst, label)
}

// TrackCells converte left/width percentuais em um intervalo [from, to) de colunas da faixa.
// Toda barra ocupa ao menos uma coluna e nunca passa do fim da faixa.
func TrackCells(left, width float64, columns int) (from, to int) {
	from = int(math.Floor(left * float64(columns) / 100))
	to = int(math.Ceil((left + width) * float64(columns) / 100))

	if from < 0 {
		from = 0
	}
	if from > columns-1 {
		from = columns - 1
	}
	if to > columns {
		to = columns
	}
	if to <= from {
		to = from + 1
	}
	return from, to
}

func writeHeaderRow(f *excelize.File, sheet string, style int, headers []string) error {
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row, style int, values []interface{}) error {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func setColumnWidths(f *excelize.File, sheet string, numCols int, width float64) error {
	for col := 1; col <= numCols; col++ {
		colName, _ := excelize.ColumnNumberToName(col)
		if err := f.SetColWidth(sheet, colName, colName, width); err != nil {
			return err
		}
	}
	return nil
}
