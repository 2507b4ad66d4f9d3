package service

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/cleberrangel/gantt-timeline-api/internal/model"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// File import errors
var (
	ErrFileTooLarge    = errors.New("arquivo excede o limite de tamanho")
	ErrUnsupportedType = errors.New("formato de arquivo não suportado (use CSV, XLSX, JSON ou JSONL)")
	ErrEmptyFile       = errors.New("arquivo está vazio")
	ErrMissingColumn   = errors.New("coluna obrigatória ausente")
	ErrInvalidFile     = errors.New("arquivo malformado")
)

// DefaultMaxImportBytes is the default upload limit (10MB)
const DefaultMaxImportBytes = 10 * 1024 * 1024

// Task file columns
const (
	colID         = "id"
	colName       = "name"
	colProject    = "project"
	colStartDate  = "start_date"
	colEndDate    = "end_date"
	colDuration   = "duration"
	colCompletion = "completion"
	colStatus     = "status"
)

var requiredColumns = []string{colProject, colStartDate, colEndDate, colDuration, colCompletion, colStatus}

// columnAliases maps normalized header names (lowercase, no accents) to canonical columns
var columnAliases = map[string]string{
	"id":         colID,
	"task_id":    colID,
	"name":       colName,
	"task":       colName,
	"tarefa":     colName,
	"project":    colProject,
	"projeto":    colProject,
	"start":      colStartDate,
	"start_date": colStartDate,
	"startdate":  colStartDate,
	"inicio":     colStartDate,
	"end":        colEndDate,
	"end_date":   colEndDate,
	"enddate":    colEndDate,
	"fim":        colEndDate,
	"duration":   colDuration,
	"duracao":    colDuration,
	"completion": colCompletion,
	"progress":   colCompletion,
	"conclusao":  colCompletion,
	"status":     colStatus,
}

// ImportService converts uploaded task files into tasks
type ImportService struct {
	maxBytes int64
}

// NewImportService creates a new import service with the given size limit
func NewImportService(maxBytes int64) *ImportService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImportBytes
	}
	return &ImportService{maxBytes: maxBytes}
}

// Import reads the file and returns its tasks, choosing the parser by extension
func (s *ImportService) Import(filename string, reader io.Reader) ([]model.Task, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".xlsx", ".json", ".jsonl", ".ndjson":
	default:
		return nil, ErrUnsupportedType
	}

	// Copy content with size limit
	data, err := io.ReadAll(io.LimitReader(reader, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	var tasks []model.Task
	switch ext {
	case ".csv":
		tasks, err = s.parseCSV(data)
	case ".xlsx":
		tasks, err = s.parseXLSX(data)
	case ".json":
		tasks, err = s.parseJSON(data)
	default:
		tasks, err = s.parseJSONL(data)
	}
	if err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		return nil, ErrEmptyFile
	}
	return tasks, nil
}

// parseCSV parses a CSV file whose first row is the header
func (s *ImportService) parseCSV(data []byte) ([]model.Task, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao ler CSV: %w", ErrInvalidFile, err)
	}
	return rowsToTasks(rows)
}

// parseXLSX parses the first sheet of an XLSX file
func (s *ImportService) parseXLSX(data []byte) ([]model.Task, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao abrir arquivo Excel: %w", ErrInvalidFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: erro ao ler linhas: %w", ErrInvalidFile, err)
	}
	return rowsToTasks(rows)
}

// parseJSON parses either a task array or a {"tasks": [...]} document
func (s *ImportService) parseJSON(data []byte) ([]model.Task, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var tasks []model.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("%w: erro ao ler JSON: %w", ErrInvalidFile, err)
		}
		return tasks, nil
	}

	var req model.TimelineRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("%w: erro ao ler JSON: %w", ErrInvalidFile, err)
	}
	return req.Tasks, nil
}

// parseJSONL parses one task per line, skipping blank lines
func (s *ImportService) parseJSONL(data []byte) ([]model.Task, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	// Aumenta buffer para linhas grandes
	scanner.Buffer(make([]byte, 64*1024), int(s.maxBytes)+1)

	var tasks []model.Task
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var task model.Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, fmt.Errorf("%w: linha %d: %w", ErrInvalidFile, line, err)
		}
		tasks = append(tasks, task)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: erro ao ler JSONL: %w", ErrInvalidFile, err)
	}
	return tasks, nil
}

// rowsToTasks maps tabular rows (header first) to tasks
func rowsToTasks(rows [][]string) ([]model.Task, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		lineNumber := i + 2 // linha 1 é header
		task, err := rowToTask(row, index, lineNumber)
		if err != nil {
			return nil, fmt.Errorf("linha %d: %w", lineNumber, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// headerIndex resolves canonical column positions from the header row
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		key := normalizeHeader(col)
		if canonical, ok := columnAliases[key]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func normalizeHeader(col string) string {
	col = strings.TrimPrefix(col, "\ufeff")
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.ReplaceAll(col, " ", "_")
	col = strings.ReplaceAll(col, "-", "_")
	return stripAccents(col)
}

// stripAccents folds "início" into "inicio"
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func rowToTask(row []string, index map[string]int, lineNumber int) (model.Task, error) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	start, err := model.ParseDate(get(colStartDate))
	if err != nil {
		return model.Task{}, err
	}
	end, err := model.ParseDate(get(colEndDate))
	if err != nil {
		return model.Task{}, err
	}
	duration, err := parseInt(get(colDuration), colDuration)
	if err != nil {
		return model.Task{}, err
	}
	completion, err := parseInt(strings.TrimSuffix(get(colCompletion), "%"), colCompletion)
	if err != nil {
		return model.Task{}, err
	}
	status, err := model.ParseStatus(get(colStatus))
	if err != nil {
		return model.Task{}, err
	}

	id := get(colID)
	if id == "" {
		id = strconv.Itoa(lineNumber - 1)
	}
	name := get(colName)
	if name == "" {
		name = id
	}

	return model.Task{
		ID:         id,
		Name:       name,
		Project:    get(colProject),
		StartDate:  start,
		EndDate:    end,
		Duration:   duration,
		Completion: completion,
		Status:     status,
	}, nil
}

func parseInt(value, column string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s '%s' não é um número inteiro", model.ErrInvalidTask, column, value)
	}
	return n, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
