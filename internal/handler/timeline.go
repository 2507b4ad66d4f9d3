package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/logger"
	"github.com/cleberrangel/gantt-timeline-api/internal/metrics"
	"github.com/cleberrangel/gantt-timeline-api/internal/middleware"
	"github.com/cleberrangel/gantt-timeline-api/internal/model"
	"github.com/cleberrangel/gantt-timeline-api/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TimelineHandler manipula requisições de linha do tempo
type TimelineHandler struct {
	timelineService *service.TimelineService
	importService   *service.ImportService
	excelGenerator  *service.ExcelGenerator
	metrics         *metrics.Metrics
}

// NewTimelineHandler cria um novo handler de linha do tempo
func NewTimelineHandler(timelineService *service.TimelineService, importService *service.ImportService, excelGenerator *service.ExcelGenerator, m *metrics.Metrics) *TimelineHandler {
	if m == nil {
		m = metrics.Get()
	}
	return &TimelineHandler{
		timelineService: timelineService,
		importService:   importService,
		excelGenerator:  excelGenerator,
		metrics:         m,
	}
}

// BuildTimeline monta a linha do tempo agrupada por projeto
// @Summary      Monta linha do tempo
// @Description  Agrupa as tarefas por projeto e calcula a posição de cada barra
// @Tags         timeline
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.TimelineRequest true "Tarefas"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Failure      401 {object} model.ErrorResponse
// @Failure      422 {object} model.ErrorResponse
// @Router       /api/v1/timeline [post]
func (h *TimelineHandler) BuildTimeline(c *gin.Context) {
	var req model.TimelineRequest
	if !bindTasks(c, &req) {
		return
	}

	result, err := h.timelineService.Build(c.Request.Context(), req.Tasks)
	if err != nil {
		logger.AuditTimeline(c.Request.Context(), logger.AuditActionTimelineBuild, "", len(req.Tasks), 0, err)
		h.handleError(c, err)
		return
	}

	logger.AuditTimeline(c.Request.Context(), logger.AuditActionTimelineBuild, result.Fingerprint, len(req.Tasks), len(result.Timeline.Bars), nil)
	c.JSON(http.StatusOK, timelineResponse(result))
}

// ExportTimeline gera a planilha Gantt da linha do tempo
// @Summary      Exporta linha do tempo em Excel
// @Description  Retorna um arquivo XLSX com uma aba por projeto e uma aba por tarefa
// @Tags         timeline
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        request body model.TimelineRequest true "Tarefas"
// @Success      200 {file} binary
// @Failure      400 {object} model.ErrorResponse
// @Failure      422 {object} model.ErrorResponse
// @Failure      500 {object} model.ErrorResponse
// @Router       /api/v1/timeline/export [post]
func (h *TimelineHandler) ExportTimeline(c *gin.Context) {
	log := logger.FromGin(c)
	ctx := c.Request.Context()

	var req model.TimelineRequest
	if !bindTasks(c, &req) {
		return
	}

	result, err := h.timelineService.Build(ctx, req.Tasks)
	if err != nil {
		h.metrics.IncrementExport(false)
		logger.AuditTimeline(ctx, logger.AuditActionTimelineExport, "", len(req.Tasks), 0, err)
		h.handleError(c, err)
		return
	}

	taskBars, err := h.timelineService.TaskBars(req.Tasks)
	if err != nil {
		h.metrics.IncrementExport(false)
		h.handleError(c, err)
		return
	}

	buf, err := h.excelGenerator.Generate(result.Timeline, taskBars)
	if err != nil {
		h.metrics.IncrementExport(false)
		logger.AuditTimeline(ctx, logger.AuditActionTimelineExport, result.Fingerprint, len(req.Tasks), len(result.Timeline.Bars), err)
		h.handleError(c, fmt.Errorf("gerar excel: %w", err))
		return
	}

	h.metrics.IncrementExport(true)
	logger.AuditTimeline(ctx, logger.AuditActionTimelineExport, result.Fingerprint, len(req.Tasks), len(result.Timeline.Bars), nil)

	log.Info().
		Int("tasks", len(req.Tasks)).
		Int("projects", len(result.Timeline.Bars)).
		Int("bytes", buf.Len()).
		Msg("Planilha Gantt gerada")

	filename := fmt.Sprintf("gantt_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Header("X-Total-Tasks", fmt.Sprintf("%d", len(req.Tasks)))
	c.Header("X-Total-Projects", fmt.Sprintf("%d", len(result.Timeline.Bars)))

	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportTimeline monta a linha do tempo a partir de um arquivo de tarefas
// @Summary      Importa tarefas de arquivo
// @Description  Lê um arquivo CSV, XLSX, JSON ou JSONL e retorna a linha do tempo
// @Tags         timeline
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Arquivo de tarefas"
// @Success      200 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Failure      413 {object} model.ErrorResponse
// @Failure      422 {object} model.ErrorResponse
// @Router       /api/v1/timeline/import [post]
func (h *TimelineHandler) ImportTimeline(c *gin.Context) {
	log := logger.FromGin(c)
	ctx := c.Request.Context()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Warn().Err(err).Msg("Erro ao obter arquivo do formulário")
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "arquivo não encontrado no formulário",
			Details: "use o campo 'file' para enviar o arquivo",
		})
		return
	}
	defer file.Close()

	filename := middleware.SanitizeFilename(header.Filename)
	log.Info().
		Str("filename", filename).
		Int64("size", header.Size).
		Msg("Importando arquivo de tarefas")

	tasks, err := h.importService.Import(filename, file)
	if err != nil {
		h.metrics.IncrementImport(false)
		logger.AuditTimeline(ctx, logger.AuditActionTimelineImport, filename, 0, 0, err)
		h.handleError(c, err)
		return
	}

	result, err := h.timelineService.Build(ctx, tasks)
	if err != nil {
		h.metrics.IncrementImport(false)
		logger.AuditTimeline(ctx, logger.AuditActionTimelineImport, filename, len(tasks), 0, err)
		h.handleError(c, err)
		return
	}

	h.metrics.IncrementImport(true)
	logger.AuditTimeline(ctx, logger.AuditActionTimelineImport, result.Fingerprint, len(tasks), len(result.Timeline.Bars), nil)

	c.JSON(http.StatusOK, timelineResponse(result))
}

// FlushCache descarta as linhas do tempo memoizadas
// @Summary      Limpa o cache de linhas do tempo
// @Description  Remove todas as linhas do tempo memoizadas e retorna quantas foram descartadas
// @Tags         timeline
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.Response
// @Failure      401 {object} model.ErrorResponse
// @Router       /api/v1/timeline/cache [delete]
func (h *TimelineHandler) FlushCache(c *gin.Context) {
	ctx := c.Request.Context()

	removed := h.timelineService.Invalidate(ctx)
	logger.Audit(ctx, logger.AuditEvent{
		Action:   logger.AuditActionCacheFlush,
		Resource: "timeline_cache",
		Success:  true,
		Details: map[string]interface{}{
			"removed": removed,
		},
	})

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    gin.H{"removed": removed},
	})
}

func bindTasks(c *gin.Context, req *model.TimelineRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func timelineResponse(result *service.TimelineResult) model.Response {
	return model.Response{
		Success: true,
		Data:    result.Timeline,
		Meta: &model.Meta{
			TotalTasks:    result.Timeline.TotalTasks,
			TotalProjects: len(result.Timeline.Bars),
			Cached:        result.Cached,
		},
	}
}

// handleError trata erros e retorna resposta apropriada
func (h *TimelineHandler) handleError(c *gin.Context, err error) {
	log := logger.FromGin(c)

	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		log.Warn().Err(err).Msg("Arquivo excede o limite")
		c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{
			Success: false,
			Error:   "arquivo muito grande",
			Details: err.Error(),
		})
	case errors.Is(err, service.ErrUnsupportedType),
		errors.Is(err, service.ErrEmptyFile),
		errors.Is(err, service.ErrMissingColumn),
		errors.Is(err, service.ErrInvalidFile):
		log.Warn().Err(err).Msg("Arquivo inválido")
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "arquivo inválido",
			Details: err.Error(),
		})
	case errors.Is(err, model.ErrInvalidTask),
		errors.Is(err, model.ErrInvalidDate),
		errors.Is(err, model.ErrUnknownStatus):
		log.Warn().Err(err).Msg("Tarefa inválida")
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "tarefa inválida",
			Details: err.Error(),
		})
	case errors.Is(err, model.ErrEmptyInput):
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{
			Success: false,
			Error:   "nenhuma tarefa informada",
			Details: err.Error(),
		})
	case errors.Is(err, model.ErrZeroDuration):
		log.Warn().Err(err).Msg("Projeto sem duração")
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{
			Success: false,
			Error:   "projeto com duração total zero",
			Details: err.Error(),
		})
	default:
		log.Error().Err(err).Msg("Erro ao processar linha do tempo")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro interno",
			Details: err.Error(),
		})
	}
}
