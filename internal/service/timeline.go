package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/cleberrangel/gantt-timeline-api/internal/cache"
	"github.com/cleberrangel/gantt-timeline-api/internal/logger"
	"github.com/cleberrangel/gantt-timeline-api/internal/metrics"
	"github.com/cleberrangel/gantt-timeline-api/internal/model"
	"github.com/cleberrangel/gantt-timeline-api/internal/timeline"
)

const cacheKeyPrefix = "timeline:"

// TimelineService orquestra validação, cálculo e apresentação da linha do tempo
type TimelineService struct {
	cache     *cache.Cache
	presenter *Presenter
	metrics   *metrics.Metrics
}

// NewTimelineService cria um novo serviço de linha do tempo.
// Com cache nil a memoização fica desligada.
func NewTimelineService(c *cache.Cache, m *metrics.Metrics) *TimelineService {
	if m == nil {
		m = metrics.Get()
	}
	return &TimelineService{
		cache:     c,
		presenter: NewPresenter(),
		metrics:   m,
	}
}

// TimelineResult contém a linha do tempo montada e metadados da execução
type TimelineResult struct {
	Timeline    model.Timeline
	Fingerprint string
	Cached      bool
}

// Build valida as tarefas e monta a linha do tempo agrupada por projeto.
// Resultados são memoizados pelo conteúdo da entrada; um acerto no cache
// devolve uma cópia idêntica ao recálculo.
func (s *TimelineService) Build(ctx context.Context, tasks []model.Task) (*TimelineResult, error) {
	log := logger.Get(ctx)

	if err := model.ValidateTasks(tasks); err != nil {
		s.metrics.IncrementTimelineBuilt(false, 0, 0)
		return nil, err
	}

	fingerprint, err := Fingerprint(tasks)
	if err != nil {
		return nil, fmt.Errorf("calcular fingerprint: %w", err)
	}

	if cached, ok := s.lookup(fingerprint); ok {
		log.Debug().
			Str("fingerprint", fingerprint).
			Int("projects", len(cached.Bars)).
			Msg("Linha do tempo servida do cache")
		return &TimelineResult{Timeline: cached, Fingerprint: fingerprint, Cached: true}, nil
	}

	bars, span, err := timeline.Build(tasks)
	if err != nil {
		s.metrics.IncrementTimelineBuilt(false, len(tasks), 0)
		log.Warn().Err(err).Int("tasks", len(tasks)).Msg("Falha ao montar linha do tempo")
		return nil, err
	}

	result := s.presenter.Present(bars, span, len(tasks))
	s.metrics.IncrementTimelineBuilt(true, len(tasks), len(bars))

	log.Info().
		Str("fingerprint", fingerprint).
		Int("tasks", len(tasks)).
		Int("projects", len(bars)).
		Int("total_days", span.TotalDays).
		Msg("Linha do tempo montada")

	if s.cache != nil {
		s.cache.Set(cacheKeyPrefix+fingerprint, copyTimeline(result))
	}

	return &TimelineResult{Timeline: result, Fingerprint: fingerprint}, nil
}

// TaskBars posiciona as tarefas individualmente (variante sem agrupamento)
func (s *TimelineService) TaskBars(tasks []model.Task) ([]model.TaskBar, error) {
	if err := model.ValidateTasks(tasks); err != nil {
		return nil, err
	}
	return timeline.LayoutTasks(tasks)
}

func (s *TimelineService) lookup(fingerprint string) (model.Timeline, bool) {
	if s.cache == nil {
		return model.Timeline{}, false
	}
	v, ok := s.cache.Get(cacheKeyPrefix + fingerprint)
	s.metrics.IncrementCache(ok)
	if !ok {
		return model.Timeline{}, false
	}
	tl, ok := v.(model.Timeline)
	if !ok {
		// Entrada de outro tipo sob o prefixo: descarta para ser recalculada
		s.cache.Delete(cacheKeyPrefix + fingerprint)
		return model.Timeline{}, false
	}
	return copyTimeline(tl), true
}

// Invalidate descarta todas as linhas do tempo memoizadas e retorna quantas foram removidas
func (s *TimelineService) Invalidate(ctx context.Context) int {
	if s.cache == nil {
		return 0
	}
	removed := s.cache.InvalidatePrefix(cacheKeyPrefix)
	logger.Get(ctx).Info().Int("removed", removed).Msg("Cache de linhas do tempo invalidado")
	return removed
}

// copyTimeline evita que chamadores alterem a entrada guardada no cache
func copyTimeline(tl model.Timeline) model.Timeline {
	bars := make([]model.TimelineBar, len(tl.Bars))
	copy(bars, tl.Bars)
	tl.Bars = bars
	return tl
}

// Fingerprint calcula o SHA-256 da codificação JSON canônica das tarefas
func Fingerprint(tasks []model.Task) (string, error) {
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
