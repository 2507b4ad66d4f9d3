package service

import (
	"context"
	"testing"
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/cache"
	"github.com/cleberrangel/gantt-timeline-api/internal/metrics"
	"github.com/cleberrangel/gantt-timeline-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineService_Build(t *testing.T) {
	svc := NewTimelineService(nil, metrics.New())

	result, err := svc.Build(context.Background(), sampleTasks())
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Len(t, result.Fingerprint, 64)

	tl := result.Timeline
	assert.Equal(t, 3, tl.TotalTasks)
	assert.Equal(t, "2024-01-01", tl.Range.Start.String())
	assert.Equal(t, "2024-01-31", tl.Range.End.String())
	assert.Equal(t, 30, tl.Range.TotalDays)
	assert.Equal(t, "Jan 2024 - Jan 2024", tl.RangeLabel)

	require.Len(t, tl.Bars, 2)

	alpha := tl.Bars[0]
	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, 80, alpha.Completion)
	assert.Equal(t, model.StatusOnTrack, alpha.Status)
	assert.Equal(t, 20, alpha.Duration)
	assert.Equal(t, 2, alpha.TaskCount)
	assert.Equal(t, "#1E3A8A", alpha.Color)
	assert.Equal(t, "Jan 1 - Jan 21", alpha.DateLabel)
	assert.InDelta(t, 0, alpha.LeftPercent, 1e-9)
	assert.InDelta(t, 200.0/3, alpha.WidthPercent, 1e-9)

	beta := tl.Bars[1]
	assert.Equal(t, "Beta", beta.Name)
	assert.Equal(t, 0, beta.Completion)
	assert.Equal(t, model.StatusAtRisk, beta.Status)
	assert.Equal(t, "#F59E0B", beta.Color)
	assert.InDelta(t, 100.0/3, beta.LeftPercent, 1e-9)
	assert.InDelta(t, 200.0/3, beta.WidthPercent, 1e-9)
}

func TestTimelineService_CacheHit(t *testing.T) {
	c := cache.NewCache(time.Minute)
	defer c.Stop()
	m := metrics.New()
	svc := NewTimelineService(c, m)
	ctx := context.Background()

	first, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Timeline, second.Timeline)

	assert.Equal(t, int64(1), m.CacheHits)
	assert.Equal(t, int64(1), m.CacheMisses)
	assert.Equal(t, int64(1), m.TimelinesBuilt)
}

func TestTimelineService_CachedCopyIsolation(t *testing.T) {
	c := cache.NewCache(time.Minute)
	defer c.Stop()
	svc := NewTimelineService(c, metrics.New())
	ctx := context.Background()

	first, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	first.Timeline.Bars[0].Name = "alterado"

	second, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	require.True(t, second.Cached)
	assert.Equal(t, "Alpha", second.Timeline.Bars[0].Name)

	second.Timeline.Bars[1].Color = "#000000"

	third, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	assert.Equal(t, "#F59E0B", third.Timeline.Bars[1].Color)
}

func TestTimelineService_DifferentInputMisses(t *testing.T) {
	c := cache.NewCache(time.Minute)
	defer c.Stop()
	svc := NewTimelineService(c, metrics.New())
	ctx := context.Background()

	_, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)

	tasks := sampleTasks()
	tasks[2].Completion = 50
	result, err := svc.Build(ctx, tasks)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 50, result.Timeline.Bars[1].Completion)
}

func TestTimelineService_Invalidate(t *testing.T) {
	c := cache.NewCache(time.Minute)
	defer c.Stop()
	svc := NewTimelineService(c, metrics.New())
	ctx := context.Background()

	_, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	c.Set("other:key", 1)

	assert.Equal(t, 1, svc.Invalidate(ctx))
	assert.Equal(t, 1, c.Size(), "keys outside the timeline prefix are kept")

	result, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	assert.False(t, result.Cached)

	assert.Equal(t, 0, NewTimelineService(nil, metrics.New()).Invalidate(ctx))
}

func TestTimelineService_DropsForeignCacheEntry(t *testing.T) {
	c := cache.NewCache(time.Minute)
	defer c.Stop()
	svc := NewTimelineService(c, metrics.New())
	ctx := context.Background()

	fp, err := Fingerprint(sampleTasks())
	require.NoError(t, err)
	c.Set(cacheKeyPrefix+fp, "não é uma linha do tempo")

	result, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	assert.False(t, result.Cached)

	again, err := svc.Build(ctx, sampleTasks())
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, result.Timeline, again.Timeline)
}

func TestTimelineService_Errors(t *testing.T) {
	svc := NewTimelineService(nil, metrics.New())
	ctx := context.Background()

	tests := []struct {
		name  string
		tasks []model.Task
		want  error
	}{
		{
			name:  "empty input",
			tasks: nil,
			want:  model.ErrEmptyInput,
		},
		{
			name: "completion out of range",
			tasks: []model.Task{
				newTask("1", "Alpha", "2024-01-01", "2024-01-02", 1, 120, model.StatusOnTrack),
			},
			want: model.ErrInvalidTask,
		},
		{
			name: "end before start",
			tasks: []model.Task{
				newTask("1", "Alpha", "2024-01-05", "2024-01-02", 1, 10, model.StatusOnTrack),
			},
			want: model.ErrInvalidTask,
		},
		{
			name: "zero total duration",
			tasks: []model.Task{
				newTask("1", "Alpha", "2024-01-01", "2024-01-01", 0, 10, model.StatusOnTrack),
				newTask("2", "Alpha", "2024-01-01", "2024-01-01", 0, 20, model.StatusOnTrack),
			},
			want: model.ErrZeroDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Build(ctx, tt.tasks)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTimelineService_TaskBars(t *testing.T) {
	svc := NewTimelineService(nil, metrics.New())

	bars, err := svc.TaskBars(sampleTasks())
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.InDelta(t, 0, bars[0].LeftPercent, 1e-9)
	assert.InDelta(t, 100.0/3, bars[0].WidthPercent, 1e-9)
	assert.InDelta(t, 100.0/3, bars[2].LeftPercent, 1e-9)
	assert.InDelta(t, 200.0/3, bars[2].WidthPercent, 1e-9)

	_, err = svc.TaskBars(nil)
	assert.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(sampleTasks())
	require.NoError(t, err)
	b, err := Fingerprint(sampleTasks())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	tasks := sampleTasks()
	tasks[0], tasks[1] = tasks[1], tasks[0]
	c, err := Fingerprint(tasks)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "order is part of the input")
}
