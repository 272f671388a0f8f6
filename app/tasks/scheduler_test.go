package tasks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lysyi3m/yearbook/app/wiki"
	"github.com/lysyi3m/yearbook/app/year"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWarmer struct {
	mu       sync.Mutex
	computed map[int]int
	failures map[int]int
	forgot   []int
	block    chan struct{}
}

func newFakeWarmer() *fakeWarmer {
	return &fakeWarmer{computed: map[int]int{}, failures: map[int]int{}}
}

func emptyYear() *year.Data {
	return &year.Data{Sections: map[wiki.SectionName][]string{wiki.Events: {}, wiki.Births: {}, wiki.Deaths: {}}}
}

func (f *fakeWarmer) GetYearData(ctx context.Context, y int) *year.Data {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return emptyYear()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures[y] > 0 {
		f.failures[y]--
		return emptyYear()
	}
	f.computed[y]++
	return &year.Data{Sections: map[wiki.SectionName][]string{wiki.Events: {"x"}}}
}

func (f *fakeWarmer) Forget(y int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgot = append(f.forgot, y)
}

func (f *fakeWarmer) forgotten() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.forgot...)
}

func (f *fakeWarmer) Contains(y int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.computed[y] > 0
}

func (f *fakeWarmer) count(y int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.computed[y]
}

func TestSchedulerWarmsPresets(t *testing.T) {
	warmer := newFakeWarmer()
	scheduler := NewScheduler(warmer, []int{1969, 1989, 1991}, 2)

	scheduler.Start()
	defer scheduler.Stop()

	require.Eventually(t, func() bool {
		return warmer.count(1969) == 1 && warmer.count(1989) == 1 && warmer.count(1991) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSchedulerRetriesFailedTasks(t *testing.T) {
	warmer := newFakeWarmer()
	warmer.failures[2001] = 1

	scheduler := NewScheduler(warmer, []int{2001}, 1)
	scheduler.retryDelay = 10 * time.Millisecond

	scheduler.Start()
	defer scheduler.Stop()

	require.Eventually(t, func() bool { return warmer.count(2001) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{2001}, warmer.forgotten())
}

func TestSchedulerStopCancelsInFlightWork(t *testing.T) {
	warmer := newFakeWarmer()
	warmer.block = make(chan struct{})

	scheduler := NewScheduler(warmer, []int{2016}, 1)
	scheduler.Start()
	scheduler.Stop()

	assert.Equal(t, 0, warmer.count(2016))
	assert.Error(t, scheduler.EnqueueTask(NewWarmYearTask(2016, warmer)))
}

func TestWarmYearTaskSkipsMemoizedYear(t *testing.T) {
	warmer := newFakeWarmer()
	warmer.computed[1991] = 1

	task := NewWarmYearTask(1991, warmer)
	require.NoError(t, task.Execute(context.Background()))

	assert.Equal(t, 1, warmer.count(1991))
}

func TestWarmYearTaskPropagatesErrors(t *testing.T) {
	warmer := newFakeWarmer()
	warmer.failures[1066] = 1

	err := NewWarmYearTask(1066, warmer).Execute(context.Background())
	assert.ErrorContains(t, err, "failed to compute year 1066")
	assert.Equal(t, []int{1066}, warmer.forgotten())
}

func TestWarmYearTaskKeepsPartialData(t *testing.T) {
	warmer := newFakeWarmer()

	require.NoError(t, NewWarmYearTask(1815, warmer).Execute(context.Background()))
	assert.Empty(t, warmer.forgotten())
}

func TestNewTask(t *testing.T) {
	a := NewTask(TaskTypeWarmYear, 1991)
	b := NewTask(TaskTypeWarmYear, 1991)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 1991, a.GetYear())
	assert.True(t, a.CanRetry())
	assert.Zero(t, a.GetDuration())

	a.IncrementRetryCount()
	a.IncrementRetryCount()
	assert.False(t, a.CanRetry())
}
