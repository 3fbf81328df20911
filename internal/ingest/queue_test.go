package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_route_system/internal/ingest/mocks"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const waitTimeout = 5 * time.Second

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// newRedisReportWorker — воркер поверх miniredis с короткими задержками
func newRedisReportWorker(t *testing.T, client *redis.Client, maxRetries int) (*ReportWorker, *mocks.MockIncidentWriter) {
	ctrl := gomock.NewController(t)
	writer := mocks.NewMockIncidentWriter(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	return &ReportWorker{
		redisClient:   client,
		writer:        writer,
		logger:        logger,
		maxRetries:    maxRetries,
		baseDelay:     time.Millisecond,
		appendTimeout: 200 * time.Millisecond,
		popTimeout:    time.Second,
		done:          make(chan struct{}),
	}, writer
}

func queueLen(t *testing.T, client *redis.Client, key string) int64 {
	n, err := client.LLen(context.Background(), key).Result()
	require.NoError(t, err)
	return n
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for report worker")
	}
}

func TestRedisReportQueue_PublishIsFIFO(t *testing.T) {
	_, client := newTestRedis(t)
	queue := NewRedisReportQueue(client)
	ctx := context.Background()

	first, second := newTestReport(), newTestReport()
	require.NoError(t, queue.Publish(ctx, first))
	require.NoError(t, queue.Publish(ctx, second))

	for _, want := range []models.Report{first, second} {
		payload, err := client.RPop(ctx, reportQueueKey).Result()
		require.NoError(t, err)

		var got models.Report
		require.NoError(t, json.Unmarshal([]byte(payload), &got))
		assert.Equal(t, want.ID, got.ID)
	}
}

func TestRedisReportQueue_PublishRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	err := NewRedisReportQueue(client).Publish(context.Background(), newTestReport())
	assert.ErrorContains(t, err, "failed to publish report to Redis")
}

func TestReportWorker_StartAppendsAfterEmptyPoll(t *testing.T) {
	_, client := newTestRedis(t)
	worker, writer := newRedisReportWorker(t, client, 3)
	report := newTestReport()

	appended := make(chan struct{})
	writer.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, incidents ...models.Incident) error {
			assert.Equal(t, report.ID, incidents[0].ID)
			close(appended)
			return nil
		}).Times(1)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	worker.Start(ctx)

	// Первый опрос пустой очереди завершается по таймауту
	time.Sleep(1500 * time.Millisecond)
	require.NoError(t, NewRedisReportQueue(client).Publish(ctx, report))

	waitFor(t, appended)
	stop()
	worker.Wait()

	assert.Zero(t, queueLen(t, client, reportQueueKey))
	assert.Zero(t, queueLen(t, client, processingQueueKey))
}

func TestReportWorker_ShutdownReturnsReportToQueue(t *testing.T) {
	_, client := newTestRedis(t)
	worker, writer := newRedisReportWorker(t, client, 3)
	report := newTestReport()
	require.NoError(t, NewRedisReportQueue(client).Publish(context.Background(), report))

	started := make(chan struct{})
	writer.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ ...models.Incident) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}).Times(1)

	ctx, stop := context.WithCancel(context.Background())
	worker.Start(ctx)
	waitFor(t, started)
	stop()
	worker.Wait()

	payloads, err := client.LRange(context.Background(), reportQueueKey, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, payloads, 1)

	var got models.Report
	require.NoError(t, json.Unmarshal([]byte(payloads[0]), &got))
	assert.Equal(t, report.ID, got.ID)
	assert.Zero(t, queueLen(t, client, processingQueueKey))
}

func TestReportWorker_ShutdownFinishesInFlightAppend(t *testing.T) {
	_, client := newTestRedis(t)
	worker, writer := newRedisReportWorker(t, client, 3)
	worker.appendTimeout = waitTimeout
	require.NoError(t, NewRedisReportQueue(client).Publish(context.Background(), newTestReport()))

	started := make(chan struct{})
	release := make(chan struct{})
	writer.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ ...models.Incident) error {
			close(started)
			<-release
			return ctx.Err()
		}).Times(1)

	ctx, stop := context.WithCancel(context.Background())
	worker.Start(ctx)
	waitFor(t, started)
	stop()
	close(release)
	worker.Wait()

	assert.Zero(t, queueLen(t, client, reportQueueKey))
	assert.Zero(t, queueLen(t, client, processingQueueKey))
}

func TestReportWorker_FailedAppendKeepsReport(t *testing.T) {
	_, client := newTestRedis(t)
	worker, writer := newRedisReportWorker(t, client, 1)
	require.NoError(t, NewRedisReportQueue(client).Publish(context.Background(), newTestReport()))

	failed := make(chan struct{}, 1)
	writer.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ...models.Incident) error {
			select {
			case failed <- struct{}{}:
			default:
			}
			return errors.New("store down")
		}).MinTimes(1)

	ctx, stop := context.WithCancel(context.Background())
	worker.Start(ctx)
	waitFor(t, failed)
	stop()
	worker.Wait()

	// Отчет остается в Redis: в очереди или в списке обработки до следующего запуска
	assert.Equal(t, int64(1), queueLen(t, client, reportQueueKey)+queueLen(t, client, processingQueueKey))
}

func TestReportWorker_MalformedPayloadIsAcknowledged(t *testing.T) {
	_, client := newTestRedis(t)
	worker, _ := newRedisReportWorker(t, client, 3)
	require.NoError(t, client.LPush(context.Background(), processingQueueKey, "{not json").Err())

	worker.handle(context.Background(), "{not json")

	assert.Zero(t, queueLen(t, client, reportQueueKey))
	assert.Zero(t, queueLen(t, client, processingQueueKey))
}

func TestReportWorker_RestoresUnackedReports(t *testing.T) {
	_, client := newTestRedis(t)
	worker, writer := newRedisReportWorker(t, client, 3)
	report := newTestReport()
	payload, err := json.Marshal(report)
	require.NoError(t, err)
	require.NoError(t, client.LPush(context.Background(), processingQueueKey, payload).Err())

	appended := make(chan struct{})
	writer.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, incidents ...models.Incident) error {
			assert.Equal(t, report.ID, incidents[0].ID)
			close(appended)
			return nil
		}).Times(1)

	ctx, stop := context.WithCancel(context.Background())
	worker.Start(ctx)
	waitFor(t, appended)
	stop()
	worker.Wait()

	assert.Zero(t, queueLen(t, client, reportQueueKey))
	assert.Zero(t, queueLen(t, client, processingQueueKey))
}
