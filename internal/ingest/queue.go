package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_route_system/internal/models"
)

const (
	reportQueueKey     = "incident_reports"
	processingQueueKey = "incident_reports:processing"
)

// ReportPublisher - интерфейс для публикации отчетов пользователей в очередь загрузки
type ReportPublisher interface {
	Publish(ctx context.Context, report models.Report) error
}

// RedisReportQueue - реализация ReportPublisher, использующая список Redis
type RedisReportQueue struct {
	redisClient *redis.Client
}

// NewRedisReportQueue создает новый RedisReportQueue
func NewRedisReportQueue(client *redis.Client) *RedisReportQueue {
	return &RedisReportQueue{
		redisClient: client,
	}
}

// Publish публикует отчет в очередь Redis
func (q *RedisReportQueue) Publish(ctx context.Context, report models.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	// LPUSH добавляет в левую часть списка, воркер забирает справа (FIFO)
	if err := q.redisClient.LPush(ctx, reportQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish report to Redis: %w", err)
	}
	return nil
}
