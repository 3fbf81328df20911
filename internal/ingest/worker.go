package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	popTimeout    = 5 * time.Second
	appendTimeout = 10 * time.Second
	ackTimeout    = 2 * time.Second
)

var errMalformedReport = errors.New("malformed report payload")

// ReportWorker забирает отчеты из очереди Redis и добавляет их в хранилище инцидентов.
// Отчет лежит в списке обработки, пока запись не подтверждена; при сбое он возвращается в очередь.
type ReportWorker struct {
	redisClient   *redis.Client
	writer        IncidentWriter
	logger        *logrus.Logger
	maxRetries    int
	baseDelay     time.Duration
	appendTimeout time.Duration
	popTimeout    time.Duration
	done          chan struct{}
}

// NewReportWorker создает новый ReportWorker
func NewReportWorker(redisClient *redis.Client, writer IncidentWriter, logger *logrus.Logger, cfg *config.Config) *ReportWorker {
	maxRetries := cfg.ReportMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ReportWorker{
		redisClient:   redisClient,
		writer:        writer,
		logger:        logger,
		maxRetries:    maxRetries,
		baseDelay:     cfg.ReportBaseDelay,
		appendTimeout: appendTimeout,
		popTimeout:    popTimeout,
		done:          make(chan struct{}),
	}
}

// Start запускает горутину для обработки очереди отчетов
func (w *ReportWorker) Start(ctx context.Context) {
	w.logger.Info("Starting report worker...")
	go func() {
		defer close(w.done)
		w.restoreUnacked(ctx)
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping report worker.")
				return
			default:
				payload, err := w.redisClient.BLMove(ctx, reportQueueKey, processingQueueKey, "RIGHT", "LEFT", w.popTimeout).Result()
				if err != nil {
					if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop report from Redis")
					sleepCtx(ctx, w.baseDelay) // Ждем перед повторной попыткой
					continue
				}
				w.handle(ctx, payload)
			}
		}
	}()
}

// Wait блокируется до остановки воркера
func (w *ReportWorker) Wait() {
	<-w.done
}

// restoreUnacked возвращает в очередь отчеты, оставшиеся в обработке после прошлого запуска
func (w *ReportWorker) restoreUnacked(ctx context.Context) {
	restored := 0
	for {
		err := w.redisClient.LMove(ctx, processingQueueKey, reportQueueKey, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			w.logger.WithError(err).Error("Failed to restore unacknowledged reports")
			break
		}
		restored++
	}
	if restored > 0 {
		w.logger.WithField("count", restored).Warn("Unacknowledged reports returned to queue")
	}
}

// handle подтверждает или возвращает в очередь один отчет; переживает отмену ctx
func (w *ReportWorker) handle(ctx context.Context, payload string) {
	err := w.process(ctx, payload)

	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ackTimeout)
	defer cancel()

	if err != nil && !errors.Is(err, errMalformedReport) {
		w.logger.WithError(err).Warn("Report returned to queue")
		if err := w.requeue(ackCtx, payload); err != nil {
			w.logger.WithError(err).Error("Failed to return report to queue")
		}
		sleepCtx(ctx, w.baseDelay)
		return
	}
	if err != nil {
		w.logger.WithError(err).Error("Report dropped")
	}
	if err := w.redisClient.LRem(ackCtx, processingQueueKey, 1, payload).Err(); err != nil {
		w.logger.WithError(err).Error("Failed to acknowledge report")
	}
}

// requeue переносит отчет из списка обработки в голову очереди
func (w *ReportWorker) requeue(ctx context.Context, payload string) error {
	_, err := w.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, processingQueueKey, 1, payload)
		pipe.RPush(ctx, reportQueueKey, payload)
		return nil
	})
	return err
}

func (w *ReportWorker) process(ctx context.Context, payload string) error {
	var report models.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return fmt.Errorf("%w: failed to unmarshal report: %w", errMalformedReport, err)
	}

	log := w.logger.WithField("report_id", report.ID)
	log.Debug("Processing report...")

	incident, err := FromReport(report)
	if err != nil {
		log.WithError(err).Warn("Report quarantined")
		return nil
	}

	delay := w.baseDelay
	for i := 0; i < w.maxRetries; i++ {
		err = w.appendDetached(ctx, incident)
		if err == nil {
			log.WithField("severity", incident.Severity).Info("Report appended to incident store")
			return nil
		}
		log.WithError(err).Warnf("Failed to append report. Retrying in %v. Retries left: %d", delay, w.maxRetries-1-i)
		if i < w.maxRetries-1 && !sleepCtx(ctx, delay) {
			return fmt.Errorf("report %s: %w", report.ID, errors.Join(err, ctx.Err()))
		}
		delay *= 2 // Экспоненциальная задержка
	}

	return fmt.Errorf("failed to append report %s after %d attempts: %w", report.ID, w.maxRetries, err)
}

// appendDetached дописывает начатую запись даже после остановки воркера, но не дольше appendTimeout
func (w *ReportWorker) appendDetached(ctx context.Context, incident models.Incident) error {
	timeout := w.appendTimeout
	if timeout <= 0 {
		timeout = appendTimeout
	}
	appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return w.writer.Append(appendCtx, incident)
}

// sleepCtx ждет d или отмены контекста; false, если контекст отменен
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
