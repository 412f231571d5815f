package workers

import (
	"context"
	"encoding/json"
	"sync"

	"timebridge_backend/internal/aiclient"
	"timebridge_backend/internal/logger"
	"timebridge_backend/internal/models"
	"timebridge_backend/internal/repositories"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IndexNotifier разносит изменения объявлений по AI-индексам в фоне.
// Локальная запись уже зафиксирована к моменту постановки задачи, поэтому
// неудачные уведомления не откатывают её, а попадают в журнал сверки.
type IndexNotifier struct {
	db     *gorm.DB
	client *aiclient.IndexClient
	audits repositories.SyncAuditRepository

	queue chan aiclient.IndexRequest
	wg    sync.WaitGroup
}

func NewIndexNotifier(db *gorm.DB, client *aiclient.IndexClient, audits repositories.SyncAuditRepository, queueSize int) *IndexNotifier {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &IndexNotifier{
		db:     db,
		client: client,
		audits: audits,
		queue:  make(chan aiclient.IndexRequest, queueSize),
	}
}

// Start запускает пул воркеров. Воркеры живут до отмены контекста.
func (n *IndexNotifier) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go n.run(ctx)
	}
}

// Wait блокируется до остановки всех воркеров
func (n *IndexNotifier) Wait() {
	n.wg.Wait()
}

// Enqueue ставит уведомление в очередь. Переполненная очередь не блокирует
// обработчик запроса: задача фиксируется в журнале сверки и отбрасывается.
func (n *IndexNotifier) Enqueue(job aiclient.IndexRequest) {
	select {
	case n.queue <- job:
	default:
		logger.Warn("очередь уведомлений индексов переполнена", "post_id", job.PostID, "op", job.Op)
		n.recordFailure(job, "", "notification queue full")
	}
}

func (n *IndexNotifier) run(ctx context.Context) {
	defer n.wg.Done()
	for {
		select {
		case <-ctx.Done():
			logger.Info("index notifier stopped")
			return
		case job := <-n.queue:
			n.process(ctx, job)
		}
	}
}

func (n *IndexNotifier) process(ctx context.Context, job aiclient.IndexRequest) {
	failures := n.client.Notify(ctx, job)
	for _, failure := range failures {
		logger.CtxWithError(ctx, "индекс не принял изменение", failure.Err,
			"endpoint", failure.Endpoint, "post_id", job.PostID, "op", job.Op)
		n.recordFailure(job, failure.Endpoint, failure.Err.Error())
	}
}

// recordFailure пишет строку журнала сверки. Сам журнал не критичен:
// ошибку записи только логируем.
func (n *IndexNotifier) recordFailure(job aiclient.IndexRequest, endpoint, cause string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"type":      int(job.Kind),
		"gender_id": job.GenderID,
	})

	entry := &models.SyncAudit{
		PostID:    job.PostID,
		Operation: job.Op,
		Step:      models.StepIndexNotify,
		Endpoint:  endpoint,
		Error:     cause,
		Payload:   datatypes.JSON(payload),
	}
	if err := n.audits.Record(n.db, entry); err != nil {
		logger.WithError(err).Error("не удалось записать журнал сверки", "post_id", job.PostID)
	}
}
