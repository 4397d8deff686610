// Package ingestion is the Ingestion Pipeline (component C5): the
// extract-chunk-embed-index protocol that turns an uploaded document into
// searchable chunks, built as a job/worker/broker/scheduler quartet
// directly modeled on the teacher's core/job, core/worker, core/broker,
// core/scheduler, and core/trigger packages.
package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sideletter/callprep/ai/providers/llm"
	"github.com/sideletter/callprep/apperr"
	"github.com/sideletter/callprep/chunker"
	"github.com/sideletter/callprep/core/broker"
	"github.com/sideletter/callprep/core/job"
	"github.com/sideletter/callprep/core/message"
	"github.com/sideletter/callprep/core/scheduler"
	"github.com/sideletter/callprep/core/trigger"
	"github.com/sideletter/callprep/core/worker"
	"github.com/sideletter/callprep/docstore"
	pkgslices "github.com/sideletter/callprep/pkg/slices"
	"github.com/sideletter/callprep/vectorindex"
)

// Task is the intake queue payload: everything the worker needs to locate
// the document's bytes and tenant.
type Task struct {
	TenantID   string
	DocumentID string
}

// embedBatchSize bounds how many chunk texts are sent to the LLM Gateway's
// Embed call at once.
const embedBatchSize = 16

// staleClaimTimeout is how long a document may sit in PROCESSING before the
// janitor reclaims it for another worker.
const staleClaimTimeout = 10 * time.Minute

// orphanSweepBatch bounds how many ORPHAN documents the reconciliation
// janitor retries per tick, so one sweep never monopolizes the Vector Index.
const orphanSweepBatch = 50

// Pipeline wires the Document Store, Vector Index, LLM Gateway, Blob Store,
// and Chunker into the ingest protocol, and exposes the core/job.Job values
// a process's lynx.Lynx bootstraps.
type Pipeline struct {
	docs    docstore.Store
	index   vectorindex.Index
	gateway llm.Gateway
	blobs   BlobStore
	chunker *chunker.Chunker
	extract Extractor
	brk     broker.Broker
	workers int
	log     *slog.Logger
}

// Config configures a Pipeline.
type Config struct {
	Docs       docstore.Store
	Index      vectorindex.Index
	Gateway    llm.Gateway
	Blobs      BlobStore
	Chunker    *chunker.Chunker
	Extractor  Extractor
	Broker     broker.Broker
	Workers    int
	Log        *slog.Logger
}

// New builds a Pipeline. If Extractor is nil, PlainTextExtractor is used.
// If Broker is nil, a ChanBroker is created.
func New(cfg Config) *Pipeline {
	if cfg.Extractor == nil {
		cfg.Extractor = PlainTextExtractor{}
	}
	if cfg.Broker == nil {
		cfg.Broker = NewChanBroker(256)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Pipeline{
		docs:    cfg.Docs,
		index:   cfg.Index,
		gateway: cfg.Gateway,
		blobs:   cfg.Blobs,
		chunker: cfg.Chunker,
		extract: cfg.Extractor,
		brk:     cfg.Broker,
		workers: cfg.Workers,
		log:     cfg.Log,
	}
}

// Enqueue performs upload intake (protocol step 1): it creates the Document
// row, persists the bytes, and enqueues an ingestion task keyed by the new
// document_id.
func (p *Pipeline) Enqueue(ctx context.Context, tenantID, filename, mime string, data []byte) (string, error) {
	doc := &docstore.Document{
		DocumentID: uuid.NewString(),
		TenantID:   tenantID,
		Filename:   filename,
		MIME:       mime,
		ByteSize:   int64(len(data)),
		Source:     "upload",
	}
	documentID, err := p.docs.Create(ctx, doc)
	if err != nil {
		return "", err
	}
	if err := p.blobs.Put(ctx, tenantID, documentID, data); err != nil {
		return "", err
	}

	task := Task{TenantID: tenantID, DocumentID: documentID}
	if err := p.brk.Produce(ctx, message.New(task)); err != nil {
		return "", apperr.Wrap(apperr.Internal, "ingestion: enqueue task", err)
	}
	return documentID, nil
}

// Jobs returns the core/job.Job values the process bootstrap should start:
// the bounded scheduler draining the intake queue, a cron-triggered janitor
// sweeping stale PROCESSING claims, and a second cron-triggered janitor
// retrying ORPHAN documents whose Vector Index cascade did not yet succeed.
func (p *Pipeline) Jobs() []job.Job {
	sched := scheduler.New(&scheduler.Options{
		Config: &scheduler.Config{MaxWorker: p.workers},
		Worker: &streamWorker{pipeline: p},
		Broker: p.brk,
	})

	janitor := job.NewBatchJob(&job.BatchJobOptions{
		Trigger: trigger.NewCronTrigger(&trigger.CronTriggerOptions{Spec: "0 */1 * * * *"}),
		Workers: []worker.BatchWorker{&janitorWorker{pipeline: p}},
	})

	orphanJanitor := job.NewBatchJob(&job.BatchJobOptions{
		Trigger: trigger.NewCronTrigger(&trigger.CronTriggerOptions{Spec: "0 */5 * * * *"}),
		Workers: []worker.BatchWorker{&orphanJanitorWorker{pipeline: p}},
	})

	return []job.Job{schedulerJob{sched}, janitor, orphanJanitor}
}

// schedulerJob adapts core/scheduler.Scheduler's (Start(ctx), Stop()) shape
// (no error returns) to the job.Job interface the teacher's lynx bootstrap
// expects.
type schedulerJob struct {
	s *scheduler.Scheduler
}

func (j schedulerJob) Start(ctx context.Context) error {
	j.s.Start(ctx)
	return nil
}

func (j schedulerJob) Stop() error {
	j.s.Stop()
	return nil
}

// streamWorker adapts Pipeline.processTask to worker.StreamWorker.
type streamWorker struct {
	pipeline *Pipeline
}

func (w *streamWorker) Sleep() {
	time.Sleep(200 * time.Millisecond)
}

func (w *streamWorker) Work(ctx context.Context, msg *message.Msg) ([]*message.Msg, error) {
	var task Task
	if err := msg.Unmarshal(&task); err != nil {
		w.pipeline.log.Error("ingestion: malformed task message", "err", err)
		return nil, nil
	}
	w.pipeline.processTask(ctx, task)
	return nil, nil
}

// processTask runs protocol steps 2-7 for one document, handling every
// domain failure internally (set_failed) so the broker never needs to
// redeliver a message whose document has a terminal outcome recorded.
func (p *Pipeline) processTask(ctx context.Context, task Task) {
	log := p.log.With("tenant_id", task.TenantID, "document_id", task.DocumentID)

	now := time.Now().UTC()
	err := p.docs.Transition(ctx, task.TenantID, task.DocumentID, docstore.Uploading, docstore.Processing, &docstore.TransitionFields{ClaimedAt: &now})
	if err != nil {
		if !apperr.Is(err, apperr.StateConflict) {
			log.Error("ingestion: claim transition failed", "err", err)
			return
		}
		// Either another worker already owns this claim, or this task is a
		// janitor-driven re-delivery of a document already in PROCESSING
		// (the janitor itself performed the PROCESSING->PROCESSING claim
		// refresh). Re-attempting that same-state transition here is a
		// no-op in the former case (it will itself fail) and a confirmation
		// in the latter.
		if err := p.docs.Transition(ctx, task.TenantID, task.DocumentID, docstore.Processing, docstore.Processing, &docstore.TransitionFields{ClaimedAt: &now}); err != nil {
			log.Debug("ingestion: document already claimed by another worker")
			return
		}
	}

	data, err := p.blobs.Get(ctx, task.TenantID, task.DocumentID)
	if err != nil {
		p.fail(ctx, task, "EXTRACTION_ERROR", "missing document bytes: "+err.Error())
		return
	}

	doc, err := p.docs.Get(ctx, task.TenantID, task.DocumentID)
	if err != nil {
		log.Error("ingestion: lost document row mid-processing", "err", err)
		return
	}

	text, pages, err := p.extract.Extract(ctx, doc.MIME, data)
	if err != nil {
		p.fail(ctx, task, "EXTRACTION_ERROR", err.Error())
		return
	}

	chunks, err := p.chunker.Split(ctx, text, pages)
	if err != nil {
		p.fail(ctx, task, "EXTRACTION_ERROR", "chunking failed: "+err.Error())
		return
	}
	if len(chunks) == 0 {
		p.fail(ctx, task, "EXTRACTION_ERROR", "document produced no chunks")
		return
	}

	docChunks, entries, err := p.embedChunks(ctx, task, chunks)
	if err != nil {
		p.fail(ctx, task, "EMBEDDING_ERROR", err.Error())
		return
	}

	if err := p.docs.PutChunks(ctx, task.TenantID, task.DocumentID, docChunks); err != nil {
		p.fail(ctx, task, "INDEX_ERROR", "put_chunks failed: "+err.Error())
		return
	}

	if err := p.index.Insert(ctx, task.TenantID, entries); err != nil {
		// Roll back the just-written chunks so the Document row never
		// references ghost chunks.
		if delErr := p.docs.PutChunks(ctx, task.TenantID, task.DocumentID, nil); delErr != nil {
			log.Error("ingestion: failed to roll back chunks after index error", "err", delErr)
		}
		p.fail(ctx, task, "INDEX_ERROR", err.Error())
		return
	}

	indexedAt := time.Now().UTC()
	pageCount := countPages(pages)
	chunkCount := len(docChunks)
	err = p.docs.Transition(ctx, task.TenantID, task.DocumentID, docstore.Processing, docstore.Indexed, &docstore.TransitionFields{
		IndexedAt:  &indexedAt,
		ChunkCount: &chunkCount,
		PageCount:  pageCount,
	})
	if err != nil {
		log.Error("ingestion: final transition to INDEXED failed", "err", err)
		return
	}

	if err := p.blobs.Delete(ctx, task.TenantID, task.DocumentID); err != nil {
		log.Warn("ingestion: failed to release blob after successful indexing", "err", err)
	}
}

func (p *Pipeline) fail(ctx context.Context, task Task, kind, detail string) {
	if err := p.docs.SetFailed(ctx, task.TenantID, task.DocumentID, kind, detail); err != nil {
		p.log.Error("ingestion: set_failed itself failed", "document_id", task.DocumentID, "err", err)
	}
}

// embedChunks fans out embedding requests across a bounded group of
// goroutines (golang.org/x/sync/errgroup, limited to p.workers concurrent
// batches), batching embedBatchSize chunks per call to stay within
// provider request-size limits while still exercising real concurrency for
// documents with many chunks. The first batch error cancels the group's
// context, so in-flight sibling batches stop waiting on the provider
// instead of completing work that will be discarded.
func (p *Pipeline) embedChunks(ctx context.Context, task Task, chunks []chunker.Chunk) ([]docstore.Chunk, []vectorindex.Entry, error) {
	type batchResult struct {
		start   int
		vectors [][]float32
	}

	batches := pkgslices.Chunk(chunks, embedBatchSize)

	results := make([]batchResult, len(batches))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, min(p.workers, len(batches))))
	for i, batch := range batches {
		i, batch := i, batch
		start := i * embedBatchSize
		group.Go(func() error {
			texts := make([]string, len(batch))
			for j, c := range batch {
				texts[j] = c.Text
			}
			vecs, err := p.gateway.Embed(gctx, texts)
			if err != nil {
				return err
			}
			results[i] = batchResult{start: start, vectors: vecs}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	docChunks := make([]docstore.Chunk, len(chunks))
	entries := make([]vectorindex.Entry, len(chunks))
	for _, r := range results {
		for j, vec := range r.vectors {
			idx := r.start + j
			c := chunks[idx]
			chunkID := docstore.ChunkID(task.DocumentID, c.Ordinal)
			docChunks[idx] = docstore.Chunk{
				ChunkID:    chunkID,
				DocumentID: task.DocumentID,
				TenantID:   task.TenantID,
				Ordinal:    c.Ordinal,
				Text:       c.Text,
				Page:       c.Page,
			}
			entries[idx] = vectorindex.Entry{
				ChunkID:    chunkID,
				TenantID:   task.TenantID,
				DocumentID: task.DocumentID,
				Ordinal:    c.Ordinal,
				Page:       c.Page,
				Embedding:  vec,
			}
		}
	}
	return docChunks, entries, nil
}

func countPages(pages []chunker.PageBreak) *int {
	if len(pages) == 0 {
		return nil
	}
	n := len(pages)
	return &n
}

// janitorWorker is the worker.BatchWorker the cron trigger invokes to sweep
// stale PROCESSING claims back to PROCESSING with a fresh ClaimedAt,
// letting the scheduler's workers pick the document up again.
type janitorWorker struct {
	pipeline *Pipeline
	ctx      context.Context
}

func (j *janitorWorker) Context(ctx context.Context) { j.ctx = ctx }
func (j *janitorWorker) Done() <-chan struct{}       { return j.ctx.Done() }

func (j *janitorWorker) Work() {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	reclaimed, err := j.pipeline.docs.ReclaimStale(ctx, staleClaimTimeout)
	if err != nil {
		j.pipeline.log.Error("ingestion: janitor reclaim failed", "err", err)
		return
	}
	for _, rd := range reclaimed {
		j.pipeline.log.Warn("ingestion: janitor reclaimed stale document", "document_id", rd.DocumentID)
		task := Task{TenantID: rd.TenantID, DocumentID: rd.DocumentID}
		if err := j.pipeline.brk.Produce(ctx, message.New(task)); err != nil {
			j.pipeline.log.Error("ingestion: janitor failed to re-enqueue reclaimed document", "document_id", rd.DocumentID, "err", err)
		}
	}
}

// orphanJanitorWorker is the worker.BatchWorker the cron trigger invokes to
// retry the Vector Index delete for documents parked in ORPHAN after their
// primary-store cascade's bounded retries were exhausted, resolving the row
// once the retried delete finally succeeds.
type orphanJanitorWorker struct {
	pipeline *Pipeline
	ctx      context.Context
}

func (j *orphanJanitorWorker) Context(ctx context.Context) { j.ctx = ctx }
func (j *orphanJanitorWorker) Done() <-chan struct{}       { return j.ctx.Done() }

func (j *orphanJanitorWorker) Work() {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	orphans, err := j.pipeline.docs.ListOrphans(ctx, orphanSweepBatch)
	if err != nil {
		j.pipeline.log.Error("ingestion: orphan janitor list failed", "err", err)
		return
	}
	for _, d := range orphans {
		if _, err := j.pipeline.index.DeleteByDocument(ctx, d.TenantID, d.DocumentID); err != nil {
			j.pipeline.log.Warn("ingestion: orphan janitor retry failed", "document_id", d.DocumentID, "err", err)
			continue
		}
		if err := j.pipeline.docs.ResolveOrphan(ctx, d.TenantID, d.DocumentID); err != nil {
			j.pipeline.log.Error("ingestion: orphan janitor resolve failed", "document_id", d.DocumentID, "err", err)
			continue
		}
		j.pipeline.log.Info("ingestion: orphan janitor resolved document", "document_id", d.DocumentID)
	}
}
