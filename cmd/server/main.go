// Command server is the process entrypoint: it loads Config, wires every
// component named in the bootstrap order (LLM Gateway, Vector Index,
// Document Store, Ingestion Pipeline, Retrieval Service, Session Engine,
// Talk-Point Synthesizer, Evaluator, API layer), and hands the resulting
// core/job.Job values to core/lynx.Lynx for lifecycle management, matching
// the teacher's cmd/ process bootstrap shape.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/sideletter/callprep/ai/providers/llm"
	"github.com/sideletter/callprep/ai/tokenizer"
	"github.com/sideletter/callprep/api"
	"github.com/sideletter/callprep/chunker"
	"github.com/sideletter/callprep/companyprofile"
	"github.com/sideletter/callprep/config"
	"github.com/sideletter/callprep/core/job"
	"github.com/sideletter/callprep/core/lynx"
	"github.com/sideletter/callprep/docstore"
	"github.com/sideletter/callprep/docstore/postgres"
	"github.com/sideletter/callprep/evaluation"
	"github.com/sideletter/callprep/ingestion"
	"github.com/sideletter/callprep/retrieval"
	"github.com/sideletter/callprep/session"
	"github.com/sideletter/callprep/talkpoint"
	qdrantindex "github.com/sideletter/callprep/vectorindex"
	qdrantstore "github.com/sideletter/callprep/vectorindex/qdrant"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config: load failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, log); err != nil {
		log.Error("server: exited with error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	gateway := llm.New(llm.Config{
		Model:           cfg.LLMModel,
		EmbeddingModel:  cfg.LLMEmbeddingModel,
		APIKey:          cfg.LLMAPIKey,
		RequestDeadline: cfg.LLMRequestDeadline,
		RetryBudget:     cfg.LLMRetryBudget,
	}, log)

	index, err := buildIndex(ctx, cfg)
	if err != nil {
		return fmt.Errorf("vector index: %w", err)
	}

	docs, err := buildDocStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("document store: %w", err)
	}

	blobs := ingestion.NewMemoryBlobStore()

	tok := tokenizer.NewTiktokenWithCL100KBase()
	ck := chunker.New(tok, cfg.ChunkerSizeTokens, cfg.ChunkerOverlapTokens)

	pipeline := ingestion.New(ingestion.Config{
		Docs:    docs,
		Index:   index,
		Gateway: gateway,
		Blobs:   blobs,
		Chunker: ck,
		Workers: cfg.IngestionWorkers,
		Log:     log,
	})

	retriever := retrieval.New(gateway, index, docs, log)

	sessionStore := session.NewMemoryStore()
	sessionEngine := session.New(sessionStore, retriever, gateway, 0, log)

	talkpointStore := talkpoint.NewMemoryStore()
	synthesizer := talkpoint.New(retriever, gateway, talkpointStore)

	evaluationStore := evaluation.NewMemoryStore()
	evaluator := evaluation.New(sessionStore, gateway, evaluationStore)

	profiles := companyprofile.NewMemoryStore()

	a := &api.API{
		Docs:            docs,
		Index:           index,
		Pipeline:        pipeline,
		Sessions:        sessionEngine,
		SessionStore:    sessionStore,
		TalkPoints:      synthesizer,
		TPStore:         talkpointStore,
		Evaluator:       evaluator,
		CompanyProfiles: profiles,
		Log:             log,
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: a.Routes(),
	}

	jobs := pipeline.Jobs()
	jobs = append(jobs, httpJob{server: httpServer, log: log})

	log.Info("server: starting", "addr", cfg.HTTPAddr)
	return lynx.New(&lynx.Options{Jobs: jobs}).Run()
}

func buildIndex(ctx context.Context, cfg *config.Config) (qdrantindex.Index, error) {
	if cfg.QdrantURL == "" {
		return qdrantindex.NewMemoryIndex(), nil
	}

	host, portStr, err := net.SplitHostPort(cfg.QdrantURL)
	if err != nil {
		return nil, fmt.Errorf("qdrant: parse QDRANT_URL: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("qdrant: parse QDRANT_URL port: %w", err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("qdrant: new client: %w", err)
	}

	return qdrantstore.Open(ctx, qdrantstore.Config{
		Client:           client,
		CollectionName:   cfg.QdrantCollection,
		Dimensions:       cfg.VectorDim,
		InitializeSchema: true,
	})
}

func buildDocStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	if cfg.PostgresDSN == "" {
		return docstore.NewMemoryStore(), nil
	}
	return postgres.Open(ctx, cfg.PostgresDSN)
}

// httpJob adapts *http.Server's (ListenAndServe, Shutdown) pair to the
// core/job.Job interface, draining in-flight requests (including the
// ingestion enqueue handler, which only blocks long enough to persist the
// blob and publish the intake task) on Stop.
type httpJob struct {
	server *http.Server
	log    *slog.Logger
}

func (j httpJob) Start(context.Context) error {
	go func() {
		if err := j.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			j.log.Error("http: server exited", "err", err)
		}
	}()
	return nil
}

func (j httpJob) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return j.server.Shutdown(ctx)
}
