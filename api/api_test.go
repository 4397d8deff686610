package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sideletter/callprep/ai/providers/llm"
	"github.com/sideletter/callprep/ai/tokenizer"
	"github.com/sideletter/callprep/chunker"
	"github.com/sideletter/callprep/companyprofile"
	"github.com/sideletter/callprep/docstore"
	"github.com/sideletter/callprep/evaluation"
	"github.com/sideletter/callprep/ingestion"
	"github.com/sideletter/callprep/retrieval"
	"github.com/sideletter/callprep/session"
	"github.com/sideletter/callprep/talkpoint"
	"github.com/sideletter/callprep/vectorindex"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	gw := llm.NewFake(16)
	docs := docstore.NewMemoryStore()
	idx := vectorindex.NewMemoryIndex()
	blobs := ingestion.NewMemoryBlobStore()
	tok := tokenizer.NewTiktokenWithCL100KBase()
	ck := chunker.New(tok, 200, 20)

	pipeline := ingestion.New(ingestion.Config{
		Docs:    docs,
		Index:   idx,
		Gateway: gw,
		Blobs:   blobs,
		Chunker: ck,
		Workers: 2,
	})

	retr := retrieval.New(gw, idx, docs, nil)
	sessStore := session.NewMemoryStore()
	eng := session.New(sessStore, retr, gw, 2048, nil)
	tpStore := talkpoint.NewMemoryStore()
	synth := talkpoint.New(retr, gw, tpStore)
	evalStore := evaluation.NewMemoryStore()
	evaluator := evaluation.New(sessStore, gw, evalStore)

	return &API{
		Docs:            docs,
		Index:           idx,
		Pipeline:        pipeline,
		Sessions:        eng,
		SessionStore:    sessStore,
		TalkPoints:      synth,
		TPStore:         tpStore,
		Evaluator:       evaluator,
		CompanyProfiles: companyprofile.NewMemoryStore(),
	}
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadDocumentMissingTenantRejected(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Routes())
	defer srv.Close()

	body, ct := multipartUpload(t, "deck.txt", "hello world")
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/documents", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUploadAndGetDocumentRoundTrips(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Routes())
	defer srv.Close()

	body, ct := multipartUpload(t, "deck.txt", "hello world, this is a sales deck about widgets.")
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/documents", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)
	req.Header.Set(TenantHeader, "tenant-a")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var uploadResp map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploadResp))
	documentID, _ := uploadResp["document_id"].(string)
	require.NotEmpty(t, documentID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, j := range a.Pipeline.Jobs() {
		require.NoError(t, j.Start(ctx))
		defer j.Stop()
	}
	// Give the scheduler a moment to drain the enqueued task.
	require.Eventually(t, func() bool {
		d, err := a.Docs.Get(context.Background(), "tenant-a", documentID)
		return err == nil && d.Status == docstore.Indexed
	}, time.Second, 10*time.Millisecond)

	getReq, err := http.NewRequest(http.MethodGet, srv.URL+"/documents/"+documentID, nil)
	require.NoError(t, err)
	getReq.Header.Set(TenantHeader, "tenant-a")
	getResp, err := http.DefaultClient.Do(getReq)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var view documentView
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&view))
	require.Equal(t, "INDEXED", view.Status)
}

func TestSessionLifecycleThroughAPI(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Routes())
	defer srv.Close()

	createBody, _ := json.Marshal(map[string]any{
		"preparation_type": session.Sales,
		"context_payload": map[string]any{
			"deal_stage":       session.DealStageProspecting,
			"company_profile":  "Acme Corp",
			"customer_context": "Looking for a CRM replacement",
		},
	})
	createReq, err := http.NewRequest(http.MethodPost, srv.URL+"/sessions", bytes.NewReader(createBody))
	require.NoError(t, err)
	createReq.Header.Set(TenantHeader, "tenant-a")
	createReq.Header.Set("Content-Type", "application/json")
	createResp, err := http.DefaultClient.Do(createReq)
	require.NoError(t, err)
	defer createResp.Body.Close()
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	var created map[string]any
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))
	sessionID, _ := created["session_id"].(string)
	require.NotEmpty(t, sessionID)

	msgBody, _ := json.Marshal(map[string]any{"message": "What should I open with?"})
	msgReq, err := http.NewRequest(http.MethodPost, srv.URL+"/sessions/"+sessionID+"/messages", bytes.NewReader(msgBody))
	require.NoError(t, err)
	msgReq.Header.Set(TenantHeader, "tenant-a")
	msgReq.Header.Set("Content-Type", "application/json")
	msgResp, err := http.DefaultClient.Do(msgReq)
	require.NoError(t, err)
	defer msgResp.Body.Close()
	require.Equal(t, http.StatusOK, msgResp.StatusCode)

	getReq, err := http.NewRequest(http.MethodGet, srv.URL+"/sessions/"+sessionID, nil)
	require.NoError(t, err)
	getReq.Header.Set(TenantHeader, "tenant-a")
	getResp, err := http.DefaultClient.Do(getReq)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var view map[string]any
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&view))
	transcript, _ := view["transcript"].([]any)
	require.Len(t, transcript, 2)
}

func TestGetSessionWrongTenantNotFound(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()
	sessionID, err := a.Sessions.Create(ctx, "tenant-a", session.Custom, session.ContextPayload{})
	require.NoError(t, err)

	srv := httptest.NewServer(a.Routes())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/sessions/"+sessionID, nil)
	require.NoError(t, err)
	req.Header.Set(TenantHeader, "tenant-b")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTalkPointGenerateAndGet(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Routes())
	defer srv.Close()

	genBody, _ := json.Marshal(map[string]any{
		"topic":            "Widget upsell",
		"deal_stage":       session.DealStageProposal,
		"customer_context": "Existing customer evaluating the premium tier",
	})
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/talk-points/generate", bytes.NewReader(genBody))
	require.NoError(t, err)
	req.Header.Set(TenantHeader, "tenant-a")
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var artifact talkpoint.Artifact
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&artifact))
	require.NotEmpty(t, artifact.ArtifactID)

	getReq, err := http.NewRequest(http.MethodGet, srv.URL+"/talk-points/"+artifact.ArtifactID, nil)
	require.NoError(t, err)
	getReq.Header.Set(TenantHeader, "tenant-a")
	getResp, err := http.DefaultClient.Do(getReq)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	listReq, err := http.NewRequest(http.MethodGet, srv.URL+"/talk-points", nil)
	require.NoError(t, err)
	listReq.Header.Set(TenantHeader, "tenant-a")
	listResp, err := http.DefaultClient.Do(listReq)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var listed map[string][]talkpoint.Artifact
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	require.Len(t, listed["talk_points"], 1)

	delReq, err := http.NewRequest(http.MethodDelete, srv.URL+"/talk-points/"+artifact.ArtifactID, nil)
	require.NoError(t, err)
	delReq.Header.Set(TenantHeader, "tenant-a")
	delResp, err := http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	defer delResp.Body.Close()
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	goneReq, err := http.NewRequest(http.MethodGet, srv.URL+"/talk-points/"+artifact.ArtifactID, nil)
	require.NoError(t, err)
	goneReq.Header.Set(TenantHeader, "tenant-a")
	goneResp, err := http.DefaultClient.Do(goneReq)
	require.NoError(t, err)
	defer goneResp.Body.Close()
	require.Equal(t, http.StatusNotFound, goneResp.StatusCode)
}

func TestCompanyProfilePutThenGetRoundTrips(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Routes())
	defer srv.Close()

	body, _ := json.Marshal(map[string]any{
		"name":              "Acme Corp",
		"description":       "Makes widgets",
		"value_proposition": "99.99% uptime SLA",
		"industry":          "manufacturing",
	})
	putReq, err := http.NewRequest(http.MethodPut, srv.URL+"/company-profile", bytes.NewReader(body))
	require.NoError(t, err)
	putReq.Header.Set(TenantHeader, "tenant-a")
	putReq.Header.Set("Content-Type", "application/json")
	putResp, err := http.DefaultClient.Do(putReq)
	require.NoError(t, err)
	defer putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	getReq, err := http.NewRequest(http.MethodGet, srv.URL+"/company-profile", nil)
	require.NoError(t, err)
	getReq.Header.Set(TenantHeader, "tenant-a")
	getResp, err := http.DefaultClient.Do(getReq)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&got))
	require.Equal(t, "Acme Corp", got["name"])
	require.Equal(t, "99.99% uptime SLA", got["value_proposition"])
}

func TestCompanyProfileGetUnsetTenantNotFound(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Routes())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/company-profile", nil)
	require.NoError(t, err)
	req.Header.Set(TenantHeader, "tenant-never-set")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWriteErrorMapsKindToStatus(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.Routes())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/sessions/does-not-exist", nil)
	require.NoError(t, err)
	req.Header.Set(TenantHeader, "tenant-a")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.False(t, env.Error.Retryable)
}
