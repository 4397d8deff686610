package talkpoint

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideletter/callprep/ai/providers/llm"
	"github.com/sideletter/callprep/docstore"
	"github.com/sideletter/callprep/retrieval"
	"github.com/sideletter/callprep/session"
	"github.com/sideletter/callprep/vectorindex"
)

func fullSections() Sections {
	return Sections{
		OpeningHook:      "Most teams in your industry cut onboarding time in half within a quarter.",
		ProblemStatement: "Manual onboarding is slow and error-prone.",
		SolutionOverview: "Our platform automates the repetitive steps.",
		KeyBenefits:      "Faster time-to-value and fewer support tickets.",
		ProofPoints:      "Case study: Acme Corp reduced ramp time by 40%.",
		ObjectionHandling: []ObjectionResponse{
			{Objection: "We already have a process.", Response: "Our platform layers on top without disrupting it."},
		},
		CallToAction: "Schedule a pilot with your onboarding team.",
	}
}

func TestSynthesizeWithRetrievedContext(t *testing.T) {
	ctx := context.Background()
	gw := llm.NewFake(32)
	docs := docstore.NewMemoryStore()
	idx := vectorindex.NewMemoryIndex()

	chunk := docstore.Chunk{ChunkID: docstore.ChunkID("doc-1", 0), DocumentID: "doc-1", TenantID: "tenant-a", Ordinal: 0, Text: "Acme Corp reduced onboarding time by 40 percent after adopting our platform."}
	require.NoError(t, docs.PutChunks(ctx, "tenant-a", "doc-1", []docstore.Chunk{chunk}))
	vecs, err := gw.Embed(ctx, []string{chunk.Text})
	require.NoError(t, err)
	require.NoError(t, idx.Insert(ctx, "tenant-a", []vectorindex.Entry{{ChunkID: chunk.ChunkID, TenantID: "tenant-a", DocumentID: "doc-1", Ordinal: 0, Embedding: vecs[0]}}))

	retr := retrieval.New(gw, idx, docs, nil)
	want := fullSections()
	gw.SetCompleteJSON(func(messages []llm.Message, out any) error {
		*out.(*Sections) = want
		return nil
	})

	store := NewMemoryStore()
	synth := New(retr, gw, store)

	artifact, err := synth.Synthesize(ctx, Request{TenantID: "tenant-a", Topic: "onboarding speed", DealStage: session.DealStageProposal})
	require.NoError(t, err)
	assert.Equal(t, 1, artifact.SourcesUsed)
	assert.Equal(t, want, artifact.Sections)

	fetched, err := store.Get(ctx, "tenant-a", artifact.ArtifactID)
	require.NoError(t, err)
	assert.Equal(t, artifact.Topic, fetched.Topic)
}

func TestSynthesizeWithNoRetrievedContext(t *testing.T) {
	ctx := context.Background()
	gw := llm.NewFake(32)
	docs := docstore.NewMemoryStore()
	idx := vectorindex.NewMemoryIndex()
	retr := retrieval.New(gw, idx, docs, nil)

	gw.SetCompleteJSON(func(messages []llm.Message, out any) error {
		*out.(*Sections) = fullSections()
		return nil
	})

	store := NewMemoryStore()
	synth := New(retr, gw, store)

	artifact, err := synth.Synthesize(ctx, Request{TenantID: "tenant-a", Topic: "cold outreach"})
	require.NoError(t, err)
	assert.Equal(t, 0, artifact.SourcesUsed)
}

func TestSectionsValidateRejectsEmptyObjectionHandling(t *testing.T) {
	s := fullSections()
	s.ObjectionHandling = nil
	err := s.Validate()
	require.Error(t, err)
}

func TestSectionsValidateRejectsEmptyField(t *testing.T) {
	s := fullSections()
	s.CallToAction = ""
	err := s.Validate()
	require.Error(t, err)
}

func TestMemoryStoreListIsTenantScopedAndOrderedNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	older := &Artifact{TenantID: "tenant-a", Topic: "first", Sections: fullSections(), CreatedAt: time.Unix(100, 0)}
	newer := &Artifact{TenantID: "tenant-a", Topic: "second", Sections: fullSections(), CreatedAt: time.Unix(200, 0)}
	other := &Artifact{TenantID: "tenant-b", Topic: "other tenant", Sections: fullSections(), CreatedAt: time.Unix(300, 0)}

	_, err := store.Put(ctx, older)
	require.NoError(t, err)
	_, err = store.Put(ctx, newer)
	require.NoError(t, err)
	_, err = store.Put(ctx, other)
	require.NoError(t, err)

	list, err := store.List(ctx, "tenant-a", 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Topic)
	assert.Equal(t, "first", list[1].Topic)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	artifact := &Artifact{TenantID: "tenant-a", Topic: "delete me", Sections: fullSections(), CreatedAt: time.Unix(100, 0)}
	id, err := store.Put(ctx, artifact)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "tenant-a", id))
	require.NoError(t, store.Delete(ctx, "tenant-a", id))

	_, err = store.Get(ctx, "tenant-a", id)
	require.Error(t, err)
}
