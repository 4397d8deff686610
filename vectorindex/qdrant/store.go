// Package qdrant is the production Vector Index backend, a thin adapter
// over a *qdrant.Client. It reuses the pack's AST-to-Qdrant filter
// converter (github.com/sideletter/callprep/ai/providers/vectorstores/qdrant)
// to translate tenant/document_id scoping into qdrant.Filter, and the
// vectorstore package's payload conventions for point construction, but
// takes precomputed embeddings rather than generating them internally.
package qdrant

import (
	"context"
	"fmt"
	"sort"

	"github.com/qdrant/go-client/qdrant"

	teacherqdrant "github.com/sideletter/callprep/ai/providers/vectorstores/qdrant"
	"github.com/sideletter/callprep/ai/vectorstore/filter"
	"github.com/sideletter/callprep/pkg/ptr"
	"github.com/sideletter/callprep/vectorindex"
)

const (
	payloadTenantID   = "tenant_id"
	payloadDocumentID = "document_id"
	payloadOrdinal    = "ordinal"
	payloadPage       = "page"
)

// Config configures a Store.
type Config struct {
	Client           *qdrant.Client
	CollectionName   string
	Dimensions       int
	InitializeSchema bool
}

// Store is the Qdrant-backed vectorindex.Index.
type Store struct {
	client     *qdrant.Client
	collection string
}

var _ vectorindex.Index = (*Store)(nil)

// Open validates cfg, optionally creates the collection, and returns a
// ready Store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("vectorindex/qdrant: client is required")
	}
	if cfg.CollectionName == "" {
		return nil, fmt.Errorf("vectorindex/qdrant: collection name is required")
	}

	s := &Store{client: cfg.Client, collection: cfg.CollectionName}

	if cfg.InitializeSchema {
		exists, err := cfg.Client.CollectionExists(ctx, cfg.CollectionName)
		if err != nil {
			return nil, fmt.Errorf("vectorindex/qdrant: check collection: %w", err)
		}
		if !exists {
			err = cfg.Client.CreateCollection(ctx, &qdrant.CreateCollection{
				CollectionName: cfg.CollectionName,
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     uint64(cfg.Dimensions),
					Distance: qdrant.Distance_Cosine,
				}),
			})
			if err != nil {
				return nil, fmt.Errorf("vectorindex/qdrant: create collection: %w", err)
			}
		}
	}

	return s, nil
}

func (s *Store) Insert(ctx context.Context, tenantID string, entries []vectorindex.Entry) error {
	points := make([]*qdrant.PointStruct, 0, len(entries))
	for _, e := range entries {
		fields := map[string]any{
			payloadTenantID:   tenantID,
			payloadDocumentID: e.DocumentID,
			payloadOrdinal:    e.Ordinal,
		}
		if e.Page != nil {
			fields[payloadPage] = *e.Page
		}
		payload, err := qdrant.TryValueMap(fields)
		if err != nil {
			return fmt.Errorf("vectorindex/qdrant: build payload: %w", err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(e.ChunkID),
			Vectors: qdrant.NewVectors(e.Embedding...),
			Payload: payload,
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           ptr.Pointer(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("vectorindex/qdrant: upsert %d points: %w", len(points), err)
	}
	return nil
}

func (s *Store) DeleteByDocument(ctx context.Context, tenantID, documentID string) (int, error) {
	expr, err := filter.NewBuilder().
		EQ(payloadTenantID, tenantID).
		EQ(payloadDocumentID, documentID).
		Build()
	if err != nil {
		return 0, fmt.Errorf("vectorindex/qdrant: build filter: %w", err)
	}
	qf, err := teacherqdrant.ToFilter(expr)
	if err != nil {
		return 0, fmt.Errorf("vectorindex/qdrant: convert filter: %w", err)
	}

	count, err := s.countMatching(ctx, qf)
	if err != nil {
		return 0, err
	}

	_, err = s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           ptr.Pointer(true),
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: qf},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("vectorindex/qdrant: delete by document: %w", err)
	}
	return count, nil
}

func (s *Store) countMatching(ctx context.Context, qf *qdrant.Filter) (int, error) {
	res, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
		Filter:         qf,
	})
	if err != nil {
		return 0, fmt.Errorf("vectorindex/qdrant: count: %w", err)
	}
	return int(res), nil
}

func (s *Store) Query(ctx context.Context, tenantID string, embedding []float32, k int) ([]vectorindex.Match, error) {
	expr, err := filter.NewBuilder().EQ(payloadTenantID, tenantID).Build()
	if err != nil {
		return nil, fmt.Errorf("vectorindex/qdrant: build filter: %w", err)
	}
	qf, err := teacherqdrant.ToFilter(expr)
	if err != nil {
		return nil, fmt.Errorf("vectorindex/qdrant: convert filter: %w", err)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         qf,
		Limit:          ptr.Pointer(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("vectorindex/qdrant: query: %w", err)
	}

	matches := make([]vectorindex.Match, 0, len(points))
	for _, p := range points {
		m := vectorindex.Match{
			ChunkID: idString(p.Id),
			Score:   float64(p.Score),
		}
		if v, ok := p.Payload[payloadDocumentID]; ok {
			m.DocumentID = v.GetStringValue()
		}
		if v, ok := p.Payload[payloadOrdinal]; ok {
			m.Ordinal = int(v.GetIntegerValue())
		}
		if v, ok := p.Payload[payloadPage]; ok {
			page := int(v.GetIntegerValue())
			m.Page = &page
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Ordinal != matches[j].Ordinal {
			return matches[i].Ordinal < matches[j].Ordinal
		}
		return matches[i].DocumentID < matches[j].DocumentID
	})
	return matches, nil
}

func (s *Store) Count(ctx context.Context, tenantID string) (int, error) {
	expr, err := filter.NewBuilder().EQ(payloadTenantID, tenantID).Build()
	if err != nil {
		return 0, fmt.Errorf("vectorindex/qdrant: build filter: %w", err)
	}
	qf, err := teacherqdrant.ToFilter(expr)
	if err != nil {
		return 0, fmt.Errorf("vectorindex/qdrant: convert filter: %w", err)
	}
	return s.countMatching(ctx, qf)
}

func (s *Store) Reset(ctx context.Context, tenantID string) error {
	expr, err := filter.NewBuilder().EQ(payloadTenantID, tenantID).Build()
	if err != nil {
		return fmt.Errorf("vectorindex/qdrant: build filter: %w", err)
	}
	qf, err := teacherqdrant.ToFilter(expr)
	if err != nil {
		return fmt.Errorf("vectorindex/qdrant: convert filter: %w", err)
	}
	_, err = s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           ptr.Pointer(true),
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: qf},
		},
	})
	if err != nil {
		return fmt.Errorf("vectorindex/qdrant: reset: %w", err)
	}
	return nil
}

func idString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return fmt.Sprintf("%d", id.GetNum())
}
