package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/andrew/llm-eval/pkg/models"
)

// Payload field names stored with every point.
const (
	payloadText    = "text"
	payloadSource  = "source"
	payloadChunkID = "chunk_id"
)

// QdrantIndex is an Index backed by a Qdrant collection over gRPC.
type QdrantIndex struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	logger      *zap.Logger
}

// NewQdrant connects to a Qdrant server and returns an Index addressing
// the configured collection.
func NewQdrant(cfg Config, logger *zap.Logger) (*QdrantIndex, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s: %w", addr, err)
	}

	logger.Debug("connected to Qdrant", zap.String("addr", addr), zap.String("collection", cfg.Collection))

	return &QdrantIndex{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  cfg.Collection,
		logger:      logger,
	}, nil
}

// EnsureCollection creates the collection with cosine distance if absent.
func (q *QdrantIndex) EnsureCollection(ctx context.Context, dimension int) error {
	exists, err := q.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	q.logger.Info("creating collection",
		zap.String("collection", q.collection),
		zap.Int("dimension", dimension))

	_, err = q.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", q.collection, err)
	}
	return nil
}

// DeleteCollection removes the collection. Destructive and irreversible.
func (q *QdrantIndex) DeleteCollection(ctx context.Context) error {
	exists, err := q.collectionExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	q.logger.Info("deleting collection", zap.String("collection", q.collection))
	_, err = q.collections.Delete(ctx, &qdrantclient.DeleteCollection{
		CollectionName: q.collection,
	})
	if err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", q.collection, err)
	}
	return nil
}

func (q *QdrantIndex) collectionExists(ctx context.Context) (bool, error) {
	collections, err := q.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("failed to list collections: %w", err)
	}
	for _, col := range collections.GetCollections() {
		if col.GetName() == q.collection {
			return true, nil
		}
	}
	return false, nil
}

// Upsert writes one chunk's vector and metadata. The point id is derived
// from the chunk id, so re-indexing a document updates in place instead
// of accumulating duplicates.
func (q *QdrantIndex) Upsert(ctx context.Context, chunk models.Chunk, vec []float32) error {
	pointID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunk.ID)).String()

	point := &qdrantclient.PointStruct{
		Id: &qdrantclient.PointId{
			PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: pointID},
		},
		Vectors: &qdrantclient.Vectors{
			VectorsOptions: &qdrantclient.Vectors_Vector{
				Vector: &qdrantclient.Vector{Data: vec},
			},
		},
		Payload: map[string]*qdrantclient.Value{
			payloadText:    {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.Text}},
			payloadSource:  {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.Source}},
			payloadChunkID: {Kind: &qdrantclient.Value_StringValue{StringValue: chunk.ID}},
		},
	}

	_, err := q.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: q.collection,
		Points:         []*qdrantclient.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point %s: %w", chunk.ID, err)
	}
	return nil
}

// Query runs a cosine similarity search and returns up to topK results
// in ranked order.
func (q *QdrantIndex) Query(ctx context.Context, vec []float32, topK int) ([]models.SearchResult, error) {
	resp, err := q.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: q.collection,
		Vector:         vec,
		Limit:          uint64(topK),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Include{
				Include: &qdrantclient.PayloadIncludeSelector{
					Fields: []string{payloadText, payloadSource, payloadChunkID},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %q: %w", q.collection, err)
	}

	results := make([]models.SearchResult, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		chunk := models.Chunk{}
		if v, ok := point.Payload[payloadText]; ok {
			chunk.Text = v.GetStringValue()
		}
		if v, ok := point.Payload[payloadSource]; ok {
			chunk.Source = v.GetStringValue()
		}
		if v, ok := point.Payload[payloadChunkID]; ok {
			chunk.ID = v.GetStringValue()
		}
		results = append(results, models.SearchResult{
			Chunk: chunk,
			Score: point.GetScore(),
		})
	}

	return results, nil
}

// Close releases the gRPC connection.
func (q *QdrantIndex) Close() error {
	return q.conn.Close()
}
