package db

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/BigLeagueAjay/Webscraper/models"
	"github.com/BigLeagueAjay/Webscraper/utils"
)

const upsertTimeout = 30 * time.Second

// collectionFor maps a text key to its dedicated Qdrant collection.
// Collections are fixed; there is no dynamic-category path.
func collectionFor(textKey string) string {
	if textKey == models.TextKeyTitle {
		return "titles"
	}
	return textKey
}

// VectorStore wraps the Qdrant client with the per-category collection
// layout used by the scraper.
type VectorStore struct {
	client *qdrant.Client
	dims   uint64
	logger zerolog.Logger
}

// NewVectorStore dials Qdrant over gRPC and verifies the connection.
func NewVectorStore(ctx context.Context, host string, port int, apiKey string, dims int, logger zerolog.Logger) (*VectorStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   host,
		Port:                   port,
		APIKey:                 apiKey,
		UseTLS:                 false,
		SkipCompatibilityCheck: true,
		GrpcOptions: []grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("can't create Qdrant client: %w", err)
	}

	// Probe with a collection lookup; only a timeout means the server
	// is unreachable, a not-found answer is fine.
	_, err = client.GetCollectionInfo(ctx, "connection_probe")
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("Qdrant connection timeout, is server running at %s:%d?", host, port)
	}

	return &VectorStore{
		client: client,
		dims:   uint64(dims),
		logger: logger,
	}, nil
}

// EnsureCollections provisions one collection per text key at startup.
func (s *VectorStore) EnsureCollections(ctx context.Context) error {
	for _, textKey := range models.TextKeys() {
		name := collectionFor(textKey)
		exists, err := s.collectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("can't check collection %s: %w", name, err)
		}
		if exists {
			continue
		}

		err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.dims,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("can't create collection %s: %w", name, err)
		}
		s.logger.Info().Str("collection", name).Msg("collection created")
	}
	return nil
}

func (s *VectorStore) collectionExists(ctx context.Context, name string) (bool, error) {
	info, err := s.client.GetCollectionInfo(ctx, name)
	if err != nil || info == nil {
		return false, nil
	}
	return true, nil
}

// UpsertCategory writes every (text, vector) pair of one category to
// its collection in a single upsert. Point IDs are deterministic UUIDs
// derived from "{contentID}_{category}_{index}"; the composite key
// itself rides along in the payload.
func (s *VectorStore) UpsertCategory(ctx context.Context, contentID, textKey string, texts []string, vectors [][]float32) (int, error) {
	if len(texts) == 0 || len(vectors) == 0 {
		return 0, nil
	}
	if len(texts) != len(vectors) {
		return 0, fmt.Errorf("category %s: %d texts but %d vectors", textKey, len(texts), len(vectors))
	}

	ctx, cancel := context.WithTimeout(ctx, upsertTimeout)
	defer cancel()

	points := make([]*qdrant.PointStruct, len(texts))
	for i, text := range texts {
		key := utils.PointKey(contentID, textKey, i)
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(utils.PointID(key)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"point_key": key,
				"text":      text,
				"source_id": contentID,
				"category":  textKey,
				"index":     i,
				"timestamp": time.Now().Unix(),
			}),
		}
	}

	collection := collectionFor(textKey)
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return 0, fmt.Errorf("can't upsert into %s: %w", collection, err)
	}

	s.logger.Info().
		Str("collection", collection).
		Str("content_id", contentID).
		Int("points", len(points)).
		Msg("stored embeddings")

	return len(points), nil
}

// Close releases the underlying gRPC connection.
func (s *VectorStore) Close() error {
	return s.client.Close()
}
