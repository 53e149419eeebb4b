package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-ai-be/internal/dto"
	"warehouse-ai-be/internal/entity"
	"warehouse-ai-be/internal/repository/contract"
)

type fakeForecastRepo struct {
	stored []*entity.ForecastRecord
}

func (f *fakeForecastRepo) Store(_ context.Context, record *entity.ForecastRecord) error {
	f.stored = append(f.stored, record)
	return nil
}

type fakeSearchRepo struct {
	stored []*entity.SearchRecord
}

func (f *fakeSearchRepo) Store(_ context.Context, record *entity.SearchRecord) error {
	f.stored = append(f.stored, record)
	return nil
}

type fakeIndexRepo struct {
	stored  []*entity.VectorIndexMetadata
	removed []string
}

func (f *fakeIndexRepo) Store(_ context.Context, record *entity.VectorIndexMetadata) error {
	f.stored = append(f.stored, record)
	return nil
}

func (f *fakeIndexRepo) Remove(_ context.Context, indexName string) error {
	f.removed = append(f.removed, indexName)
	return nil
}

type consumerFixture struct {
	consumer    *auditConsumerService
	generations *fakeGenerationRepo
	embeddings  *fakeEmbeddingRepo
	forecasts   *fakeForecastRepo
	searches    *fakeSearchRepo
	indexes     *fakeIndexRepo
	objects     *fakeObjectRepo
}

func newConsumerFixture() *consumerFixture {
	f := &consumerFixture{
		generations: &fakeGenerationRepo{},
		embeddings:  &fakeEmbeddingRepo{},
		forecasts:   &fakeForecastRepo{},
		searches:    &fakeSearchRepo{},
		indexes:     &fakeIndexRepo{},
		objects:     &fakeObjectRepo{},
	}
	f.consumer = &auditConsumerService{
		topicName:   "audit",
		log:         nopLogger{},
		generations: f.generations,
		embeddings:  f.embeddings,
		forecasts:   f.forecasts,
		searches:    f.searches,
		indexes:     f.indexes,
		objects:     f.objects,
	}
	return f
}

func envelopeFor(t *testing.T, kind string, payload interface{}) dto.AuditMessage {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return dto.AuditMessage{Kind: kind, Payload: body}
}

func TestAuditConsumerStoreDispatch(t *testing.T) {
	ctx := context.Background()
	f := newConsumerFixture()

	generationID := uuid.New()
	err := f.consumer.store(ctx, envelopeFor(t, dto.AuditKindGeneration, &entity.GenerationRecord{Id: generationID, ModelName: "gemini-pro"}))
	require.NoError(t, err)
	require.Len(t, f.generations.stored, 1)
	assert.Equal(t, generationID, f.generations.stored[0].Id)

	err = f.consumer.store(ctx, envelopeFor(t, dto.AuditKindEmbedding, &entity.EmbeddingRecord{Id: uuid.New(), Dimensions: 3}))
	require.NoError(t, err)
	require.Len(t, f.embeddings.stored, 1)
	assert.Equal(t, 3, f.embeddings.stored[0].Dimensions)

	err = f.consumer.store(ctx, envelopeFor(t, dto.AuditKindForecast, &entity.ForecastRecord{Id: uuid.New(), Horizon: 30}))
	require.NoError(t, err)
	assert.Len(t, f.forecasts.stored, 1)

	err = f.consumer.store(ctx, envelopeFor(t, dto.AuditKindSearch, &entity.SearchRecord{Id: uuid.New(), TopK: 5}))
	require.NoError(t, err)
	assert.Len(t, f.searches.stored, 1)

	err = f.consumer.store(ctx, envelopeFor(t, dto.AuditKindIndexCreate, &entity.VectorIndexMetadata{IndexName: "docs_idx"}))
	require.NoError(t, err)
	require.Len(t, f.indexes.stored, 1)
	assert.Equal(t, "docs_idx", f.indexes.stored[0].IndexName)

	err = f.consumer.store(ctx, envelopeFor(t, dto.AuditKindIndexDrop, map[string]string{"index_name": "docs_idx"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"docs_idx"}, f.indexes.removed)

	err = f.consumer.store(ctx, envelopeFor(t, dto.AuditKindObjectTable, &entity.ObjectTableMetadata{TableID: "files"}))
	require.NoError(t, err)
	assert.Len(t, f.objects.tables, 1)

	err = f.consumer.store(ctx, envelopeFor(t, dto.AuditKindObjectRef, &entity.ObjectRefMetadata{ObjectRef: "gs://b/f.png"}))
	require.NoError(t, err)
	assert.Len(t, f.objects.refs, 1)

	err = f.consumer.store(ctx, envelopeFor(t, dto.AuditKindRefAnalysis, &contract.ObjectAnalysisRecord{AnalysisID: "a1"}))
	require.NoError(t, err)
	assert.Len(t, f.objects.analyses, 1)
}

func TestAuditConsumerUnknownKindDropped(t *testing.T) {
	f := newConsumerFixture()

	err := f.consumer.store(context.Background(), envelopeFor(t, "mystery", map[string]string{"x": "y"}))
	assert.NoError(t, err)
	assert.Empty(t, f.generations.stored)
}

type countingGenerationRepo struct {
	mu     sync.Mutex
	stored int
}

func (f *countingGenerationRepo) Store(context.Context, *entity.GenerationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored++
	return nil
}

func (f *countingGenerationRepo) History(context.Context, int, string) ([]*entity.GenerationRecord, error) {
	return nil, nil
}

func (f *countingGenerationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored
}

func TestAuditPublishConsumeRoundTrip(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	generations := &countingGenerationRepo{}
	f := newConsumerFixture()
	f.consumer.pubSub = pubSub
	f.consumer.generations = generations

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, f.consumer.Consume(ctx))

	publisher := NewAuditPublisherService("audit", pubSub, nopLogger{})
	publisher.Publish(ctx, dto.AuditKindGeneration, &entity.GenerationRecord{Id: uuid.New()})

	assert.Eventually(t, func() bool {
		return generations.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
