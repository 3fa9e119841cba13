package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/kcaltrack/internal/config"
	"github.com/jgoulah/kcaltrack/internal/entry"
	"github.com/jgoulah/kcaltrack/internal/kv"
	"github.com/jgoulah/kcaltrack/internal/kv/kvtest"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*input.Bucket+"/"+*input.Key] = data
	m.types[*input.Key] = *input.ContentType
	return &s3.PutObjectOutput{}, nil
}

// fakeStore records updates against an in-memory entry list
type fakeStore struct {
	entries   []models.FoodEntry
	updateErr error
}

func (f *fakeStore) List() []models.FoodEntry {
	return append([]models.FoodEntry(nil), f.entries...)
}

func (f *fakeStore) Update(id string, patch models.EntryPatch) (entry.WriteOutcome, error) {
	if f.updateErr != nil {
		return entry.WriteFailed, f.updateErr
	}
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i] = patch.Apply(f.entries[i])
		}
	}
	return entry.WriteOK, nil
}

// "hi" base64 encoded
const pngURI = "data:image/png;base64,aGk="

func TestRun_UploadsInlinePhotos(t *testing.T) {
	client := newMockS3()
	a := newArchiver(client, "meals", "photos/", nil)
	store := &fakeStore{entries: []models.FoodEntry{
		{ID: "a", Date: "2024-01-10", ImageURL: pngURI},
		{ID: "b", Date: "2024-01-11"},
		{ID: "c", Date: "2024-01-12", ImageURL: "s3://meals/photos/old.jpg"},
	}}

	res, err := a.Run(context.Background(), store, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Archived)
	assert.Equal(t, 2, res.Skipped)

	assert.Equal(t, []byte("hi"), client.objects["meals/photos/2024-01-10/a.png"])
	assert.Equal(t, "image/png", client.types["photos/2024-01-10/a.png"])
	assert.Equal(t, "s3://meals/photos/2024-01-10/a.png", store.entries[0].ImageURL)
	assert.Equal(t, "s3://meals/photos/old.jpg", store.entries[2].ImageURL)
}

func TestRun_EntryStoreKeepsLinksPastRetention(t *testing.T) {
	seed := []models.FoodEntry{
		{ID: "old", Date: "2024-01-11", Time: "12:00", FoodName: "김밥", Servings: 1, ImageURL: pngURI},
		{ID: "old2", Date: "2024-01-12", Time: "19:00", FoodName: "라면", Servings: 1, ImageURL: pngURI},
	}
	data, err := json.Marshal(seed)
	require.NoError(t, err)

	medium := kvtest.New()
	medium.Put(entry.Key, string(data))
	now := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	store := entry.NewStore(kv.New(medium, kv.NewMemory(), nil), entry.WithClock(func() time.Time { return now }))

	client := newMockS3()
	res, err := newArchiver(client, "meals", "photos/", nil).Run(context.Background(), store, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Archived)
	assert.Len(t, client.objects, 2)

	got, ok := store.Get("old")
	require.True(t, ok)
	assert.Equal(t, "s3://meals/photos/2024-01-11/old.png", got.ImageURL)

	got, ok = store.Get("old2")
	require.True(t, ok)
	assert.Equal(t, "s3://meals/photos/2024-01-12/old2.png", got.ImageURL)
}

func TestRun_ThroughDate(t *testing.T) {
	client := newMockS3()
	a := newArchiver(client, "meals", "", nil)
	store := &fakeStore{entries: []models.FoodEntry{
		{ID: "old", Date: "2024-01-01", ImageURL: pngURI},
		{ID: "new", Date: "2024-01-20", ImageURL: pngURI},
	}}

	res, err := a.Run(context.Background(), store, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Archived)
	assert.Len(t, client.objects, 1)
	assert.Equal(t, pngURI, store.entries[1].ImageURL)
}

func TestRun_UploadFailureKeepsEntry(t *testing.T) {
	client := newMockS3()
	client.err = errors.New("access denied")
	a := newArchiver(client, "meals", "", nil)
	store := &fakeStore{entries: []models.FoodEntry{{ID: "a", Date: "2024-01-10", ImageURL: pngURI}}}

	res, err := a.Run(context.Background(), store, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Len(t, res.Failed, 1)
	assert.Equal(t, pngURI, store.entries[0].ImageURL)
}

func TestRun_UpdateFailure(t *testing.T) {
	a := newArchiver(newMockS3(), "meals", "", nil)
	store := &fakeStore{
		entries:   []models.FoodEntry{{ID: "a", Date: "2024-01-10", ImageURL: pngURI}},
		updateErr: errors.New("storage full"),
	}

	res, err := a.Run(context.Background(), store, "")
	require.Error(t, err)
	assert.Equal(t, 0, res.Archived)
}

func TestRun_CanceledContext(t *testing.T) {
	a := newArchiver(newMockS3(), "meals", "", nil)
	store := &fakeStore{entries: []models.FoodEntry{{ID: "a", Date: "2024-01-10", ImageURL: pngURI}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Run(ctx, store, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RequiresEnabledAndBucket(t *testing.T) {
	_, err := New(context.Background(), config.ArchiveConfig{}, "", nil)
	assert.Error(t, err)

	_, err = New(context.Background(), config.ArchiveConfig{Enabled: true}, "", nil)
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	e := models.FoodEntry{ID: "1705320000000_abc", Date: "2024-01-15"}
	assert.Equal(t, "photos/2024-01-15/1705320000000_abc.jpg", ObjectKey("photos/", e, "image/jpeg"))
	assert.Equal(t, "2024-01-15/1705320000000_abc.bin", ObjectKey("", e, "application/octet-stream"))
}
