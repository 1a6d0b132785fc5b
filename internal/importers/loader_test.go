package importers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookreviews/internal/database/books"
	"github.com/mrlokans/bookreviews/internal/database/testutil"
	"github.com/mrlokans/bookreviews/internal/entities"
)

const threeBooks = `isbn,title,author,year
0547928221,The Hobbit,J.R.R. Tolkien,1937
0451524934,1984,George Orwell,1949
0141439518,Pride and Prejudice,Jane Austen,1813
`

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// recordingStore counts CreateBooks calls to prove the catalog is one batch.
type recordingStore struct {
	calls   int
	batches [][]entities.Book
	err     error
}

func (s *recordingStore) CreateBooks(_ context.Context, books []entities.Book) (int, error) {
	s.calls++
	s.batches = append(s.batches, books)
	if s.err != nil {
		return 0, s.err
	}
	return len(books), nil
}

func TestCatalogLoader_LoadsOneBatch(t *testing.T) {
	store := &recordingStore{}
	loader := NewCatalogLoader(store, quietLogger())

	inserted, err := loader.Load(context.Background(), strings.NewReader(threeBooks))

	require.NoError(t, err)
	assert.Equal(t, 3, inserted)
	require.Equal(t, 1, store.calls)
	assert.Equal(t, entities.Book{ISBN: "0141439518", Title: "Pride and Prejudice", Author: "Jane Austen", Year: 1813},
		store.batches[0][2])
}

func TestCatalogLoader_RejectsWholeCatalogOnBadRow(t *testing.T) {
	store := &recordingStore{}
	loader := NewCatalogLoader(store, quietLogger())

	input := threeBooks + "9999999999,Undated,Anonymous,circa 1500\n"
	_, err := loader.Load(context.Background(), strings.NewReader(input))

	var catalogErr *CatalogError
	require.True(t, errors.As(err, &catalogErr))
	assert.Equal(t, []string{`Line 5: year "circa 1500" is not a number`}, catalogErr.Problems)
	assert.Zero(t, store.calls)
}

func TestCatalogLoader_StoreError(t *testing.T) {
	boom := errors.New("disk full")
	loader := NewCatalogLoader(&recordingStore{err: boom}, quietLogger())

	_, err := loader.Load(context.Background(), strings.NewReader(threeBooks))

	assert.ErrorIs(t, err, boom)
}

func TestCatalogLoader_Prepare(t *testing.T) {
	store := &recordingStore{}
	loader := NewCatalogLoader(store, quietLogger())

	prepared, err := loader.Prepare(strings.NewReader(threeBooks))

	require.NoError(t, err)
	assert.Len(t, prepared, 3)
	assert.Zero(t, store.calls)
}

func TestCatalogLoader_WithDatabase(t *testing.T) {
	db := testutil.NewDatabase(t)
	repo := books.NewRepository(db.DB)
	loader := NewCatalogLoader(repo, quietLogger())
	ctx := context.Background()

	inserted, err := loader.Load(ctx, strings.NewReader(threeBooks))
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	hobbit, err := repo.GetBookByISBN(ctx, "0547928221")
	require.NoError(t, err)
	assert.Equal(t, 1937, hobbit.Year)

	// Loading the same file again collides on every ISBN and leaves the table as is
	_, err = loader.Load(ctx, strings.NewReader(threeBooks))
	assert.ErrorIs(t, err, books.ErrDuplicateISBN)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCatalogError_TruncatesLongLists(t *testing.T) {
	problems := make([]string, 12)
	for i := range problems {
		problems[i] = "bad"
	}

	msg := (&CatalogError{Problems: problems}).Error()

	assert.Contains(t, msg, "catalog has 12 invalid rows")
	assert.True(t, strings.HasSuffix(msg, "and 2 more"))
}
