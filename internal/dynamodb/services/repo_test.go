package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/dynamodb/services"
	"kitchenwise.dev/api/internal/dynamodb/token"
	"kitchenwise.dev/api/internal/exceptions"
	"kitchenwise.dev/api/internal/test"
)

type widget struct {
	Owner string `dynamodbav:"owner"`
	Id    string `dynamodbav:"id"`
	Color string `dynamodbav:"color"`
}

func newRepository() (*services.RepositoryDynamoDBService[widget], *test.MemoryItemStore) {
	store := test.NewMemoryItemStore(services.TableSchema{
		TableName:    "Widgets",
		PartitionKey: "owner",
		SortKey:      "id",
	})
	return &services.RepositoryDynamoDBService[widget]{
		Store:          store,
		TokenMarshaler: token.NewGCM("secret"),
		Name:           "widget",
		Logger:         zap.NewNop(),
	}, store
}

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		repo, _ := newRepository()
		_, err := repo.Get(ctx, repo.Key("o", "missing"), "missing")
		var nfe *exceptions.NotFoundError
		require.True(t, errors.As(err, &nfe))
		assert.Equal(t, "missing", nfe.Id)
	})

	t.Run("PutGet", func(t *testing.T) {
		repo, _ := newRepository()
		require.NoError(t, repo.Put(ctx, widget{Owner: "o", Id: "1", Color: "red"}))
		got, err := repo.Get(ctx, repo.Key("o", "1"), "1")
		require.NoError(t, err)
		assert.Equal(t, "red", got.Color)
	})

	t.Run("UpdateMissingIsNotFound", func(t *testing.T) {
		repo, store := newRepository()
		_, err := repo.Update(ctx, repo.Key("o", "1"), "1", services.Changes{"color": "blue"})
		var nfe *exceptions.NotFoundError
		assert.True(t, errors.As(err, &nfe))
		assert.Empty(t, store.Snapshot())
	})

	t.Run("RekeyMissingIsNotFound", func(t *testing.T) {
		repo, store := newRepository()
		err := repo.Rekey(ctx, repo.Key("o", "1"), "1", widget{Owner: "o", Id: "2"})
		var nfe *exceptions.NotFoundError
		assert.True(t, errors.As(err, &nfe))
		assert.Empty(t, store.Snapshot())
	})

	t.Run("StoreUnavailable", func(t *testing.T) {
		repo, store := newRepository()
		cause := errors.New("connection reset")
		store.Fail(cause)
		_, err := repo.Get(ctx, repo.Key("o", "1"), "1")
		var sue *exceptions.StoreUnavailableError
		require.True(t, errors.As(err, &sue))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 503, exceptions.StatusCode(err))
	})

	t.Run("Paging", func(t *testing.T) {
		repo, _ := newRepository()
		for i := 0; i < 7; i++ {
			require.NoError(t, repo.Put(ctx, widget{Owner: "o", Id: fmt.Sprintf("%02d", i)}))
		}
		require.NoError(t, repo.Put(ctx, widget{Owner: "other", Id: "00"}))

		first, err := repo.Query(ctx, "o", services.Query{Partition: "o"}, data.QueryParams{}, 5)
		require.NoError(t, err)
		require.Len(t, first.Items, 5)
		require.NotNil(t, first.NextToken)
		assert.Equal(t, "00", first.Items[0].Id)

		second, err := repo.Query(ctx, "o", services.Query{Partition: "o"}, data.QueryParams{NextToken: first.NextToken}, 5)
		require.NoError(t, err)
		require.Len(t, second.Items, 2)
		assert.Equal(t, "05", second.Items[0].Id)
		assert.Nil(t, second.NextToken)

		_, err = repo.Query(ctx, "other", services.Query{Partition: "other"}, data.QueryParams{NextToken: first.NextToken}, 5)
		var iie *exceptions.InvalidInputError
		assert.True(t, errors.As(err, &iie))

		_, err = repo.Query(ctx, "o", services.Query{Partition: "o"}, data.QueryParams{NextToken: aws.String("garbage")}, 5)
		assert.True(t, errors.As(err, &iie))
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		repo, _ := newRepository()
		results, err := repo.Query(ctx, "o", services.Query{Partition: "o"}, data.QueryParams{}, 5)
		require.NoError(t, err)
		assert.NotNil(t, results.Items)
		assert.Empty(t, results.Items)
		assert.Nil(t, results.NextToken)
	})

	t.Run("ScanPagesUntilMatch", func(t *testing.T) {
		repo, _ := newRepository()
		for i := 0; i < 9; i++ {
			require.NoError(t, repo.Put(ctx, widget{Owner: "o", Id: fmt.Sprintf("%02d", i), Color: "red"}))
		}
		require.NoError(t, repo.Put(ctx, widget{Owner: "o", Id: "99", Color: "blue"}))
		found, ok, err := repo.Scan(ctx, services.Query{Partition: "o", Limit: aws.Int32(2)}, func(w widget) bool {
			return w.Color == "blue"
		})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "99", found.Id)

		_, ok, err = repo.Scan(ctx, services.Query{Partition: "o", Limit: aws.Int32(2)}, func(w widget) bool {
			return w.Color == "green"
		})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
