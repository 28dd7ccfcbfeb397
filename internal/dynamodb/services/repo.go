package services

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/dynamodb/token"
	"kitchenwise.dev/api/internal/exceptions"
)

// RepositoryDynamoDBService binds an ItemStore to a DTO type. Store failures
// surface as StoreUnavailable with the cause kept in the chain, precondition
// failures as NotFound.
type RepositoryDynamoDBService[T interface{}] struct {
	Store          ItemStore
	TokenMarshaler token.TokenMarshaler
	Name           string
	Logger         *zap.Logger
}

func (rs *RepositoryDynamoDBService[T]) _storeError(operation string, err error) error {
	rs.Logger.Error("Store operation failed",
		zap.String("resource", rs.Name),
		zap.String("operation", operation),
		zap.Error(err))
	return exceptions.StoreUnavailable(operation, err)
}

func (rs *RepositoryDynamoDBService[T]) Key(partition string, sort string) Item {
	return rs.Store.Schema().Key(partition, sort)
}

func (rs *RepositoryDynamoDBService[T]) Get(ctx context.Context, key Item, id string) (T, error) {
	var thing T
	item, err := rs.Store.Get(ctx, key)
	if err != nil {
		return thing, rs._storeError("get", err)
	}
	if item == nil {
		return thing, exceptions.NotFound(rs.Name, id)
	}
	err = attributevalue.UnmarshalMap(item, &thing)
	return thing, err
}

func (rs *RepositoryDynamoDBService[T]) Put(ctx context.Context, thing T) error {
	item, err := attributevalue.MarshalMap(thing)
	if err != nil {
		return err
	}
	if err := rs.Store.Put(ctx, item); err != nil {
		return rs._storeError("put", err)
	}
	return nil
}

func (rs *RepositoryDynamoDBService[T]) Update(ctx context.Context, key Item, id string, changes Changes) (T, error) {
	var thing T
	item, err := rs.Store.Update(ctx, key, changes)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return thing, exceptions.NotFound(rs.Name, id)
		}
		return thing, rs._storeError("update", err)
	}
	err = attributevalue.UnmarshalMap(item, &thing)
	return thing, err
}

func (rs *RepositoryDynamoDBService[T]) Rekey(ctx context.Context, fromKey Item, id string, thing T) error {
	item, err := attributevalue.MarshalMap(thing)
	if err != nil {
		return err
	}
	if err := rs.Store.Rekey(ctx, fromKey, item); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return exceptions.NotFound(rs.Name, id)
		}
		return rs._storeError("rekey", err)
	}
	return nil
}

func (rs *RepositoryDynamoDBService[T]) Delete(ctx context.Context, key Item) error {
	if err := rs.Store.Delete(ctx, key); err != nil {
		return rs._storeError("delete", err)
	}
	return nil
}

// Query runs a single page. The continuation token is opened and sealed for userId.
func (rs *RepositoryDynamoDBService[T]) Query(ctx context.Context, userId string, query Query, params data.QueryParams, defaultLimit int) (data.QueryResults[T], error) {
	startKey, err := rs.TokenMarshaler.Unmarshal(userId, params.NextToken)
	if err != nil {
		return data.QueryResults[T]{}, exceptions.InvalidInput("Invalid nextToken")
	}
	query.StartKey = startKey
	query.Limit = params.GetLimit(defaultLimit)
	output, err := rs.Store.Query(ctx, query)
	if err != nil {
		return data.QueryResults[T]{}, rs._storeError("query", err)
	}
	items := make([]T, 0, len(output.Items))
	if err := attributevalue.UnmarshalListOfMaps(output.Items, &items); err != nil {
		return data.QueryResults[T]{}, err
	}
	nextToken, err := rs.TokenMarshaler.Marshal(userId, output.LastKey)
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	return data.QueryResults[T]{
		Items:     items,
		NextToken: nextToken,
	}, nil
}

// Scan pages through a query until match returns true or the partition is exhausted.
func (rs *RepositoryDynamoDBService[T]) Scan(ctx context.Context, query Query, match func(T) bool) (T, bool, error) {
	var empty T
	for {
		output, err := rs.Store.Query(ctx, query)
		if err != nil {
			return empty, false, rs._storeError("query", err)
		}
		for _, item := range output.Items {
			var thing T
			if err := attributevalue.UnmarshalMap(item, &thing); err != nil {
				return empty, false, err
			}
			if match(thing) {
				return thing, true, nil
			}
		}
		if output.LastKey == nil {
			return empty, false, nil
		}
		query.StartKey = output.LastKey
	}
}

func (rs *RepositoryDynamoDBService[T]) NotFound(id string) error {
	return exceptions.NotFound(rs.Name, id)
}
