package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

type DynamoDBItemStore struct {
	DynamoDB DynamoDBAPI
	Table    TableSchema
}

func NewDynamoDBItemStore(client DynamoDBAPI, schema TableSchema) *DynamoDBItemStore {
	return &DynamoDBItemStore{
		DynamoDB: client,
		Table:    schema,
	}
}

func (ds *DynamoDBItemStore) Schema() TableSchema {
	return ds.Table
}

func _annotate(operation string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("dynamodb %s failed with %s: %w", operation, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("dynamodb %s failed: %w", operation, err)
}

func _isConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

func (ds *DynamoDBItemStore) _exists() expression.ConditionBuilder {
	return expression.Name(ds.Table.PartitionKey).AttributeExists().And(expression.Name(ds.Table.SortKey).AttributeExists())
}

func (ds *DynamoDBItemStore) Get(ctx context.Context, key Item) (Item, error) {
	response, err := ds.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(ds.Table.TableName),
		Key:       key,
	})
	if err != nil {
		return nil, _annotate("GetItem", err)
	}
	if len(response.Item) == 0 {
		return nil, nil
	}
	return response.Item, nil
}

func (ds *DynamoDBItemStore) Put(ctx context.Context, item Item) error {
	_, err := ds.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ds.Table.TableName),
		Item:      item,
	})
	if err != nil {
		return _annotate("PutItem", err)
	}
	return nil
}

func (ds *DynamoDBItemStore) Update(ctx context.Context, key Item, changes Changes) (Item, error) {
	names := make([]string, 0, len(changes))
	for name, value := range changes {
		if !IsEmptyChange(value) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		item, err := ds.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, ErrConditionFailed
		}
		return item, nil
	}
	sort.Strings(names)
	var update expression.UpdateBuilder
	for _, name := range names {
		update = update.Set(expression.Name(name), expression.Value(changes[name]))
	}
	expr, err := expression.NewBuilder().WithCondition(ds._exists()).WithUpdate(update).Build()
	if err != nil {
		return nil, err
	}
	response, err := ds.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(ds.Table.TableName),
		Key:                       key,
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if _isConditionFailure(err) {
			return nil, ErrConditionFailed
		}
		return nil, _annotate("UpdateItem", err)
	}
	return response.Attributes, nil
}

func (ds *DynamoDBItemStore) Delete(ctx context.Context, key Item) error {
	_, err := ds.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(ds.Table.TableName),
		Key:       key,
	})
	if err != nil {
		return _annotate("DeleteItem", err)
	}
	return nil
}

func (ds *DynamoDBItemStore) Query(ctx context.Context, query Query) (QueryOutput, error) {
	pkName, skName, ok := ds.Table.KeyNames(query.IndexName)
	if !ok {
		return QueryOutput{}, fmt.Errorf("unknown index %s on table %s", query.IndexName, ds.Table.TableName)
	}
	keyEx := expression.Key(pkName).Equal(expression.Value(query.Partition))
	if query.SortKeyEquals != nil {
		keyEx = keyEx.And(expression.Key(skName).Equal(expression.Value(*query.SortKeyEquals)))
	} else if query.SortKeyPrefix != "" {
		keyEx = keyEx.And(expression.Key(skName).BeginsWith(query.SortKeyPrefix))
	}
	builder := expression.NewBuilder().WithKeyCondition(keyEx)
	if len(query.Filters) > 0 {
		filter := expression.Name(query.Filters[0].Name).Equal(expression.Value(query.Filters[0].Value))
		for _, f := range query.Filters[1:] {
			filter = filter.And(expression.Name(f.Name).Equal(expression.Value(f.Value)))
		}
		builder = builder.WithFilter(filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return QueryOutput{}, err
	}
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(ds.Table.TableName),
		Limit:                     query.Limit,
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         query.StartKey,
	}
	if query.IndexName != "" {
		input.IndexName = aws.String(query.IndexName)
	}
	output, err := ds.DynamoDB.Query(ctx, input)
	if err != nil {
		return QueryOutput{}, _annotate("Query", err)
	}
	var lastKey Item
	if len(output.LastEvaluatedKey) > 0 {
		lastKey = output.LastEvaluatedKey
	}
	return QueryOutput{
		Items:   output.Items,
		LastKey: lastKey,
	}, nil
}

func (ds *DynamoDBItemStore) Rekey(ctx context.Context, fromKey Item, item Item) error {
	expr, err := expression.NewBuilder().WithCondition(ds._exists()).Build()
	if err != nil {
		return err
	}
	_, err = ds.DynamoDB.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Delete: &types.Delete{
					TableName:                aws.String(ds.Table.TableName),
					Key:                      fromKey,
					ConditionExpression:      expr.Condition(),
					ExpressionAttributeNames: expr.Names(),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(ds.Table.TableName),
					Item:      item,
				},
			},
		},
	})
	if err != nil {
		if _isConditionFailure(err) {
			return ErrConditionFailed
		}
		return _annotate("TransactWriteItems", err)
	}
	return nil
}
