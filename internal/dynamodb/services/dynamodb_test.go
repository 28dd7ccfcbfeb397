package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDynamoDB struct {
	get       *dynamodb.GetItemInput
	put       *dynamodb.PutItemInput
	update    *dynamodb.UpdateItemInput
	del       *dynamodb.DeleteItemInput
	query     *dynamodb.QueryInput
	transact  *dynamodb.TransactWriteItemsInput
	getOutput *dynamodb.GetItemOutput
	queryOut  *dynamodb.QueryOutput
	err       error
}

func (s *stubDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	s.get = params
	if s.getOutput == nil {
		return &dynamodb.GetItemOutput{}, s.err
	}
	return s.getOutput, s.err
}

func (s *stubDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.put = params
	return &dynamodb.PutItemOutput{}, s.err
}

func (s *stubDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	s.update = params
	return &dynamodb.UpdateItemOutput{Attributes: params.Key}, s.err
}

func (s *stubDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	s.del = params
	return &dynamodb.DeleteItemOutput{}, s.err
}

func (s *stubDynamoDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	s.query = params
	if s.queryOut == nil {
		return &dynamodb.QueryOutput{}, s.err
	}
	return s.queryOut, s.err
}

func (s *stubDynamoDB) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	s.transact = params
	return &dynamodb.TransactWriteItemsOutput{}, s.err
}

var testSchema = TableSchema{
	TableName:    "PantryItems",
	PartitionKey: "userId",
	SortKey:      "sortKey",
	Indexes: map[string]IndexSchema{
		"ItemIndex": {PartitionKey: "userId", SortKey: "itemId"},
	},
}

func TestDynamoDBItemStoreQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("PrefixAndFilter", func(t *testing.T) {
		stub := &stubDynamoDB{}
		store := NewDynamoDBItemStore(stub, testSchema)
		_, err := store.Query(ctx, Query{
			Partition:     "u1",
			SortKeyPrefix: "Dairy#",
			Filters:       []Filter{{Name: "location", Value: "Fridge"}},
			Limit:         aws.Int32(5),
		})
		require.NoError(t, err)
		require.NotNil(t, stub.query)
		assert.Equal(t, "PantryItems", *stub.query.TableName)
		assert.Nil(t, stub.query.IndexName)
		assert.Equal(t, int32(5), *stub.query.Limit)
		assert.Contains(t, *stub.query.KeyConditionExpression, "begins_with")
		require.NotNil(t, stub.query.FilterExpression)
		assert.Contains(t, stub.query.ExpressionAttributeNames, "#0")
		var values []string
		for _, v := range stub.query.ExpressionAttributeValues {
			if sv, ok := v.(*types.AttributeValueMemberS); ok {
				values = append(values, sv.Value)
			}
		}
		assert.ElementsMatch(t, []string{"u1", "Dairy#", "Fridge"}, values)
	})

	t.Run("PartitionOnly", func(t *testing.T) {
		stub := &stubDynamoDB{}
		store := NewDynamoDBItemStore(stub, testSchema)
		_, err := store.Query(ctx, Query{Partition: "u1"})
		require.NoError(t, err)
		assert.NotContains(t, *stub.query.KeyConditionExpression, "begins_with")
		assert.Nil(t, stub.query.FilterExpression)
	})

	t.Run("Index", func(t *testing.T) {
		stub := &stubDynamoDB{}
		store := NewDynamoDBItemStore(stub, testSchema)
		_, err := store.Query(ctx, Query{IndexName: "ItemIndex", Partition: "u1", SortKeyEquals: aws.String("abc")})
		require.NoError(t, err)
		assert.Equal(t, "ItemIndex", *stub.query.IndexName)
		names := make([]string, 0)
		for _, n := range stub.query.ExpressionAttributeNames {
			names = append(names, n)
		}
		assert.ElementsMatch(t, []string{"userId", "itemId"}, names)
	})

	t.Run("UnknownIndex", func(t *testing.T) {
		stub := &stubDynamoDB{}
		store := NewDynamoDBItemStore(stub, testSchema)
		_, err := store.Query(ctx, Query{IndexName: "Missing", Partition: "u1"})
		assert.Error(t, err)
		assert.Nil(t, stub.query)
	})

	t.Run("LastKey", func(t *testing.T) {
		last := testSchema.Key("u1", "Dairy#Fridge#a")
		stub := &stubDynamoDB{queryOut: &dynamodb.QueryOutput{LastEvaluatedKey: last}}
		store := NewDynamoDBItemStore(stub, testSchema)
		output, err := store.Query(ctx, Query{Partition: "u1"})
		require.NoError(t, err)
		assert.Equal(t, last, output.LastKey)
	})
}

func TestDynamoDBItemStoreWrites(t *testing.T) {
	ctx := context.Background()
	key := testSchema.Key("u1", "Dairy#Fridge#a")

	t.Run("UpdateSkipsEmpty", func(t *testing.T) {
		stub := &stubDynamoDB{}
		store := NewDynamoDBItemStore(stub, testSchema)
		var missing *string
		_, err := store.Update(ctx, key, Changes{
			"title": aws.String("Milk"),
			"notes": missing,
			"type":  aws.String(""),
			"count": nil,
		})
		require.NoError(t, err)
		require.NotNil(t, stub.update)
		assert.Len(t, stub.update.ExpressionAttributeValues, 1)
		assert.Contains(t, *stub.update.ConditionExpression, "attribute_exists")
		assert.Equal(t, types.ReturnValueAllNew, stub.update.ReturnValues)
	})

	t.Run("UpdateNothingReadsBack", func(t *testing.T) {
		stub := &stubDynamoDB{getOutput: &dynamodb.GetItemOutput{Item: key}}
		store := NewDynamoDBItemStore(stub, testSchema)
		item, err := store.Update(ctx, key, Changes{"notes": aws.String("")})
		require.NoError(t, err)
		assert.Nil(t, stub.update)
		assert.Equal(t, key, item)

		stub = &stubDynamoDB{}
		store = NewDynamoDBItemStore(stub, testSchema)
		_, err = store.Update(ctx, key, Changes{})
		assert.ErrorIs(t, err, ErrConditionFailed)
	})

	t.Run("UpdateConditionFailed", func(t *testing.T) {
		stub := &stubDynamoDB{err: &types.ConditionalCheckFailedException{Message: aws.String("nope")}}
		store := NewDynamoDBItemStore(stub, testSchema)
		_, err := store.Update(ctx, key, Changes{"title": "Milk"})
		assert.ErrorIs(t, err, ErrConditionFailed)
	})

	t.Run("RekeyConditionFailed", func(t *testing.T) {
		stub := &stubDynamoDB{err: &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("ConditionalCheckFailed")},
				{Code: aws.String("None")},
			},
		}}
		store := NewDynamoDBItemStore(stub, testSchema)
		err := store.Rekey(ctx, key, testSchema.Key("u1", "Produce#Fridge#a"))
		assert.ErrorIs(t, err, ErrConditionFailed)
		require.Len(t, stub.transact.TransactItems, 2)
		assert.Equal(t, key, stub.transact.TransactItems[0].Delete.Key)
		assert.NotNil(t, stub.transact.TransactItems[0].Delete.ConditionExpression)
		assert.NotNil(t, stub.transact.TransactItems[1].Put)
	})

	t.Run("AnnotatesApiErrors", func(t *testing.T) {
		cause := &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}
		stub := &stubDynamoDB{err: cause}
		store := NewDynamoDBItemStore(stub, testSchema)
		err := store.Put(ctx, key)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ProvisionedThroughputExceededException")
		var apiErr smithy.APIError
		assert.True(t, errors.As(err, &apiErr))
	})

	t.Run("GetAbsent", func(t *testing.T) {
		stub := &stubDynamoDB{}
		store := NewDynamoDBItemStore(stub, testSchema)
		item, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("Delete", func(t *testing.T) {
		stub := &stubDynamoDB{}
		store := NewDynamoDBItemStore(stub, testSchema)
		require.NoError(t, store.Delete(ctx, key))
		assert.Equal(t, key, stub.del.Key)
	})
}

func TestIsEmptyChange(t *testing.T) {
	var nilString *string
	var nilInt *int
	assert.True(t, IsEmptyChange(nil))
	assert.True(t, IsEmptyChange(nilString))
	assert.True(t, IsEmptyChange(nilInt))
	assert.True(t, IsEmptyChange(""))
	assert.True(t, IsEmptyChange(aws.String("")))
	assert.False(t, IsEmptyChange(aws.String("x")))
	assert.False(t, IsEmptyChange(aws.Int(0)))
	assert.False(t, IsEmptyChange(3))
}
