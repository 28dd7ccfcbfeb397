package services

import (
	"context"
	"errors"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConditionFailed is returned when a write's "record exists" precondition does not hold.
var ErrConditionFailed = errors.New("condition failed: item does not exist")

type Item = map[string]types.AttributeValue

type IndexSchema struct {
	PartitionKey string
	SortKey      string
}

type TableSchema struct {
	TableName    string
	PartitionKey string
	SortKey      string
	Indexes      map[string]IndexSchema
}

func (ts TableSchema) Key(partition string, sort string) Item {
	return Item{
		ts.PartitionKey: &types.AttributeValueMemberS{Value: partition},
		ts.SortKey:      &types.AttributeValueMemberS{Value: sort},
	}
}

// KeyNames resolves the partition and sort attributes of the table or one of its indexes.
func (ts TableSchema) KeyNames(indexName string) (string, string, bool) {
	if indexName == "" {
		return ts.PartitionKey, ts.SortKey, true
	}
	index, ok := ts.Indexes[indexName]
	if !ok {
		return "", "", false
	}
	return index.PartitionKey, index.SortKey, true
}

// Filter is an equality predicate applied after the key condition and limit.
type Filter struct {
	Name  string
	Value string
}

type Query struct {
	IndexName     string
	Partition     string
	SortKeyPrefix string
	SortKeyEquals *string
	Filters       []Filter
	Limit         *int32
	StartKey      Item
}

type QueryOutput struct {
	Items   []Item
	LastKey Item
}

// Changes maps attribute names to new values. Nil values, nil pointers and
// empty strings are skipped and never written.
type Changes map[string]interface{}

func IsEmptyChange(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	return v.Kind() == reflect.String && v.Len() == 0
}

type ItemStore interface {
	Schema() TableSchema
	Get(ctx context.Context, key Item) (Item, error)
	Put(ctx context.Context, item Item) error
	Update(ctx context.Context, key Item, changes Changes) (Item, error)
	Delete(ctx context.Context, key Item) error
	Query(ctx context.Context, query Query) (QueryOutput, error)
	Rekey(ctx context.Context, fromKey Item, item Item) error
}
