package test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"kitchenwise.dev/api/internal/dynamodb/services"
)

// MemoryItemStore emulates the DynamoDB semantics the services rely on:
// sort key ordering, Limit counted before filters, LastKey paging, secondary
// index queries and the "record exists" write precondition.
type MemoryItemStore struct {
	Table  services.TableSchema
	Err    error
	Writes int
	mutex  sync.Mutex
	items  map[string]map[string]services.Item
}

func NewMemoryItemStore(schema services.TableSchema) *MemoryItemStore {
	return &MemoryItemStore{
		Table: schema,
		items: make(map[string]map[string]services.Item),
	}
}

func _s(item services.Item, name string) (string, bool) {
	if sv, ok := item[name].(*types.AttributeValueMemberS); ok {
		return sv.Value, true
	}
	return "", false
}

func _copy(item services.Item) services.Item {
	copied := make(services.Item, len(item))
	for k, v := range item {
		copied[k] = v
	}
	return copied
}

func (ms *MemoryItemStore) _keys(item services.Item) (string, string) {
	pk, _ := _s(item, ms.Table.PartitionKey)
	sk, _ := _s(item, ms.Table.SortKey)
	return pk, sk
}

func (ms *MemoryItemStore) _lookup(key services.Item) services.Item {
	pk, sk := ms._keys(key)
	if partition, ok := ms.items[pk]; ok {
		return partition[sk]
	}
	return nil
}

func (ms *MemoryItemStore) _put(item services.Item) {
	pk, sk := ms._keys(item)
	partition, ok := ms.items[pk]
	if !ok {
		partition = make(map[string]services.Item)
		ms.items[pk] = partition
	}
	partition[sk] = _copy(item)
	ms.Writes++
}

func (ms *MemoryItemStore) _delete(key services.Item) {
	pk, sk := ms._keys(key)
	if partition, ok := ms.items[pk]; ok {
		delete(partition, sk)
	}
	ms.Writes++
}

// Fail makes every following call return err until Fail(nil).
func (ms *MemoryItemStore) Fail(err error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	ms.Err = err
}

// Snapshot returns every stored item ordered by key.
func (ms *MemoryItemStore) Snapshot() []services.Item {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	var all []services.Item
	for _, partition := range ms.items {
		for _, item := range partition {
			all = append(all, _copy(item))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		pi, si := ms._keys(all[i])
		pj, sj := ms._keys(all[j])
		if pi != pj {
			return pi < pj
		}
		return si < sj
	})
	return all
}

func (ms *MemoryItemStore) Schema() services.TableSchema {
	return ms.Table
}

func (ms *MemoryItemStore) Get(ctx context.Context, key services.Item) (services.Item, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if ms.Err != nil {
		return nil, ms.Err
	}
	if item := ms._lookup(key); item != nil {
		return _copy(item), nil
	}
	return nil, nil
}

func (ms *MemoryItemStore) Put(ctx context.Context, item services.Item) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if ms.Err != nil {
		return ms.Err
	}
	ms._put(item)
	return nil
}

func (ms *MemoryItemStore) Update(ctx context.Context, key services.Item, changes services.Changes) (services.Item, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if ms.Err != nil {
		return nil, ms.Err
	}
	existing := ms._lookup(key)
	if existing == nil {
		return nil, services.ErrConditionFailed
	}
	updated := _copy(existing)
	written := false
	for name, value := range changes {
		if services.IsEmptyChange(value) {
			continue
		}
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, err
		}
		updated[name] = av
		written = true
	}
	if written {
		ms._put(updated)
	}
	return _copy(updated), nil
}

func (ms *MemoryItemStore) Delete(ctx context.Context, key services.Item) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if ms.Err != nil {
		return ms.Err
	}
	if ms._lookup(key) != nil {
		ms._delete(key)
	}
	return nil
}

func (ms *MemoryItemStore) Rekey(ctx context.Context, fromKey services.Item, item services.Item) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if ms.Err != nil {
		return ms.Err
	}
	if ms._lookup(fromKey) == nil {
		return services.ErrConditionFailed
	}
	ms._delete(fromKey)
	ms._put(item)
	return nil
}

func (ms *MemoryItemStore) Query(ctx context.Context, query services.Query) (services.QueryOutput, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if ms.Err != nil {
		return services.QueryOutput{}, ms.Err
	}
	pkName, skName, ok := ms.Table.KeyNames(query.IndexName)
	if !ok {
		return services.QueryOutput{}, fmt.Errorf("unknown index %s", query.IndexName)
	}
	var candidates []services.Item
	for _, partition := range ms.items {
		for _, item := range partition {
			pk, hasPk := _s(item, pkName)
			sk, hasSk := _s(item, skName)
			if !hasPk || !hasSk || pk != query.Partition {
				continue
			}
			if query.SortKeyEquals != nil && sk != *query.SortKeyEquals {
				continue
			}
			if !strings.HasPrefix(sk, query.SortKeyPrefix) {
				continue
			}
			candidates = append(candidates, item)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		si, _ := _s(candidates[i], skName)
		sj, _ := _s(candidates[j], skName)
		if si != sj {
			return si < sj
		}
		_, ti := ms._keys(candidates[i])
		_, tj := ms._keys(candidates[j])
		return ti < tj
	})
	if query.StartKey != nil {
		_, startSk := ms._keys(query.StartKey)
		for i, item := range candidates {
			if _, sk := ms._keys(item); sk == startSk {
				candidates = candidates[i+1:]
				break
			}
		}
	}
	evaluated := candidates
	var lastKey services.Item
	if query.Limit != nil && int(*query.Limit) < len(candidates) {
		evaluated = candidates[:*query.Limit]
		last := evaluated[len(evaluated)-1]
		pk, sk := ms._keys(last)
		lastKey = ms.Table.Key(pk, sk)
		if query.IndexName != "" {
			lastKey[pkName] = last[pkName]
			lastKey[skName] = last[skName]
		}
	}
	output := services.QueryOutput{
		Items:   []services.Item{},
		LastKey: lastKey,
	}
	for _, item := range evaluated {
		matches := true
		for _, filter := range query.Filters {
			if value, ok := _s(item, filter.Name); !ok || value != filter.Value {
				matches = false
				break
			}
		}
		if matches {
			output.Items = append(output.Items, _copy(item))
		}
	}
	return output, nil
}
