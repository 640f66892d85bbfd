package dynamo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var testTables = Tables{
	Draft:   "draft",
	Roster:  "roster",
	Players: "players",
	Teams:   "teams",
}

var tableKeys = map[string][]string{
	"draft":   {"league_id"},
	"roster":  {"league_id", "player_id"},
	"players": {"player_id"},
	"teams":   {"league_id", "team_id"},
}

// fakeDDB is an in-memory table set implementing DynamoDBAPI. Write
// conditions are not evaluated; tests inject transactErr instead.
type fakeDDB struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	transactErr   error
	transactCalls []*dynamodb.TransactWriteItemsInput
	batchCalls    int
	// unprocessedOnce echoes the first batch back as unprocessed.
	unprocessedOnce bool
	failWith        error
	batchDelay      time.Duration
}

func newFakeDDB() *fakeDDB {
	return &fakeDDB{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func itemKey(table string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range tableKeys[table] {
		if v, ok := item[attr].(*types.AttributeValueMemberS); ok {
			parts = append(parts, v.Value)
		}
	}
	return strings.Join(parts, "#")
}

func (f *fakeDDB) put(table string, item map[string]types.AttributeValue) {
	if f.tables[table] == nil {
		f.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	f.tables[table][itemKey(table, item)] = item
}

func (f *fakeDDB) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeDDB) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}
	return &dynamodb.GetItemOutput{Item: f.tables[*in.TableName][itemKey(*in.TableName, in.Key)]}, nil
}

func (f *fakeDDB) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	var leagueID string
	for _, v := range in.ExpressionAttributeValues {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			leagueID = s.Value
		}
	}

	out := &dynamodb.QueryOutput{}
	for _, item := range f.tables[*in.TableName] {
		if v, ok := item["league_id"].(*types.AttributeValueMemberS); ok && v.Value == leagueID {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (f *fakeDDB) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := &dynamodb.ScanOutput{}
	for _, item := range f.tables[*in.TableName] {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (f *fakeDDB) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if f.batchDelay > 0 {
		time.Sleep(f.batchDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batchCalls++
	if f.unprocessedOnce {
		f.unprocessedOnce = false
		return &dynamodb.BatchWriteItemOutput{UnprocessedItems: in.RequestItems}, nil
	}

	for table, reqs := range in.RequestItems {
		for _, req := range reqs {
			switch {
			case req.DeleteRequest != nil:
				delete(f.tables[table], itemKey(table, req.DeleteRequest.Key))
			case req.PutRequest != nil:
				f.put(table, req.PutRequest.Item)
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeDDB) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transactCalls = append(f.transactCalls, in)
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.transactErr != nil {
		err := f.transactErr
		f.transactErr = nil
		return nil, err
	}

	for _, item := range in.TransactItems {
		if item.Put == nil {
			return nil, errors.New("fake supports put only")
		}
		f.put(*item.Put.TableName, item.Put.Item)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}
