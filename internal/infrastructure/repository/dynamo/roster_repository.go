package dynamo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
)

const (
	maxBatchWrite       = 25
	maxBatchAttempts    = 6
	defaultDeleteWorker = 4
)

var batchBackoff = 120 * time.Millisecond

type RosterRepository struct {
	client  DynamoDBAPI
	table   string
	workers int
	submit  func(pool *ants.Pool, task func()) error
}

func NewRosterRepository(client DynamoDBAPI, table string) *RosterRepository {
	return &RosterRepository{
		client:  client,
		table:   table,
		workers: defaultDeleteWorker,
		submit:  (*ants.Pool).Submit,
	}
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Assignment, error) {
	items, err := r.queryLeague(ctx, leagueID, false)
	if err != nil {
		return nil, err
	}

	out := make([]roster.Assignment, 0, len(items))
	for _, raw := range items {
		var item rosterItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, crerr.Wrapf(err, "decode roster row league=%s", leagueID)
		}
		out = append(out, rosterFromItem(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *RosterRepository) Get(ctx context.Context, leagueID, playerID string) (roster.Assignment, bool, error) {
	return getRosterRow(ctx, r.client, r.table, leagueID, playerID)
}

// DeleteByLeague removes every roster row of the league in parallel batches.
func (r *RosterRepository) DeleteByLeague(ctx context.Context, leagueID string) (int, error) {
	keys, err := r.queryLeague(ctx, leagueID, true)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	batches := make([][]types.WriteRequest, 0, len(keys)/maxBatchWrite+1)
	for start := 0; start < len(keys); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(keys))
		reqs := make([]types.WriteRequest, 0, end-start)
		for _, key := range keys[start:end] {
			reqs = append(reqs, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
		}
		batches = append(batches, reqs)
	}

	pool, err := ants.NewPool(min(r.workers, len(batches)))
	if err != nil {
		return 0, crerr.Wrap(err, "create roster delete pool")
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	// Submitted batches always finish before returning, even when a later
	// submit fails.
	for _, reqs := range batches {
		wg.Add(1)
		if err := r.submit(pool, func() {
			defer wg.Done()
			if err := batchWriteWithRetry(ctx, r.client, r.table, reqs); err != nil {
				setErr(err)
			}
		}); err != nil {
			wg.Done()
			setErr(crerr.Wrap(err, "submit roster delete batch"))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return 0, crerr.Wrapf(firstErr, "delete roster rows league=%s", leagueID)
	}
	return len(keys), nil
}

func (r *RosterRepository) queryLeague(ctx context.Context, leagueID string, keysOnly bool) ([]map[string]types.AttributeValue, error) {
	builder := expression.NewBuilder().WithKeyCondition(expression.Key(attrLeagueID).Equal(expression.Value(leagueID)))
	if keysOnly {
		builder = builder.WithProjection(expression.NamesList(expression.Name(attrLeagueID), expression.Name(attrPlayerID)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, crerr.Wrap(err, "build roster query")
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	}
	if keysOnly {
		input.ProjectionExpression = expr.Projection()
	}

	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, crerr.Wrapf(err, "query roster league=%s", leagueID)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func getRosterRow(ctx context.Context, client DynamoDBAPI, table, leagueID, playerID string) (roster.Assignment, bool, error) {
	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(table),
		Key:            rosterKey(leagueID, playerID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return roster.Assignment{}, false, crerr.Wrapf(err, "get roster row league=%s player=%s", leagueID, playerID)
	}
	if len(out.Item) == 0 {
		return roster.Assignment{}, false, nil
	}

	var item rosterItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return roster.Assignment{}, false, crerr.Wrapf(err, "decode roster row player=%s", playerID)
	}
	return rosterFromItem(item), true, nil
}

// batchWriteWithRetry resubmits unprocessed items with a growing pause.
func batchWriteWithRetry(ctx context.Context, client DynamoDBAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	backoff := batchBackoff

	for attempt := 0; attempt < maxBatchAttempts; attempt++ {
		out, err := client.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if backoff < 2*time.Second {
			backoff += batchBackoff
		}
	}
	return crerr.Newf("unprocessed items remained after retries for table %s", table)
}
