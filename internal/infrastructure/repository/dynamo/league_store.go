package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	crerr "github.com/cockroachdb/errors"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
)

// maxTransactItems is the DynamoDB limit for one TransactWriteItems call.
const maxTransactItems = 100

// LeagueStore keeps one draft record per league and commits it together with
// roster rows in a single transaction.
type LeagueStore struct {
	client DynamoDBAPI
	tables Tables
}

func NewLeagueStore(client DynamoDBAPI, tables Tables) *LeagueStore {
	return &LeagueStore{client: client, tables: tables}
}

func (s *LeagueStore) Get(ctx context.Context, leagueID string) (draft.Record, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tables.Draft),
		Key:            leagueKey(leagueID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return draft.Record{}, false, crerr.Wrapf(err, "get league record league=%s", leagueID)
	}
	if len(out.Item) == 0 {
		return draft.Record{}, false, nil
	}

	var item recordItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return draft.Record{}, false, crerr.Wrapf(err, "decode league record league=%s", leagueID)
	}
	return recordFromItem(item), true, nil
}

// Commit checks the version and roster conditions against a consistent read
// first, then writes everything in one transaction guarded by the same
// conditions so a concurrent writer still loses.
func (s *LeagueStore) Commit(ctx context.Context, m draft.Mutation) (draft.Record, []roster.Assignment, error) {
	leagueID := m.Record.LeagueID
	if leagueID == "" {
		return draft.Record{}, nil, crerr.New("league id is required")
	}

	current, exists, err := s.Get(ctx, leagueID)
	if err != nil {
		return draft.Record{}, nil, err
	}
	if (!exists && m.ExpectedVersion != 0) || (exists && current.Version != m.ExpectedVersion) {
		return draft.Record{}, nil, fmt.Errorf("%w: league=%s expected version %d, stored %d",
			draft.ErrVersionConflict, leagueID, m.ExpectedVersion, current.Version)
	}

	staged := make(map[string]roster.Assignment, len(m.Roster))
	// stored holds the revision each touched row had before this mutation,
	// -1 when the row did not exist.
	stored := make(map[string]int64, len(m.Roster))
	order := make([]string, 0, len(m.Roster))
	written := make([]roster.Assignment, 0, len(m.Roster))
	for _, change := range m.Roster {
		if change.LeagueID != leagueID {
			return draft.Record{}, nil, fmt.Errorf("%w: change for league %s inside league %s", roster.ErrConflict, change.LeagueID, leagueID)
		}

		row, ok := staged[change.PlayerID]
		if !ok {
			loaded, found, err := s.getRoster(ctx, leagueID, change.PlayerID)
			if err != nil {
				return draft.Record{}, nil, err
			}
			row, ok = loaded, found
			stored[change.PlayerID] = -1
			if found {
				stored[change.PlayerID] = loaded.Revision
			}
			order = append(order, change.PlayerID)
		}

		next, err := roster.Apply(row, ok, change)
		if err != nil {
			return draft.Record{}, nil, err
		}
		staged[change.PlayerID] = next
		written = append(written, next)
	}

	if 1+len(order) > maxTransactItems {
		return draft.Record{}, nil, crerr.Newf("mutation touches %d roster rows, limit is %d", len(order), maxTransactItems-1)
	}

	next := m.Record.Clone()
	next.Version = m.ExpectedVersion + 1

	items := make([]types.TransactWriteItem, 0, 1+len(order))
	recordPut, err := s.recordPut(next, m.ExpectedVersion)
	if err != nil {
		return draft.Record{}, nil, err
	}
	items = append(items, recordPut)
	for _, playerID := range order {
		put, err := s.rosterPut(staged[playerID], stored[playerID])
		if err != nil {
			return draft.Record{}, nil, err
		}
		items = append(items, put)
	}

	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return draft.Record{}, nil, transactError(leagueID, err)
	}

	return next, written, nil
}

func (s *LeagueStore) recordPut(record draft.Record, expectedVersion int64) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(recordToItem(record))
	if err != nil {
		return types.TransactWriteItem{}, crerr.Wrapf(err, "encode league record league=%s", record.LeagueID)
	}

	cond := expression.AttributeNotExists(expression.Name(attrLeagueID))
	if expectedVersion > 0 {
		cond = expression.Name(attrVersion).Equal(expression.Value(expectedVersion))
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return types.TransactWriteItem{}, crerr.Wrap(err, "build league record condition")
	}

	return types.TransactWriteItem{Put: &types.Put{
		TableName:                 aws.String(s.tables.Draft),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}}, nil
}

func (s *LeagueStore) rosterPut(row roster.Assignment, storedRevision int64) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(rosterToItem(row))
	if err != nil {
		return types.TransactWriteItem{}, crerr.Wrapf(err, "encode roster row player=%s", row.PlayerID)
	}

	cond := expression.AttributeNotExists(expression.Name(attrPlayerID))
	if storedRevision >= 0 {
		cond = expression.Name(attrRevision).Equal(expression.Value(storedRevision))
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return types.TransactWriteItem{}, crerr.Wrap(err, "build roster condition")
	}

	return types.TransactWriteItem{Put: &types.Put{
		TableName:                 aws.String(s.tables.Roster),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}}, nil
}

func (s *LeagueStore) getRoster(ctx context.Context, leagueID, playerID string) (roster.Assignment, bool, error) {
	return getRosterRow(ctx, s.client, s.tables.Roster, leagueID, playerID)
}

// transactError maps cancellation reasons onto domain conflicts. The record
// put is always the first item of the transaction.
func transactError(leagueID string, err error) error {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return crerr.Wrapf(err, "commit league=%s", leagueID)
	}

	for i, reason := range canceled.CancellationReasons {
		code := aws.ToString(reason.Code)
		switch code {
		case "ConditionalCheckFailed":
			if i == 0 {
				return fmt.Errorf("%w: league=%s record condition failed", draft.ErrVersionConflict, leagueID)
			}
			return fmt.Errorf("%w: league=%s roster condition failed", roster.ErrConflict, leagueID)
		case "TransactionConflict":
			return fmt.Errorf("%w: league=%s concurrent transaction", draft.ErrVersionConflict, leagueID)
		}
	}

	return crerr.Wrapf(err, "commit league=%s", leagueID)
}

func leagueKey(leagueID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrLeagueID: &types.AttributeValueMemberS{Value: leagueID},
	}
}

func rosterKey(leagueID, playerID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrLeagueID: &types.AttributeValueMemberS{Value: leagueID},
		attrPlayerID: &types.AttributeValueMemberS{Value: playerID},
	}
}
