package dynamo

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	crerr "github.com/cockroachdb/errors"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
)

// PlayerRepository reads the players table, keyed by player_id.
type PlayerRepository struct {
	client DynamoDBAPI
	table  string
}

func NewPlayerRepository(client DynamoDBAPI, table string) *PlayerRepository {
	return &PlayerRepository{client: client, table: table}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	var out []player.Player
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.table)})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, crerr.Wrap(err, "scan players")
		}

		var items []playerItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, crerr.Wrap(err, "decode players")
		}
		for _, item := range items {
			out = append(out, playerFromItem(item))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			attrPlayerID: &types.AttributeValueMemberS{Value: playerID},
		},
	})
	if err != nil {
		return player.Player{}, false, crerr.Wrapf(err, "get player id=%s", playerID)
	}
	if len(out.Item) == 0 {
		return player.Player{}, false, nil
	}

	var item playerItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return player.Player{}, false, crerr.Wrapf(err, "decode player id=%s", playerID)
	}
	return playerFromItem(item), true, nil
}

// FantasyTeamRepository reads the teams table, keyed by league_id and team_id.
type FantasyTeamRepository struct {
	client DynamoDBAPI
	table  string
}

func NewFantasyTeamRepository(client DynamoDBAPI, table string) *FantasyTeamRepository {
	return &FantasyTeamRepository{client: client, table: table}
}

func (r *FantasyTeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]fantasyteam.Team, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(attrLeagueID).Equal(expression.Value(leagueID))).
		Build()
	if err != nil {
		return nil, crerr.Wrap(err, "build teams query")
	}

	var out []fantasyteam.Team
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, crerr.Wrapf(err, "query teams league=%s", leagueID)
		}

		var items []teamItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, crerr.Wrapf(err, "decode teams league=%s", leagueID)
		}
		for _, item := range items {
			out = append(out, teamFromItem(item))
		}
	}
	return out, nil
}
