package db

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/empathybot/internal/replies"
	"github.com/spacesedan/empathybot/internal/sentiment"
)

const (
	REPLIES_TABLE_NAME = "Replies"
	maxBatchSize       = 25
	maxWriteRetries    = 3
)

// DynamoDBAPI is the subset of the DynamoDB client the reply store uses.
type DynamoDBAPI interface {
	dynamodb.ScanAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// ReplyItem is one row of the replies table. The table key is
// (category, position); position keeps each category's list ordered.
type ReplyItem struct {
	Category string `dynamodbav:"category"`
	Position int    `dynamodbav:"position"`
	Text     string `dynamodbav:"text"`
}

type replyKey struct {
	category string
	position int
}

func (r ReplyItem) key() replyKey {
	return replyKey{category: r.Category, position: r.Position}
}

func scanReplyItems(ctx context.Context, client dynamodb.ScanAPIClient, tableName string) ([]ReplyItem, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}

	var items []ReplyItem
	paginator := dynamodb.NewScanPaginator(client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for replies failed: %w", err)
		}

		var page []ReplyItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("[DynamoDB] Unable to unmarshal reply page: %w", err)
		}
		items = append(items, page...)
	}
	return items, nil
}

// LoadReplyTable scans tableName and builds a reply table from its rows.
func LoadReplyTable(ctx context.Context, client dynamodb.ScanAPIClient, tableName string) (*replies.Table, error) {
	items, err := scanReplyItems(ctx, client, tableName)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Position < items[j].Position
	})

	entries := make(map[sentiment.Category][]string)
	for _, item := range items {
		category, err := sentiment.ParseCategory(item.Category)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] %s: %w", tableName, err)
		}
		entries[category] = append(entries[category], item.Text)
	}

	table, err := replies.NewTable(entries)
	if err != nil {
		return nil, err
	}

	slog.Info("[DynamoDB] Successfully loaded reply table",
		slog.String("table", tableName),
		slog.Int("count", len(items)))
	return table, nil
}

// StoreReplyTable replaces the contents of tableName with table. Rows the
// new table does not cover are deleted, so a shorter table never inherits
// old replies. Writes go out in batches of 25, retrying unprocessed items
// with exponential backoff.
func StoreReplyTable(ctx context.Context, client DynamoDBAPI, tableName string, table *replies.Table) error {
	existing, err := scanReplyItems(ctx, client, tableName)
	if err != nil {
		return err
	}

	keep := make(map[replyKey]bool, table.Len())
	writeRequests := make([]types.WriteRequest, 0, table.Len())
	for _, category := range replies.RequiredCategories {
		for position, text := range table.Replies(category) {
			keep[replyKey{category: category.String(), position: position}] = true
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{
					Item: map[string]types.AttributeValue{
						"category": &types.AttributeValueMemberS{Value: category.String()},
						"position": &types.AttributeValueMemberN{Value: strconv.Itoa(position)},
						"text":     &types.AttributeValueMemberS{Value: text},
					},
				},
			})
		}
	}

	var stale int
	for _, item := range existing {
		if keep[item.key()] {
			continue
		}
		stale++
		writeRequests = append(writeRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"category": &types.AttributeValueMemberS{Value: item.Category},
					"position": &types.AttributeValueMemberN{Value: strconv.Itoa(item.Position)},
				},
			},
		})
	}

	for i := 0; i < len(writeRequests); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := min(i+maxBatchSize, len(writeRequests))
		if err := batchWrite(ctx, client, tableName, writeRequests[i:end]); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored reply table",
		slog.String("table", tableName),
		slog.Int("count", table.Len()),
		slog.Int("deleted", stale))
	return nil
}

func batchWrite(ctx context.Context, client DynamoDBAPI, tableName string, requests []types.WriteRequest) error {
	out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			tableName: requests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write replies: %w", err)
	}

	retryCount := 0
	backoff := 500 * time.Millisecond
	for len(out.UnprocessedItems) > 0 && retryCount < maxWriteRetries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed reply items...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[tableName])))

		out, err = client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[tableName]); remaining > 0 {
		return fmt.Errorf("[DynamoDB] %d reply items not written after %d retries", remaining, maxWriteRetries)
	}
	return nil
}
