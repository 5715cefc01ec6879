package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/mahib2121/BoiGhor-Server/internal/aws"
)

// ErrNotFound indicates the book does not exist.
var ErrNotFound = errors.New("book not found")

// Store encapsulates operations on the books table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new books Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create persists a new book and returns it with its generated id.
func (s *Store) Create(ctx context.Context, b Book) (*Book, error) {
	now := s.nowFunc().UTC()
	b.BookID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now

	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return nil, fmt.Errorf("marshal book: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(book_id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("put book: %w", err)
	}
	return &b, nil
}

// Get fetches a book by book_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, bookID string) (*Book, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"book_id": &types.AttributeValueMemberS{Value: bookID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var b Book
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, fmt.Errorf("unmarshal book: %w", err)
	}
	return &b, nil
}

// List returns the catalogue, optionally only trending titles. Filtering
// happens client-side after the scan; the catalogue is small.
func (s *Store) List(ctx context.Context, trendingOnly bool) ([]Book, error) {
	out, err := s.client.Scan(ctx, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	list := make([]Book, 0, len(out.Items))
	for _, item := range out.Items {
		var b Book
		if err := attributevalue.UnmarshalMap(item, &b); err != nil {
			return nil, fmt.Errorf("unmarshal book: %w", err)
		}
		if trendingOnly && !b.Trending {
			continue
		}
		list = append(list, b)
	}
	return list, nil
}

// Update replaces an existing book. The write is conditional on the book
// existing so a concurrent delete cannot resurrect it.
func (s *Store) Update(ctx context.Context, b Book) error {
	b.UpdatedAt = s.nowFunc().UTC()
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_exists(book_id)"),
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// Delete removes a book by id.
func (s *Store) Delete(ctx context.Context, bookID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"book_id": &types.AttributeValueMemberS{Value: bookID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
