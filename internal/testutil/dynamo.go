// Package testutil provides an in-memory DynamoDB stand-in for unit tests.
// It implements just enough of the API the stores use: keyed puts and gets,
// simple SET update expressions, the condition forms the stores issue, email
// queries against the GSI, scans and transactional writes.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// keyAttrs are tried in order when locating an item's partition key.
// payment items carry an order_id attribute too, so payment_id is tried first.
var keyAttrs = []string{"book_id", "payment_id", "order_id", "email"}

// Dynamo is an in-memory aws.DynamoDBAPI implementation.
type Dynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	PutCalls      int
	UpdateCalls   int
	TransactCalls int
}

// NewDynamo returns an empty in-memory store.
func NewDynamo() *Dynamo {
	return &Dynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

// Item returns the raw stored item, for assertions.
func (m *Dynamo) Item(table, pk string) map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[table][pk]
}

// Len returns the number of items in a table.
func (m *Dynamo) Len(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

// Seed stores an item directly, bypassing conditions.
func (m *Dynamo) Seed(table string, item map[string]types.AttributeValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureTable(table)
	pk, err := pkOf(item)
	if err != nil {
		panic(err)
	}
	m.tables[table][pk] = item
}

func (m *Dynamo) ensureTable(tbl string) {
	if _, ok := m.tables[tbl]; !ok {
		m.tables[tbl] = map[string]map[string]types.AttributeValue{}
	}
}

func pkOf(attrs map[string]types.AttributeValue) (string, error) {
	for _, k := range keyAttrs {
		if v, ok := attrs[k]; ok {
			if s, ok := v.(*types.AttributeValueMemberS); ok {
				return s.Value, nil
			}
		}
	}
	return "", errors.New("no known key attribute")
}

// evalCondition handles the condition forms the stores issue:
// attribute_not_exists(a), attribute_exists(a), a <> :v, joined by AND.
func evalCondition(expr string, item map[string]types.AttributeValue, exists bool,
	names map[string]string, values map[string]types.AttributeValue) bool {
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.TrimSpace(clause)
		switch {
		case strings.HasPrefix(clause, "attribute_not_exists("):
			if exists {
				return false
			}
		case strings.HasPrefix(clause, "attribute_exists("):
			if !exists {
				return false
			}
		case strings.Contains(clause, "<>"):
			parts := strings.SplitN(clause, "<>", 2)
			attr := strings.TrimSpace(parts[0])
			if resolved, ok := names[attr]; ok {
				attr = resolved
			}
			want, ok := values[strings.TrimSpace(parts[1])].(*types.AttributeValueMemberS)
			if !ok {
				return false
			}
			if !exists {
				continue
			}
			if got, ok := item[attr].(*types.AttributeValueMemberS); ok && got.Value == want.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// applyUpdate handles "SET a = :x, #b = :y" expressions.
func applyUpdate(expr string, item map[string]types.AttributeValue,
	names map[string]string, values map[string]types.AttributeValue) {
	expr = strings.TrimPrefix(expr, "SET ")
	for _, assign := range strings.Split(expr, ",") {
		parts := strings.SplitN(assign, "=", 2)
		if len(parts) != 2 {
			continue
		}
		attr := strings.TrimSpace(parts[0])
		if resolved, ok := names[attr]; ok {
			attr = resolved
		}
		if v, ok := values[strings.TrimSpace(parts[1])]; ok {
			item[attr] = v
		}
	}
}

func (m *Dynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++

	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Item)
	if err != nil {
		return nil, err
	}
	existing, exists := m.tables[table][pk]
	if params.ConditionExpression != nil &&
		!evalCondition(*params.ConditionExpression, existing, exists, params.ExpressionAttributeNames, params.ExpressionAttributeValues) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	m.tables[table][pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *Dynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.tables[table][pk]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *Dynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++

	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := m.tables[table][pk]
	if params.ConditionExpression != nil &&
		!evalCondition(*params.ConditionExpression, item, exists, params.ExpressionAttributeNames, params.ExpressionAttributeValues) {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if !exists {
		// DynamoDB upserts on unconditional updates; keep the key attribute
		item = map[string]types.AttributeValue{}
		for k, v := range params.Key {
			item[k] = v
		}
	}
	if params.UpdateExpression != nil {
		applyUpdate(*params.UpdateExpression, item, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	}
	m.tables[table][pk] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *Dynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := *params.TableName
	m.ensureTable(table)
	pk, err := pkOf(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.tables[table], pk)
	return &dyn.DeleteItemOutput{}, nil
}

// Query supports the email-index form: KeyConditionExpression "email = :email",
// newest first when ScanIndexForward is false.
func (m *Dynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := *params.TableName
	m.ensureTable(table)
	if params.KeyConditionExpression == nil || *params.KeyConditionExpression != "email = :email" {
		return nil, errors.New("unsupported key condition")
	}
	want, ok := params.ExpressionAttributeValues[":email"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :email value")
	}

	var items []map[string]types.AttributeValue
	for _, item := range m.tables[table] {
		if e, ok := item["email"].(*types.AttributeValueMemberS); ok && e.Value == want.Value {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		a, _ := items[i]["created_at"].(*types.AttributeValueMemberS)
		b, _ := items[j]["created_at"].(*types.AttributeValueMemberS)
		if a == nil || b == nil {
			return false
		}
		return a.Value < b.Value
	})
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return &dyn.QueryOutput{Items: items}, nil
}

func (m *Dynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := *params.TableName
	m.ensureTable(table)
	var items []map[string]types.AttributeValue
	for _, item := range m.tables[table] {
		items = append(items, item)
	}
	return &dyn.ScanOutput{Items: items}, nil
}

// TransactWriteItems validates every condition first, then applies all writes,
// mirroring DynamoDB's all-or-nothing semantics.
func (m *Dynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransactCalls++

	// first pass: conditions
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil && p.ConditionExpression != nil {
			table := *p.TableName
			m.ensureTable(table)
			pk, err := pkOf(p.Item)
			if err != nil {
				return nil, err
			}
			existing, exists := m.tables[table][pk]
			if !evalCondition(*p.ConditionExpression, existing, exists, p.ExpressionAttributeNames, p.ExpressionAttributeValues) {
				return nil, &types.TransactionCanceledException{}
			}
		}
		if u := it.Update; u != nil && u.ConditionExpression != nil {
			table := *u.TableName
			m.ensureTable(table)
			pk, err := pkOf(u.Key)
			if err != nil {
				return nil, err
			}
			existing, exists := m.tables[table][pk]
			if !evalCondition(*u.ConditionExpression, existing, exists, u.ExpressionAttributeNames, u.ExpressionAttributeValues) {
				return nil, &types.TransactionCanceledException{}
			}
		}
	}

	// second pass: apply
	for _, it := range params.TransactItems {
		if p := it.Put; p != nil {
			table := *p.TableName
			m.ensureTable(table)
			pk, err := pkOf(p.Item)
			if err != nil {
				return nil, err
			}
			m.tables[table][pk] = p.Item
		}
		if u := it.Update; u != nil {
			table := *u.TableName
			m.ensureTable(table)
			pk, err := pkOf(u.Key)
			if err != nil {
				return nil, err
			}
			item, exists := m.tables[table][pk]
			if !exists {
				item = map[string]types.AttributeValue{}
				for k, v := range u.Key {
					item[k] = v
				}
			}
			if u.UpdateExpression != nil {
				applyUpdate(*u.UpdateExpression, item, u.ExpressionAttributeNames, u.ExpressionAttributeValues)
			}
			m.tables[table][pk] = item
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}
