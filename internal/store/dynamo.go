package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"nirvana-heritage/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// dynamoUser is the item shape in the users table.
type dynamoUser struct {
	UserID       string `dynamodbav:"user_id"`
	Username     string `dynamodbav:"username"`
	Email        string `dynamodbav:"email"`
	PasswordHash string `dynamodbav:"password"`
	IsAdmin      bool   `dynamodbav:"is_admin"`
	CreatedAt    string `dynamodbav:"created_at"`
}

type dynamoLogEntry struct {
	LogID     string `dynamodbav:"log_id"`
	Message   string `dynamodbav:"message"`
	Timestamp string `dynamodbav:"timestamp"`
}

// DynamoClient is the subset of the DynamoDB API the stores use.
type DynamoClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoUserDirectory stores users as items in a DynamoDB table keyed by
// user_id.
type DynamoUserDirectory struct {
	Client DynamoClient
	Table  string
}

// NewDynamoClient builds a DynamoDB client from the default AWS config chain.
func NewDynamoClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func NewDynamoUserDirectory(client DynamoClient, table string) *DynamoUserDirectory {
	return &DynamoUserDirectory{Client: client, Table: table}
}

func (d *DynamoUserDirectory) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	// uniqueness check scans the table; acceptable at directory scale and
	// mirrors the single-table item layout
	existing, err := d.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range existing {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateIdentity
		}
	}

	item, err := attributevalue.MarshalMap(dynamoUser{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.Table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ErrDuplicateIdentity
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (d *DynamoUserDirectory) ByID(ctx context.Context, id string) (*models.User, error) {
	out, err := d.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.Table),
		Key:       userKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var item dynamoUser
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return item.toModel(), nil
}

func (d *DynamoUserDirectory) ByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (d *DynamoUserDirectory) List(ctx context.Context) ([]models.User, error) {
	var users []models.User

	paginator := dynamodb.NewScanPaginator(d.Client, &dynamodb.ScanInput{
		TableName: aws.String(d.Table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan users: %w", err)
		}
		var items []dynamoUser
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal users: %w", err)
		}
		for _, item := range items {
			users = append(users, *item.toModel())
		}
	}
	return users, nil
}

func (d *DynamoUserDirectory) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	_, err := d.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.Table),
		Key:                 userKey(id),
		UpdateExpression:    aws.String("SET is_admin = :v"),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberBOOL{Value: isAdmin},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ErrNotFound
		}
		return fmt.Errorf("set admin: %w", err)
	}
	return nil
}

func (d *DynamoUserDirectory) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := d.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.Table),
		Key:                 userKey(id),
		UpdateExpression:    aws.String("SET password = :v"),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: passwordHash},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ErrNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (d *DynamoUserDirectory) Delete(ctx context.Context, id string) error {
	_, err := d.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(d.Table),
		Key:                 userKey(id),
		ConditionExpression: aws.String("attribute_exists(user_id)"),
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func userKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id": &types.AttributeValueMemberS{Value: id},
	}
}

func (u dynamoUser) toModel() *models.User {
	createdAt, _ := time.Parse(time.RFC3339, u.CreatedAt)
	return &models.User{
		ID:           u.UserID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    createdAt,
	}
}

// DynamoAdminLog appends audit entries to a DynamoDB table keyed by log_id.
type DynamoAdminLog struct {
	Client DynamoClient
	Table  string
}

func NewDynamoAdminLog(client DynamoClient, table string) *DynamoAdminLog {
	return &DynamoAdminLog{Client: client, Table: table}
}

func (l *DynamoAdminLog) Append(ctx context.Context, message string) error {
	item, err := attributevalue.MarshalMap(dynamoLogEntry{
		LogID:     uuid.NewString(),
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal log entry: %w", err)
	}

	_, err = l.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.Table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("append admin log: %w", err)
	}
	return nil
}

func (l *DynamoAdminLog) Recent(ctx context.Context, limit int) ([]models.AdminLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	// full scan for display only; the table is append-only and small
	out, err := l.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(l.Table),
	})
	if err != nil {
		return nil, fmt.Errorf("scan admin log: %w", err)
	}

	var items []dynamoLogEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshal admin log: %w", err)
	}

	entries := make([]models.AdminLogEntry, 0, len(items))
	for _, item := range items {
		ts, _ := time.Parse(time.RFC3339, item.Timestamp)
		entries = append(entries, models.AdminLogEntry{
			LogID:     item.LogID,
			Message:   item.Message,
			CreatedAt: ts,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
