package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"loadestimator/internal/apperrors"
	"loadestimator/internal/models"
)

// DynamoStore keeps project records in a DynamoDB table keyed by
// (username, project_name).
type DynamoStore struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoStore builds a store from the default AWS credential chain.
func NewDynamoStore(ctx context.Context, region, table string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &DynamoStore{
		client: dynamodb.NewFromConfig(cfg),
		table:  table,
	}, nil
}

func (s *DynamoStore) Put(ctx context.Context, item models.ProjectItem) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

func (s *DynamoStore) Get(ctx context.Context, username, projectName string) (models.ProjectItem, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       itemKey(username, projectName),
	})
	if err != nil {
		return models.ProjectItem{}, apperrors.PersistenceFailure(err)
	}
	if out.Item == nil {
		return models.ProjectItem{}, apperrors.NotFound("project " + projectName)
	}

	var item models.ProjectItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return models.ProjectItem{}, apperrors.PersistenceFailure(err)
	}
	return item, nil
}

func (s *DynamoStore) List(ctx context.Context, username string) ([]models.ProjectItem, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("username = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: username},
		},
	})
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	items := make([]models.ProjectItem, 0, len(out.Items))
	for _, raw := range out.Items {
		var item models.ProjectItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, apperrors.PersistenceFailure(err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *DynamoStore) Delete(ctx context.Context, username, projectName string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       itemKey(username, projectName),
	})
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

func itemKey(username, projectName string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"username":     &types.AttributeValueMemberS{Value: username},
		"project_name": &types.AttributeValueMemberS{Value: projectName},
	}
}
