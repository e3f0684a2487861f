package dynamodb

import (
	"context"
	"fmt"
	"time"

	"memoir-backend/application/ports"
	"memoir-backend/domain/core/entities"
	"memoir-backend/domain/core/valueobjects"
	pkgerrors "memoir-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// LifeEventRepository implements read access to the externally curated
// life-event store backed by DynamoDB
type LifeEventRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewLifeEventRepository creates a new LifeEventRepository
func NewLifeEventRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.LifeEventRepository {
	return &LifeEventRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// lifeEventItem represents the DynamoDB item structure for a life event
type lifeEventItem struct {
	PK              string   `dynamodbav:"PK"`
	SK              string   `dynamodbav:"SK"`
	GSI1PK          string   `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK          string   `dynamodbav:"GSI1SK,omitempty"`
	EntityType      string   `dynamodbav:"EntityType"`
	EventID         string   `dynamodbav:"EventID"`
	UserID          string   `dynamodbav:"UserID"`
	EventTypeName   string   `dynamodbav:"EventTypeName"`
	Name            string   `dynamodbav:"Name"`
	EventDate       string   `dynamodbav:"EventDate"`
	Location        string   `dynamodbav:"Location,omitempty"`
	Description     string   `dynamodbav:"Description,omitempty"`
	DetectionMethod string   `dynamodbav:"DetectionMethod,omitempty"`
	PhotoIDs        []string `dynamodbav:"PhotoIDs,omitempty"`
}

// GetByID retrieves a life event by its ID via the entity index
func (r *LifeEventRepository) GetByID(ctx context.Context, id valueobjects.LifeEventID) (*entities.LifeEvent, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENT#%s", id.String())},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query life event", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("life event %s", id.String()))
	}

	var item lifeEventItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal life event: %w", err)
	}
	return r.toEntity(item)
}

// GetByUserID retrieves all life events for a user
func (r *LifeEventRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.LifeEvent, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: "EVENT#"},
		},
	}
	return r.queryEvents(ctx, input)
}

// GetByDateRange retrieves a user's life events dated inside an
// inclusive range. The sort key embeds the event date.
func (r *LifeEventRepository) GetByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*entities.LifeEvent, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND SK BETWEEN :lo AND :hi"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":lo": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENT#%s", start.UTC().Format(time.RFC3339))},
			":hi": &types.AttributeValueMemberS{Value: fmt.Sprintf("EVENT#%s#￿", end.UTC().Format(time.RFC3339))},
		},
	}
	return r.queryEvents(ctx, input)
}

func (r *LifeEventRepository) queryEvents(ctx context.Context, input *dynamodb.QueryInput) ([]*entities.LifeEvent, error) {
	var events []*entities.LifeEvent

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query life events", err)
		}

		for _, raw := range page.Items {
			var item lifeEventItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal life event item", zap.Error(err))
				continue
			}

			event, err := r.toEntity(item)
			if err != nil {
				r.logger.Warn("Skipping malformed life event item",
					zap.String("eventID", item.EventID),
					zap.Error(err),
				)
				continue
			}
			events = append(events, event)
		}
	}
	return events, nil
}

func (r *LifeEventRepository) toEntity(item lifeEventItem) (*entities.LifeEvent, error) {
	id, err := valueobjects.NewLifeEventIDFromString(item.EventID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(time.RFC3339, item.EventDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date on life event %s: %w", item.EventID, err)
	}

	photoIDs := make([]valueobjects.PhotoID, 0, len(item.PhotoIDs))
	for _, raw := range item.PhotoIDs {
		photoID, err := valueobjects.NewPhotoIDFromString(raw)
		if err != nil {
			r.logger.Warn("Skipping malformed photo reference on life event",
				zap.String("eventID", item.EventID),
				zap.String("photoID", raw),
			)
			continue
		}
		photoIDs = append(photoIDs, photoID)
	}

	return entities.ReconstructLifeEvent(
		id,
		item.UserID,
		entities.LifeEventType(item.EventTypeName),
		item.Name,
		date,
		item.Location,
		item.Description,
		item.DetectionMethod,
		photoIDs,
	)
}
