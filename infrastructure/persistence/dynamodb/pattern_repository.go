package dynamodb

import (
	"context"
	"fmt"
	"sort"
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

// PatternRepository implements the PatternRepository interface using DynamoDB
type PatternRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewPatternRepository creates a new PatternRepository
func NewPatternRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.PatternRepository {
	return &PatternRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// patternItem represents the DynamoDB item structure for a pattern.
// Member photo IDs are embedded; pattern membership is never queried
// from the photo side.
type patternItem struct {
	PK          string                   `dynamodbav:"PK"`
	SK          string                   `dynamodbav:"SK"`
	EntityType  string                   `dynamodbav:"EntityType"`
	PatternID   string                   `dynamodbav:"PatternID"`
	UserID      string                   `dynamodbav:"UserID"`
	PatternType string                   `dynamodbav:"PatternType"`
	Frequency   string                   `dynamodbav:"Frequency"`
	Description string                   `dynamodbav:"Description"`
	Confidence  float64                  `dynamodbav:"Confidence"`
	Metadata    entities.PatternMetadata `dynamodbav:"Metadata"`
	PhotoIDs    []string                 `dynamodbav:"PhotoIDs,omitempty"`
	DetectedAt  string                   `dynamodbav:"DetectedAt"`
}

// Save persists a pattern together with its member-photo links
func (r *PatternRepository) Save(ctx context.Context, pattern *entities.Pattern) error {
	photoIDs := make([]string, 0, len(pattern.PhotoIDs()))
	for _, id := range pattern.PhotoIDs() {
		photoIDs = append(photoIDs, id.String())
	}

	item := patternItem{
		PK:          fmt.Sprintf("USER#%s", pattern.UserID()),
		SK:          fmt.Sprintf("PATTERN#%s#%s", pattern.Type(), pattern.ID().String()),
		EntityType:  "PATTERN",
		PatternID:   pattern.ID().String(),
		UserID:      pattern.UserID(),
		PatternType: string(pattern.Type()),
		Frequency:   string(pattern.Frequency()),
		Description: pattern.Description(),
		Confidence:  pattern.Confidence(),
		Metadata:    pattern.Metadata(),
		PhotoIDs:    photoIDs,
		DetectedAt:  pattern.DetectedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal pattern: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save pattern", err)
	}
	return nil
}

// GetByUserID retrieves a user's patterns, optionally filtered by type,
// ordered by confidence descending
func (r *PatternRepository) GetByUserID(ctx context.Context, userID string, kind entities.PatternType) ([]*entities.Pattern, error) {
	prefix := "PATTERN#"
	if kind != "" {
		prefix = fmt.Sprintf("PATTERN#%s#", kind)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: prefix},
		},
	}

	patterns, _, err := r.queryPatterns(ctx, input)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence() > patterns[j].Confidence()
	})
	return patterns, nil
}

// DeleteByUserID removes all patterns for a user, returning the count
func (r *PatternRepository) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: "PATTERN#"},
		},
	}

	_, keys, err := r.queryPatterns(ctx, input)
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: key[0]},
				"SK": &types.AttributeValueMemberS{Value: key[1]},
			},
		}); err != nil {
			return 0, pkgerrors.NewDatabaseError("delete pattern", err)
		}
	}
	return len(keys), nil
}

func (r *PatternRepository) queryPatterns(ctx context.Context, input *dynamodb.QueryInput) ([]*entities.Pattern, [][2]string, error) {
	var patterns []*entities.Pattern
	var keys [][2]string

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, nil, pkgerrors.NewDatabaseError("query patterns", err)
		}

		for _, raw := range page.Items {
			var item patternItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal pattern item", zap.Error(err))
				continue
			}
			keys = append(keys, [2]string{item.PK, item.SK})

			pattern, err := toPatternEntity(item)
			if err != nil {
				r.logger.Warn("Skipping malformed pattern item",
					zap.String("patternID", item.PatternID),
					zap.Error(err),
				)
				continue
			}
			patterns = append(patterns, pattern)
		}
	}
	return patterns, keys, nil
}

func toPatternEntity(item patternItem) (*entities.Pattern, error) {
	id, err := valueobjects.NewPatternIDFromString(item.PatternID)
	if err != nil {
		return nil, err
	}

	photoIDs := make([]valueobjects.PhotoID, 0, len(item.PhotoIDs))
	for _, raw := range item.PhotoIDs {
		photoID, err := valueobjects.NewPhotoIDFromString(raw)
		if err != nil {
			continue
		}
		photoIDs = append(photoIDs, photoID)
	}

	detectedAt, _ := time.Parse(time.RFC3339, item.DetectedAt)

	return entities.ReconstructPattern(
		id,
		item.UserID,
		entities.PatternType(item.PatternType),
		entities.PatternFrequency(item.Frequency),
		item.Description,
		item.Confidence,
		item.Metadata,
		photoIDs,
		detectedAt,
	)
}
