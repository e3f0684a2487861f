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
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// PhotoRepository implements read access to the photo store backed by
// DynamoDB. Photos are written by the ingest service; this repository
// never mutates them.
type PhotoRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.PhotoRepository {
	return &PhotoRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// labelItem stores one classifier or emotion label
type labelItem struct {
	Name       string  `dynamodbav:"Name"`
	Confidence float64 `dynamodbav:"Confidence"`
	Dominant   bool    `dynamodbav:"Dominant,omitempty"`
}

// photoItem represents the DynamoDB item structure for a photo
type photoItem struct {
	PK          string      `dynamodbav:"PK"`
	SK          string      `dynamodbav:"SK"`
	GSI1PK      string      `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK      string      `dynamodbav:"GSI1SK,omitempty"`
	EntityType  string      `dynamodbav:"EntityType"`
	PhotoID     string      `dynamodbav:"PhotoID"`
	UserID      string      `dynamodbav:"UserID"`
	CaptureDate string      `dynamodbav:"CaptureDate,omitempty"`
	UploadDate  string      `dynamodbav:"UploadDate"`
	Latitude    *float64    `dynamodbav:"Latitude,omitempty"`
	Longitude   *float64    `dynamodbav:"Longitude,omitempty"`
	PlaceName   string      `dynamodbav:"PlaceName,omitempty"`
	City        string      `dynamodbav:"City,omitempty"`
	Country     string      `dynamodbav:"Country,omitempty"`
	Categories  []labelItem `dynamodbav:"Categories,omitempty"`
	Emotions    []labelItem `dynamodbav:"Emotions,omitempty"`
}

// GetByID retrieves a photo by its ID via the entity index
func (r *PhotoRepository) GetByID(ctx context.Context, id valueobjects.PhotoID) (*entities.Photo, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("PHOTO#%s", id.String())},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query photo", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("photo %s", id.String()))
	}

	var item photoItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal photo: %w", err)
	}
	return r.toEntity(item)
}

// GetByIDs retrieves photos by ID, ordered by capture date ascending.
// Missing photos are skipped with a warning.
func (r *PhotoRepository) GetByIDs(ctx context.Context, ids []valueobjects.PhotoID) ([]*entities.Photo, error) {
	photos := make([]*entities.Photo, 0, len(ids))
	for _, id := range ids {
		photo, err := r.GetByID(ctx, id)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				r.logger.Warn("Photo referenced but not found",
					zap.String("photoID", id.String()),
				)
				continue
			}
			return nil, err
		}
		photos = append(photos, photo)
	}

	sortByEffectiveDate(photos)
	return photos, nil
}

// GetByUserID retrieves all photos for a user
func (r *PhotoRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Photo, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: "PHOTO#"},
		},
	}

	return r.queryPhotos(ctx, input)
}

// GetByDateRange retrieves a user's dated photos inside an inclusive
// range, ordered by capture date ascending. The sort key embeds the
// capture date, so the range is pushed into the key condition.
func (r *PhotoRepository) GetByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*entities.Photo, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(fmt.Sprintf("USER#%s", userID))).
		And(expression.Key("SK").Between(
			expression.Value(fmt.Sprintf("PHOTO#%s", start.UTC().Format(time.RFC3339))),
			expression.Value(fmt.Sprintf("PHOTO#%s#￿", end.UTC().Format(time.RFC3339))),
		))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build photo range expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	return r.queryPhotos(ctx, input)
}

func (r *PhotoRepository) queryPhotos(ctx context.Context, input *dynamodb.QueryInput) ([]*entities.Photo, error) {
	var photos []*entities.Photo

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query photos", err)
		}

		for _, raw := range page.Items {
			var item photoItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal photo item", zap.Error(err))
				continue
			}

			photo, err := r.toEntity(item)
			if err != nil {
				r.logger.Warn("Skipping malformed photo item",
					zap.String("photoID", item.PhotoID),
					zap.Error(err),
				)
				continue
			}
			photos = append(photos, photo)
		}
	}

	sortByEffectiveDate(photos)
	return photos, nil
}

func (r *PhotoRepository) toEntity(item photoItem) (*entities.Photo, error) {
	id, err := valueobjects.NewPhotoIDFromString(item.PhotoID)
	if err != nil {
		return nil, err
	}

	var captureDate *time.Time
	if item.CaptureDate != "" {
		parsed, err := time.Parse(time.RFC3339, item.CaptureDate)
		if err != nil {
			r.logger.Warn("Unparseable capture date, treating photo as undated",
				zap.String("photoID", item.PhotoID),
				zap.String("captureDate", item.CaptureDate),
			)
		} else {
			captureDate = &parsed
		}
	}

	var uploadDate time.Time
	if item.UploadDate != "" {
		uploadDate, err = time.Parse(time.RFC3339, item.UploadDate)
		if err != nil {
			return nil, fmt.Errorf("invalid upload date on photo %s: %w", item.PhotoID, err)
		}
	}

	var location *entities.GeoTag
	if item.Latitude != nil && item.Longitude != nil {
		point, err := valueobjects.NewGeoPoint(*item.Latitude, *item.Longitude)
		if err != nil {
			r.logger.Warn("Invalid coordinates on photo",
				zap.String("photoID", item.PhotoID),
				zap.Error(err),
			)
		} else {
			location = &entities.GeoTag{
				Point:     point,
				PlaceName: item.PlaceName,
				City:      item.City,
				Country:   item.Country,
			}
		}
	}

	categories := make([]valueobjects.CategoryLabel, 0, len(item.Categories))
	for _, l := range item.Categories {
		categories = append(categories, valueobjects.NewCategoryLabel(l.Name, l.Confidence))
	}
	emotions := make([]valueobjects.EmotionLabel, 0, len(item.Emotions))
	for _, l := range item.Emotions {
		emotions = append(emotions, valueobjects.NewEmotionLabel(l.Name, l.Confidence, l.Dominant))
	}

	return entities.ReconstructPhoto(id, item.UserID, captureDate, uploadDate, location, categories, emotions)
}

func sortByEffectiveDate(photos []*entities.Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		di, iok := photos[i].EffectiveDate()
		dj, jok := photos[j].EffectiveDate()
		if iok != jok {
			return iok
		}
		return di.Before(dj)
	})
}
