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

// ChapterRepository implements the ChapterRepository interface using DynamoDB
type ChapterRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	arcRepo   ports.StoryArcRepository
	logger    *zap.Logger
}

// NewChapterRepository creates a new ChapterRepository. The arc
// repository is used to cascade arc deletion when chapters are removed.
func NewChapterRepository(
	client *dynamodb.Client,
	tableName, indexName string,
	arcRepo ports.StoryArcRepository,
	logger *zap.Logger,
) ports.ChapterRepository {
	return &ChapterRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		arcRepo:   arcRepo,
		logger:    logger,
	}
}

// chapterItem represents the DynamoDB item structure for a chapter
type chapterItem struct {
	PK              string `dynamodbav:"PK"`
	SK              string `dynamodbav:"SK"`
	GSI1PK          string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK          string `dynamodbav:"GSI1SK,omitempty"`
	EntityType      string `dynamodbav:"EntityType"`
	ChapterID       string `dynamodbav:"ChapterID"`
	UserID          string `dynamodbav:"UserID"`
	Title           string `dynamodbav:"Title"`
	Subtitle        string `dynamodbav:"Subtitle,omitempty"`
	ChapterType     string `dynamodbav:"ChapterType"`
	AgeStart        *int   `dynamodbav:"AgeStart,omitempty"`
	AgeEnd          *int   `dynamodbav:"AgeEnd,omitempty"`
	YearStart       int    `dynamodbav:"YearStart"`
	YearEnd         int    `dynamodbav:"YearEnd"`
	PhotoCount      int    `dynamodbav:"PhotoCount"`
	DominantEmotion string `dynamodbav:"DominantEmotion,omitempty"`
	CoverPhotoID    string `dynamodbav:"CoverPhotoID"`
	SequenceOrder   int    `dynamodbav:"SequenceOrder"`
	CreatedAt       string `dynamodbav:"CreatedAt"`
	UpdatedAt       string `dynamodbav:"UpdatedAt"`
}

// Save persists a chapter
func (r *ChapterRepository) Save(ctx context.Context, chapter *entities.Chapter) error {
	item := chapterItem{
		PK:              fmt.Sprintf("USER#%s", chapter.UserID()),
		SK:              fmt.Sprintf("CHAPTER#%04d#%s", chapter.SequenceOrder(), chapter.ID().String()),
		GSI1PK:          fmt.Sprintf("CHAPTER#%s", chapter.ID().String()),
		GSI1SK:          "METADATA",
		EntityType:      "CHAPTER",
		ChapterID:       chapter.ID().String(),
		UserID:          chapter.UserID(),
		Title:           chapter.Title(),
		Subtitle:        chapter.Subtitle(),
		ChapterType:     string(chapter.Type()),
		AgeStart:        chapter.AgeStart(),
		AgeEnd:          chapter.AgeEnd(),
		YearStart:       chapter.YearStart(),
		YearEnd:         chapter.YearEnd(),
		PhotoCount:      chapter.PhotoCount(),
		DominantEmotion: chapter.DominantEmotion(),
		CoverPhotoID:    chapter.CoverPhotoID().String(),
		SequenceOrder:   chapter.SequenceOrder(),
		CreatedAt:       chapter.CreatedAt().Format(time.RFC3339),
		UpdatedAt:       chapter.UpdatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal chapter: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save chapter", err)
	}
	return nil
}

// GetByID retrieves a chapter by its ID via the entity index
func (r *ChapterRepository) GetByID(ctx context.Context, id valueobjects.ChapterID) (*entities.Chapter, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.indexName),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND GSI1SK = :sk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("CHAPTER#%s", id.String())},
			":sk": &types.AttributeValueMemberS{Value: "METADATA"},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query chapter", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("chapter %s", id.String()))
	}

	var item chapterItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chapter: %w", err)
	}
	return toChapterEntity(item)
}

// GetByUserID retrieves a user's chapters ordered by sequence order.
// The sort key embeds the sequence, so DynamoDB returns them in order.
func (r *ChapterRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Chapter, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
			":sk": &types.AttributeValueMemberS{Value: "CHAPTER#"},
		},
	}

	var chapters []*entities.Chapter
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query chapters", err)
		}

		for _, raw := range page.Items {
			var item chapterItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal chapter item", zap.Error(err))
				continue
			}

			chapter, err := toChapterEntity(item)
			if err != nil {
				r.logger.Warn("Skipping malformed chapter item",
					zap.String("chapterID", item.ChapterID),
					zap.Error(err),
				)
				continue
			}
			chapters = append(chapters, chapter)
		}
	}
	return chapters, nil
}

// DeleteByUserID removes all chapters for a user together with their
// story arcs, returning the chapter count
func (r *ChapterRepository) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	chapters, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	for _, chapter := range chapters {
		if r.arcRepo != nil {
			if _, err := r.arcRepo.DeleteByChapterID(ctx, chapter.ID()); err != nil {
				return 0, err
			}
		}

		if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("USER#%s", userID)},
				"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CHAPTER#%04d#%s", chapter.SequenceOrder(), chapter.ID().String())},
			},
		}); err != nil {
			return 0, pkgerrors.NewDatabaseError("delete chapter", err)
		}
	}

	r.logger.Info("Deleted chapters",
		zap.String("userID", userID),
		zap.Int("count", len(chapters)),
	)
	return len(chapters), nil
}

func toChapterEntity(item chapterItem) (*entities.Chapter, error) {
	id, err := valueobjects.NewChapterIDFromString(item.ChapterID)
	if err != nil {
		return nil, err
	}
	coverID, err := valueobjects.NewPhotoIDFromString(item.CoverPhotoID)
	if err != nil {
		return nil, err
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	return entities.ReconstructChapter(
		id,
		item.UserID,
		item.Title,
		item.Subtitle,
		entities.ChapterType(item.ChapterType),
		item.AgeStart,
		item.AgeEnd,
		item.YearStart,
		item.YearEnd,
		item.PhotoCount,
		item.DominantEmotion,
		coverID,
		item.SequenceOrder,
		createdAt,
		updatedAt,
	)
}
