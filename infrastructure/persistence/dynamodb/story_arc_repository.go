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

// StoryArcRepository implements the StoryArcRepository interface using
// DynamoDB. Arcs hang under their chapter partition; photo links hang
// under the arc partition.
type StoryArcRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewStoryArcRepository creates a new StoryArcRepository
func NewStoryArcRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.StoryArcRepository {
	return &StoryArcRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// arcItem represents the DynamoDB item structure for a story arc
type arcItem struct {
	PK            string               `dynamodbav:"PK"`
	SK            string               `dynamodbav:"SK"`
	GSI1PK        string               `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK        string               `dynamodbav:"GSI1SK,omitempty"`
	EntityType    string               `dynamodbav:"EntityType"`
	ArcID         string               `dynamodbav:"ArcID"`
	UserID        string               `dynamodbav:"UserID"`
	ChapterID     string               `dynamodbav:"ChapterID"`
	Title         string               `dynamodbav:"Title"`
	Description   string               `dynamodbav:"Description,omitempty"`
	StoryType     string               `dynamodbav:"StoryType"`
	Category      string               `dynamodbav:"Category"`
	Source        string               `dynamodbav:"Source"`
	StartDate     string               `dynamodbav:"StartDate"`
	EndDate       string               `dynamodbav:"EndDate"`
	PhotoCount    int                  `dynamodbav:"PhotoCount"`
	SequenceOrder int                  `dynamodbav:"SequenceOrder"`
	AIDetected    bool                 `dynamodbav:"AIDetected"`
	Metadata      entities.ArcMetadata `dynamodbav:"Metadata"`
	CreatedAt     string               `dynamodbav:"CreatedAt"`
}

// photoLinkItem represents one arc-to-photo link
type photoLinkItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	EntityType    string `dynamodbav:"EntityType"`
	ArcID         string `dynamodbav:"ArcID"`
	PhotoID       string `dynamodbav:"PhotoID"`
	SequenceOrder int    `dynamodbav:"SequenceOrder"`
	IsCover       bool   `dynamodbav:"IsCover"`
}

// Save persists a story arc
func (r *StoryArcRepository) Save(ctx context.Context, arc *entities.StoryArc) error {
	item := arcItem{
		PK:            fmt.Sprintf("CHAPTER#%s", arc.ChapterID().String()),
		SK:            fmt.Sprintf("ARC#%04d#%s", arc.SequenceOrder(), arc.ID().String()),
		GSI1PK:        fmt.Sprintf("ARC#%s", arc.ID().String()),
		GSI1SK:        "METADATA",
		EntityType:    "STORY_ARC",
		ArcID:         arc.ID().String(),
		UserID:        arc.UserID(),
		ChapterID:     arc.ChapterID().String(),
		Title:         arc.Title(),
		Description:   arc.Description(),
		StoryType:     arc.StoryType(),
		Category:      string(arc.Category()),
		Source:        string(arc.Source()),
		StartDate:     arc.DateRange().Start().Format(time.RFC3339),
		EndDate:       arc.DateRange().End().Format(time.RFC3339),
		PhotoCount:    arc.PhotoCount(),
		SequenceOrder: arc.SequenceOrder(),
		AIDetected:    arc.IsAIDetected(),
		Metadata:      arc.Metadata(),
		CreatedAt:     arc.CreatedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal story arc: %w", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save story arc", err)
	}
	return nil
}

// GetByChapterID retrieves a chapter's arcs ordered by sequence order
func (r *StoryArcRepository) GetByChapterID(ctx context.Context, chapterID valueobjects.ChapterID) ([]*entities.StoryArc, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("CHAPTER#%s", chapterID.String())},
			":sk": &types.AttributeValueMemberS{Value: "ARC#"},
		},
	}

	var arcs []*entities.StoryArc
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query story arcs", err)
		}

		for _, raw := range page.Items {
			var item arcItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal story arc item", zap.Error(err))
				continue
			}

			arc, err := toArcEntity(item)
			if err != nil {
				r.logger.Warn("Skipping malformed story arc item",
					zap.String("arcID", item.ArcID),
					zap.Error(err),
				)
				continue
			}
			arcs = append(arcs, arc)
		}
	}
	return arcs, nil
}

// DeleteByChapterID removes all arcs and their photo links for a chapter
func (r *StoryArcRepository) DeleteByChapterID(ctx context.Context, chapterID valueobjects.ChapterID) (int, error) {
	arcs, err := r.GetByChapterID(ctx, chapterID)
	if err != nil {
		return 0, err
	}

	for _, arc := range arcs {
		if err := r.deletePhotoLinks(ctx, arc.ID()); err != nil {
			return 0, err
		}

		if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CHAPTER#%s", chapterID.String())},
				"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("ARC#%04d#%s", arc.SequenceOrder(), arc.ID().String())},
			},
		}); err != nil {
			return 0, pkgerrors.NewDatabaseError("delete story arc", err)
		}
	}
	return len(arcs), nil
}

// LinkPhotos replaces the photo membership of an arc
func (r *StoryArcRepository) LinkPhotos(ctx context.Context, arcID valueobjects.StoryArcID, links []ports.PhotoLink) error {
	if err := r.deletePhotoLinks(ctx, arcID); err != nil {
		return err
	}

	for _, link := range links {
		item := photoLinkItem{
			PK:            fmt.Sprintf("ARC#%s", arcID.String()),
			SK:            fmt.Sprintf("PHOTOLINK#%04d#%s", link.SequenceOrder, link.PhotoID.String()),
			EntityType:    "ARC_PHOTO_LINK",
			ArcID:         arcID.String(),
			PhotoID:       link.PhotoID.String(),
			SequenceOrder: link.SequenceOrder,
			IsCover:       link.IsCover,
		}

		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("failed to marshal photo link: %w", err)
		}

		if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.tableName),
			Item:      av,
		}); err != nil {
			return pkgerrors.NewDatabaseError("save photo link", err)
		}
	}
	return nil
}

// GetPhotoLinks retrieves an arc's photo links ordered by sequence order
func (r *StoryArcRepository) GetPhotoLinks(ctx context.Context, arcID valueobjects.StoryArcID) ([]ports.PhotoLink, error) {
	items, err := r.queryPhotoLinks(ctx, arcID)
	if err != nil {
		return nil, err
	}

	links := make([]ports.PhotoLink, 0, len(items))
	for _, item := range items {
		photoID, err := valueobjects.NewPhotoIDFromString(item.PhotoID)
		if err != nil {
			r.logger.Warn("Skipping malformed photo link",
				zap.String("arcID", arcID.String()),
				zap.String("photoID", item.PhotoID),
			)
			continue
		}
		links = append(links, ports.PhotoLink{
			PhotoID:       photoID,
			SequenceOrder: item.SequenceOrder,
			IsCover:       item.IsCover,
		})
	}
	return links, nil
}

func (r *StoryArcRepository) queryPhotoLinks(ctx context.Context, arcID valueobjects.StoryArcID) ([]photoLinkItem, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("ARC#%s", arcID.String())},
			":sk": &types.AttributeValueMemberS{Value: "PHOTOLINK#"},
		},
	}

	var items []photoLinkItem
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query photo links", err)
		}

		for _, raw := range page.Items {
			var item photoLinkItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal photo link item", zap.Error(err))
				continue
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *StoryArcRepository) deletePhotoLinks(ctx context.Context, arcID valueobjects.StoryArcID) error {
	items, err := r.queryPhotoLinks(ctx, arcID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: item.PK},
				"SK": &types.AttributeValueMemberS{Value: item.SK},
			},
		}); err != nil {
			return pkgerrors.NewDatabaseError("delete photo link", err)
		}
	}
	return nil
}

func toArcEntity(item arcItem) (*entities.StoryArc, error) {
	id, err := valueobjects.NewStoryArcIDFromString(item.ArcID)
	if err != nil {
		return nil, err
	}
	chapterID, err := valueobjects.NewChapterIDFromString(item.ChapterID)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(time.RFC3339, item.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date on arc %s: %w", item.ArcID, err)
	}
	end, err := time.Parse(time.RFC3339, item.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date on arc %s: %w", item.ArcID, err)
	}
	dateRange, err := valueobjects.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)

	return entities.ReconstructStoryArc(
		id,
		item.UserID,
		chapterID,
		item.Title,
		item.Description,
		item.StoryType,
		entities.ArcCategory(item.Category),
		entities.GenerationSource(item.Source),
		dateRange,
		item.PhotoCount,
		item.SequenceOrder,
		item.AIDetected,
		item.Metadata,
		createdAt,
	)
}
