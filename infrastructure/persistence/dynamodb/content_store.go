// Package dynamodb persists the content graph as a single-item document.
// Holding the whole graph in one item makes ReplaceAll a single PutItem,
// which gives the bulk replace its atomicity for free.
package dynamodb

import (
	"context"
	"encoding/json"

	"studio-backend/application/ports"
	pkgerrors "studio-backend/pkg/errors"
	"studio-backend/pkg/utils"
	"studio-backend/pkg/wirecodec"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ContentStore implements ports.ContentBackend on DynamoDB
type ContentStore struct {
	client     *dynamodb.Client
	tableName  string
	contentKey string
	logger     *zap.Logger
}

// NewContentStore creates a new ContentStore. contentKey partitions multiple
// content documents (per site or per environment) within one table.
func NewContentStore(client *dynamodb.Client, tableName, contentKey string, logger *zap.Logger) ports.ContentBackend {
	return &ContentStore{
		client:     client,
		tableName:  tableName,
		contentKey: contentKey,
		logger:     logger,
	}
}

// contentItem is the DynamoDB item shape for one content document. The
// graph travels as a JSON string so its wire form (ordered entry pairs,
// big integers) survives untouched by attributevalue's number handling.
type contentItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Document  string `dynamodbav:"Document"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
	Revision  int64  `dynamodbav:"Revision"`
}

// FetchAll reads the content document. A missing item is not an error: a
// fresh deployment simply has no content yet and decodes to an empty graph.
func (s *ContentStore) FetchAll(ctx context.Context) (wirecodec.Payload, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "CONTENT#" + s.contentKey},
			"SK": &types.AttributeValueMemberS{Value: "DOCUMENT"},
		},
	})
	if err != nil {
		s.logger.Error("failed to read content document",
			zap.Error(err),
			zap.String("contentKey", s.contentKey),
		)
		return wirecodec.Payload{}, pkgerrors.NewBackendError("fetchAll", err)
	}
	if result.Item == nil {
		s.logger.Info("no content document found, returning empty payload",
			zap.String("contentKey", s.contentKey),
		)
		return wirecodec.Payload{}, nil
	}

	var item contentItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return wirecodec.Payload{}, pkgerrors.NewBackendError("fetchAll", err)
	}

	var payload wirecodec.Payload
	if err := json.Unmarshal([]byte(item.Document), &payload); err != nil {
		return wirecodec.Payload{}, pkgerrors.NewBackendError("fetchAll", err)
	}

	s.logger.Debug("content document loaded",
		zap.String("contentKey", s.contentKey),
		zap.Int64("revision", item.Revision),
	)
	return payload, nil
}

// ReplaceAll overwrites the content document with a single PutItem
func (s *ContentStore) ReplaceAll(ctx context.Context, payload wirecodec.Payload) error {
	document, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.NewBackendError("replaceAll", err)
	}

	item := contentItem{
		PK:        "CONTENT#" + s.contentKey,
		SK:        "DOCUMENT",
		Document:  string(document),
		UpdatedAt: utils.NowRFC3339(),
		Revision:  utils.NowMillis(),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewBackendError("replaceAll", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("failed to write content document",
			zap.Error(err),
			zap.String("contentKey", s.contentKey),
		)
		return pkgerrors.NewBackendError("replaceAll", err)
	}

	s.logger.Info("content document replaced",
		zap.String("contentKey", s.contentKey),
		zap.Int("bytes", len(document)),
	)
	return nil
}
