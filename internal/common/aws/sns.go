package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsAPI is the subset of *sns.Client the workers call.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// CatalogVersionEvent is published whenever a new catalog snapshot goes live.
type CatalogVersionEvent struct {
	Version         string    `json:"version"`
	PreviousVersion string    `json:"previousVersion,omitempty"`
	AdmissionYear   int       `json:"admissionYear"`
	Programs        int       `json:"programs"`
	Source          string    `json:"source"`
	LoadedAt        time.Time `json:"loadedAt"`
}

type SNSClient struct {
	client   snsAPI
	topicARN string
}

func NewSNSClient(ctx context.Context, region, topicARN string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSClient{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

// PublishCatalogVersion announces a catalog swap on the configured topic.
func (s *SNSClient) PublishCatalogVersion(ctx context.Context, event CatalogVersionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode catalog event: %w", err)
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("catalog.version.changed"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String("catalog.version.changed")},
			"version":   {DataType: aws.String("String"), StringValue: aws.String(event.Version)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish catalog event: %w", err)
	}
	return nil
}
