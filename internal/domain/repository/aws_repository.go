package repository

import (
	"context"
)

// AWSRepository defines the interface for AWS API interactions.
type AWSRepository interface {
	// Profile Operations
	GetAWSProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Region Operations
	GetAccessibleRegions(ctx context.Context, profile string) ([]string, error)

	// Verification Operations
	VerifyImage(ctx context.Context, profile, region, imageID string) (string, bool, error)
	VerifyInstanceTypeOffering(ctx context.Context, profile, region, instanceType string) (bool, error)

	// Report Upload
	UploadReportToS3(ctx context.Context, profile, bucket, key, filePath string) (string, error)
}
