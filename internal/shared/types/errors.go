package types

import "errors"

var (
	ErrNoConfigFile         = errors.New("no trigger table file specified. Use --config-file to point at one")
	ErrNoProfilesFound      = errors.New("no AWS profiles found. Please configure AWS CLI first")
	ErrAWSProfileNotFound   = errors.New("the specified AWS profile was not found in AWS configuration")
	ErrVerificationFailed   = errors.New("one or more infrastructure profiles failed verification")
	ErrNoMatchingProfiles   = errors.New("no infrastructure profiles match the given region filter")
	ErrUnsupportedReportFmt = errors.New("unsupported report type. Valid types are: csv, json, pdf")
	ErrExportFailed         = errors.New("no reports could be exported")
)
