package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileVerificationPassed(t *testing.T) {
	passing := ProfileVerification{RegionOK: true, ImageOK: true, InstanceTypeOK: true}
	assert.True(t, passing.Passed())

	withError := passing
	withError.Error = "throttled"
	assert.False(t, withError.Passed())

	missingImage := passing
	missingImage.ImageOK = false
	assert.False(t, missingImage.Passed())
}

func TestVerificationReportAggregation(t *testing.T) {
	report := &VerificationReport{
		Results: []ProfileVerification{
			{Profile: "cpu-big", RegionOK: true, ImageOK: true, InstanceTypeOK: true},
			{Profile: "gpu-big", RegionOK: true, ImageOK: false, InstanceTypeOK: true},
			{Profile: "cpu-small", RegionOK: false},
		},
	}

	assert.False(t, report.AllPassed())
	assert.Equal(t, 2, report.FailedCount())

	report.Results = report.Results[:1]
	assert.True(t, report.AllPassed())
	assert.Equal(t, 0, report.FailedCount())
}
