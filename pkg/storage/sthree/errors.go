package sthree

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/oneconcern/deduplab/pkg/errors"
	"github.com/oneconcern/deduplab/pkg/storage/status"
)

// codeNotFound is the code of 404 responses to HEAD requests, which carry no body
const codeNotFound = "NotFound"

func filterErrNotExists(err error) error {
	if errors.Is(err, status.ErrNotExists) || errors.Is(err, status.ErrNotFound) {
		return nil
	}
	return err
}

func missingObject(code string) bool {
	switch code {
	case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, codeNotFound:
		return true
	default:
		return false
	}
}

// apiErrors qualifies S3 API failures.
// See: https://docs.aws.amazon.com/AmazonS3/latest/API/ErrorResponses.html#ErrorCodeList
func apiErrors(err awserr.RequestFailure) error {
	switch code := err.StatusCode(); {
	case code == http.StatusNotFound && missingObject(err.Code()):
		return status.ErrNotExists.Wrap(err)
	case code == http.StatusNotFound:
		return status.ErrNotFound.Wrap(err)
	case code == http.StatusBadRequest && err.Code() == "InvalidBucketName":
		return status.ErrInvalidResource.Wrap(err)
	case code == http.StatusUnauthorized:
		return status.ErrUnauthorized.Wrap(err)
	case code == http.StatusForbidden:
		return status.ErrForbidden.Wrap(err)
	case code == http.StatusPreconditionFailed, code == http.StatusConflict:
		return status.ErrExists.Wrap(err)
	default:
		return status.ErrStorageAPI.Wrap(err)
	}
}

// toSentinelErrors maps SDK errors to the sentinel errors of the status package
func toSentinelErrors(err error) error {
	if err == nil {
		return nil
	}
	var failure awserr.RequestFailure
	if errors.As(err, &failure) {
		return apiErrors(failure)
	}
	var awsErr awserr.Error
	if errors.As(err, &awsErr) && awsErr.Code() == request.CanceledErrorCode {
		return context.Canceled
	}
	return err
}
