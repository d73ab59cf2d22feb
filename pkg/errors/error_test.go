package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeConfigurationMissing, "credentials missing")
	suite.NotNil(err)
	suite.Equal(ErrCodeConfigurationMissing, err.Code)
	suite.Equal("credentials missing", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeDataIntegrity, "trade %d has no price", 42)
	suite.NotNil(err)
	suite.Equal(ErrCodeDataIntegrity, err.Code)
	suite.Equal("trade 42 has no price", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeUpstreamRequestFailed, "failed to fetch account", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeUpstreamRequestFailed, err.Code)
	suite.Equal("failed to fetch account", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("timeout")
	err := Wrapf(ErrCodeUpstreamRequestFailed, cause, "failed to fetch ticker for %s", "BTCUSDT")
	suite.Equal("failed to fetch ticker for BTCUSDT", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidConfiguration, "symbol is required")
	suite.Equal("[100] symbol is required", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("dial tcp: refused")
	err := Wrap(ErrCodeTransportFailure, "stream connection failed", cause)
	suite.Equal("[200] stream connection failed: dial tcp: refused", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeEncodeFailed, "encode failed", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Nil(New(ErrCodeEncodeFailed, "encode failed").Unwrap())
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeUpstreamRejected, "rejected")
	err := Wrap(ErrCodeTaskFailed, "task failed", cause)
	// GetCode returns the outermost error's code
	suite.Equal(ErrCodeTaskFailed, GetCode(err))

	// A plain fmt wrapper still exposes the inner code
	suite.Equal(ErrCodeUpstreamRejected, GetCode(fmt.Errorf("tick: %w", cause)))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("standard error")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeMalformedMessage, "bid missing")
	suite.True(HasCode(err, ErrCodeMalformedMessage))
	suite.False(HasCode(err, ErrCodeDataIntegrity))
}

func (suite *ErrorTestSuite) TestIsAndAs() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDeliveryFailed, "write failed", cause)
	suite.True(Is(err, cause))

	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeDeliveryFailed, coded.Code)
}

func (suite *ErrorTestSuite) TestIsUpstreamFailure() {
	suite.True(IsUpstreamFailure(New(ErrCodeUpstreamRequestFailed, "failed")))
	suite.True(IsUpstreamFailure(New(ErrCodeUpstreamRejected, "rejected")))
	suite.False(IsUpstreamFailure(New(ErrCodeTransportFailure, "transport")))
	suite.False(IsUpstreamFailure(errors.New("plain")))
}

func (suite *ErrorTestSuite) TestIsRecordSkip() {
	suite.True(IsRecordSkip(New(ErrCodeMalformedMessage, "bad message")))
	suite.True(IsRecordSkip(New(ErrCodeDataIntegrity, "bad record")))
	suite.False(IsRecordSkip(New(ErrCodeUpstreamRequestFailed, "failed")))
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidConfiguration)
	suite.Equal(ErrorCode(200), ErrCodeTransportFailure)
	suite.Equal(ErrorCode(300), ErrCodeMalformedMessage)
	suite.Equal(ErrorCode(400), ErrCodeEncodeFailed)
	suite.Equal(ErrorCode(500), ErrCodeTaskFailed)
}

func (suite *ErrorTestSuite) TestErrorCodeString() {
	suite.Equal("malformed_message", ErrCodeMalformedMessage.String())
	suite.Equal("upstream_rejected", ErrCodeUpstreamRejected.String())
	suite.Equal("unknown", ErrorCode(9999).String())
}
