package seeding

import "errors"

var (
	ErrEmptyFixture   = errors.New("fixture contains no requests")
	ErrUnhealthy      = errors.New("service is not healthy")
	ErrUnexpectedCode = errors.New("unexpected status code")
	ErrVerification   = errors.New("calendar verification failed")
)
