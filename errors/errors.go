package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrStorageUnavailable = fmt.Errorf("message store unavailable")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
)
