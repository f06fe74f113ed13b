package errors_test

import (
	"fmt"

	"github.com/agentstation/assetmap/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := errors.NewNotFoundError("snapshot", "2025-11")

	if errors.IsNotFound(err) {
		fmt.Println("Snapshot not found")
	}

	// Output: Snapshot not found
}

// Example_ingestionError shows how a decode failure is surfaced to users.
func Example_ingestionError() {
	err := errors.WrapIngestion("jamf", "computers.xlsx", errors.New("zip: not a valid zip file"))

	var ingestErr *errors.IngestionError
	if errors.As(err, &ingestErr) {
		fmt.Println(ingestErr.UserMessage())
	}

	// Output: file processing failed
}
