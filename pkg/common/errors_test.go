package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := NewError(PathNotFound, "roads", "no route found", nil)
	if !errors.Is(err, KindError(PathNotFound)) {
		t.Error("expected errors.Is to match the same Kind")
	}
	if errors.Is(err, KindError(InvalidParameter)) {
		t.Error("expected errors.Is to reject a different Kind")
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := NewError(InternalPassFailure, "erosion", "pass failed", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestCellErrorIncludesCoordinatesInMessage(t *testing.T) {
	err := NewCellError(OutOfBounds, "grid", 3, 7, "cell access out of range", nil)
	if !err.HasCell {
		t.Error("expected HasCell to be true for NewCellError")
	}
	want := "grid: OutOfBounds at (3,7): cell access out of range"
	if err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
}
