package aggregates

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEntityErrorFormatsAndUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := EntityError(CodeSaveFailed, EntityCollection, "c1", "collection.save", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is cause: want=true")
	}
	msg := err.Error()
	for _, want := range []string{"collection.save", "[collection=c1]", "disk full", "(save_failed)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
	entity, id := EntityOf(err)
	if entity != EntityCollection || id != "c1" {
		t.Fatalf("EntityOf: want=collection/c1 got=%s/%s", entity, id)
	}
}

func TestCodeOfReturnsOutermostCode(t *testing.T) {
	child := EntityError(CodeValidation, EntityCoin, "k1", "coin.save", errors.New("year before 1999"))
	parent := EntityError(CodeSaveFailed, EntityCollection, "c1", "collection.save", child)
	wrapped := fmt.Errorf("handler: %w", parent)

	if got := CodeOf(wrapped); got != CodeSaveFailed {
		t.Fatalf("CodeOf: want=%s got=%s", CodeSaveFailed, got)
	}
	if !IsCode(parent, CodeSaveFailed) {
		t.Fatalf("IsCode parent: want=true")
	}
	if IsCode(parent, CodeValidation) {
		t.Fatalf("IsCode child code on parent: want=false")
	}
	var inner *Error
	if !errors.As(errors.Unwrap(parent), &inner) || inner.Code != CodeValidation {
		t.Fatalf("child error not reachable: %v", inner)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if got := CodeOf(errors.New("x")); got != "" {
		t.Fatalf("CodeOf plain: want=\"\" got=%s", got)
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap nil: want=nil")
	}
	if got := (&Error{Code: CodeNotFound}).Error(); got != "not_found" {
		t.Fatalf("bare error: want=not_found got=%s", got)
	}
}

func TestSaveOutcomeString(t *testing.T) {
	if Inserted.String() != "inserted" || AlreadyExisted.String() != "already_existed" || OutcomeUnknown.String() != "unknown" {
		t.Fatalf("unexpected outcome strings")
	}
}
