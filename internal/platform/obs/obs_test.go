package obs

import (
	"context"
	"errors"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx, id := WithRequestID(context.Background(), "")
	if id == "" || RequestID(ctx) != id {
		t.Fatalf("expected generated request id, got %q", id)
	}

	ctx, id = WithRequestID(context.Background(), "abc")
	if id != "abc" || RequestID(ctx) != "abc" {
		t.Fatalf("expected provided request id, got %q", RequestID(ctx))
	}

	if RequestID(context.Background()) != "" {
		t.Fatal("expected empty request id on bare context")
	}
}

func TestTimeAcceptsNilAndErrors(t *testing.T) {
	ctx, _ := WithRequestID(context.Background(), "t")
	Time(ctx, "noop")(nil)

	err := errors.New("boom")
	Time(ctx, "failing")(&err)
	if err == nil {
		t.Fatal("Time must not clear the error")
	}
}
