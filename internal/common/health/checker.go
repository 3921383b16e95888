package health

import "context"

// Checker reports the health of a single dependency.
// A nil error means healthy.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc struct {
	CheckerName string
	Fn          func(ctx context.Context) error
}

func (f CheckerFunc) Name() string {
	return f.CheckerName
}

func (f CheckerFunc) Check(ctx context.Context) error {
	return f.Fn(ctx)
}
