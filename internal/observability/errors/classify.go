package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// Classify maps an error onto a bounded set of class names for metric
// tags. Taxonomy errors report their code, context errors their
// cancellation kind, and anything else the innermost concrete type.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return string(apperrors.ErrCodeTimeout)
	case goerrors.Is(err, context.Canceled):
		return string(apperrors.ErrCodeCanceled)
	}

	return typeClass(err)
}

// typeClass names an error by its innermost concrete type, lowered and
// with the package qualifier folded in.
func typeClass(err error) string {
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.NewReplacer("*", "", ".", "_").Replace(t.String())
	name = strings.ToLower(name)
	if name == "" {
		return "unknown"
	}
	return name
}
