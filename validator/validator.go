package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/SWYP-foreigner/Kori-chatting/id"
	playground "github.com/go-playground/validator/v10"
	"github.com/nicolasparada/go-errs"
)

var instance = sync.OnceValue(newValidate)

func newValidate() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	mustRegister(v, "xid", func(fl playground.FieldLevel) bool {
		return id.Valid(fl.Field().String())
	})
	return v
}

func mustRegister(v *playground.Validate, tag string, fn playground.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// Struct checks the `validate` tags of s and reports every failing field
// as a single invalid argument error.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate struct: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return errs.InvalidArgumentError(strings.Join(msgs, "; "))
}

func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "xid":
		return fe.Field() + " is invalid"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", fe.Field(), fe.Param())
	case "url":
		return fe.Field() + " must be a valid URL"
	}
	return fe.Field() + " is invalid"
}
