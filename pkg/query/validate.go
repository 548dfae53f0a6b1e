package query

import (
	"fmt"

	"github.com/bascanada/seclog/pkg/log"
	"github.com/bascanada/seclog/pkg/query/expression"
)

// ValidationError points at the token of a clause that prevents it from
// being submitted. It is advisory: it is rendered next to the token and
// only blocks finalizing the clause.
type ValidationError struct {
	Position   Position `json:"field"`
	Message    string   `json:"message"`
	ArrayIndex int      `json:"arrayIndex"`
}

func (e *ValidationError) Error() string {
	if e.ArrayIndex >= 0 {
		return fmt.Sprintf("%s[%d]: %s", e.Position, e.ArrayIndex, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}

const (
	MsgInvalidField      = "Invalid attribute"
	MsgInvalidExpression = "Invalid expression"
	MsgEmptyValue        = "Empty attribute"
)

// Validate checks in order that the field is known and usable by the
// clause, that the expression is allowed for it, that the value is not
// empty and finally runs the field validator. The first failing check is
// returned.
func Validate(fields []Field, c Clause, assets any) *ValidationError {
	f, ok := FindField(AvailableFields(c, fields), c.FieldText())
	if !ok {
		return &ValidationError{Position: PositionField, Message: MsgInvalidField, ArrayIndex: NoIndex}
	}

	if _, ok := expression.Find(f.AllowedExpressions(c.Local()), c.ExpressionText()); !ok {
		return &ValidationError{Position: PositionExpression, Message: MsgInvalidExpression, ArrayIndex: NoIndex}
	}

	v, ok := c.Value.Get()
	if !ok || v.Empty() {
		return &ValidationError{Position: PositionValue, Message: MsgEmptyValue, ArrayIndex: NoIndex}
	}

	if f.Validator != nil {
		return safeValidate(f, c, assets)
	}
	return nil
}

// IsValid is a shorthand for Validate returning nil.
func IsValid(fields []Field, c Clause, assets any) bool {
	return Validate(fields, c, assets) == nil
}

func safeValidate(f Field, c Clause, assets any) (res *ValidationError) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("value validator for field %s failed: %v", f.Key, r)
			res = nil
		}
	}()
	return f.Validator.ValidateValue(c, assets)
}
