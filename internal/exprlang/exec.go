package exprlang

import (
	"fmt"
	"strconv"

	"github.com/perghosh/filecleaner/internal/value"
)

// Run executes a compiled Program against rt, returning the single
// resulting value.Value left on the stack (§4.7.3).
func Run(p Program, rt *Runtime) (value.Value, error) {
	var stack []value.Value
	push := func(v value.Value) { stack = append(stack, v) }
	pop := func() (value.Value, error) {
		if len(stack) == 0 {
			return value.Null(), fmt.Errorf("exprlang: stack underflow")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, ins := range p {
		switch ins.Kind {
		case OpPushNumber:
			v, err := parseNumber(ins.Text, ins.Float)
			if err != nil {
				return value.Null(), err
			}
			push(v)

		case OpPushString:
			push(value.NewString(ins.Text))

		case OpPushVariable:
			v, ok := rt.Variable(ins.Text)
			if !ok {
				return value.Null(), &ErrUnknownVariable{Name: ins.Text}
			}
			push(v)

		case OpAssign:
			v, err := pop()
			if err != nil {
				return value.Null(), err
			}
			rt.SetVariable(ins.Text, v)

		case OpUnaryNot:
			v, err := pop()
			if err != nil {
				return value.Null(), err
			}
			push(value.NewBool(!v.AsBool()))

		case OpUnaryNeg:
			v, err := pop()
			if err != nil {
				return value.Null(), err
			}
			neg, err := negate(v)
			if err != nil {
				return value.Null(), err
			}
			push(neg)

		case OpBinary:
			right, err := pop()
			if err != nil {
				return value.Null(), err
			}
			left, err := pop()
			if err != nil {
				return value.Null(), err
			}
			result, err := value.Binary(value.Op(ins.Text), left, right)
			if err != nil {
				return value.Null(), err
			}
			push(result)

		case OpStatementEnd:
			// Clears the value stack at a statement boundary (§4.7.3:
			// "Separator ';' → clear the value stack").
			stack = stack[:0]

		case OpCall:
			args, err := popN(&stack, ins.Argc)
			if err != nil {
				return value.Null(), err
			}
			m, ok := rt.Method(ins.Text)
			if !ok {
				return value.Null(), &ErrUnknownMethod{Name: ins.Text}
			}
			result, err := m(value.Null(), args)
			if err != nil {
				return value.Null(), fmt.Errorf("exprlang: %s: %w", ins.Text, err)
			}
			push(result)

		case OpMethod:
			args, err := popN(&stack, ins.Argc)
			if err != nil {
				return value.Null(), err
			}
			recv, err := pop()
			if err != nil {
				return value.Null(), err
			}
			m, ok := rt.Method(ins.Text)
			if !ok {
				return value.Null(), &ErrUnknownMethod{Name: ins.Text}
			}
			result, err := m(recv, args)
			if err != nil {
				return value.Null(), fmt.Errorf("exprlang: %s: %w", ins.Text, err)
			}
			push(result)

		default:
			return value.Null(), fmt.Errorf("exprlang: unknown instruction kind %d", ins.Kind)
		}
	}

	// A pure assignment (or a final statement that was only an assignment)
	// leaves nothing on the stack - calculate_s never pushes a value back
	// after binding "=", so an empty stack at EOF is a valid result, not
	// an underflow: it evaluates to Null.
	switch len(stack) {
	case 0:
		return value.Null(), nil
	case 1:
		return stack[0], nil
	default:
		return value.Null(), fmt.Errorf("exprlang: program left %d values on the stack, want 1", len(stack))
	}
}

// Eval is a convenience wrapper that compiles and runs expr in one call.
func Eval(expr string, rt *Runtime) (value.Value, error) {
	p, err := Compile(expr)
	if err != nil {
		return value.Null(), err
	}
	return Run(p, rt)
}

func popN(stack *[]value.Value, n int) ([]value.Value, error) {
	s := *stack
	if len(s) < n {
		return nil, fmt.Errorf("exprlang: stack underflow popping %d arguments", n)
	}
	args := make([]value.Value, n)
	copy(args, s[len(s)-n:])
	*stack = s[:len(s)-n]
	return args, nil
}

func parseNumber(text string, isFloat bool) (value.Value, error) {
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value.Null(), fmt.Errorf("exprlang: invalid number literal %q: %w", text, err)
		}
		return value.NewF64(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return value.Null(), fmt.Errorf("exprlang: invalid number literal %q: %w", text, err)
	}
	return value.NewInt64(i), nil
}

func negate(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindInt64:
		return value.NewInt64(-v.Int64()), nil
	case value.KindF64:
		return value.NewF64(-v.F64()), nil
	case value.KindBool:
		return value.NewInt64(-v.AsInt64()), nil
	default:
		return value.Null(), fmt.Errorf("exprlang: cannot negate a value of kind %v", v.Kind())
	}
}
