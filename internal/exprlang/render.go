package exprlang

import (
	"fmt"
	"strconv"
	"strings"
)

// Render renders a compiled Program back into an infix expression string,
// fully parenthesizing every binary application so the result re-tokenizes
// and re-compiles (with CompileNoPrecedence) to the same structure
// regardless of operator precedence - the round-trip Testable Property 5
// names (§8): compile_no_precedence(tokenise(render(postfix(compile(tokenise(E))))))
// must equal compile(tokenise(E)).
func Render(p Program) (string, error) {
	var stack []string
	var statements []string

	for _, ins := range p {
		switch ins.Kind {
		case OpPushNumber:
			stack = append(stack, ins.Text)

		case OpPushString:
			stack = append(stack, strconv.Quote(ins.Text))

		case OpPushVariable:
			stack = append(stack, ins.Text)

		case OpUnaryNot:
			v, err := renderPop(&stack)
			if err != nil {
				return "", err
			}
			stack = append(stack, "!"+v)

		case OpUnaryNeg:
			v, err := renderPop(&stack)
			if err != nil {
				return "", err
			}
			stack = append(stack, "-"+v)

		case OpBinary:
			right, err := renderPop(&stack)
			if err != nil {
				return "", err
			}
			left, err := renderPop(&stack)
			if err != nil {
				return "", err
			}
			stack = append(stack, "("+left+" "+ins.Text+" "+right+")")

		case OpAssign:
			rhs, err := renderPop(&stack)
			if err != nil {
				return "", err
			}
			stack = append(stack, "("+ins.Text+" = "+rhs+")")

		case OpCall:
			args, err := renderPopN(&stack, ins.Argc)
			if err != nil {
				return "", err
			}
			stack = append(stack, ins.Text+"("+strings.Join(args, ", ")+")")

		case OpMethod:
			args, err := renderPopN(&stack, ins.Argc)
			if err != nil {
				return "", err
			}
			recv, err := renderPop(&stack)
			if err != nil {
				return "", err
			}
			stack = append(stack, recv+"."+ins.Text+"("+strings.Join(args, ", ")+")")

		case OpStatementEnd:
			v, err := renderPop(&stack)
			if err != nil {
				return "", err
			}
			if len(stack) != 0 {
				return "", fmt.Errorf("exprlang: render: statement left %d extra values", len(stack))
			}
			statements = append(statements, v)

		default:
			return "", fmt.Errorf("exprlang: render: unknown instruction kind %d", ins.Kind)
		}
	}

	switch len(stack) {
	case 0:
		// Nothing is left on the stack when the program is empty or its
		// last statement was already closed by ';'; nothing to append as a
		// final statement.
	case 1:
		statements = append(statements, stack[0])
	default:
		return "", fmt.Errorf("exprlang: render: program left %d extra values", len(stack))
	}

	return strings.Join(statements, "; "), nil
}

func renderPop(stack *[]string) (string, error) {
	s := *stack
	if len(s) == 0 {
		return "", fmt.Errorf("exprlang: render: stack underflow")
	}
	v := s[len(s)-1]
	*stack = s[:len(s)-1]
	return v, nil
}

func renderPopN(stack *[]string, n int) ([]string, error) {
	s := *stack
	if len(s) < n {
		return nil, fmt.Errorf("exprlang: render: stack underflow popping %d arguments", n)
	}
	args := make([]string, n)
	copy(args, s[len(s)-n:])
	*stack = s[:len(s)-n]
	return args, nil
}
