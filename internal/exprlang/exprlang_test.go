package exprlang

import (
	"testing"

	"github.com/perghosh/filecleaner/internal/value"
)

func evalOrFatal(t *testing.T, expr string, rt *Runtime) value.Value {
	t.Helper()
	if rt == nil {
		rt = NewRuntime()
	}
	v, err := Eval(expr, rt)
	if err != nil {
		t.Fatalf("eval %q: %v", expr, err)
	}
	return v
}

func TestArithmeticPrecedence(t *testing.T) {
	v := evalOrFatal(t, "2 + 3 * 4", nil)
	if v.Int64() != 14 {
		t.Fatalf("got %v, want 14", v.Int64())
	}
}

func TestNoPrecedenceVariant(t *testing.T) {
	p, err := CompileNoPrecedence("2 + 3 * 4")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	v, err := Run(p, NewRuntime())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.Int64() != 20 {
		t.Fatalf("got %v, want 20 (strictly left to right)", v.Int64())
	}
}

func TestParenGrouping(t *testing.T) {
	v := evalOrFatal(t, "(2 + 3) * 4", nil)
	if v.Int64() != 20 {
		t.Fatalf("got %v, want 20", v.Int64())
	}
}

func TestStringConcatAndComparison(t *testing.T) {
	v := evalOrFatal(t, `"ab" + "cd" == "abcd"`, nil)
	if !v.Bool() {
		t.Fatal("expected true")
	}
}

func TestVariableResolution(t *testing.T) {
	rt := NewRuntime()
	rt.SetVariable("x", value.NewInt64(10))
	v := evalOrFatal(t, "x * 2 + 1", rt)
	if v.Int64() != 21 {
		t.Fatalf("got %v, want 21", v.Int64())
	}
}

func TestUnknownVariableError(t *testing.T) {
	_, err := Eval("missing + 1", NewRuntime())
	if err == nil {
		t.Fatal("expected an error for unknown identifier")
	}
	var uv *ErrUnknownVariable
	if !asErr(err, &uv) {
		t.Fatalf("expected ErrUnknownVariable, got %v", err)
	}
}

func asErr(err error, target **ErrUnknownVariable) bool {
	if uv, ok := err.(*ErrUnknownVariable); ok {
		*target = uv
		return true
	}
	return false
}

func TestRootFunctionCall(t *testing.T) {
	v := evalOrFatal(t, `len("hello")`, nil)
	if v.Int64() != 5 {
		t.Fatalf("got %v, want 5", v.Int64())
	}
}

func TestMethodCallOnReceiver(t *testing.T) {
	v := evalOrFatal(t, `"HeLLo".str::lower()`, nil)
	if v.Str() != "hello" {
		t.Fatalf("got %q, want hello", v.Str())
	}
}

func TestNamespacedCall(t *testing.T) {
	v := evalOrFatal(t, `str::upper("abc")`, nil)
	if v.Str() != "ABC" {
		t.Fatalf("got %q, want ABC", v.Str())
	}
}

func TestMultiArgMethod(t *testing.T) {
	v := evalOrFatal(t, `str::contains("hello world", "wor")`, nil)
	if !v.Bool() {
		t.Fatal("expected true")
	}
}

func TestNestedCalls(t *testing.T) {
	v := evalOrFatal(t, `len(str::trim("  hi  "))`, nil)
	if v.Int64() != 2 {
		t.Fatalf("got %v, want 2", v.Int64())
	}
}

func TestLogicalAndShortCircuitPrecedence(t *testing.T) {
	v := evalOrFatal(t, "1 < 2 && 3 < 4", nil)
	if !v.Bool() {
		t.Fatal("expected true")
	}
}

func TestUnaryNegationAndNot(t *testing.T) {
	v := evalOrFatal(t, "-5 + 3", nil)
	if v.Int64() != -2 {
		t.Fatalf("got %v, want -2", v.Int64())
	}
	v2 := evalOrFatal(t, "!(1 == 2)", nil)
	if !v2.Bool() {
		t.Fatal("expected true")
	}
}

func TestCustomPrecedenceTable(t *testing.T) {
	// Swap + and * precedence relative to the default table.
	prec := map[string]int{"+": 10, "*": 9}
	p, err := CompileWithPrecedence("2 + 3 * 4", prec)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	v, err := Run(p, NewRuntime())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// With '+' binding tighter than '*': 2 + 3 = 5, then 5 * 4 = 20.
	if v.Int64() != 20 {
		t.Fatalf("got %v, want 20", v.Int64())
	}
}

func TestTypeMismatchError(t *testing.T) {
	rt := NewRuntime()
	rt.SetVariable("p", value.NewPtr("x", 1))
	_, err := Eval("p + 1", rt)
	if err == nil {
		t.Fatal("expected a type mismatch error")
	}
}

func TestRootMathMethods(t *testing.T) {
	if v := evalOrFatal(t, "sum(1, 2, 3)", nil); v.Int64() != 6 {
		t.Fatalf("sum: got %v, want 6", v.Int64())
	}
	if v := evalOrFatal(t, "average(2, 4)", nil); v.F64() != 3 {
		t.Fatalf("average: got %v, want 3", v.F64())
	}
	if v := evalOrFatal(t, "abs(0 - 5)", nil); v.Int64() != 5 {
		t.Fatalf("abs: got %v, want 5", v.Int64())
	}
	if v := evalOrFatal(t, "is_null(1)", nil); v.Bool() {
		t.Fatal("is_null(1) should be false")
	}
}

func TestStrNamespaceExtras(t *testing.T) {
	if v := evalOrFatal(t, `str::starts_with("hello", "he")`, nil); !v.Bool() {
		t.Fatal("expected true")
	}
	if v := evalOrFatal(t, `str::left("hello", 3)`, nil); v.Str() != "hel" {
		t.Fatalf("got %q, want hel", v.Str())
	}
	if v := evalOrFatal(t, `str::right("hello", 3)`, nil); v.Str() != "llo" {
		t.Fatalf("got %q, want llo", v.Str())
	}
	if v := evalOrFatal(t, `str::mid("hello", 1, 3)`, nil); v.Str() != "ell" {
		t.Fatalf("got %q, want ell", v.Str())
	}
	if v := evalOrFatal(t, `str::reverse("abc")`, nil); v.Str() != "cba" {
		t.Fatalf("got %q, want cba", v.Str())
	}
	if v := evalOrFatal(t, `str::has_tag("go,cli,parser", "cli")`, nil); !v.Bool() {
		t.Fatal("expected true")
	}
	if v := evalOrFatal(t, `str::missing("go,cli,parser", "rust")`, nil); !v.Bool() {
		t.Fatal("expected true")
	}
	if v := evalOrFatal(t, `str::is_numeric("123")`, nil); !v.Bool() {
		t.Fatal("expected true")
	}
}

func TestKeywordOperators(t *testing.T) {
	cases := []struct {
		expr string
		want bool
	}{
		{"1 < 2 and 3 < 4", true},
		{"1 > 2 or 3 < 4", true},
		{"1 > 2 and 3 < 4", false},
		{"1 not 2", true},  // "not" resolves to "!=" (binary), per the original
		{"1 not 1", false},
	}
	for _, c := range cases {
		v := evalOrFatal(t, c.expr, nil)
		if v.Bool() != c.want {
			t.Fatalf("%q: got %v, want %v", c.expr, v.Bool(), c.want)
		}
	}
	if v := evalOrFatal(t, "5 mod 3", nil); v.Int64() != 2 {
		t.Fatalf("mod: got %v, want 2", v.Int64())
	}
	if v := evalOrFatal(t, "5 xor 3", nil); v.Int64() != 6 {
		t.Fatalf("xor: got %v, want 6", v.Int64())
	}
}

func TestKeywordOperatorRequiresIdentifierBoundary(t *testing.T) {
	// "xor" at the start of "xorcist" must not be split off as a keyword
	// operator - the boundary-after check should reject the match and fall
	// through to reading the whole identifier.
	_, err := Eval("xorcist", NewRuntime())
	var uv *ErrUnknownVariable
	if !asErr(err, &uv) || uv.Name != "xorcist" {
		t.Fatalf("expected unknown identifier %q, got %v", "xorcist", err)
	}
}

func TestAssignmentStatement(t *testing.T) {
	rt := NewRuntime()
	if _, err := Eval("x = 5; x * 2", rt); err != nil {
		t.Fatalf("eval: %v", err)
	}
	v, err := Eval("x = 5; x * 2", rt)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Int64() != 10 {
		t.Fatalf("got %v, want 10", v.Int64())
	}
}

func TestBareAssignmentEvaluatesToNull(t *testing.T) {
	rt := NewRuntime()
	v, err := Eval("y = 7", rt)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !v.IsNull() {
		t.Fatalf("expected Null, got %v", v)
	}
	got, ok := rt.Variable("y")
	if !ok || got.Int64() != 7 {
		t.Fatalf("expected y bound to 7, got %v, %v", got, ok)
	}
}

func TestFinderCallback(t *testing.T) {
	rt := NewRuntime()
	rt.SetFinder(func(name string) (value.Value, bool) {
		if name == "col" {
			return value.NewInt64(42), true
		}
		return value.Null(), false
	})
	v := evalOrFatal(t, "col + 1", rt)
	if v.Int64() != 43 {
		t.Fatalf("got %v, want 43", v.Int64())
	}
}

func TestFinderLowerPriorityThanExplicitVariable(t *testing.T) {
	rt := NewRuntime()
	rt.SetVariable("col", value.NewInt64(1))
	rt.SetFinder(func(name string) (value.Value, bool) { return value.NewInt64(99), true })
	v := evalOrFatal(t, "col", rt)
	if v.Int64() != 1 {
		t.Fatalf("explicit variable should win over finder, got %v", v.Int64())
	}
}

func TestRenderRoundTrip(t *testing.T) {
	exprs := []string{
		"2 + 3 * 4",
		`"ab" + "cd" == "abcd"`,
		"x * 2 + 1",
		"-5 + 3",
		`len("hello")`,
	}
	for _, e := range exprs {
		p, err := Compile(e)
		if err != nil {
			t.Fatalf("compile %q: %v", e, err)
		}
		rendered, err := Render(p)
		if err != nil {
			t.Fatalf("render %q: %v", e, err)
		}
		reNoPrec, err := CompileNoPrecedence(rendered)
		if err != nil {
			t.Fatalf("recompile rendered %q (from %q): %v", rendered, e, err)
		}
		if len(reNoPrec) != len(p) {
			t.Fatalf("%q: round-trip instruction count mismatch: got %d, want %d (rendered %q)", e, len(reNoPrec), len(p), rendered)
		}
	}
}
