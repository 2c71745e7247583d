package exprlang

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/perghosh/filecleaner/internal/value"
)

// registerStandardMethods installs the root and "str::" namespaces (§4.7.5).
// Root methods are dispatched both as plain calls (len(x)) and as method
// calls on a receiver (x.len()); the receiver, when present, is prepended to
// args so a single implementation serves both call shapes.
func registerStandardMethods(rt *Runtime) {
	reg := func(name string, fn func(recv value.Value, args []value.Value) (value.Value, error)) {
		rt.RegisterMethod(name, fn)
	}

	reg("len", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewInt64(int64(len(v.AsString()))), nil
	})

	reg("if", func(recv value.Value, args []value.Value) (value.Value, error) {
		if len(args) != 3 {
			return value.Null(), fmt.Errorf("if() takes 3 arguments, got %d", len(args))
		}
		if args[0].AsBool() {
			return args[1], nil
		}
		return args[2], nil
	})

	reg("min", func(recv value.Value, args []value.Value) (value.Value, error) {
		return reduceNumeric(recv, args, func(a, b float64) bool { return a < b })
	})
	reg("max", func(recv value.Value, args []value.Value) (value.Value, error) {
		return reduceNumeric(recv, args, func(a, b float64) bool { return a > b })
	})
	reg("sum", func(recv value.Value, args []value.Value) (value.Value, error) {
		all := prependRecv(recv, args)
		var total float64
		intOnly := true
		for _, v := range all {
			total += v.AsF64()
			if v.Kind() != value.KindInt64 {
				intOnly = false
			}
		}
		if intOnly {
			return value.NewInt64(int64(total)), nil
		}
		return value.NewF64(total), nil
	})
	reg("average", func(recv value.Value, args []value.Value) (value.Value, error) {
		all := prependRecv(recv, args)
		if len(all) == 0 {
			return value.Null(), fmt.Errorf("average() expected at least 1 argument")
		}
		var total float64
		for _, v := range all {
			total += v.AsF64()
		}
		return value.NewF64(total / float64(len(all))), nil
	})
	reg("abs", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		if v.Kind() == value.KindInt64 {
			n := v.Int64()
			if n < 0 {
				n = -n
			}
			return value.NewInt64(n), nil
		}
		return value.NewF64(math.Abs(v.AsF64())), nil
	})
	reg("round", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewInt64(int64(math.Round(v.AsF64()))), nil
	})
	reg("floor", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewInt64(int64(math.Floor(v.AsF64()))), nil
	})
	reg("ceil", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewInt64(int64(math.Ceil(v.AsF64()))), nil
	})
	reg("is_null", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(v.IsNull()), nil
	})
	reg("is_not_null", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(!v.IsNull()), nil
	})

	reg("str::upper", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewString(strings.ToUpper(v.AsString())), nil
	})
	reg("str::lower", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewString(strings.ToLower(v.AsString())), nil
	})
	reg("str::trim", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewString(strings.TrimSpace(v.AsString())), nil
	})
	reg("str::contains", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, needle, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(strings.Contains(s.AsString(), needle.AsString())), nil
	})
	reg("str::replace", func(recv value.Value, args []value.Value) (value.Value, error) {
		all := prependRecv(recv, args)
		if len(all) != 3 {
			return value.Null(), fmt.Errorf("str::replace takes (text, old, new), got %d arguments", len(all))
		}
		return value.NewString(strings.ReplaceAll(all[0].AsString(), all[1].AsString(), all[2].AsString())), nil
	})
	reg("str::split_count", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, sep, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		if sep.AsString() == "" {
			return value.NewInt64(0), nil
		}
		return value.NewInt64(int64(strings.Count(s.AsString(), sep.AsString()) + 1)), nil
	})
	reg("str::tolower", aliasOf("str::lower"))
	reg("str::toupper", aliasOf("str::upper"))
	reg("str::length", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewInt64(int64(len(v.AsString()))), nil
	})
	reg("str::count", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, sub, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewInt64(int64(strings.Count(s.AsString(), sub.AsString()))), nil
	})
	reg("str::find", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, sub, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewInt64(int64(strings.Index(s.AsString(), sub.AsString()))), nil
	})
	reg("str::has", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, sub, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(strings.Contains(s.AsString(), sub.AsString())), nil
	})
	// str::has_tag/list_tags/missing treat the receiver as a comma-separated
	// tag list (the convention this engine's §4.7.5 table names but does not
	// define a wire format for); tags are matched trimmed and case-sensitive.
	reg("str::has_tag", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, tag, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(containsTag(s.AsString(), tag.AsString())), nil
	})
	reg("str::missing", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, tag, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(!containsTag(s.AsString(), tag.AsString())), nil
	})
	reg("str::list_tags", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewString(strings.Join(splitTags(v.AsString()), ",")), nil
	})
	reg("str::starts_with", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, prefix, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(strings.HasPrefix(s.AsString(), prefix.AsString())), nil
	})
	reg("str::ends_with", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, suffix, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(strings.HasSuffix(s.AsString(), suffix.AsString())), nil
	})
	reg("str::ltrim", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewString(strings.TrimLeft(v.AsString(), " \t\r\n")), nil
	})
	reg("str::rtrim", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewString(strings.TrimRight(v.AsString(), " \t\r\n")), nil
	})
	reg("str::substring", func(recv value.Value, args []value.Value) (value.Value, error) {
		all := prependRecv(recv, args)
		if len(all) != 2 && len(all) != 3 {
			return value.Null(), fmt.Errorf("str::substring takes (text, start[, length]), got %d arguments", len(all))
		}
		s := all[0].AsString()
		start := clampIndex(int(all[1].AsInt64()), len(s))
		end := len(s)
		if len(all) == 3 {
			end = clampIndex(start+int(all[2].AsInt64()), len(s))
		}
		if end < start {
			end = start
		}
		return value.NewString(s[start:end]), nil
	})
	reg("str::reverse", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		r := []rune(v.AsString())
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return value.NewString(string(r)), nil
	})
	reg("str::repeat", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, count, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		n := int(count.AsInt64())
		if n < 0 {
			n = 0
		}
		return value.NewString(strings.Repeat(s.AsString(), n)), nil
	})
	reg("str::is_numeric", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		s := v.AsString()
		if s == "" {
			return value.NewBool(false), nil
		}
		for _, r := range s {
			if !unicode.IsDigit(r) {
				return value.NewBool(false), nil
			}
		}
		return value.NewBool(true), nil
	})
	reg("str::is_alpha", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		s := v.AsString()
		if s == "" {
			return value.NewBool(false), nil
		}
		for _, r := range s {
			if !unicode.IsLetter(r) {
				return value.NewBool(false), nil
			}
		}
		return value.NewBool(true), nil
	})
	reg("str::is_empty", func(recv value.Value, args []value.Value) (value.Value, error) {
		v, err := arg0(recv, args)
		if err != nil {
			return value.Null(), err
		}
		return value.NewBool(v.AsString() == ""), nil
	})
	reg("str::char_at", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, idx, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		r := []rune(s.AsString())
		i := int(idx.AsInt64())
		if i < 0 || i >= len(r) {
			return value.NewString(""), nil
		}
		return value.NewString(string(r[i])), nil
	})
	reg("str::left", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, n, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		r := []rune(s.AsString())
		end := clampIndex(int(n.AsInt64()), len(r))
		return value.NewString(string(r[:end])), nil
	})
	reg("str::right", func(recv value.Value, args []value.Value) (value.Value, error) {
		s, n, err := arg0and1(recv, args)
		if err != nil {
			return value.Null(), err
		}
		r := []rune(s.AsString())
		count := clampIndex(int(n.AsInt64()), len(r))
		return value.NewString(string(r[len(r)-count:])), nil
	})
	reg("str::mid", func(recv value.Value, args []value.Value) (value.Value, error) {
		all := prependRecv(recv, args)
		if len(all) != 3 {
			return value.Null(), fmt.Errorf("str::mid takes (text, start, length), got %d arguments", len(all))
		}
		r := []rune(all[0].AsString())
		start := clampIndex(int(all[1].AsInt64()), len(r))
		end := clampIndex(start+int(all[2].AsInt64()), len(r))
		if end < start {
			end = start
		}
		return value.NewString(string(r[start:end])), nil
	})
}

// aliasOf returns a method implementation that forwards to an
// already-registered name, for §4.7.5 synonyms (tolower/lower, toupper/upper).
func aliasOf(name string) func(value.Value, []value.Value) (value.Value, error) {
	return func(recv value.Value, args []value.Value) (value.Value, error) {
		switch name {
		case "str::lower":
			v, err := arg0(recv, args)
			if err != nil {
				return value.Null(), err
			}
			return value.NewString(strings.ToLower(v.AsString())), nil
		case "str::upper":
			v, err := arg0(recv, args)
			if err != nil {
				return value.Null(), err
			}
			return value.NewString(strings.ToUpper(v.AsString())), nil
		default:
			return value.Null(), fmt.Errorf("unknown alias target %q", name)
		}
	}
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsTag(s, tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, t := range splitTags(s) {
		if t == tag {
			return true
		}
	}
	return false
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

// prependRecv merges a non-null receiver in front of args, so "x.f(y)" and
// "f(x, y)" reach the implementation identically.
func prependRecv(recv value.Value, args []value.Value) []value.Value {
	if recv.IsNull() {
		return args
	}
	out := make([]value.Value, 0, len(args)+1)
	out = append(out, recv)
	out = append(out, args...)
	return out
}

func arg0(recv value.Value, args []value.Value) (value.Value, error) {
	all := prependRecv(recv, args)
	if len(all) != 1 {
		return value.Null(), fmt.Errorf("expected 1 argument, got %d", len(all))
	}
	return all[0], nil
}

func arg0and1(recv value.Value, args []value.Value) (value.Value, value.Value, error) {
	all := prependRecv(recv, args)
	if len(all) != 2 {
		return value.Null(), value.Null(), fmt.Errorf("expected 2 arguments, got %d", len(all))
	}
	return all[0], all[1], nil
}

func reduceNumeric(recv value.Value, args []value.Value, better func(a, b float64) bool) (value.Value, error) {
	all := prependRecv(recv, args)
	if len(all) == 0 {
		return value.Null(), fmt.Errorf("expected at least 1 argument")
	}
	best := all[0]
	for _, v := range all[1:] {
		if better(v.AsF64(), best.AsF64()) {
			best = v
		}
	}
	return best, nil
}
