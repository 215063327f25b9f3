package entry

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads an entry in the notation produced by String:
//
//	a/b/C            class
//	a/b/C.f:I        field
//	a/b/C.m(I)V      method
//	a/b/C.m(I)V#1    local variable slot 1 of m
func Parse(s string) (Entry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty entry")
	}
	if i := strings.LastIndexByte(s, '#'); i >= 0 {
		m, err := parseMethod(s[:i])
		if err != nil {
			return nil, err
		}
		index, err := strconv.Atoi(s[i+1:])
		if err != nil || index < 0 {
			return nil, fmt.Errorf("invalid local index in %q", s)
		}
		return NewLocalVariable(m, index), nil
	}
	if strings.IndexByte(s, '(') >= 0 {
		return parseMethod(s)
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		dot := strings.LastIndexByte(s[:i], '.')
		if dot <= 0 {
			return nil, fmt.Errorf("invalid field %q", s)
		}
		desc, err := ParseTypeDescriptor(s[i+1:])
		if err != nil {
			return nil, err
		}
		return NewField(NewClass(s[:dot]), s[dot+1:i], desc), nil
	}
	if strings.ContainsAny(s, ".;") {
		return nil, fmt.Errorf("invalid class name %q", s)
	}
	return NewClass(s), nil
}

func parseMethod(s string) (MethodEntry, error) {
	paren := strings.IndexByte(s, '(')
	if paren < 0 {
		return MethodEntry{}, fmt.Errorf("invalid method %q", s)
	}
	dot := strings.LastIndexByte(s[:paren], '.')
	if dot <= 0 || dot == paren-1 {
		return MethodEntry{}, fmt.Errorf("invalid method %q", s)
	}
	desc, err := ParseMethodDescriptor(s[paren:])
	if err != nil {
		return MethodEntry{}, err
	}
	return NewMethod(NewClass(s[:dot]), s[dot+1:paren], desc), nil
}
