package gpu

import (
	"fmt"
	"regexp"
	"strings"
)

// workItem computes the output of one work-item at global id (i, j).
type workItem func(i, j int)

type argKind uint8

const (
	argBuffer argKind = iota
	argInt
)

// softwareKernel is the host implementation of a kernel the software
// backend knows how to "compile".
type softwareKernel struct {
	params []argKind
	// writes marks buffer parameters the kernel stores into.
	writes []bool
	// bind checks the bound arguments against the global range and returns
	// the per-work-item function.
	bind func(args []any, global NDRange) (workItem, error)
}

var softwareKernels = map[string]*softwareKernel{
	MatMulKernelName: {
		params: []argKind{argBuffer, argBuffer, argBuffer, argInt},
		writes: []bool{false, false, true, false},
		bind:   bindMatMul,
	},
}

func bindMatMul(args []any, global NDRange) (workItem, error) {
	a := args[0].(*softwareBuffer).data
	b := args[1].(*softwareBuffer).data
	c := args[2].(*softwareBuffer).data
	n := int(args[3].(int32))

	if n <= 0 {
		return nil, fmt.Errorf("%w: N=%d", ErrInvalidArgument, n)
	}

	if global.X > n || global.Y > n {
		return nil, fmt.Errorf("%w: global range %+v exceeds N=%d", ErrInvalidArgument, global, n)
	}

	for i, buf := range [][]float32{a, b, c} {
		if len(buf) < n*n {
			return nil, fmt.Errorf("%w: argument %d holds %d elements, N*N=%d", ErrInvalidArgument, i, len(buf), n*n)
		}
	}

	return func(i, j int) {
		var sum float32
		for k := range n {
			sum += float32(a[i*n+k] * b[k*n+j])
		}

		c[i*n+j] = sum
	}, nil
}

var (
	kernelDeclRE   = regexp.MustCompile(`\b(?:__kernel|kernel)\s+void\s+([A-Za-z_]\w*)\s*\(([^)]*)\)`)
	clStdRE        = regexp.MustCompile(`^-cl-std=CL(1\.[0-2]|2\.0|3\.0)$`)
	defineOptionRE = regexp.MustCompile(`^-D[A-Za-z_]\w*(=\S*)?$`)
)

var flagOptions = map[string]bool{
	"-cl-fast-relaxed-math":         true,
	"-cl-mad-enable":                true,
	"-cl-no-signed-zeros":           true,
	"-cl-finite-math-only":          true,
	"-cl-denorms-are-zero":          true,
	"-cl-opt-disable":               true,
	"-cl-single-precision-constant": true,
	"-w":                            true,
	"-Werror":                       true,
}

// compileSoftware validates the build options and the source, and maps each
// declared kernel onto its host implementation. The returned log is the
// build log in both the success and the failure case.
func compileSoftware(source, options string) (map[string]*softwareKernel, string, error) {
	var diags []string

	for _, opt := range strings.Fields(options) {
		if flagOptions[opt] || clStdRE.MatchString(opt) || defineOptionRE.MatchString(opt) {
			continue
		}

		diags = append(diags, fmt.Sprintf("error: invalid build option '%s'", opt))
	}

	code := blankComments(source)
	diags = append(diags, checkBalanced(code)...)

	kernels := make(map[string]*softwareKernel)

	for _, m := range kernelDeclRE.FindAllStringSubmatchIndex(code, -1) {
		name := code[m[2]:m[3]]
		line := lineOf(code, m[0])

		impl, ok := softwareKernels[name]
		if !ok {
			diags = append(diags, fmt.Sprintf("<source>:%d: error: kernel '%s' has no software implementation", line, name))
			continue
		}

		if msg := checkParams(impl, code[m[4]:m[5]]); msg != "" {
			diags = append(diags, fmt.Sprintf("<source>:%d: error: kernel '%s': %s", line, name, msg))
			continue
		}

		if _, dup := kernels[name]; dup {
			diags = append(diags, fmt.Sprintf("<source>:%d: error: redefinition of kernel '%s'", line, name))
			continue
		}

		kernels[name] = impl
	}

	if len(kernels) == 0 && len(diags) == 0 {
		diags = append(diags, "error: program contains no kernel functions")
	}

	if len(diags) > 0 {
		log := strings.Join(diags, "\n")
		return nil, log, &CompileError{Options: options, Log: log}
	}

	return kernels, fmt.Sprintf("built %d kernel(s)", len(kernels)), nil
}

// checkParams compares a declared parameter list against the kernel's
// host implementation.
func checkParams(impl *softwareKernel, params string) string {
	var decl []string
	for p := range strings.SplitSeq(params, ",") {
		if p = strings.TrimSpace(p); p != "" {
			decl = append(decl, p)
		}
	}

	if len(decl) != len(impl.params) {
		return fmt.Sprintf("expected %d parameters, found %d", len(impl.params), len(decl))
	}

	for i, p := range decl {
		isPtr := strings.Contains(p, "*")

		switch impl.params[i] {
		case argBuffer:
			if !isPtr || !strings.Contains(p, "float") {
				return fmt.Sprintf("parameter %d must be a __global float pointer, found '%s'", i, p)
			}
		case argInt:
			if isPtr || !strings.Contains(p, "int") {
				return fmt.Sprintf("parameter %d must be an int, found '%s'", i, p)
			}
		}
	}

	return ""
}

// checkBalanced reports unmatched braces and parentheses.
func checkBalanced(code string) []string {
	var (
		diags []string
		stack []int
	)

	pairs := map[byte]byte{'}': '{', ')': '('}

	for i := 0; i < len(code); i++ {
		switch ch := code[i]; ch {
		case '{', '(':
			stack = append(stack, i)
		case '}', ')':
			if len(stack) == 0 || code[stack[len(stack)-1]] != pairs[ch] {
				return append(diags, fmt.Sprintf("<source>:%d: error: unexpected '%c'", lineOf(code, i), ch))
			}

			stack = stack[:len(stack)-1]
		}
	}

	for _, pos := range stack {
		diags = append(diags, fmt.Sprintf("<source>:%d: error: unterminated '%c'", lineOf(code, pos), code[pos]))
	}

	return diags
}

// blankComments replaces comments with spaces, keeping newlines so that
// offsets and line numbers still match the input.
func blankComments(src string) string {
	out := []byte(src)

	for i := 0; i+1 < len(out); i++ {
		switch {
		case out[i] == '/' && out[i+1] == '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		case out[i] == '/' && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i += 2

			for ; i < len(out); i++ {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++

					break
				}

				if out[i] != '\n' {
					out[i] = ' '
				}
			}
		}
	}

	return string(out)
}

func lineOf(s string, offset int) int {
	return strings.Count(s[:offset], "\n") + 1
}
