package userconfig

// StripComments removes // line comments and /* */ block comments.
// Comment markers inside string literals are preserved, and newlines
// inside block comments are kept so parser offsets still map to lines.
func StripComments(src []byte) []byte {
	out := make([]byte, 0, len(src))

	const (
		code = iota
		str
		line
		block
	)
	state := code

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch state {
		case code:
			switch {
			case c == '"':
				state = str
				out = append(out, c)
			case c == '/' && i+1 < len(src) && src[i+1] == '/':
				state = line
				i++
			case c == '/' && i+1 < len(src) && src[i+1] == '*':
				state = block
				i++
			default:
				out = append(out, c)
			}
		case str:
			out = append(out, c)
			switch c {
			case '\\':
				if i+1 < len(src) {
					i++
					out = append(out, src[i])
				}
			case '"':
				state = code
			}
		case line:
			if c == '\n' {
				state = code
				out = append(out, c)
			}
		case block:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				state = code
				i++
			} else if c == '\n' {
				out = append(out, c)
			}
		}
	}
	return out
}
