package inference

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const indentUnit = "  "

// WritePretty writes raw as indented JSON followed by a newline. Object key
// order and number literals are kept as received, strings are written as UTF-8
// and HTML characters are not escaped.
func WritePretty(w io.Writer, raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	bw := bufio.NewWriter(w)
	p := &prettyPrinter{dec: dec, w: bw}
	if err := p.value(0); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("pretty print: trailing data after JSON value")
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

type prettyPrinter struct {
	dec *json.Decoder
	w   *bufio.Writer
	buf bytes.Buffer
}

func (p *prettyPrinter) value(depth int) error {
	tok, err := p.dec.Token()
	if err != nil {
		return fmt.Errorf("pretty print: %w", err)
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return p.container(depth, '{', '}', true)
		case '[':
			return p.container(depth, '[', ']', false)
		default:
			return fmt.Errorf("pretty print: unexpected %q", t)
		}
	case string:
		return p.str(t)
	case json.Number:
		_, err := p.w.WriteString(t.String())
		return err
	case bool:
		if t {
			_, err = p.w.WriteString("true")
		} else {
			_, err = p.w.WriteString("false")
		}
		return err
	case nil:
		_, err := p.w.WriteString("null")
		return err
	default:
		return fmt.Errorf("pretty print: unexpected token %T", tok)
	}
}

func (p *prettyPrinter) container(depth int, open, close byte, object bool) error {
	p.w.WriteByte(open)
	first := true
	for p.dec.More() {
		if !first {
			p.w.WriteByte(',')
		}
		first = false
		p.w.WriteByte('\n')
		p.w.WriteString(strings.Repeat(indentUnit, depth+1))
		if object {
			key, err := p.dec.Token()
			if err != nil {
				return fmt.Errorf("pretty print: %w", err)
			}
			ks, ok := key.(string)
			if !ok {
				return fmt.Errorf("pretty print: object key %v", key)
			}
			if err := p.str(ks); err != nil {
				return err
			}
			p.w.WriteString(": ")
		}
		if err := p.value(depth + 1); err != nil {
			return err
		}
	}
	// consume the closing delimiter
	if _, err := p.dec.Token(); err != nil {
		return fmt.Errorf("pretty print: %w", err)
	}
	if !first {
		p.w.WriteByte('\n')
		p.w.WriteString(strings.Repeat(indentUnit, depth))
	}
	return p.w.WriteByte(close)
}

func (p *prettyPrinter) str(s string) error {
	p.buf.Reset()
	enc := json.NewEncoder(&p.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	_, err := p.w.Write(unescapeLineSeps(bytes.TrimSuffix(p.buf.Bytes(), []byte("\n"))))
	return err
}

// unescapeLineSeps undoes the \u2028 and \u2029 escapes encoding/json applies
// regardless of SetEscapeHTML. Escaped backslashes are skipped pairwise so a
// literal `\\u2028` in the text stays as written.
func unescapeLineSeps(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+6 <= len(b) {
			switch string(b[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// ExtractText pulls the generated text out of the common response shapes: a
// bare string, [{"generated_text": ...}, ...] or {"generated_text": ...}.
func ExtractText(raw []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var list []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", false
		}
		return generatedText(list[0])
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		return generatedText(obj)
	}
	return "", false
}

func generatedText(obj map[string]json.RawMessage) (string, bool) {
	v, ok := obj["generated_text"]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}
