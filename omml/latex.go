package omml

// OMML → LaTeX rendering. One construct, one case; the default arm is the
// fallback token, which keeps "recognized but unimplemented" and "malformed"
// on the same degradation path.

import (
	"strings"
	"unicode"
)

// Latex renders a parsed math subtree as LaTeX notation. It never fails:
// unrecognized constructs, missing required children, and even a panic while
// translating one node all degrade to a visible \text{[...]} token so that
// sibling content keeps translating.
func Latex(n *Node) (out string) {
	if n == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			out = fallback(n)
		}
	}()
	return translate(n)
}

func translate(n *Node) string {
	switch n.Kind {
	case KindMath, KindArg:
		return translateChildren(n)

	case KindRun:
		return runText(n)

	case KindFraction:
		num, den := n.arg("num"), n.arg("den")
		if num == nil || den == nil {
			return fallback(n)
		}
		return `\frac{` + translate(num) + `}{` + translate(den) + `}`

	case KindSup:
		base, sup := n.arg("e"), n.arg("sup")
		if base == nil || sup == nil {
			return fallback(n)
		}
		return "{" + translate(base) + "}^{" + translate(sup) + "}"

	case KindSub:
		base, sub := n.arg("e"), n.arg("sub")
		if base == nil || sub == nil {
			return fallback(n)
		}
		return "{" + translate(base) + "}_{" + translate(sub) + "}"

	case KindSubSup:
		base, sub, sup := n.arg("e"), n.arg("sub"), n.arg("sup")
		if base == nil || sub == nil || sup == nil {
			return fallback(n)
		}
		return "{" + translate(base) + "}_{" + translate(sub) + "}^{" + translate(sup) + "}"

	case KindRadical:
		return radical(n)

	case KindNary:
		return nary(n)

	case KindDelim:
		return delimiter(n)

	case KindAccent:
		base := n.arg("e")
		if base == nil {
			return fallback(n)
		}
		chr, _ := n.prop("accPr", "chr")
		cmd, ok := accentCommands[chr]
		if !ok {
			cmd = `\hat`
		}
		return cmd + "{" + translate(base) + "}"

	case KindMatrix:
		return matrix(n)

	case KindFunc:
		return function(n)

	default:
		return fallback(n)
	}
}

func translateChildren(n *Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Kind == KindProp || c.Tag == "t" {
			continue
		}
		sb.WriteString(translate(c))
	}
	return sb.String()
}

func radical(n *Node) string {
	e := n.arg("e")
	if e == nil {
		return fallback(n)
	}
	if hide, _ := n.prop("radPr", "degHide"); hide == "1" || hide == "on" || hide == "true" {
		return `\sqrt{` + translate(e) + `}`
	}
	if deg := n.arg("deg"); deg != nil {
		if d := translate(deg); d != "" {
			return `\sqrt[` + d + `]{` + translate(e) + `}`
		}
	}
	return `\sqrt{` + translate(e) + `}`
}

func nary(n *Node) string {
	e := n.arg("e")
	if e == nil {
		return fallback(n)
	}
	chr, _ := n.prop("naryPr", "chr")
	cmd, ok := naryCommands[chr]
	if !ok {
		// Unlisted glyph: keep it visible rather than guessing an operator.
		cmd = escapeText(chr)
	}
	var sb strings.Builder
	sb.WriteString(cmd)
	if sub := n.arg("sub"); sub != nil {
		if s := translate(sub); s != "" {
			sb.WriteString("_{" + s + "}")
		}
	}
	if sup := n.arg("sup"); sup != nil {
		if s := translate(sup); s != "" {
			sb.WriteString("^{" + s + "}")
		}
	}
	sb.WriteString("{" + translate(e) + "}")
	return sb.String()
}

func delimiter(n *Node) string {
	operands := n.args("e")
	if len(operands) == 0 {
		return fallback(n)
	}
	beg, hasBeg := n.prop("dPr", "begChr")
	end, hasEnd := n.prop("dPr", "endChr")
	sep, hasSep := n.prop("dPr", "sepChr")
	if !hasBeg {
		beg = "("
	}
	if !hasEnd {
		end = ")"
	}
	if !hasSep {
		sep = "|"
	}

	var sb strings.Builder
	sb.WriteString(`\left` + delimChar(beg))
	for i, op := range operands {
		if i > 0 {
			sb.WriteString(` \middle` + delimChar(sep) + ` `)
		}
		sb.WriteString(translate(op))
	}
	sb.WriteString(`\right` + delimChar(end))
	return sb.String()
}

func delimChar(chr string) string {
	if cmd, ok := delimCommands[chr]; ok {
		return cmd
	}
	return chr
}

func matrix(n *Node) string {
	rows := n.args("mr")
	if len(rows) == 0 {
		return fallback(n)
	}
	var lines []string
	for _, row := range rows {
		var cells []string
		for _, cell := range row.args("e") {
			cells = append(cells, translate(cell))
		}
		lines = append(lines, strings.Join(cells, " & "))
	}
	return `\begin{matrix}` + strings.Join(lines, ` \\ `) + `\end{matrix}`
}

func function(n *Node) string {
	name, e := n.arg("fName"), n.arg("e")
	if name == nil || e == nil {
		return fallback(n)
	}
	plain := strings.TrimSpace(name.plainText())
	var cmd string
	switch {
	case knownFunctions[plain]:
		cmd = `\` + plain
	case plain != "" && isLetters(plain):
		cmd = `\operatorname{` + escapeText(plain) + `}`
	default:
		// Function name carries structure (limits etc.); translate it as-is.
		cmd = translate(name)
	}
	return cmd + "{" + translate(e) + "}"
}

// --- text runs ---------------------------------------------------------------

// runText renders an m:r leaf. A single letter stays bare (a variable);
// multi-letter runs become upright text unless they name a known function or
// carry an explicit OMML style.
func runText(n *Node) string {
	text := n.plainText()
	if text == "" {
		return ""
	}
	// Word stores math glyphs as bare unicode; ASCII markup characters in a
	// run mean it already holds linear notation (our own writer embeds
	// notation that way). Pass it through untouched.
	if strings.ContainsAny(text, `\^_`) {
		return text
	}
	sty, _ := n.prop("rPr", "sty")
	switch sty {
	case "b", "bi":
		return `\mathbf{` + mapSymbols(text) + `}`
	case "p":
		return `\mathrm{` + escapeText(text) + `}`
	}
	if isLetters(text) && len([]rune(text)) > 1 {
		if knownFunctions[text] {
			return `\` + text + " "
		}
		return `\mathrm{` + escapeText(text) + `}`
	}
	return mapSymbols(text)
}

// mapSymbols translates characters through the fixed code-point table,
// escaping reserved LaTeX characters and passing everything else through.
func mapSymbols(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if cmd, ok := symbolCommands[r]; ok {
			sb.WriteString(cmd)
			if last := cmd[len(cmd)-1]; last >= 'a' && last <= 'z' || last >= 'A' && last <= 'Z' {
				sb.WriteByte(' ') // keep a following letter out of the command name
			}
			continue
		}
		sb.WriteString(escapeRune(r))
	}
	return sb.String()
}

func escapeRune(r rune) string {
	switch r {
	case '\\':
		return `\backslash `
	case '{':
		return `\{`
	case '}':
		return `\}`
	case '$', '%', '&', '#', '_':
		return `\` + string(r)
	case '^':
		return `\^{}`
	case '~':
		return `\~{}`
	}
	return string(r)
}

// escapeText escapes reserved characters for use inside \text / \mathrm
// without applying the symbol table.
func escapeText(s string) string {
	var sb strings.Builder
	for _, r := range s {
		sb.WriteString(escapeRune(r))
	}
	return sb.String()
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// fallback renders a visible token naming the construct plus any recoverable
// text, keeping braces balanced so the surrounding expression stays valid.
func fallback(n *Node) string {
	text := strings.TrimSpace(n.plainText())
	if text == "" {
		return `\text{[` + escapeText(n.Tag) + `]}`
	}
	return `\text{[` + escapeText(n.Tag) + `: ` + escapeText(text) + `]}`
}
