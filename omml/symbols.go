package omml

// Fixed lookup tables mapping Unicode math characters to LaTeX commands.
// Every command value here is emitted with a trailing space so that a
// following letter cannot fuse into the command name.

// symbolCommands maps code points appearing in OMML text runs.
var symbolCommands = map[rune]string{
	// Greek, lowercase
	'α': `\alpha`, 'β': `\beta`, 'γ': `\gamma`, 'δ': `\delta`,
	'ε': `\varepsilon`, 'ϵ': `\epsilon`, 'ζ': `\zeta`, 'η': `\eta`,
	'θ': `\theta`, 'ϑ': `\vartheta`, 'ι': `\iota`, 'κ': `\kappa`,
	'λ': `\lambda`, 'μ': `\mu`, 'ν': `\nu`, 'ξ': `\xi`,
	'π': `\pi`, 'ϖ': `\varpi`, 'ρ': `\rho`, 'ϱ': `\varrho`,
	'σ': `\sigma`, 'ς': `\varsigma`, 'τ': `\tau`, 'υ': `\upsilon`,
	'φ': `\varphi`, 'ϕ': `\phi`, 'χ': `\chi`, 'ψ': `\psi`, 'ω': `\omega`,

	// Greek, uppercase
	'Γ': `\Gamma`, 'Δ': `\Delta`, 'Θ': `\Theta`, 'Λ': `\Lambda`,
	'Ξ': `\Xi`, 'Π': `\Pi`, 'Σ': `\Sigma`, 'Υ': `\Upsilon`,
	'Φ': `\Phi`, 'Ψ': `\Psi`, 'Ω': `\Omega`,

	// Binary and relational operators
	'±': `\pm`, '∓': `\mp`, '×': `\times`, '÷': `\div`,
	'⋅': `\cdot`, '∗': `\ast`, '∘': `\circ`, '∙': `\bullet`,
	'≤': `\le`, '≥': `\ge`, '≠': `\ne`, '≈': `\approx`,
	'≡': `\equiv`, '∼': `\sim`, '≃': `\simeq`, '≅': `\cong`,
	'∝': `\propto`, '≪': `\ll`, '≫': `\gg`,

	// Sets and logic
	'∈': `\in`, '∉': `\notin`, '∋': `\ni`,
	'⊂': `\subset`, '⊃': `\supset`, '⊆': `\subseteq`, '⊇': `\supseteq`,
	'∪': `\cup`, '∩': `\cap`, '∅': `\emptyset`,
	'∀': `\forall`, '∃': `\exists`, '¬': `\neg`,
	'∧': `\wedge`, '∨': `\vee`, '⊕': `\oplus`, '⊗': `\otimes`,

	// Arrows
	'→': `\to`, '←': `\leftarrow`, '↔': `\leftrightarrow`,
	'⇒': `\Rightarrow`, '⇐': `\Leftarrow`, '⇔': `\Leftrightarrow`,
	'↦': `\mapsto`, '↑': `\uparrow`, '↓': `\downarrow`,

	// Calculus and misc
	'∞': `\infty`, '∂': `\partial`, '∇': `\nabla`,
	'∑': `\sum`, '∏': `\prod`, '∫': `\int`,
	'′': `\prime`, 'ℏ': `\hbar`, 'ℓ': `\ell`,
	'ℜ': `\Re`, 'ℑ': `\Im`, 'ℵ': `\aleph`,
	'⋯': `\cdots`, '…': `\ldots`, '⋮': `\vdots`, '⋱': `\ddots`,
	'∠': `\angle`, '⊥': `\perp`, '∥': `\parallel`,
	'·': `\cdot`, '−': `-`,
}

// naryCommands maps the n-ary operator glyph (m:naryPr/m:chr) to its LaTeX
// command. OMML leaves the glyph out entirely for the default integral.
var naryCommands = map[string]string{
	"":  `\int`,
	"∫": `\int`,
	"∬": `\iint`,
	"∭": `\iiint`,
	"∮": `\oint`,
	"∑": `\sum`,
	"∏": `\prod`,
	"∐": `\coprod`,
	"⋃": `\bigcup`,
	"⋂": `\bigcap`,
	"⋁": `\bigvee`,
	"⋀": `\bigwedge`,
	"⨁": `\bigoplus`,
	"⨂": `\bigotimes`,
}

// accentCommands maps the combining mark (m:accPr/m:chr) to its LaTeX accent.
// OMML's default accent, when the property is absent, is the circumflex.
var accentCommands = map[string]string{
	"":       `\hat`,
	"̂": `\hat`,
	"̃": `\tilde`,
	"̄": `\bar`,
	"̅": `\bar`,
	"̆": `\breve`,
	"̇": `\dot`,
	"̈": `\ddot`,
	"̌": `\check`,
	"⃗": `\vec`,
	"⃖": `\overleftarrow`,
}

// knownFunctions are function names that LaTeX defines as operators, so a
// matching text run or function name renders as \name rather than \mathrm.
var knownFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"csc": true, "sec": true, "cot": true,
	"sinh": true, "cosh": true, "tanh": true, "coth": true,
	"arcsin": true, "arccos": true, "arctan": true,
	"log": true, "ln": true, "lg": true, "exp": true,
	"lim": true, "liminf": true, "limsup": true,
	"min": true, "max": true, "inf": true, "sup": true,
	"det": true, "dim": true, "ker": true, "hom": true,
	"arg": true, "deg": true, "gcd": true, "Pr": true,
}

// delimCommands maps OMML delimiter characters to the form usable after
// \left / \right. Characters not listed are used verbatim.
var delimCommands = map[string]string{
	"":  ".",
	"{": `\{`,
	"}": `\}`,
	"‖": `\|`,
	"⟨": `\langle`,
	"⟩": `\rangle`,
	"⌊": `\lfloor`,
	"⌋": `\rfloor`,
	"⌈": `\lceil`,
	"⌉": `\rceil`,
}
